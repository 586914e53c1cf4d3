// Copyright Cedar Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrDecimal is wrapped by all decimal parsing errors.
var ErrDecimal = errors.New("error parsing decimal value")

const decimalPrecision = 10000

// Decimal is a Cedar decimal literal: a fixed-point number with exactly four
// digits of fractional precision.
type Decimal struct {
	value int64
}

// NewDecimalFromInt returns a Decimal with the whole value i.
func NewDecimalFromInt(i int64) (Decimal, error) {
	if i > math.MaxInt64/decimalPrecision || i < math.MinInt64/decimalPrecision {
		return Decimal{}, fmt.Errorf("%w: value out of range", ErrDecimal)
	}
	return Decimal{value: i * decimalPrecision}, nil
}

// ParseDecimal parses a Cedar decimal from a string of the form
// "123.45", with one to four fractional digits and an optional leading sign.
func ParseDecimal(s string) (Decimal, error) {
	intPart, fracPart, found := strings.Cut(s, ".")
	if !found {
		return Decimal{}, fmt.Errorf("%w: missing decimal point", ErrDecimal)
	}
	if len(fracPart) < 1 || len(fracPart) > 4 {
		return Decimal{}, fmt.Errorf("%w: fractional part must have one to four digits", ErrDecimal)
	}

	negative := strings.HasPrefix(intPart, "-")

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: invalid integer part", ErrDecimal)
	}

	frac, err := strconv.ParseUint(fracPart, 10, 64)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: invalid fractional part", ErrDecimal)
	}
	for i := len(fracPart); i < 4; i++ {
		frac *= 10
	}

	if whole > math.MaxInt64/decimalPrecision || whole < math.MinInt64/decimalPrecision {
		return Decimal{}, fmt.Errorf("%w: value out of range", ErrDecimal)
	}
	value := whole * decimalPrecision
	if negative {
		value -= int64(frac)
	} else {
		value += int64(frac)
	}

	return Decimal{value: value}, nil
}

func (Decimal) isValue() {}

// String produces the canonical Cedar representation of the Decimal, always
// including at least one fractional digit.
func (d Decimal) String() string {
	whole := d.value / decimalPrecision
	frac := d.value % decimalPrecision
	if frac < 0 {
		frac = -frac
	}
	if d.value < 0 && whole == 0 {
		return fmt.Sprintf("-0.%s", trimDecimalZeros(frac))
	}
	return fmt.Sprintf("%d.%s", whole, trimDecimalZeros(frac))
}

func trimDecimalZeros(frac int64) string {
	s := fmt.Sprintf("%04d", frac)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}
