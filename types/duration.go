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
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode"
)

// ErrDuration is wrapped by all duration parsing errors.
var ErrDuration = errors.New("error parsing duration value")

const (
	millisPerSecond = int64(1000)
	millisPerMinute = 60 * millisPerSecond
	millisPerHour   = 60 * millisPerMinute
	millisPerDay    = 24 * millisPerHour
)

var unitToMillis = map[string]int64{
	"d":  millisPerDay,
	"h":  millisPerHour,
	"m":  millisPerMinute,
	"s":  millisPerSecond,
	"ms": 1,
}

var unitOrder = []string{"d", "h", "m", "s", "ms"}

// Duration is a Cedar duration literal: a span of time in milliseconds.
type Duration struct {
	value int64
}

// NewDuration returns a Duration from a Go time.Duration.
func NewDuration(d time.Duration) Duration {
	return Duration{value: d.Milliseconds()}
}

// NewDurationFromMillis returns a Duration from milliseconds.
func NewDurationFromMillis(ms int64) Duration {
	return Duration{value: ms}
}

// durationParseState holds the parsing state for duration strings.
type durationParseState struct {
	i        int
	unitI    int
	total    int64
	value    int64
	hasValue bool
}

func (s *durationParseState) parseDigit(c byte) error {
	s.value = s.value*10 + int64(c-'0')
	if s.value > math.MaxInt32 {
		return fmt.Errorf("%w: overflow", ErrDuration)
	}
	s.hasValue = true
	s.i++
	return nil
}

func (s *durationParseState) parseUnit(str string) error {
	if !s.hasValue {
		return fmt.Errorf("%w: unit found without quantity", ErrDuration)
	}

	var unit string
	if str[s.i] == 'm' && s.i+1 < len(str) && str[s.i+1] == 's' {
		unit = "ms"
		s.i++
	} else {
		unit = str[s.i : s.i+1]
	}

	// Units must appear at most once, from longest timeframe to smallest.
	unitOK := false
	for !unitOK && s.unitI < len(unitOrder) {
		if unit == unitOrder[s.unitI] {
			unitOK = true
		}
		s.unitI++
	}
	if !unitOK {
		return fmt.Errorf("%w: unexpected unit '%s'", ErrDuration, unit)
	}

	s.total = s.total + s.value*unitToMillis[unit]
	s.i++
	s.hasValue = false
	s.value = 0
	return nil
}

func (s *durationParseState) parseNextToken(str string) error {
	c := str[s.i]
	if unicode.IsDigit(rune(c)) {
		return s.parseDigit(c)
	}
	if c == 'd' || c == 'h' || c == 'm' || c == 's' {
		return s.parseUnit(str)
	}
	return fmt.Errorf("%w: unexpected character %s", ErrDuration, strconv.QuoteRune(rune(c)))
}

// ParseDuration parses a Cedar Duration from a string.
//
// Cedar RFC 80 defines a valid duration string as a collapsed sequence of
// quantity-unit pairs, possibly with a leading `-` indicating a negative
// duration. The units must appear in order from longest timeframe to
// smallest: d (days), h (hours), m (minutes), s (seconds), ms (milliseconds).
func ParseDuration(s string) (Duration, error) {
	if len(s) <= 1 {
		return Duration{}, fmt.Errorf("%w: string too short", ErrDuration)
	}

	state := &durationParseState{}

	negative := int64(1)
	if s[state.i] == '-' {
		negative = int64(-1)
		state.i++
	}

	for state.i < len(s) && state.unitI < len(unitOrder) {
		if err := state.parseNextToken(s); err != nil {
			return Duration{}, err
		}
	}

	// We didn't have a trailing unit
	if state.hasValue {
		return Duration{}, fmt.Errorf("%w: expected unit", ErrDuration)
	}

	// We still have characters left, but no more units to assign.
	if state.i < len(s) {
		return Duration{}, fmt.Errorf("%w: invalid duration", ErrDuration)
	}

	return Duration{value: negative * state.total}, nil
}

func (Duration) isValue() {}

// String produces the canonical Cedar representation of the Duration.
func (d Duration) String() string {
	if d.value == 0 {
		return "0ms"
	}

	var res bytes.Buffer
	remaining := d.value
	if d.value < 0 {
		remaining = -d.value
		res.WriteByte('-')
	}

	for _, u := range []struct {
		millis int64
		label  string
	}{
		{millisPerDay, "d"},
		{millisPerHour, "h"},
		{millisPerMinute, "m"},
		{millisPerSecond, "s"},
		{1, "ms"},
	} {
		if q := remaining / u.millis; q > 0 {
			res.WriteString(strconv.FormatInt(q, 10))
			res.WriteString(u.label)
		}
		remaining %= u.millis
	}

	return res.String()
}

// Milliseconds returns the length of the Duration in milliseconds.
func (d Duration) Milliseconds() int64 {
	return d.value
}

// ToDays returns the number of whole days this Duration represents.
func (d Duration) ToDays() int64 {
	return d.value / millisPerDay
}

// ToHours returns the number of whole hours this Duration represents.
func (d Duration) ToHours() int64 {
	return d.value / millisPerHour
}

// ToMinutes returns the number of whole minutes this Duration represents.
func (d Duration) ToMinutes() int64 {
	return d.value / millisPerMinute
}

// ToSeconds returns the number of whole seconds this Duration represents.
func (d Duration) ToSeconds() int64 {
	return d.value / millisPerSecond
}
