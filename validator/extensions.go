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

package validator

import (
	"github.com/cedarlint/cedarlint/types"
)

var (
	ipType       = ExtensionType{Name: "ipaddr"}
	decimalType  = ExtensionType{Name: "decimal"}
	datetimeType = ExtensionType{Name: "datetime"}
	durationType = ExtensionType{Name: "duration"}
)

// extensionFunc describes one extension function's signature. Constructors
// additionally carry a literal validator run over string arguments known at
// validation time.
type extensionFunc struct {
	name   types.Path
	args   []Type
	result Type

	// isConstructor marks functions producing an extension value from a
	// string literal. Strict validation requires their argument to be a
	// literal.
	isConstructor bool

	// checkLiteral validates a literal argument's format, such as the
	// textual form of an IP address.
	checkLiteral func(types.String) error
}

// extensionFuncs is the table of known extension functions, keyed by name.
var extensionFuncs = map[types.Path]extensionFunc{}

func registerExtension(fn extensionFunc) {
	extensionFuncs[fn.name] = fn
}

func init() {
	// Constructors.
	registerExtension(extensionFunc{
		name: "ip", args: []Type{StringType{}}, result: ipType,
		isConstructor: true,
		checkLiteral: func(s types.String) error {
			_, err := types.ParseIPAddr(string(s))
			return err
		},
	})
	registerExtension(extensionFunc{
		name: "decimal", args: []Type{StringType{}}, result: decimalType,
		isConstructor: true,
		checkLiteral: func(s types.String) error {
			_, err := types.ParseDecimal(string(s))
			return err
		},
	})
	registerExtension(extensionFunc{
		name: "datetime", args: []Type{StringType{}}, result: datetimeType,
		isConstructor: true,
		checkLiteral: func(s types.String) error {
			_, err := types.ParseDatetime(string(s))
			return err
		},
	})
	registerExtension(extensionFunc{
		name: "duration", args: []Type{StringType{}}, result: durationType,
		isConstructor: true,
		checkLiteral: func(s types.String) error {
			_, err := types.ParseDuration(string(s))
			return err
		},
	})

	// IP address predicates.
	for _, name := range []types.Path{"isIpv4", "isIpv6", "isLoopback", "isMulticast"} {
		registerExtension(extensionFunc{
			name: name, args: []Type{ipType}, result: BoolType{},
		})
	}
	registerExtension(extensionFunc{
		name: "isInRange", args: []Type{ipType, ipType}, result: BoolType{},
	})

	// Decimal comparisons.
	for _, name := range []types.Path{"lessThan", "lessThanOrEqual", "greaterThan", "greaterThanOrEqual"} {
		registerExtension(extensionFunc{
			name: name, args: []Type{decimalType, decimalType}, result: BoolType{},
		})
	}

	// Datetime arithmetic.
	registerExtension(extensionFunc{
		name: "offset", args: []Type{datetimeType, durationType}, result: datetimeType,
	})
	registerExtension(extensionFunc{
		name: "durationSince", args: []Type{datetimeType, datetimeType}, result: durationType,
	})
	registerExtension(extensionFunc{
		name: "toDate", args: []Type{datetimeType}, result: datetimeType,
	})
	registerExtension(extensionFunc{
		name: "toTime", args: []Type{datetimeType}, result: durationType,
	})

	// Duration conversions.
	for _, name := range []types.Path{"toDays", "toHours", "toMinutes", "toSeconds", "toMilliseconds"} {
		registerExtension(extensionFunc{
			name: name, args: []Type{durationType}, result: LongType{},
		})
	}
}
