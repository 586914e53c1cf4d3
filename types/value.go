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
	"fmt"
	"strconv"
	"strings"
)

// Value is a literal value appearing in a policy. The set of kinds is
// closed: Boolean, Long, String, EntityUID, Set, Record, and the extension
// values Decimal, IPAddr, Datetime, and Duration.
type Value interface {
	isValue()
	String() string
}

// Boolean is a Cedar boolean literal.
type Boolean bool

const (
	True  = Boolean(true)
	False = Boolean(false)
)

func (Boolean) isValue() {}
func (b Boolean) String() string {
	return strconv.FormatBool(bool(b))
}

// Long is a Cedar 64-bit signed integer literal.
type Long int64

func (Long) isValue() {}
func (l Long) String() string {
	return strconv.FormatInt(int64(l), 10)
}

// String is a Cedar string literal.
type String string

func (String) isValue() {}
func (s String) String() string {
	return strconv.Quote(string(s))
}

func (EntityUID) isValue() {}

// Set is a Cedar set literal value. Order is preserved as written.
type Set []Value

func (Set) isValue() {}
func (s Set) String() string {
	elems := make([]string, len(s))
	for i, e := range s {
		elems[i] = e.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// RecordEntry is one key/value pair of a Record literal.
type RecordEntry struct {
	Key   String
	Value Value
}

// Record is a Cedar record literal value. Entries are kept in written order;
// keys are unique.
type Record []RecordEntry

func (Record) isValue() {}
func (r Record) String() string {
	entries := make([]string, len(r))
	for i, e := range r {
		entries[i] = fmt.Sprintf("%q: %s", string(e.Key), e.Value.String())
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

// Get returns the value for key and whether it is present.
func (r Record) Get(key String) (Value, bool) {
	for _, e := range r {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}
