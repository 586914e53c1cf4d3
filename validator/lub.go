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

import "github.com/cedarlint/cedarlint/schema"

// LubHelp explains why a least-upper-bound computation failed.
type LubHelp string

const (
	// LubHelpUnrelatedEntityTypes marks a failed join of entity types with
	// no hierarchy relation. Only raised under strict validation; standard
	// validation joins any entity types into a union.
	LubHelpUnrelatedEntityTypes LubHelp = "unrelated_entity_types"

	// LubHelpDifferentShapes marks a failed join of structurally distinct
	// types, such as a Long with a record.
	LubHelpDifferentShapes LubHelp = "different_shapes"

	// LubHelpEmptySetLiteral marks a failed join involving an empty set
	// literal, whose element type cannot be determined.
	LubHelpEmptySetLiteral LubHelp = "empty_set_literal"
)

// LubContext names the language construct that required a join.
type LubContext string

const (
	LubContextConditional     LubContext = "conditional"
	LubContextSetElements     LubContext = "set_elements"
	LubContextEquality        LubContext = "equality"
	LubContextContains        LubContext = "contains"
	LubContextContainsAnyAll  LubContext = "contains_any_all"
	LubContextAttributeAccess LubContext = "attribute_access"
)

// lubber computes least upper bounds over the lattice. Strict mode refuses
// joins that standard mode widens: unions of hierarchy-unrelated entity
// types and record attributes demoted to optional.
type lubber struct {
	schema *schema.Schema
	strict bool
}

// lub returns the least upper bound of a and b, or false with a hint
// explaining the failure.
func (l lubber) lub(a, b Type) (Type, LubHelp, bool) {
	// Never is bottom: it joins with anything.
	if isNever(a) {
		return b, "", true
	}
	if isNever(b) {
		return a, "", true
	}

	switch at := a.(type) {
	case BoolType, LongType, StringType, ExtensionType:
		if TypesEqual(a, b) {
			return a, "", true
		}
	case EntityLUB:
		switch bt := b.(type) {
		case EntityLUB:
			if l.strict && !l.related(at, bt) {
				return nil, LubHelpUnrelatedEntityTypes, false
			}
			return at.Union(bt), "", true
		case AnyEntity:
			return AnyEntity{}, "", true
		}
	case AnyEntity:
		if isEntity(b) {
			return AnyEntity{}, "", true
		}
	case SetType:
		if bt, ok := b.(SetType); ok {
			elem, help, ok := l.lub(at.Element, bt.Element)
			if !ok {
				return nil, help, false
			}
			return SetType{Element: elem}, "", true
		}
	case RecordType:
		if bt, ok := b.(RecordType); ok {
			return l.lubRecords(at, bt)
		}
	}
	return nil, l.shapeHelp(a, b), false
}

// lubRecords joins two record types attribute by attribute. An attribute
// present on only one side survives as optional; attributes present on both
// sides must themselves join.
func (l lubber) lubRecords(a, b RecordType) (Type, LubHelp, bool) {
	attrs := make(map[string]AttributeType, len(a.Attributes))
	for name, aa := range a.Attributes {
		ba, ok := b.Attributes[name]
		if !ok {
			if l.strict {
				return nil, LubHelpDifferentShapes, false
			}
			attrs[name] = AttributeType{Type: aa.Type, Required: false}
			continue
		}
		t, help, ok := l.lub(aa.Type, ba.Type)
		if !ok {
			return nil, help, false
		}
		attrs[name] = AttributeType{Type: t, Required: aa.Required && ba.Required}
	}
	for name, ba := range b.Attributes {
		if _, ok := a.Attributes[name]; ok {
			continue
		}
		if l.strict {
			return nil, LubHelpDifferentShapes, false
		}
		attrs[name] = AttributeType{Type: ba.Type, Required: false}
	}
	return RecordType{Attributes: attrs, Open: a.Open || b.Open}, "", true
}

// lubAll folds lub over every element. On failure it returns the full
// deduplicated set of input types as evidence.
func (l lubber) lubAll(ts []Type) (Type, []Type, LubHelp, bool) {
	if len(ts) == 0 {
		return NeverType{}, nil, "", true
	}
	acc := ts[0]
	for _, t := range ts[1:] {
		joined, help, ok := l.lub(acc, t)
		if !ok {
			return nil, dedupeTypes(ts), help, false
		}
		acc = joined
	}
	return acc, nil, "", true
}

// related reports whether some pair of members across the two unions is
// hierarchy-related in either direction.
func (l lubber) related(a, b EntityLUB) bool {
	for _, am := range a.Members() {
		for _, bm := range b.Members() {
			if l.schema.CanBeDescendantOf(am, bm) || l.schema.CanBeDescendantOf(bm, am) {
				return true
			}
		}
	}
	return false
}

func (l lubber) shapeHelp(a, b Type) LubHelp {
	if isEmptySet(a) || isEmptySet(b) {
		return LubHelpEmptySetLiteral
	}
	return LubHelpDifferentShapes
}

func isEmptySet(t Type) bool {
	s, ok := t.(SetType)
	return ok && isNever(s.Element)
}

// dedupeTypes removes structural duplicates, preserving first-seen order.
func dedupeTypes(ts []Type) []Type {
	var out []Type
	for _, t := range ts {
		dup := false
		for _, seen := range out {
			if TypesEqual(t, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}
