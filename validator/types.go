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
	"sort"
	"strings"

	"github.com/cedarlint/cedarlint/internal/sets"
	"github.com/cedarlint/cedarlint/types"
)

// Type is a node in the validator's type lattice. The set of kinds is
// closed: the primitives, entity unions, sets, records, extension types,
// and Never, the bottom type produced where checking already failed.
type Type interface {
	isType()
	String() string
}

// Primitive lattice types.
type (
	BoolType   struct{}
	LongType   struct{}
	StringType struct{}
)

func (BoolType) isType()   {}
func (LongType) isType()   {}
func (StringType) isType() {}

func (BoolType) String() string   { return "Bool" }
func (LongType) String() string   { return "Long" }
func (StringType) String() string { return "String" }

// EntityLUB is a union of declared entity types: the value is an entity of
// one of the member types. The member set is non-empty and deduplicated.
type EntityLUB struct {
	members sets.Immutable[types.EntityType]
}

// NewEntityLUB returns the union of the given entity type names.
func NewEntityLUB(members ...types.EntityType) EntityLUB {
	return EntityLUB{members: sets.NewImmutable(members...)}
}

func (EntityLUB) isType() {}

func (e EntityLUB) String() string {
	names := e.Members()
	if len(names) == 1 {
		return string(names[0])
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// Members returns the member entity type names in sorted order.
func (e EntityLUB) Members() []types.EntityType {
	return e.members.Slice()
}

// Contains reports whether t is a member of the union.
func (e EntityLUB) Contains(t types.EntityType) bool {
	return e.members.Contains(t)
}

// Single returns the sole member when the union has exactly one.
func (e EntityLUB) Single() (types.EntityType, bool) {
	if e.members.Len() != 1 {
		return "", false
	}
	return e.members.Slice()[0], true
}

// Union returns the union of both member sets.
func (e EntityLUB) Union(o EntityLUB) EntityLUB {
	return EntityLUB{members: e.members.Union(o.members)}
}

// AnyEntity is an entity of statically unknown type. It arises where the
// schema places no bound, such as an unconstrained scope with no declared
// applies-to types.
type AnyEntity struct{}

func (AnyEntity) isType()        {}
func (AnyEntity) String() string { return "Entity" }

// SetType is a homogeneous set.
type SetType struct {
	Element Type
}

func (SetType) isType() {}
func (s SetType) String() string {
	return "Set<" + s.Element.String() + ">"
}

// AttributeType is one attribute of a record or entity: its type and
// whether every value is guaranteed to carry it.
type AttributeType struct {
	Type     Type
	Required bool
}

// RecordType is a structural record. Open records may carry attributes
// beyond the declared set.
type RecordType struct {
	Attributes map[string]AttributeType
	Open       bool
}

func (RecordType) isType() {}
func (r RecordType) String() string {
	keys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		if !r.Attributes[k].Required {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(r.Attributes[k].Type.String())
	}
	b.WriteString("}")
	return b.String()
}

// ExtensionType is one of the extension value types: "ipaddr", "decimal",
// "datetime", or "duration".
type ExtensionType struct {
	Name string
}

func (ExtensionType) isType() {}
func (e ExtensionType) String() string {
	return e.Name
}

// NeverType is the bottom of the lattice. It types expressions whose
// checking already produced an error, so one defect does not cascade into
// unrelated diagnostics, and the elements of empty set literals.
type NeverType struct{}

func (NeverType) isType()        {}
func (NeverType) String() string { return "Never" }

// TypesEqual reports structural equality of two lattice types.
func TypesEqual(a, b Type) bool {
	switch at := a.(type) {
	case BoolType, LongType, StringType, AnyEntity, NeverType:
		return a == b
	case ExtensionType:
		bt, ok := b.(ExtensionType)
		return ok && at.Name == bt.Name
	case EntityLUB:
		bt, ok := b.(EntityLUB)
		return ok && at.members.Equal(bt.members)
	case SetType:
		bt, ok := b.(SetType)
		return ok && TypesEqual(at.Element, bt.Element)
	case RecordType:
		bt, ok := b.(RecordType)
		if !ok || at.Open != bt.Open || len(at.Attributes) != len(bt.Attributes) {
			return false
		}
		for k, av := range at.Attributes {
			bv, ok := bt.Attributes[k]
			if !ok || av.Required != bv.Required || !TypesEqual(av.Type, bv.Type) {
				return false
			}
		}
		return true
	}
	return false
}

// isEntity reports whether t types entity values.
func isEntity(t Type) bool {
	switch t.(type) {
	case EntityLUB, AnyEntity:
		return true
	}
	return false
}

// isNever reports whether t is the bottom type.
func isNever(t Type) bool {
	_, ok := t.(NeverType)
	return ok
}
