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

package schema

import "github.com/cedarlint/cedarlint/types"

// Type is a declared type expression in a schema: the type of an attribute,
// tag, or context record. The set of kinds is closed.
type Type interface {
	isSchemaType()
	String() string
}

// Primitive declared types.
type (
	BoolType   struct{}
	LongType   struct{}
	StringType struct{}
)

func (BoolType) isSchemaType()   {}
func (LongType) isSchemaType()   {}
func (StringType) isSchemaType() {}

func (BoolType) String() string   { return "Bool" }
func (LongType) String() string   { return "Long" }
func (StringType) String() string { return "String" }

// EntityRefType references a declared entity type.
type EntityRefType struct {
	Name types.EntityType
}

func (EntityRefType) isSchemaType() {}
func (e EntityRefType) String() string {
	return "Entity<" + string(e.Name) + ">"
}

// AnyEntityType matches an entity of any declared type.
type AnyEntityType struct{}

func (AnyEntityType) isSchemaType()   {}
func (AnyEntityType) String() string { return "Entity" }

// SetType is a set of elements of a single declared type.
type SetType struct {
	Element Type
}

func (SetType) isSchemaType() {}
func (s SetType) String() string {
	return "Set<" + s.Element.String() + ">"
}

// Attribute is one declared attribute: its type and whether it is required.
type Attribute struct {
	Type     Type
	Required bool
}

// RecordType is a record with declared attributes. Attribute keys are
// unique. Open records allow attributes beyond the declared set.
type RecordType struct {
	Attributes map[string]Attribute
	Open       bool
}

func (RecordType) isSchemaType()   {}
func (RecordType) String() string { return "Record" }

// ExtensionType is one of the Cedar extension types: "ipaddr", "decimal",
// "datetime", or "duration".
type ExtensionType struct {
	Name string
}

func (ExtensionType) isSchemaType() {}
func (e ExtensionType) String() string {
	return e.Name
}
