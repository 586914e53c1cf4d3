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

// Package schema defines the read-only schema model validated policies are
// checked against: the entity type hierarchy, attribute and tag
// declarations, and action signatures. A Schema is immutable once built and
// safe for concurrent readers.
package schema

import (
	"slices"

	"github.com/cedarlint/cedarlint/types"
)

// EntityTypeDecl declares one entity type: its attributes, the types it may
// be a member of, and its tag type if tags are allowed.
type EntityTypeDecl struct {
	// Attributes declared on this entity type, keyed by attribute name.
	Attributes map[string]Attribute

	// MemberOfTypes lists the entity types this type's entities may be
	// direct members of.
	MemberOfTypes []types.EntityType

	// Tags is the declared type of this entity type's tag values, or nil
	// when the type allows no tags.
	Tags Type

	// Open is true when entities of this type may carry attributes beyond
	// the declared set.
	Open bool
}

// ActionDecl declares one action: the principal and resource types it
// applies to, its context shape, and the action groups it belongs to.
type ActionDecl struct {
	PrincipalTypes []types.EntityType
	ResourceTypes  []types.EntityType
	Context        RecordType
	MemberOf       []types.EntityUID
}

// Schema is the complete schema model. It is shared read-only by every
// validation in a run; nothing in this package or the validator mutates it
// after construction.
type Schema struct {
	EntityTypes map[types.EntityType]*EntityTypeDecl
	Actions     map[types.EntityUID]*ActionDecl
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{
		EntityTypes: map[types.EntityType]*EntityTypeDecl{},
		Actions:     map[types.EntityUID]*ActionDecl{},
	}
}

// EntityTypeNames returns the declared entity type names in sorted order.
func (s *Schema) EntityTypeNames() []types.EntityType {
	names := make([]types.EntityType, 0, len(s.EntityTypes))
	for name := range s.EntityTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ActionUIDs returns the declared action UIDs sorted by type then ID.
func (s *Schema) ActionUIDs() []types.EntityUID {
	uids := make([]types.EntityUID, 0, len(s.Actions))
	for uid := range s.Actions {
		uids = append(uids, uid)
	}
	slices.SortFunc(uids, func(a, b types.EntityUID) int {
		if a.Type != b.Type {
			if a.Type < b.Type {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		} else if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return uids
}

// IsDeclared reports whether the entity type is declared in the schema.
func (s *Schema) IsDeclared(t types.EntityType) bool {
	_, ok := s.EntityTypes[t]
	return ok
}

// CanBeDescendantOf reports whether an entity of type source may appear
// below an entity of type target in the hierarchy, directly or transitively
// through memberOfTypes. A type is considered a descendant of itself.
func (s *Schema) CanBeDescendantOf(source, target types.EntityType) bool {
	if source == target {
		return true
	}
	return s.canBeDescendantOf(source, target, map[types.EntityType]bool{})
}

func (s *Schema) canBeDescendantOf(source, target types.EntityType, visited map[types.EntityType]bool) bool {
	if visited[source] {
		return false
	}
	visited[source] = true

	decl := s.EntityTypes[source]
	if decl == nil {
		return false
	}
	for _, memberOf := range decl.MemberOfTypes {
		if memberOf == target {
			return true
		}
		if s.canBeDescendantOf(memberOf, target, visited) {
			return true
		}
	}
	return false
}
