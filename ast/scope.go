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

package ast

import "github.com/cedarlint/cedarlint/types"

// IsScopeNode is implemented by all scope constraint nodes.
type IsScopeNode interface {
	isScope()
}

// IsPrincipalScopeNode is implemented by scope nodes valid in the principal
// position.
type IsPrincipalScopeNode interface {
	IsScopeNode
	isPrincipalScope()
}

// IsActionScopeNode is implemented by scope nodes valid in the action
// position.
type IsActionScopeNode interface {
	IsScopeNode
	isActionScope()
}

// IsResourceScopeNode is implemented by scope nodes valid in the resource
// position.
type IsResourceScopeNode interface {
	IsScopeNode
	isResourceScope()
}

// ScopeNode marks a type as a scope constraint.
type ScopeNode struct{}

func (ScopeNode) isScope() {}

// PrincipalScopeNode marks a scope constraint as valid for principal.
type PrincipalScopeNode struct{}

func (PrincipalScopeNode) isPrincipalScope() {}

// ActionScopeNode marks a scope constraint as valid for action.
type ActionScopeNode struct{}

func (ActionScopeNode) isActionScope() {}

// ResourceScopeNode marks a scope constraint as valid for resource.
type ResourceScopeNode struct{}

func (ResourceScopeNode) isResourceScope() {}

// ScopeTypeAll is an unconstrained scope.
type ScopeTypeAll struct {
	ScopeNode
	PrincipalScopeNode
	ActionScopeNode
	ResourceScopeNode
}

// ScopeTypeEq constrains the scope to a single entity.
type ScopeTypeEq struct {
	ScopeNode
	PrincipalScopeNode
	ActionScopeNode
	ResourceScopeNode
	Entity types.EntityUID
}

// ScopeTypeIn constrains the scope to descendants of an entity.
type ScopeTypeIn struct {
	ScopeNode
	PrincipalScopeNode
	ActionScopeNode
	ResourceScopeNode
	Entity types.EntityUID
}

// ScopeTypeInSet constrains an action scope to a set of actions.
type ScopeTypeInSet struct {
	ScopeNode
	ActionScopeNode
	Entities []types.EntityUID
}

// ScopeTypeIs constrains the scope to entities of one type.
type ScopeTypeIs struct {
	ScopeNode
	PrincipalScopeNode
	ResourceScopeNode
	Type types.EntityType
}

// ScopeTypeIsIn constrains the scope to entities of one type that are also
// descendants of an entity.
type ScopeTypeIsIn struct {
	ScopeNode
	PrincipalScopeNode
	ResourceScopeNode
	Type   types.EntityType
	Entity types.EntityUID
}

// Scope is a builder for scope constraints.
type Scope struct{}

func (s Scope) All() ScopeTypeAll {
	return ScopeTypeAll{}
}

func (s Scope) Eq(entity types.EntityUID) ScopeTypeEq {
	return ScopeTypeEq{Entity: entity}
}

func (s Scope) In(entity types.EntityUID) ScopeTypeIn {
	return ScopeTypeIn{Entity: entity}
}

func (s Scope) InSet(entities []types.EntityUID) ScopeTypeInSet {
	return ScopeTypeInSet{Entities: entities}
}

func (s Scope) Is(entityType types.EntityType) ScopeTypeIs {
	return ScopeTypeIs{Type: entityType}
}

func (s Scope) IsIn(entityType types.EntityType, entity types.EntityUID) ScopeTypeIsIn {
	return ScopeTypeIsIn{Type: entityType, Entity: entity}
}

// PrincipalEq constrains the policy to a single principal entity.
func (p *Policy) PrincipalEq(entity types.EntityUID) *Policy {
	p.Principal = Scope{}.Eq(entity)
	return p
}

// PrincipalIn constrains the policy to principals in the given entity.
func (p *Policy) PrincipalIn(entity types.EntityUID) *Policy {
	p.Principal = Scope{}.In(entity)
	return p
}

// PrincipalIs constrains the policy to principals of the given type.
func (p *Policy) PrincipalIs(entityType types.EntityType) *Policy {
	p.Principal = Scope{}.Is(entityType)
	return p
}

// PrincipalIsIn constrains the policy to principals of the given type in the
// given entity.
func (p *Policy) PrincipalIsIn(entityType types.EntityType, entity types.EntityUID) *Policy {
	p.Principal = Scope{}.IsIn(entityType, entity)
	return p
}

// ActionEq constrains the policy to a single action.
func (p *Policy) ActionEq(entity types.EntityUID) *Policy {
	p.Action = Scope{}.Eq(entity)
	return p
}

// ActionIn constrains the policy to actions in the given action group.
func (p *Policy) ActionIn(entity types.EntityUID) *Policy {
	p.Action = Scope{}.In(entity)
	return p
}

// ActionInSet constrains the policy to the given set of actions.
func (p *Policy) ActionInSet(entities ...types.EntityUID) *Policy {
	p.Action = Scope{}.InSet(entities)
	return p
}

// ResourceEq constrains the policy to a single resource entity.
func (p *Policy) ResourceEq(entity types.EntityUID) *Policy {
	p.Resource = Scope{}.Eq(entity)
	return p
}

// ResourceIn constrains the policy to resources in the given entity.
func (p *Policy) ResourceIn(entity types.EntityUID) *Policy {
	p.Resource = Scope{}.In(entity)
	return p
}

// ResourceIs constrains the policy to resources of the given type.
func (p *Policy) ResourceIs(entityType types.EntityType) *Policy {
	p.Resource = Scope{}.Is(entityType)
	return p
}

// ResourceIsIn constrains the policy to resources of the given type in the
// given entity.
func (p *Policy) ResourceIsIn(entityType types.EntityType, entity types.EntityUID) *Policy {
	p.Resource = Scope{}.IsIn(entityType, entity)
	return p
}
