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

// Package ast defines the parsed representation of Cedar policies consumed
// by the validator. Producing this AST from policy source text is the
// parser's job; nothing in this package reads source.
package ast

import "github.com/cedarlint/cedarlint/types"

// Effect is a policy effect: permit or forbid.
type Effect bool

const (
	EffectPermit Effect = true
	EffectForbid Effect = false
)

// AnnotationType is a single @key("value") annotation on a policy.
type AnnotationType struct {
	Key   types.Ident
	Value types.String
}

// ConditionEnum distinguishes when from unless conditions.
type ConditionEnum bool

const (
	ConditionWhen   ConditionEnum = true
	ConditionUnless ConditionEnum = false
)

// ConditionType is one when/unless clause of a policy.
type ConditionType struct {
	Condition ConditionEnum
	Body      IsNode
}

// Policy is a single parsed Cedar policy.
type Policy struct {
	Effect      Effect
	Annotations []AnnotationType
	Position    types.Position

	Principal IsPrincipalScopeNode
	Action    IsActionScopeNode
	Resource  IsResourceScopeNode

	Conditions []ConditionType
}

// newPolicy returns a policy with unconstrained scopes.
func newPolicy(effect Effect) *Policy {
	return &Policy{
		Effect:    effect,
		Principal: Scope{}.All(),
		Action:    Scope{}.All(),
		Resource:  Scope{}.All(),
	}
}

// Permit returns a policy with the permit effect and unconstrained scopes.
func Permit() *Policy {
	return newPolicy(EffectPermit)
}

// Forbid returns a policy with the forbid effect and unconstrained scopes.
func Forbid() *Policy {
	return newPolicy(EffectForbid)
}

// Annotate appends an annotation to the policy.
func (p *Policy) Annotate(key types.Ident, value types.String) *Policy {
	p.Annotations = append(p.Annotations, AnnotationType{Key: key, Value: value})
	return p
}

// When appends a when condition to the policy.
func (p *Policy) When(node Node) *Policy {
	p.Conditions = append(p.Conditions, ConditionType{Condition: ConditionWhen, Body: node.v})
	return p
}

// Unless appends an unless condition to the policy.
func (p *Policy) Unless(node Node) *Policy {
	p.Conditions = append(p.Conditions, ConditionType{Condition: ConditionUnless, Body: node.v})
	return p
}
