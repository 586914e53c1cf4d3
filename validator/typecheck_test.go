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
	"testing"

	"github.com/cedarlint/cedarlint/ast"
	"github.com/cedarlint/cedarlint/types"
)

func editPolicy() *ast.Policy {
	return ast.Permit().ActionEq(types.NewEntityUID("Action", "edit"))
}

func TestOperatorTyping(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name string
		cond ast.Node
		code ValidationErrorCode // "" means the condition must typecheck
	}{
		{"not-bool", ast.Not(ast.True()), ""},
		{"not-long", ast.Not(ast.Long(1)), ErrUnexpectedType},
		{"negate", ast.Negate(ast.Long(1)).Equal(ast.Long(-1)), ""},
		{"add-strings", ast.String("a").Add(ast.String("b")).Equal(ast.Long(0)), ErrUnexpectedType},
		{"lt-longs", ast.Long(1).LessThan(ast.Long(2)), ""},
		{"lt-strings", ast.String("a").LessThan(ast.String("b")), ErrUnexpectedType},
		{"and-long-lhs", ast.Long(1).And(ast.True()), ErrUnexpectedType},
		{"like-on-long", ast.Long(1).Like("a*"), ErrUnexpectedType},
		{"contains-long-set", ast.Set(ast.Long(1), ast.Long(2)).Contains(ast.Long(1)), ""},
		{"contains-on-long", ast.Long(1).Contains(ast.Long(1)), ErrUnexpectedType},
		{"containsAll-sets", ast.Set(ast.Long(1)).ContainsAll(ast.Set(ast.Long(2))), ""},
		{"isEmpty-long-set", ast.Set(ast.Long(1)).IsEmpty(), ""},
		{"in-non-entity-rhs", ast.Principal().In(ast.Long(1)), ErrUnexpectedType},
		{"in-entity-set-rhs", ast.Principal().In(ast.Set(ast.EntityUID("Group", "a"))), ""},
		{"is-declared", ast.Principal().Is("User"), ""},
		{"is-undeclared", ast.Principal().Is("Ghost"), ErrUnrecognizedEntityType},
		{"condition-not-bool", ast.Long(1).Add(ast.Long(2)), ErrUnexpectedType},
		{"if-then-else", ast.IfThenElse(ast.Context().Access("mfa"), ast.Long(1), ast.Long(2)).Equal(ast.Long(1)), ""},
		{"if-branch-mismatch", ast.IfThenElse(ast.Context().Access("mfa"), ast.Long(1), ast.String("x")).Equal(ast.Long(1)), ErrIncompatibleTypes},
		{"mixed-set", ast.Set(ast.Long(1), ast.String("x")).IsEmpty(), ErrIncompatibleTypes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidatePolicy("policy0", editPolicy().When(tt.cond))
			if tt.code == "" {
				assertResult(t, result).passed()
			} else {
				assertResult(t, result).failed().errorCode(tt.code)
			}
		})
	}
}

func TestComparisonHintForExtensionOperands(t *testing.T) {
	v := newTestValidator(t)

	policy := editPolicy().
		When(ast.Decimal("1.5").LessThan(ast.Decimal("2.5")))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).failed()
	e := findError[UnexpectedTypeError](t, result)
	if e.Help != HelpTypesMustMatch {
		t.Errorf("Help = %q, want %q", e.Help, HelpTypesMustMatch)
	}
}

func TestErrorCascadeSuppressed(t *testing.T) {
	v := newTestValidator(t)

	// One bad access; the surrounding comparison and && must not pile on.
	policy := editPolicy().
		When(ast.Resource().Access("nosuch").LessThan(ast.Long(5)).
			And(ast.True()))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).failed().
		errorCount(1).
		errorCode(ErrUnsafeAttributeAccess)
}

func TestAttributeSuggestionOnEntity(t *testing.T) {
	v := newTestValidator(t)

	policy := editPolicy().
		When(ast.Principal().Access("nme").Equal(ast.String("x")))
	result := v.ValidatePolicy("policy0", policy)

	e := findError[UnsafeAttributeAccessError](t, result)
	if e.MayExist {
		t.Error("MayExist = true for a closed entity type")
	}
	if e.Suggestion != "name" {
		t.Errorf("Suggestion = %q, want %q", e.Suggestion, "name")
	}
	if e.Access.Entity == nil || !e.Access.Entity.Contains("User") {
		t.Errorf("Access.Entity = %v, want the User union", e.Access.Entity)
	}
}

func TestContextAccessEvidence(t *testing.T) {
	v := newTestValidator(t)

	policy := editPolicy().
		When(ast.Context().Access("missing").Equal(ast.String("x")))
	result := v.ValidatePolicy("policy0", policy)

	e := findError[UnsafeAttributeAccessError](t, result)
	if !e.Access.Context {
		t.Error("Access.Context = false for a context attribute")
	}
	if len(e.Access.Attributes) != 1 || e.Access.Attributes[0] != "missing" {
		t.Errorf("Access.Attributes = %v, want [missing]", e.Access.Attributes)
	}
}

func TestHasGuardScopedToReceiver(t *testing.T) {
	v := newTestValidator(t)

	// A guard on the principal must not license the same attribute on the
	// resource.
	policy := editPolicy().
		When(ast.Principal().Has("optionalAttr").
			And(ast.Resource().Access("optionalAttr").Equal(ast.String("x"))))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).failed().errorCode(ErrUnsafeOptionalAttrAccess)
}

func TestIfConditionPropagatesGuards(t *testing.T) {
	v := newTestValidator(t)

	policy := editPolicy().
		When(ast.IfThenElse(
			ast.Resource().Has("optionalAttr"),
			ast.Resource().Access("optionalAttr").Equal(ast.String("x")),
			ast.False()))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).passed()
}

func TestOptionalAccessInElseBranchUnsafe(t *testing.T) {
	v := newTestValidator(t)

	policy := editPolicy().
		When(ast.IfThenElse(
			ast.Resource().Has("optionalAttr"),
			ast.True(),
			ast.Resource().Access("optionalAttr").Equal(ast.String("x"))))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).failed().errorCode(ErrUnsafeOptionalAttrAccess)
}

func TestActionGroupExpansion(t *testing.T) {
	const src = `{
		"entityTypes": {
			"User": {},
			"Doc": {}
		},
		"actions": {
			"readOnly": {},
			"view": {
				"memberOf": [{"id": "readOnly"}],
				"appliesTo": {"principalTypes": ["User"], "resourceTypes": ["Doc"]}
			},
			"list": {
				"memberOf": [{"id": "readOnly"}],
				"appliesTo": {"principalTypes": ["User"], "resourceTypes": ["Doc"]}
			},
			"delete": {
				"appliesTo": {"principalTypes": ["User"], "resourceTypes": ["Doc"]}
			}
		}
	}`
	v, err := New(testSchema(t, src))
	if err != nil {
		t.Fatal(err)
	}

	policy := ast.Permit().
		PrincipalIs("User").
		ActionIn(types.NewEntityUID("Action", "readOnly")).
		ResourceIs("Doc")
	assertResult(t, v.ValidatePolicy("policy0", policy)).passed()

	// An action scope over a group nothing satisfies is still recognized.
	policy = ast.Permit().
		ActionInSet(
			types.NewEntityUID("Action", "view"),
			types.NewEntityUID("Action", "bogus"),
		)
	result := v.ValidatePolicy("policy1", policy)
	assertResult(t, result).failed().errorCode(ErrUnrecognizedActionID)
}

func TestActionVariableComparison(t *testing.T) {
	v := newTestValidator(t)

	policy := editPolicy().
		When(ast.Action().Equal(ast.EntityUID("Action", "edit")))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).passed()
}

func TestForbidPoliciesAreChecked(t *testing.T) {
	v := newTestValidator(t)

	policy := ast.Forbid().
		ActionEq(types.NewEntityUID("Action", "edit")).
		When(ast.Resource().Access("nosuch").Equal(ast.String("x")))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).failed().errorCode(ErrUnsafeAttributeAccess)
}

func TestCapabilityKeysAreCanonical(t *testing.T) {
	a := ast.Principal().Access("manager").AsIsNode()
	b := ast.Principal().Access("manager").AsIsNode()
	if exprString(a) != exprString(b) {
		t.Errorf("equal expressions render differently: %q vs %q", exprString(a), exprString(b))
	}

	c := ast.Resource().Access("manager").AsIsNode()
	if exprString(a) == exprString(c) {
		t.Error("different receivers render identically")
	}
}

func TestGuardedNestedOptionalEntityHop(t *testing.T) {
	v := newTestValidator(t)

	policy := editPolicy().
		When(ast.Principal().Has("manager").
			And(ast.Principal().Access("manager").Access("name").Equal(ast.String("m"))))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).passed()
}

func TestExtensionValueLiterals(t *testing.T) {
	v := newTestValidator(t)

	dec, err := types.ParseDecimal("1.5")
	if err != nil {
		t.Fatal(err)
	}
	addr, err := types.ParseIPAddr("127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	dt, err := types.ParseDatetime("2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	dur, err := types.ParseDuration("1h")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cond ast.Node
	}{
		{"decimal", ast.ExtensionCall("lessThan", ast.Value(dec), ast.Decimal("2.0"))},
		{"ipaddr", ast.ExtensionCall("isLoopback", ast.Value(addr))},
		{"datetime", ast.ExtensionCall("toDays", ast.ExtensionCall("durationSince", ast.Value(dt), ast.Value(dt))).Equal(ast.Long(0))},
		{"duration", ast.ExtensionCall("toMilliseconds", ast.Value(dur)).Equal(ast.Long(3600000))},
		{"set-of-decimals", ast.Set(ast.Value(dec), ast.Value(dec)).IsEmpty()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidatePolicy("policy0", editPolicy().When(tt.cond))
			assertResult(t, result).passed()
		})
	}
}

func TestAttributeSafetyMonotonicity(t *testing.T) {
	const src = `{
		"entityTypes": {
			"Intern": {
				"shape": {"type": "Record", "attributes": {"name": {"type": "String"}}}
			},
			"Staff": {
				"shape": {"type": "Record", "attributes": {
					"name": {"type": "String"},
					"badge": {"type": "String"}
				}}
			},
			"Doc": {"shape": {"type": "Record", "attributes": {}}}
		},
		"actions": {
			"narrow": {"appliesTo": {"principalTypes": ["Intern"], "resourceTypes": ["Doc"]}},
			"wide": {"appliesTo": {"principalTypes": ["Intern", "Staff"], "resourceTypes": ["Doc"]}},
			"slim": {"appliesTo": {
				"principalTypes": ["Intern"], "resourceTypes": ["Doc"],
				"context": {"type": "Record", "attributes": {"tls": {"type": "Boolean"}}}
			}},
			"fat": {"appliesTo": {
				"principalTypes": ["Intern"], "resourceTypes": ["Doc"],
				"context": {"type": "Record", "attributes": {
					"tls": {"type": "Boolean"},
					"port": {"type": "Long"},
					"ua": {"type": "String"}
				}}
			}}
		}
	}`
	v, err := New(testSchema(t, src))
	if err != nil {
		t.Fatal(err)
	}

	action := func(name string) types.EntityUID { return types.NewEntityUID("Action", types.String(name)) }

	// A safe access must stay safe when the receiver union shrinks to one
	// member, and an unsafe access must stay unsafe when the union or the
	// context record widens.
	tests := []struct {
		name   string
		policy *ast.Policy
		code   ValidationErrorCode // "" means the access must be safe
	}{
		{"name-on-union",
			ast.Permit().ActionEq(action("wide")).
				When(ast.Principal().Access("name").Equal(ast.String("x"))),
			""},
		{"name-after-narrowing",
			ast.Permit().PrincipalIs("Intern").ActionEq(action("wide")).
				When(ast.Principal().Access("name").Equal(ast.String("x"))),
			""},
		{"badge-on-single",
			ast.Permit().ActionEq(action("narrow")).
				When(ast.Principal().Access("badge").Equal(ast.String("x"))),
			ErrUnsafeAttributeAccess},
		{"badge-after-widening",
			ast.Permit().ActionEq(action("wide")).
				When(ast.Principal().Access("badge").Equal(ast.String("x"))),
			ErrUnsafeAttributeAccess},
		{"context-miss-on-slim",
			ast.Permit().ActionEq(action("slim")).
				When(ast.Context().Access("ref").Equal(ast.String("x"))),
			ErrUnsafeAttributeAccess},
		{"context-miss-after-widening",
			ast.Permit().ActionEq(action("fat")).
				When(ast.Context().Access("ref").Equal(ast.String("x"))),
			ErrUnsafeAttributeAccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidatePolicy("policy0", tt.policy)
			if tt.code == "" {
				assertResult(t, result).passed()
			} else {
				assertResult(t, result).failed().errorCode(tt.code)
			}
		})
	}
}

func TestHasGuardOnUnconstrainedReceiver(t *testing.T) {
	const src = `{
		"entityTypes": {"User": {}},
		"actions": {"ping": {}}
	}`
	v, err := New(testSchema(t, src))
	if err != nil {
		t.Fatal(err)
	}

	// With no applies-to declarations the principal could be any entity,
	// so no attribute type exists to assign and the guard cannot help.
	policy := ast.Permit().
		ActionEq(types.NewEntityUID("Action", "ping")).
		When(ast.Principal().Has("x").
			And(ast.Principal().Access("x").Equal(ast.String("y"))))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).failed().errorCode(ErrUnsafeAttributeAccess)
	e := findError[UnsafeAttributeAccessError](t, result)
	if !e.MayExist {
		t.Error("MayExist = false for an unconstrained receiver")
	}
}

func TestMismatchHints(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name string
		cond ast.Node
		help UnexpectedTypeHelp
	}{
		{"like-on-extension", ast.IPAddr("10.0.0.1").Like("10.*"), HelpCompareAsLiterals},
		{"like-on-entity", ast.Principal().Like("U*"), HelpTryUsingIs},
		{"contains-on-string", ast.String("abc").Contains(ast.String("a")), HelpTryUsingLike},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidatePolicy("policy0", editPolicy().When(tt.cond))
			e := findError[UnexpectedTypeError](t, result)
			if e.Help != tt.help {
				t.Errorf("Help = %q, want %q", e.Help, tt.help)
			}
		})
	}
}
