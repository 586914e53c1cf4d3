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

func TestBidiCharsInString(t *testing.T) {
	v := newTestValidator(t)

	// U+202E is RIGHT-TO-LEFT OVERRIDE.
	policy := ast.Permit().
		ActionEq(types.NewEntityUID("Action", "edit")).
		When(ast.Principal().Access("name").Equal(ast.String("ali‮ce")))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).passed().warningCode(WarnBidiCharsInString)
	for w := range result.Warnings() {
		bw, ok := w.(BidiCharsInStringWarning)
		if !ok {
			continue
		}
		if bw.String != "ali‮ce" {
			t.Errorf("String = %q, want the offending literal", bw.String)
		}
	}
}

func TestBidiCharsInIdentifier(t *testing.T) {
	v := newTestValidator(t)

	policy := ast.Permit().
		ActionEq(types.NewEntityUID("Action", "edit")).
		When(ast.Principal().Has("na‮me"))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).passed().warningCode(WarnBidiCharsInIdentifier)
}

func TestMixedScriptString(t *testing.T) {
	v := newTestValidator(t)

	// Latin "pa" followed by Cyrillic "ge" lookalikes.
	policy := ast.Permit().
		ActionEq(types.NewEntityUID("Action", "edit")).
		When(ast.Principal().Access("name").Equal(ast.String("pаge")))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).passed().warningCode(WarnMixedScriptString)
}

func TestPlainASCIIDoesNotWarn(t *testing.T) {
	v := newTestValidator(t)

	policy := ast.Permit().
		ActionEq(types.NewEntityUID("Action", "edit")).
		When(ast.Principal().Access("name").Equal(ast.String("alice")).
			And(ast.Principal().Has("age")))
	result := v.ValidatePolicy("policy0", policy)

	for w := range result.Warnings() {
		t.Errorf("unexpected warning %q", w.Code())
	}
}

func TestSingleForeignScriptDoesNotWarn(t *testing.T) {
	v := newTestValidator(t)

	// Pure Cyrillic is a single script, not a mix.
	policy := ast.Permit().
		ActionEq(types.NewEntityUID("Action", "edit")).
		When(ast.Principal().Access("name").Equal(ast.String("владимир")))
	result := v.ValidatePolicy("policy0", policy)

	for w := range result.Warnings() {
		if w.Code() == WarnMixedScriptString {
			t.Errorf("pure-script literal flagged as mixed: %v", w)
		}
	}
}

func TestConfusableIdentifier(t *testing.T) {
	v := newTestValidator(t)

	// Zero-width space inside an attribute name.
	policy := ast.Permit().
		ActionEq(types.NewEntityUID("Action", "edit")).
		When(ast.Principal().Has("na​me"))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).passed().warningCode(WarnConfusableIdentifier)
	for w := range result.Warnings() {
		cw, ok := w.(ConfusableIdentifierWarning)
		if !ok {
			continue
		}
		if cw.Character != '​' {
			t.Errorf("Character = %U, want U+200B", cw.Character)
		}
	}
}

func TestAnnotationsAreScanned(t *testing.T) {
	v := newTestValidator(t)

	policy := ast.Permit().
		Annotate("note", "se‮cret").
		ActionEq(types.NewEntityUID("Action", "edit"))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).passed().warningCode(WarnBidiCharsInString)
}

func TestEntityIDsAreScanned(t *testing.T) {
	v := newTestValidator(t)

	policy := ast.Permit().
		PrincipalEq(types.NewEntityUID("User", "al‮ice")).
		ActionEq(types.NewEntityUID("Action", "edit"))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).warningCode(WarnBidiCharsInString)
}

func TestLikePatternsAreScanned(t *testing.T) {
	v := newTestValidator(t)

	policy := ast.Permit().
		ActionEq(types.NewEntityUID("Action", "edit")).
		When(ast.Principal().Access("name").Like("аli*"))
	result := v.ValidatePolicy("policy0", policy)

	assertResult(t, result).warningCode(WarnMixedScriptString)
}

func TestScriptDetection(t *testing.T) {
	tests := []struct {
		s     string
		mixed bool
	}{
		{"hello", false},
		{"hello world 42", false},
		{"привет", false},
		{"日本語", false},
		{"pаge", true},
		{"admin-группа", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := mixesScripts(tt.s); got != tt.mixed {
			t.Errorf("mixesScripts(%q) = %v, want %v", tt.s, got, tt.mixed)
		}
	}
}
