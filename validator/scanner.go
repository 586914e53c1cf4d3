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
	"unicode"

	"golang.org/x/text/unicode/bidi"

	"github.com/cedarlint/cedarlint/ast"
	"github.com/cedarlint/cedarlint/types"
)

// scanPolicy runs the Unicode hygiene checks over every identifier and
// string literal of a policy. It is independent of typing and only ever
// produces warnings.
func (pc *policyCheck) scanPolicy() {
	for _, a := range pc.policy.Annotations {
		pc.scanIdentifier(string(a.Key))
		pc.scanString(string(a.Value))
	}
	pc.scanScope(pc.policy.Principal)
	pc.scanScope(pc.policy.Action)
	pc.scanScope(pc.policy.Resource)
	for _, cond := range pc.policy.Conditions {
		pc.scanExpr(cond.Body)
	}
}

func (pc *policyCheck) scanScope(s ast.IsScopeNode) {
	switch t := s.(type) {
	case ast.ScopeTypeEq:
		pc.scanEntityUID(t.Entity)
	case ast.ScopeTypeIn:
		pc.scanEntityUID(t.Entity)
	case ast.ScopeTypeInSet:
		for _, uid := range t.Entities {
			pc.scanEntityUID(uid)
		}
	case ast.ScopeTypeIs:
		pc.scanIdentifier(string(t.Type))
	case ast.ScopeTypeIsIn:
		pc.scanIdentifier(string(t.Type))
		pc.scanEntityUID(t.Entity)
	}
}

func (pc *policyCheck) scanExpr(n ast.IsNode) {
	switch v := n.(type) {
	case ast.NodeValue:
		pc.scanValue(v.Value)
	case ast.NodeTypeVariable:
	case ast.NodeTypeNot:
		pc.scanExpr(v.Arg)
	case ast.NodeTypeNegate:
		pc.scanExpr(v.Arg)
	case ast.NodeTypeAnd:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeOr:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeEquals:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeNotEquals:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeLessThan:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeLessThanOrEqual:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeGreaterThan:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeGreaterThanOrEqual:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeAdd:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeSub:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeMult:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeIn:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeIs:
		pc.scanExpr(v.Left)
		pc.scanIdentifier(string(v.EntityType))
	case ast.NodeTypeIsIn:
		pc.scanExpr(v.Left)
		pc.scanIdentifier(string(v.EntityType))
		pc.scanExpr(v.Entity)
	case ast.NodeTypeAccess:
		pc.scanExpr(v.Arg)
		pc.scanIdentifier(string(v.Value))
	case ast.NodeTypeHas:
		pc.scanExpr(v.Arg)
		pc.scanIdentifier(string(v.Value))
	case ast.NodeTypeLike:
		pc.scanExpr(v.Arg)
		pc.scanString(string(v.Value))
	case ast.NodeTypeContains:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeContainsAll:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeContainsAny:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeIsEmpty:
		pc.scanExpr(v.Arg)
	case ast.NodeTypeGetTag:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeHasTag:
		pc.scanExpr(v.Left)
		pc.scanExpr(v.Right)
	case ast.NodeTypeIfThenElse:
		pc.scanExpr(v.If)
		pc.scanExpr(v.Then)
		pc.scanExpr(v.Else)
	case ast.NodeTypeSet:
		for _, e := range v.Elements {
			pc.scanExpr(e)
		}
	case ast.NodeTypeRecord:
		for _, e := range v.Elements {
			pc.scanIdentifier(string(e.Key))
			pc.scanExpr(e.Value)
		}
	case ast.NodeTypeExtensionCall:
		for _, a := range v.Args {
			pc.scanExpr(a)
		}
	}
}

func (pc *policyCheck) scanValue(v types.Value) {
	switch val := v.(type) {
	case types.String:
		pc.scanString(string(val))
	case types.EntityUID:
		pc.scanEntityUID(val)
	case types.Set:
		for _, e := range val {
			pc.scanValue(e)
		}
	case types.Record:
		for _, e := range val {
			pc.scanIdentifier(string(e.Key))
			pc.scanValue(e.Value)
		}
	}
}

func (pc *policyCheck) scanEntityUID(uid types.EntityUID) {
	pc.scanIdentifier(string(uid.Type))
	pc.scanString(string(uid.ID))
}

// scanString checks one string literal for bidirectional controls and
// script mixing.
func (pc *policyCheck) scanString(s string) {
	if containsBidiControl(s) {
		pc.addWarning(BidiCharsInStringWarning{warningBase: pc.warnBase(), String: s})
	}
	if mixesScripts(s) {
		pc.addWarning(MixedScriptStringWarning{warningBase: pc.warnBase(), String: s})
	}
}

// scanIdentifier checks one identifier for bidirectional controls, script
// mixing, and characters outside the identifier security profile.
func (pc *policyCheck) scanIdentifier(id string) {
	if containsBidiControl(id) {
		pc.addWarning(BidiCharsInIdentifierWarning{warningBase: pc.warnBase(), Identifier: id})
	}
	if mixesScripts(id) {
		pc.addWarning(MixedScriptIdentifierWarning{warningBase: pc.warnBase(), Identifier: id})
	}
	if r, ok := confusableRune(id); ok {
		pc.addWarning(ConfusableIdentifierWarning{warningBase: pc.warnBase(), Identifier: id, Character: r})
	}
}

// isBidiControl reports whether the rune reorders surrounding text.
func isBidiControl(r rune) bool {
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.LRO, bidi.RLO, bidi.LRE, bidi.RLE, bidi.PDF, bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
		return true
	}
	return false
}

func containsBidiControl(s string) bool {
	for _, r := range s {
		if isBidiControl(r) {
			return true
		}
	}
	return false
}

// mixesScripts reports whether the string draws letters from more than one
// Unicode script. Characters shared across scripts do not count.
func mixesScripts(s string) bool {
	seen := ""
	for _, r := range s {
		name := scriptOf(r)
		if name == "" {
			continue
		}
		if seen == "" {
			seen = name
			continue
		}
		if name != seen {
			return true
		}
	}
	return false
}

// scriptOf returns the Unicode script of a rune, or "" for characters
// common to all scripts.
func scriptOf(r rune) string {
	if r < 0x80 {
		// ASCII letters are Latin; everything else ASCII is scriptless.
		if unicode.IsLetter(r) {
			return "Latin"
		}
		return ""
	}
	for name, table := range unicode.Scripts {
		if name == "Common" || name == "Inherited" {
			continue
		}
		if unicode.Is(table, r) {
			return name
		}
	}
	return ""
}

// confusableRune returns the first rune outside the identifier security
// profile: anything that is not a letter, digit, or one of the punctuation
// characters identifiers legitimately carry. Bidirectional controls are
// reported separately.
func confusableRune(id string) (rune, bool) {
	for _, r := range id {
		if isBidiControl(r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == ':' || r == '-' || r == ' ' {
			continue
		}
		return r, true
	}
	return 0, false
}
