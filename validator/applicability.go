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
	"strings"

	"github.com/cedarlint/cedarlint/ast"
	"github.com/cedarlint/cedarlint/schema"
	"github.com/cedarlint/cedarlint/types"
)

// checkScopes resolves the policy's scope constraints against the schema:
// it verifies every referenced entity type and action is declared, checks
// that some declared action could satisfy the principal and resource
// constraints together, and derives the types the condition checker assigns
// to the principal, action, resource, and context variables.
func (pc *policyCheck) checkScopes() {
	pc.checkScopeEntityRefs()

	actions := pc.resolveActionScope()

	principalOK := false
	resourceOK := false
	bothOK := false
	for _, uid := range actions {
		decl := pc.v.schema.Actions[uid]
		p := scopeSatisfiable(pc.v.schema, pc.policy.Principal, decl.PrincipalTypes)
		r := scopeSatisfiable(pc.v.schema, pc.policy.Resource, decl.ResourceTypes)
		principalOK = principalOK || p
		resourceOK = resourceOK || r
		bothOK = bothOK || (p && r)
	}
	if len(actions) > 0 && !bothOK {
		pc.addError(InvalidActionApplicationError{
			errorBase:           pc.base(),
			WouldInFixPrincipal: !principalOK,
			WouldInFixResource:  !resourceOK,
		})
	}

	pc.principal = pc.scopeVariableType(pc.policy.Principal, actions, principalTypesOf)
	pc.resource = pc.scopeVariableType(pc.policy.Resource, actions, resourceTypesOf)
	pc.action = actionVariableType(pc.policy.Action, actions)
	pc.context = pc.mergeContexts(actions)
}

// checkScopeEntityRefs reports undeclared entity types referenced by the
// principal and resource scope constraints.
func (pc *policyCheck) checkScopeEntityRefs() {
	for _, s := range []ast.IsScopeNode{pc.policy.Principal, pc.policy.Resource} {
		switch t := s.(type) {
		case ast.ScopeTypeEq:
			pc.checkEntityTypeDeclared(t.Entity.Type)
		case ast.ScopeTypeIn:
			pc.checkEntityTypeDeclared(t.Entity.Type)
		case ast.ScopeTypeIs:
			pc.checkEntityTypeDeclared(t.Type)
		case ast.ScopeTypeIsIn:
			pc.checkEntityTypeDeclared(t.Type)
			pc.checkEntityTypeDeclared(t.Entity.Type)
		}
	}
}

// checkEntityTypeDeclared reports the type if the schema does not declare
// it, attaching the closest declared name as a suggestion. It returns
// whether the type is declared.
func (pc *policyCheck) checkEntityTypeDeclared(t types.EntityType) bool {
	if pc.v.schema.IsDeclared(t) {
		return true
	}
	var suggested types.EntityType
	if s, ok := pc.suggestName(string(t), entityTypePool(pc.v.schema)); ok {
		suggested = types.EntityType(s)
	}
	pc.addError(UnrecognizedEntityTypeError{
		errorBase:           pc.base(),
		ActualEntityType:    t,
		SuggestedEntityType: suggested,
	})
	return false
}

// resolveActionScope returns the declared actions the policy's action
// constraint can match, in deterministic order. Undeclared action
// references are reported.
func (pc *policyCheck) resolveActionScope() []types.EntityUID {
	s := pc.v.schema
	switch t := pc.policy.Action.(type) {
	case ast.ScopeTypeAll:
		return s.ActionUIDs()
	case ast.ScopeTypeEq:
		if _, ok := s.Actions[t.Entity]; !ok {
			pc.unrecognizedAction(t.Entity)
			return nil
		}
		return []types.EntityUID{t.Entity}
	case ast.ScopeTypeInSet:
		var out []types.EntityUID
		for _, uid := range t.Entities {
			if _, ok := s.Actions[uid]; !ok {
				pc.unrecognizedAction(uid)
				continue
			}
			out = append(out, uid)
		}
		return out
	case ast.ScopeTypeIn:
		if _, ok := s.Actions[t.Entity]; !ok {
			pc.unrecognizedAction(t.Entity)
			return nil
		}
		var out []types.EntityUID
		for _, uid := range s.ActionUIDs() {
			if uid == t.Entity || actionInGroup(s, uid, t.Entity) {
				out = append(out, uid)
			}
		}
		return out
	}
	pc.addError(InternalInvariantViolationError{errorBase: pc.base()})
	return nil
}

// actionInGroup reports whether the action is a transitive member of the
// given action group.
func actionInGroup(s *schema.Schema, action, group types.EntityUID) bool {
	return actionInGroupVisited(s, action, group, map[types.EntityUID]bool{})
}

func actionInGroupVisited(s *schema.Schema, action, group types.EntityUID, visited map[types.EntityUID]bool) bool {
	if visited[action] {
		return false
	}
	visited[action] = true

	decl := s.Actions[action]
	if decl == nil {
		return false
	}
	for _, parent := range decl.MemberOf {
		if parent == group {
			return true
		}
		if actionInGroupVisited(s, parent, group, visited) {
			return true
		}
	}
	return false
}

func (pc *policyCheck) unrecognizedAction(uid types.EntityUID) {
	pc.addError(UnrecognizedActionIDError{
		errorBase:      pc.base(),
		ActualActionID: uid.String(),
		Hint:           pc.actionHint(uid),
	})
}

// actionHint proposes a fix for an unrecognized action reference: strip an
// embedded type qualifier when the bare id is declared, otherwise suggest
// the closest declared action id.
func (pc *policyCheck) actionHint(uid types.EntityUID) UnrecognizedActionIDHelp {
	id := string(uid.ID)
	if i := strings.LastIndex(id, "::"); i >= 0 {
		bare := strings.Trim(id[i+2:], `"`)
		for declared := range pc.v.schema.Actions {
			if string(declared.ID) == bare {
				return UnrecognizedActionIDHelp{Kind: ActionIDHelpAvoidTypeInID, Suggestion: bare}
			}
		}
	}
	pool := make([]string, 0, len(pc.v.schema.Actions))
	for declared := range pc.v.schema.Actions {
		pool = append(pool, string(declared.ID))
	}
	if s, ok := pc.suggestName(id, pool); ok {
		return UnrecognizedActionIDHelp{Kind: ActionIDHelpSuggestAlternative, Suggestion: s}
	}
	return UnrecognizedActionIDHelp{}
}

// scopeSatisfiable reports whether the scope constraint can be met by some
// entity of one of the allowed types. An empty allowed set means the action
// declares no constraint for that variable.
func scopeSatisfiable(s *schema.Schema, scope ast.IsScopeNode, allowed []types.EntityType) bool {
	if len(allowed) == 0 {
		return true
	}
	switch t := scope.(type) {
	case ast.ScopeTypeAll:
		return true
	case ast.ScopeTypeEq:
		return containsType(allowed, t.Entity.Type)
	case ast.ScopeTypeIn:
		for _, a := range allowed {
			if s.CanBeDescendantOf(a, t.Entity.Type) {
				return true
			}
		}
		return false
	case ast.ScopeTypeIs:
		return containsType(allowed, t.Type)
	case ast.ScopeTypeIsIn:
		return containsType(allowed, t.Type) && s.CanBeDescendantOf(t.Type, t.Entity.Type)
	}
	return false
}

func containsType(ts []types.EntityType, t types.EntityType) bool {
	for _, c := range ts {
		if c == t {
			return true
		}
	}
	return false
}

func principalTypesOf(d *schema.ActionDecl) []types.EntityType { return d.PrincipalTypes }
func resourceTypesOf(d *schema.ActionDecl) []types.EntityType  { return d.ResourceTypes }

// scopeVariableType derives the type the condition checker assigns to the
// principal or resource variable: the scope constraint intersected with the
// candidate actions' applies-to declarations.
func (pc *policyCheck) scopeVariableType(scope ast.IsScopeNode, actions []types.EntityUID, appliesTo func(*schema.ActionDecl) []types.EntityType) Type {
	s := pc.v.schema
	switch t := scope.(type) {
	case ast.ScopeTypeEq:
		if s.IsDeclared(t.Entity.Type) {
			return NewEntityLUB(t.Entity.Type)
		}
		return AnyEntity{}
	case ast.ScopeTypeIs:
		if s.IsDeclared(t.Type) {
			return NewEntityLUB(t.Type)
		}
		return AnyEntity{}
	case ast.ScopeTypeIsIn:
		if s.IsDeclared(t.Type) {
			return NewEntityLUB(t.Type)
		}
		return AnyEntity{}
	case ast.ScopeTypeIn:
		// Every declared type that can sit below the target.
		var members []types.EntityType
		for _, name := range s.EntityTypeNames() {
			if s.CanBeDescendantOf(name, t.Entity.Type) {
				members = append(members, name)
			}
		}
		if len(members) > 0 {
			return NewEntityLUB(members...)
		}
		return AnyEntity{}
	}

	// Unconstrained: the union of the candidate actions' applies-to types.
	var members []types.EntityType
	for _, uid := range actions {
		members = append(members, appliesTo(s.Actions[uid])...)
	}
	if len(members) > 0 {
		return NewEntityLUB(members...)
	}
	return AnyEntity{}
}

// actionVariableType derives the type of the action variable from the
// candidate actions.
func actionVariableType(scope ast.IsActionScopeNode, actions []types.EntityUID) Type {
	if t, ok := scope.(ast.ScopeTypeEq); ok {
		return NewEntityLUB(t.Entity.Type)
	}
	var members []types.EntityType
	for _, uid := range actions {
		members = append(members, uid.Type)
	}
	if len(members) > 0 {
		return NewEntityLUB(members...)
	}
	return AnyEntity{}
}

// mergeContexts derives the context record from the candidate actions. An
// attribute survives only when every action declares it at an equal type;
// anything declared inconsistently leaves the record open instead.
func (pc *policyCheck) mergeContexts(actions []types.EntityUID) RecordType {
	if len(actions) == 0 {
		return RecordType{Attributes: map[string]AttributeType{}, Open: true}
	}

	merged := latticeRecord(pc.v.schema.Actions[actions[0]].Context)
	for _, uid := range actions[1:] {
		next := latticeRecord(pc.v.schema.Actions[uid].Context)
		merged.Open = merged.Open || next.Open
		for name, attr := range merged.Attributes {
			other, ok := next.Attributes[name]
			if !ok || !TypesEqual(attr.Type, other.Type) {
				delete(merged.Attributes, name)
				merged.Open = true
				continue
			}
			if attr.Required && !other.Required {
				attr.Required = false
				merged.Attributes[name] = attr
			}
		}
		for name := range next.Attributes {
			if _, ok := merged.Attributes[name]; !ok {
				merged.Open = true
			}
		}
	}
	return merged
}

// entityTypePool returns the declared entity type names for suggestion
// lookups.
func entityTypePool(s *schema.Schema) []string {
	names := s.EntityTypeNames()
	pool := make([]string, len(names))
	for i, n := range names {
		pool[i] = string(n)
	}
	return pool
}
