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
	"fmt"

	"github.com/cedarlint/cedarlint/ast"
	"github.com/cedarlint/cedarlint/types"
)

// capabilitySet records attribute and tag accesses proven safe on the
// current path by a guarding `has` or `hasTag` test. Keys are canonical
// expression renderings.
type capabilitySet map[string]struct{}

func (c capabilitySet) has(key string) bool {
	_, ok := c[key]
	return ok
}

func unionCaps(a, b capabilitySet) capabilitySet {
	out := make(capabilitySet, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func intersectCaps(a, b capabilitySet) capabilitySet {
	out := capabilitySet{}
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// checkResult is the outcome of typing one expression node.
type checkResult struct {
	t Type

	// caps are the capabilities proven when the expression is true.
	caps capabilitySet

	// derefs counts the entity hops traversed producing this value.
	derefs int
}

func typed(t Type) checkResult {
	return checkResult{t: t}
}

// policyCheck is the per-policy analysis state. Each policy gets its own;
// nothing here is shared across policies.
type policyCheck struct {
	v        *Validator
	policyID types.PolicyID
	policy   *ast.Policy

	principal Type
	action    Type
	resource  Type
	context   RecordType

	errs  []ValidationError
	warns []ValidationWarning
}

func (pc *policyCheck) base() errorBase {
	var src *types.Position
	if pc.policy.Position != (types.Position{}) {
		p := pc.policy.Position
		src = &p
	}
	return errorBase{PolicyID: pc.policyID, Source: src}
}

func (pc *policyCheck) addError(err ValidationError) {
	pc.errs = append(pc.errs, err)
}

func (pc *policyCheck) addWarning(w ValidationWarning) {
	pc.warns = append(pc.warns, w)
}

func (pc *policyCheck) suggestName(name string, pool []string) (string, bool) {
	if pc.v.suggest == nil {
		return "", false
	}
	return pc.v.suggest(name, pool)
}

func (pc *policyCheck) lubber() lubber {
	return lubber{schema: pc.v.schema, strict: pc.v.strict}
}

// checkConditions types every when/unless clause and flags conditions that
// fold to a constant making the policy unable to fire.
func (pc *policyCheck) checkConditions() {
	impossible := false
	for _, cond := range pc.policy.Conditions {
		r := pc.typeOf(cond.Body, capabilitySet{})
		pc.expect(r, HelpNone, BoolType{})

		if b, ok := foldBool(cond.Body); ok {
			if b == bool(cond.Condition == ast.ConditionUnless) {
				impossible = true
			}
		}
	}
	if impossible {
		pc.addWarning(ImpossiblePolicyWarning{warningBase: pc.warnBase()})
	}
}

func (pc *policyCheck) warnBase() warningBase {
	b := pc.base()
	return warningBase{PolicyID: b.PolicyID, Source: b.Source}
}

// typeOf assigns a lattice type to one expression node, bottom-up. caps
// holds the capabilities already proven on this path. Errors are recorded
// and the node types as Never so one defect does not cascade.
func (pc *policyCheck) typeOf(n ast.IsNode, caps capabilitySet) checkResult {
	switch v := n.(type) {
	case ast.NodeValue:
		return typed(pc.typeOfValue(v.Value))

	case ast.NodeTypeVariable:
		switch v.Name {
		case "principal":
			return typed(pc.principal)
		case "action":
			return typed(pc.action)
		case "resource":
			return typed(pc.resource)
		case "context":
			return typed(pc.context)
		}
		pc.addError(InternalInvariantViolationError{errorBase: pc.base()})
		return typed(NeverType{})

	case ast.NodeTypeNot:
		r := pc.typeOf(v.Arg, caps)
		pc.expect(r, HelpNone, BoolType{})
		return typed(BoolType{})

	case ast.NodeTypeNegate:
		r := pc.typeOf(v.Arg, caps)
		pc.expect(r, HelpNone, LongType{})
		return typed(LongType{})

	case ast.NodeTypeAnd:
		left := pc.typeOf(v.Left, caps)
		pc.expect(left, HelpNone, BoolType{})
		right := pc.typeOf(v.Right, unionCaps(caps, left.caps))
		pc.expect(right, HelpNone, BoolType{})
		return checkResult{t: BoolType{}, caps: unionCaps(left.caps, right.caps)}

	case ast.NodeTypeOr:
		left := pc.typeOf(v.Left, caps)
		pc.expect(left, HelpNone, BoolType{})
		right := pc.typeOf(v.Right, caps)
		pc.expect(right, HelpNone, BoolType{})
		return checkResult{t: BoolType{}, caps: intersectCaps(left.caps, right.caps)}

	case ast.NodeTypeEquals:
		return pc.typeOfEquality(v.Left, v.Right, caps)
	case ast.NodeTypeNotEquals:
		return pc.typeOfEquality(v.Left, v.Right, caps)

	case ast.NodeTypeLessThan:
		return pc.typeOfComparison(v.Left, v.Right, caps)
	case ast.NodeTypeLessThanOrEqual:
		return pc.typeOfComparison(v.Left, v.Right, caps)
	case ast.NodeTypeGreaterThan:
		return pc.typeOfComparison(v.Left, v.Right, caps)
	case ast.NodeTypeGreaterThanOrEqual:
		return pc.typeOfComparison(v.Left, v.Right, caps)

	case ast.NodeTypeAdd:
		return pc.typeOfArithmetic(v.Left, v.Right, caps)
	case ast.NodeTypeSub:
		return pc.typeOfArithmetic(v.Left, v.Right, caps)
	case ast.NodeTypeMult:
		return pc.typeOfArithmetic(v.Left, v.Right, caps)

	case ast.NodeTypeIn:
		return pc.typeOfIn(v.Left, v.Right, caps)

	case ast.NodeTypeIs:
		left := pc.typeOf(v.Left, caps)
		pc.expect(left, HelpNone, AnyEntity{})
		pc.checkEntityTypeDeclared(v.EntityType)
		return typed(BoolType{})

	case ast.NodeTypeIsIn:
		left := pc.typeOf(v.Left, caps)
		pc.expect(left, HelpNone, AnyEntity{})
		pc.checkEntityTypeDeclared(v.EntityType)
		right := pc.typeOf(v.Entity, caps)
		pc.expect(right, HelpNone, AnyEntity{}, SetType{Element: AnyEntity{}})
		pc.checkHierarchy(left.t, right.t)
		return typed(BoolType{})

	case ast.NodeTypeAccess:
		return pc.typeOfAccess(v, caps)

	case ast.NodeTypeHas:
		r := pc.typeOf(v.Arg, caps)
		switch r.t.(type) {
		case RecordType, EntityLUB, AnyEntity, NeverType:
		default:
			pc.expect(r, HelpNone, AnyEntity{}, RecordType{})
			return typed(BoolType{})
		}
		key := accessKey(v.Arg, string(v.Value))
		return checkResult{t: BoolType{}, caps: capabilitySet{key: {}}}

	case ast.NodeTypeLike:
		r := pc.typeOf(v.Arg, caps)
		help := HelpNone
		switch r.t.(type) {
		case EntityLUB, AnyEntity:
			help = HelpTryUsingIs
		case ExtensionType:
			// The constructor's string argument is what the pattern
			// can match.
			help = HelpCompareAsLiterals
		}
		pc.expect(r, help, StringType{})
		return typed(BoolType{})

	case ast.NodeTypeContains:
		left := pc.typeOf(v.Left, caps)
		right := pc.typeOf(v.Right, caps)
		help := HelpNone
		if _, ok := left.t.(StringType); ok {
			help = HelpTryUsingLike
		}
		if set, ok := pc.expectSet(left, help); ok {
			pc.strictJoin([]Type{set.Element, right.t}, LubContextContains)
		}
		return typed(BoolType{})

	case ast.NodeTypeContainsAll:
		return pc.typeOfSetPair(v.Left, v.Right, caps)
	case ast.NodeTypeContainsAny:
		return pc.typeOfSetPair(v.Left, v.Right, caps)

	case ast.NodeTypeIsEmpty:
		r := pc.typeOf(v.Arg, caps)
		pc.expectSet(r, HelpNone)
		return typed(BoolType{})

	case ast.NodeTypeGetTag:
		return pc.typeOfGetTag(v, caps)

	case ast.NodeTypeHasTag:
		left := pc.typeOf(v.Left, caps)
		pc.expect(left, HelpNone, AnyEntity{})
		right := pc.typeOf(v.Right, caps)
		pc.expect(right, HelpNone, StringType{})
		key := tagKey(v.Left, v.Right)
		return checkResult{t: BoolType{}, caps: capabilitySet{key: {}}}

	case ast.NodeTypeIfThenElse:
		return pc.typeOfIfThenElse(v, caps)

	case ast.NodeTypeSet:
		return pc.typeOfSet(v, caps)

	case ast.NodeTypeRecord:
		attrs := make(map[string]AttributeType, len(v.Elements))
		for _, e := range v.Elements {
			r := pc.typeOf(e.Value, caps)
			attrs[string(e.Key)] = AttributeType{Type: r.t, Required: true}
		}
		return typed(RecordType{Attributes: attrs})

	case ast.NodeTypeExtensionCall:
		return pc.typeOfExtensionCall(v, caps)
	}

	pc.addError(InternalInvariantViolationError{errorBase: pc.base()})
	return typed(NeverType{})
}

// typeOfValue types a literal.
func (pc *policyCheck) typeOfValue(v types.Value) Type {
	switch val := v.(type) {
	case types.Boolean:
		return BoolType{}
	case types.Long:
		return LongType{}
	case types.String:
		return StringType{}
	case types.EntityUID:
		return pc.typeOfEntityRef(val)
	case types.Set:
		elems := make([]Type, len(val))
		for i, e := range val {
			elems[i] = pc.typeOfValue(e)
		}
		t, offenders, help, ok := pc.lubber().lubAll(elems)
		if !ok {
			pc.addError(IncompatibleTypesError{
				errorBase: pc.base(), Types: offenders, Hint: help, Context: LubContextSetElements,
			})
			return SetType{Element: NeverType{}}
		}
		return SetType{Element: t}
	case types.Record:
		attrs := make(map[string]AttributeType, len(val))
		for _, e := range val {
			attrs[string(e.Key)] = AttributeType{Type: pc.typeOfValue(e.Value), Required: true}
		}
		return RecordType{Attributes: attrs}
	case types.Decimal:
		return decimalType
	case types.IPAddr:
		return ipType
	case types.Datetime:
		return datetimeType
	case types.Duration:
		return durationType
	}
	pc.addError(InternalInvariantViolationError{errorBase: pc.base()})
	return NeverType{}
}

// typeOfEntityRef types an entity literal. Action entities are legal
// references even though action types do not appear in the entity type
// declarations.
func (pc *policyCheck) typeOfEntityRef(uid types.EntityUID) Type {
	if pc.v.schema.IsDeclared(uid.Type) {
		return NewEntityLUB(uid.Type)
	}
	if _, ok := pc.v.schema.Actions[uid]; ok {
		return NewEntityLUB(uid.Type)
	}
	if !pc.checkEntityTypeDeclared(uid.Type) {
		return NeverType{}
	}
	return NewEntityLUB(uid.Type)
}

func (pc *policyCheck) typeOfEquality(left, right ast.IsNode, caps capabilitySet) checkResult {
	l := pc.typeOf(left, caps)
	r := pc.typeOf(right, caps)
	if pc.v.strict {
		pc.strictJoin([]Type{l.t, r.t}, LubContextEquality)
	}
	return typed(BoolType{})
}

func (pc *policyCheck) typeOfComparison(left, right ast.IsNode, caps capabilitySet) checkResult {
	for _, r := range []checkResult{pc.typeOf(left, caps), pc.typeOf(right, caps)} {
		help := HelpNone
		if _, ok := r.t.(ExtensionType); ok {
			// datetime and decimal order through their extension functions.
			help = HelpTypesMustMatch
		}
		pc.expect(r, help, LongType{})
	}
	return typed(BoolType{})
}

func (pc *policyCheck) typeOfArithmetic(left, right ast.IsNode, caps capabilitySet) checkResult {
	pc.expect(pc.typeOf(left, caps), HelpNone, LongType{})
	pc.expect(pc.typeOf(right, caps), HelpNone, LongType{})
	return typed(LongType{})
}

func (pc *policyCheck) typeOfSetPair(left, right ast.IsNode, caps capabilitySet) checkResult {
	l := pc.typeOf(left, caps)
	r := pc.typeOf(right, caps)
	ls, lOK := pc.expectSet(l, HelpTryUsingContains)
	rs, rOK := pc.expectSet(r, HelpNone)
	if lOK && rOK {
		pc.strictJoin([]Type{ls.Element, rs.Element}, LubContextContainsAnyAll)
	}
	return typed(BoolType{})
}

func (pc *policyCheck) typeOfIn(left, right ast.IsNode, caps capabilitySet) checkResult {
	l := pc.typeOf(left, caps)
	pc.expect(l, HelpNone, AnyEntity{})
	r := pc.typeOf(right, caps)
	pc.expect(r, HelpTryUsingContains, AnyEntity{}, SetType{Element: AnyEntity{}})
	pc.checkHierarchy(l.t, r.t)
	return typed(BoolType{})
}

// checkHierarchy enforces the strict-mode rule that an `in` test's left
// type must be a possible descendant of some right type. It only fires when
// both sides resolve to declared entity types; action hierarchies and
// unresolved types are exempt.
func (pc *policyCheck) checkHierarchy(left, right Type) {
	if !pc.v.strict {
		return
	}
	lhs, ok := left.(EntityLUB)
	if !ok {
		return
	}
	var rhs EntityLUB
	switch rt := right.(type) {
	case EntityLUB:
		rhs = rt
	case SetType:
		member, ok := rt.Element.(EntityLUB)
		if !ok {
			return
		}
		rhs = member
	default:
		return
	}
	for _, m := range append(lhs.Members(), rhs.Members()...) {
		if !pc.v.schema.IsDeclared(m) {
			return
		}
	}

	rightMembers := rhs.Members()
	for _, lm := range lhs.Members() {
		related := false
		for _, rm := range rightMembers {
			if pc.v.schema.CanBeDescendantOf(lm, rm) {
				related = true
				break
			}
		}
		if !related {
			pc.addError(HierarchyNotRespectedError{
				errorBase: pc.base(), InLHS: lm, InRHS: rightMembers[0],
			})
			return
		}
	}
}

// typeOfAccess types an attribute projection, delegating presence analysis
// to the record and entity variants.
func (pc *policyCheck) typeOfAccess(v ast.NodeTypeAccess, caps capabilitySet) checkResult {
	r := pc.typeOf(v.Arg, caps)
	name := string(v.Value)

	switch rt := r.t.(type) {
	case NeverType:
		return typed(NeverType{})
	case RecordType:
		return checkResult{t: pc.recordAttribute(v, rt, name, caps), derefs: r.derefs}
	case EntityLUB:
		derefs := r.derefs + 1
		pc.checkDerefLevel(derefs, r.derefs)
		return checkResult{t: pc.entityAttribute(v, rt, name, caps), derefs: derefs}
	case AnyEntity:
		// The schema declares no attributes for an unconstrained
		// receiver, so there is no type to assign even when a has
		// check proved the attribute present.
		pc.addError(UnsafeAttributeAccessError{
			errorBase: pc.base(),
			Access:    attributeAccess(v.Arg, r.t, name),
			MayExist:  true,
		})
		return typed(NeverType{})
	default:
		pc.expect(r, HelpNone, AnyEntity{}, RecordType{})
		return typed(NeverType{})
	}
}

// recordAttribute resolves one attribute on a record type.
func (pc *policyCheck) recordAttribute(v ast.NodeTypeAccess, rt RecordType, name string, caps capabilitySet) Type {
	attr, ok := rt.Attributes[name]
	if !ok {
		var suggestion string
		if !rt.Open {
			pool := make([]string, 0, len(rt.Attributes))
			for k := range rt.Attributes {
				pool = append(pool, k)
			}
			suggestion, _ = pc.suggestName(name, pool)
		}
		pc.addError(UnsafeAttributeAccessError{
			errorBase:  pc.base(),
			Access:     attributeAccess(v.Arg, rt, name),
			Suggestion: suggestion,
			MayExist:   rt.Open,
		})
		return NeverType{}
	}
	if attr.Required || caps.has(accessKey(v.Arg, name)) {
		return attr.Type
	}
	pc.addError(UnsafeOptionalAttributeAccessError{
		errorBase: pc.base(),
		Access:    attributeAccess(v.Arg, rt, name),
	})
	return NeverType{}
}

// entityAttribute resolves one attribute across every member of an entity
// union. The access is safe only when every possible runtime type
// guarantees the attribute, or a guarding `has` capability is present.
func (pc *policyCheck) entityAttribute(v ast.NodeTypeAccess, lub EntityLUB, name string, caps capabilitySet) Type {
	var (
		attrTypes  []Type
		pool       []string
		haveCount  int
		allRequire = true
		anyOpen    bool
		members    int
	)
	for _, member := range lub.Members() {
		decl := pc.v.schema.EntityTypes[member]
		if decl == nil {
			// Already reported as unrecognized where the reference was typed.
			anyOpen = true
			continue
		}
		members++
		for k := range decl.Attributes {
			pool = append(pool, k)
		}
		attr, ok := decl.Attributes[name]
		if !ok {
			if decl.Open {
				anyOpen = true
			} else {
				allRequire = false
			}
			continue
		}
		haveCount++
		attrTypes = append(attrTypes, latticeType(attr.Type))
		if !attr.Required {
			allRequire = false
		}
	}

	if haveCount == 0 && !anyOpen {
		suggestion, _ := pc.suggestName(name, pool)
		pc.addError(UnsafeAttributeAccessError{
			errorBase:  pc.base(),
			Access:     attributeAccess(v.Arg, lub, name),
			Suggestion: suggestion,
			MayExist:   false,
		})
		return NeverType{}
	}

	guaranteed := haveCount == members && !anyOpen && allRequire
	if !guaranteed && !caps.has(accessKey(v.Arg, name)) {
		if haveCount == members && !anyOpen {
			// Declared everywhere, optional somewhere.
			pc.addError(UnsafeOptionalAttributeAccessError{
				errorBase: pc.base(),
				Access:    attributeAccess(v.Arg, lub, name),
			})
		} else {
			pc.addError(UnsafeAttributeAccessError{
				errorBase: pc.base(),
				Access:    attributeAccess(v.Arg, lub, name),
				MayExist:  true,
			})
		}
		return NeverType{}
	}

	t, offenders, help, ok := pc.lubber().lubAll(attrTypes)
	if !ok {
		pc.addError(IncompatibleTypesError{
			errorBase: pc.base(), Types: offenders, Hint: help, Context: LubContextAttributeAccess,
		})
		return NeverType{}
	}
	return t
}

// typeOfGetTag types a tag read. Presence must be proven by a hasTag
// capability, and every member of the receiver union must declare tags.
func (pc *policyCheck) typeOfGetTag(v ast.NodeTypeGetTag, caps capabilitySet) checkResult {
	left := pc.typeOf(v.Left, caps)
	right := pc.typeOf(v.Right, caps)
	pc.expect(right, HelpNone, StringType{})

	switch lt := left.t.(type) {
	case NeverType:
		return typed(NeverType{})
	case AnyEntity:
		pc.addError(UnsafeTagAccessError{
			errorBase: pc.base(), Entity: nil, Tag: exprString(v.Right),
		})
		return typed(NeverType{})
	case EntityLUB:
		var tagTypes []Type
		tagless := false
		for _, member := range lt.Members() {
			decl := pc.v.schema.EntityTypes[member]
			if decl == nil {
				continue
			}
			if decl.Tags == nil {
				pc.addError(NoTagsAllowedError{errorBase: pc.base(), EntityType: member})
				tagless = true
				continue
			}
			tagTypes = append(tagTypes, latticeType(decl.Tags))
		}
		if tagless {
			return typed(NeverType{})
		}
		if !caps.has(tagKey(v.Left, v.Right)) {
			lub := lt
			pc.addError(UnsafeTagAccessError{
				errorBase: pc.base(), Entity: &lub, Tag: exprString(v.Right),
			})
			return typed(NeverType{})
		}
		derefs := left.derefs + 1
		pc.checkDerefLevel(derefs, left.derefs)
		t, offenders, help, ok := pc.lubber().lubAll(tagTypes)
		if !ok {
			pc.addError(IncompatibleTypesError{
				errorBase: pc.base(), Types: offenders, Hint: help, Context: LubContextAttributeAccess,
			})
			return typed(NeverType{})
		}
		return checkResult{t: t, derefs: derefs}
	default:
		pc.expect(left, HelpNone, AnyEntity{})
		return typed(NeverType{})
	}
}

func (pc *policyCheck) typeOfIfThenElse(v ast.NodeTypeIfThenElse, caps capabilitySet) checkResult {
	cond := pc.typeOf(v.If, caps)
	pc.expect(cond, HelpNone, BoolType{})

	thenRes := pc.typeOf(v.Then, unionCaps(caps, cond.caps))
	elseRes := pc.typeOf(v.Else, caps)

	// A constant condition selects one branch statically.
	if b, ok := foldBool(v.If); ok {
		if b {
			return typed(thenRes.t)
		}
		return typed(elseRes.t)
	}

	t, help, ok := pc.lubber().lub(thenRes.t, elseRes.t)
	if !ok {
		pc.addError(IncompatibleTypesError{
			errorBase: pc.base(),
			Types:     dedupeTypes([]Type{thenRes.t, elseRes.t}),
			Hint:      help,
			Context:   LubContextConditional,
		})
		return typed(NeverType{})
	}
	return typed(t)
}

func (pc *policyCheck) typeOfSet(v ast.NodeTypeSet, caps capabilitySet) checkResult {
	if len(v.Elements) == 0 {
		if pc.v.strict {
			pc.addError(EmptySetForbiddenError{errorBase: pc.base()})
		}
		return typed(SetType{Element: NeverType{}})
	}
	elems := make([]Type, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = pc.typeOf(e, caps).t
	}
	t, offenders, help, ok := pc.lubber().lubAll(elems)
	if !ok {
		pc.addError(IncompatibleTypesError{
			errorBase: pc.base(), Types: offenders, Hint: help, Context: LubContextSetElements,
		})
		return typed(SetType{Element: NeverType{}})
	}
	return typed(SetType{Element: t})
}

func (pc *policyCheck) typeOfExtensionCall(v ast.NodeTypeExtensionCall, caps capabilitySet) checkResult {
	fn, ok := extensionFuncs[v.Name]
	if !ok {
		pc.addError(UndefinedFunctionError{errorBase: pc.base(), Name: string(v.Name)})
		return typed(NeverType{})
	}
	if len(v.Args) != len(fn.args) {
		pc.addError(WrongNumberArgumentsError{
			errorBase: pc.base(), Expected: len(fn.args), Actual: len(v.Args),
		})
		return typed(NeverType{})
	}
	for i, arg := range v.Args {
		r := pc.typeOf(arg, caps)
		pc.expect(r, HelpNone, fn.args[i])
	}
	if fn.isConstructor {
		pc.checkConstructorArg(fn, v.Args[0])
	}
	return typed(fn.result)
}

// checkConstructorArg validates an extension constructor argument: literal
// arguments are parsed with the function's own format validator, and strict
// mode refuses non-literal arguments outright.
func (pc *policyCheck) checkConstructorArg(fn extensionFunc, arg ast.IsNode) {
	if lit, ok := arg.(ast.NodeValue); ok {
		s, ok := lit.Value.(types.String)
		if !ok {
			return
		}
		if fn.checkLiteral == nil {
			return
		}
		if err := fn.checkLiteral(s); err != nil {
			pc.addError(FunctionArgumentValidationError{
				errorBase: pc.base(),
				Message:   fmt.Sprintf("invalid %s argument: %s", fn.name, err),
			})
		}
		return
	}
	if pc.v.strict {
		pc.addError(NonLitExtConstructorError{errorBase: pc.base()})
	}
}

// checkDerefLevel reports the first access that pushes a dereference chain
// past the configured maximum.
func (pc *policyCheck) checkDerefLevel(newDerefs, prevDerefs int) {
	if !pc.v.maxDerefSet {
		return
	}
	if newDerefs > pc.v.maxDeref && prevDerefs <= pc.v.maxDeref {
		pc.addError(EntityDerefLevelViolationError{
			errorBase:    pc.base(),
			AllowedLevel: pc.v.maxDeref,
			ActualLevel:  newDerefs,
		})
	}
}

// expect verifies a result is one of the accepted types, reporting an
// UnexpectedTypeError otherwise. Never passes silently: its error was
// already reported.
func (pc *policyCheck) expect(r checkResult, help UnexpectedTypeHelp, want ...Type) bool {
	if isNever(r.t) {
		return false
	}
	for _, w := range want {
		if assignable(r.t, w) {
			return true
		}
	}
	pc.addError(UnexpectedTypeError{
		errorBase: pc.base(), Expected: want, Actual: r.t, Help: help,
	})
	return false
}

// expectSet verifies a result is a set of any element type.
func (pc *policyCheck) expectSet(r checkResult, help UnexpectedTypeHelp) (SetType, bool) {
	if isNever(r.t) {
		return SetType{}, false
	}
	if s, ok := r.t.(SetType); ok {
		return s, true
	}
	pc.addError(UnexpectedTypeError{
		errorBase: pc.base(),
		Expected:  []Type{SetType{Element: AnyEntity{}}},
		Actual:    r.t,
		Help:      help,
	})
	return SetType{}, false
}

// assignable reports whether a value of type t is acceptable where want is
// expected. AnyEntity accepts every entity type, and set element types
// check recursively.
func assignable(t, want Type) bool {
	switch w := want.(type) {
	case AnyEntity:
		return isEntity(t)
	case SetType:
		s, ok := t.(SetType)
		return ok && assignable(s.Element, w.Element)
	case RecordType:
		_, ok := t.(RecordType)
		return ok
	default:
		return TypesEqual(t, want)
	}
}

// strictJoin requires the types to have a least upper bound under strict
// validation. Standard validation skips the check.
func (pc *policyCheck) strictJoin(ts []Type, context LubContext) {
	if !pc.v.strict {
		return
	}
	_, offenders, help, ok := pc.lubber().lubAll(ts)
	if !ok {
		pc.addError(IncompatibleTypesError{
			errorBase: pc.base(), Types: offenders, Hint: help, Context: context,
		})
	}
}

// accessKey is the capability key a `has` test proves for the matching
// attribute access.
func accessKey(receiver ast.IsNode, attr string) string {
	return fmt.Sprintf("%s[%q]", exprString(receiver), attr)
}

// tagKey is the capability key a `hasTag` test proves for the matching
// getTag access.
func tagKey(receiver, tag ast.IsNode) string {
	return fmt.Sprintf("%s.getTag(%s)", exprString(receiver), exprString(tag))
}

// attributeAccess builds the diagnostic evidence for an unsafe access.
func attributeAccess(receiver ast.IsNode, receiverType Type, attr string) AttributeAccess {
	if lub, ok := receiverType.(EntityLUB); ok {
		return AttributeAccess{Entity: &lub, Attributes: []string{attr}}
	}
	attrs := []string{attr}
	node := receiver
	for {
		a, ok := node.(ast.NodeTypeAccess)
		if !ok {
			break
		}
		attrs = append([]string{string(a.Value)}, attrs...)
		node = a.Arg
	}
	if v, ok := node.(ast.NodeTypeVariable); ok && v.Name == "context" {
		return AttributeAccess{Context: true, Attributes: attrs}
	}
	return AttributeAccess{Attributes: attrs}
}

// foldBool statically evaluates an expression that is a boolean constant.
func foldBool(n ast.IsNode) (bool, bool) {
	switch v := n.(type) {
	case ast.NodeValue:
		if b, ok := v.Value.(types.Boolean); ok {
			return bool(b), true
		}
	case ast.NodeTypeNot:
		if b, ok := foldBool(v.Arg); ok {
			return !b, true
		}
	case ast.NodeTypeAnd:
		l, lok := foldBool(v.Left)
		r, rok := foldBool(v.Right)
		if lok && !l {
			return false, true
		}
		if rok && !r {
			return false, true
		}
		if lok && rok {
			return l && r, true
		}
	case ast.NodeTypeOr:
		l, lok := foldBool(v.Left)
		r, rok := foldBool(v.Right)
		if lok && l {
			return true, true
		}
		if rok && r {
			return true, true
		}
		if lok && rok {
			return l || r, true
		}
	case ast.NodeTypeIfThenElse:
		if c, ok := foldBool(v.If); ok {
			if c {
				return foldBool(v.Then)
			}
			return foldBool(v.Else)
		}
	}
	return false, false
}
