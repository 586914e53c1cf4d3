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
	"strings"

	"github.com/cedarlint/cedarlint/types"
)

// ValidationErrorCode identifies a category of validation error. Codes are
// stable and intended for programmatic handling.
type ValidationErrorCode string

const (
	ErrUnrecognizedEntityType     ValidationErrorCode = "unrecognized_entity_type"
	ErrUnrecognizedActionID       ValidationErrorCode = "unrecognized_action_id"
	ErrInvalidActionApplication   ValidationErrorCode = "invalid_action_application"
	ErrUnexpectedType             ValidationErrorCode = "unexpected_type"
	ErrIncompatibleTypes          ValidationErrorCode = "incompatible_types"
	ErrUnsafeAttributeAccess      ValidationErrorCode = "unsafe_attribute_access"
	ErrUnsafeOptionalAttrAccess   ValidationErrorCode = "unsafe_optional_attribute_access"
	ErrUnsafeTagAccess            ValidationErrorCode = "unsafe_tag_access"
	ErrNoTagsAllowed              ValidationErrorCode = "no_tags_allowed"
	ErrUndefinedFunction          ValidationErrorCode = "undefined_function"
	ErrWrongNumberArguments       ValidationErrorCode = "wrong_number_arguments"
	ErrFunctionArgumentValidation ValidationErrorCode = "function_argument_validation"
	ErrEmptySetForbidden          ValidationErrorCode = "empty_set_forbidden"
	ErrNonLitExtConstructor       ValidationErrorCode = "non_literal_extension_constructor"
	ErrHierarchyNotRespected      ValidationErrorCode = "hierarchy_not_respected"
	ErrInternalInvariantViolation ValidationErrorCode = "internal_invariant_violation"
	ErrEntityDerefLevelViolation  ValidationErrorCode = "entity_deref_level_violation"
)

// ValidationError is one fatal policy defect. The set of implementations is
// closed; consumers switch exhaustively over it, so a new kind forces every
// consumer to be updated. Every error implements the error interface.
type ValidationError interface {
	error
	// Code returns the stable category code of the error.
	Code() ValidationErrorCode
	// Policy returns the identifier of the policy the error belongs to.
	Policy() types.PolicyID
	// Location returns the source position of the offending construct, or
	// nil when none was recorded.
	Location() *types.Position

	isValidationError()
}

// errorBase carries the fields common to every error kind.
type errorBase struct {
	PolicyID types.PolicyID
	Source   *types.Position
}

func (e errorBase) Policy() types.PolicyID    { return e.PolicyID }
func (e errorBase) Location() *types.Position { return e.Source }
func (errorBase) isValidationError()          {}

// UnrecognizedEntityTypeError reports a reference to an entity type the
// schema does not declare.
type UnrecognizedEntityTypeError struct {
	errorBase
	// ActualEntityType is the undeclared name as written.
	ActualEntityType types.EntityType
	// SuggestedEntityType is the closest declared name, or "" when no
	// plausible suggestion exists.
	SuggestedEntityType types.EntityType
}

func (e UnrecognizedEntityTypeError) Code() ValidationErrorCode { return ErrUnrecognizedEntityType }
func (e UnrecognizedEntityTypeError) Error() string {
	msg := fmt.Sprintf("policy %s: unrecognized entity type %s", e.PolicyID, e.ActualEntityType)
	if e.SuggestedEntityType != "" {
		msg += fmt.Sprintf(", did you mean %s?", e.SuggestedEntityType)
	}
	return msg
}

// UnrecognizedActionIDHelpKind classifies the hint attached to an
// unrecognized action error.
type UnrecognizedActionIDHelpKind string

const (
	// ActionIDHelpAvoidTypeInID means the written id embeds an action type
	// qualifier, e.g. `Action::"Action::view"`.
	ActionIDHelpAvoidTypeInID UnrecognizedActionIDHelpKind = "avoid_action_type_in_id"
	// ActionIDHelpSuggestAlternative means a declared action with a close
	// name exists.
	ActionIDHelpSuggestAlternative UnrecognizedActionIDHelpKind = "suggest_alternative"
)

// UnrecognizedActionIDHelp is an optional hint for fixing an unrecognized
// action reference. The zero value means no hint.
type UnrecognizedActionIDHelp struct {
	Kind       UnrecognizedActionIDHelpKind
	Suggestion string
}

// IsZero reports whether no hint is present.
func (h UnrecognizedActionIDHelp) IsZero() bool { return h.Kind == "" }

// UnrecognizedActionIDError reports a reference to an action the schema
// does not declare.
type UnrecognizedActionIDError struct {
	errorBase
	// ActualActionID is the undeclared action reference as written.
	ActualActionID string
	// Hint optionally suggests a fix.
	Hint UnrecognizedActionIDHelp
}

func (e UnrecognizedActionIDError) Code() ValidationErrorCode { return ErrUnrecognizedActionID }
func (e UnrecognizedActionIDError) Error() string {
	msg := fmt.Sprintf("policy %s: unrecognized action %s", e.PolicyID, e.ActualActionID)
	switch e.Hint.Kind {
	case ActionIDHelpAvoidTypeInID:
		msg += fmt.Sprintf(", try %q without the type qualifier", e.Hint.Suggestion)
	case ActionIDHelpSuggestAlternative:
		msg += fmt.Sprintf(", did you mean %s?", e.Hint.Suggestion)
	}
	return msg
}

// InvalidActionApplicationError reports a policy whose scope constraints
// can never satisfy any declared action's applies-to sets.
type InvalidActionApplicationError struct {
	errorBase
	// WouldInFixPrincipal is true when no candidate action accepts the
	// principal scope, so relaxing the principal constraint alone would
	// make some action applicable.
	WouldInFixPrincipal bool
	// WouldInFixResource is the same for the resource scope.
	WouldInFixResource bool
}

func (e InvalidActionApplicationError) Code() ValidationErrorCode { return ErrInvalidActionApplication }
func (e InvalidActionApplicationError) Error() string {
	return fmt.Sprintf("policy %s: no declared action applies to this principal/resource combination", e.PolicyID)
}

// UnexpectedTypeHelp is an optional hint attached to a type mismatch.
type UnexpectedTypeHelp string

const (
	HelpNone              UnexpectedTypeHelp = ""
	HelpTypesMustMatch    UnexpectedTypeHelp = "types_must_match"
	HelpTryUsingContains  UnexpectedTypeHelp = "try_using_contains"
	HelpTryUsingLike      UnexpectedTypeHelp = "try_using_like"
	HelpTryUsingIs        UnexpectedTypeHelp = "try_using_is"
	HelpCompareAsLiterals UnexpectedTypeHelp = "compare_against_literal"
)

// UnexpectedTypeError reports an expression whose type is outside the set
// an operator or construct accepts.
type UnexpectedTypeError struct {
	errorBase
	// Expected lists every type that would have been accepted.
	Expected []Type
	// Actual is the type found.
	Actual Type
	// Help optionally points at a likely fix.
	Help UnexpectedTypeHelp
}

func (e UnexpectedTypeError) Code() ValidationErrorCode { return ErrUnexpectedType }
func (e UnexpectedTypeError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, t := range e.Expected {
		expected[i] = t.String()
	}
	return fmt.Sprintf("policy %s: unexpected type: expected %s, found %s",
		e.PolicyID, strings.Join(expected, " or "), e.Actual)
}

// IncompatibleTypesError reports a failed least-upper-bound computation.
type IncompatibleTypesError struct {
	errorBase
	// Types is the deduplicated set of types that could not be joined.
	Types []Type
	// Hint explains why the join failed.
	Hint LubHelp
	// Context names the construct that required the join.
	Context LubContext
}

func (e IncompatibleTypesError) Code() ValidationErrorCode { return ErrIncompatibleTypes }
func (e IncompatibleTypesError) Error() string {
	names := make([]string, len(e.Types))
	for i, t := range e.Types {
		names[i] = t.String()
	}
	return fmt.Sprintf("policy %s: incompatible types in %s: %s",
		e.PolicyID, e.Context, strings.Join(names, ", "))
}

// AttributeAccess describes the access path at which an unsafe attribute
// access was detected. It is diagnostic evidence only; typing decisions
// never read it.
type AttributeAccess struct {
	// Entity is the receiver's entity union, or nil when the receiver is
	// the context record or some other expression.
	Entity *EntityLUB
	// Context is true when the receiver is the context variable.
	Context bool
	// Attributes is the access path, outermost attribute last.
	Attributes []string
}

func (a AttributeAccess) String() string {
	path := strings.Join(a.Attributes, ".")
	switch {
	case a.Entity != nil:
		return fmt.Sprintf("`%s` on entity type %s", path, a.Entity)
	case a.Context:
		return fmt.Sprintf("`%s` on context", path)
	default:
		return "`" + path + "`"
	}
}

// UnsafeAttributeAccessError reports an attribute access that is not
// guaranteed to succeed because the attribute may be absent entirely.
type UnsafeAttributeAccessError struct {
	errorBase
	// Access is the offending access path.
	Access AttributeAccess
	// Suggestion is the closest declared attribute name, or "".
	Suggestion string
	// MayExist is true when some but not all possible receiver types carry
	// the attribute.
	MayExist bool
}

func (e UnsafeAttributeAccessError) Code() ValidationErrorCode { return ErrUnsafeAttributeAccess }
func (e UnsafeAttributeAccessError) Error() string {
	msg := fmt.Sprintf("policy %s: attribute %s not found", e.PolicyID, e.Access)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", e.Suggestion)
	}
	return msg
}

// UnsafeOptionalAttributeAccessError reports access to a declared optional
// attribute without a guarding `has` test.
type UnsafeOptionalAttributeAccessError struct {
	errorBase
	// Access is the offending access path.
	Access AttributeAccess
}

func (e UnsafeOptionalAttributeAccessError) Code() ValidationErrorCode {
	return ErrUnsafeOptionalAttrAccess
}
func (e UnsafeOptionalAttributeAccessError) Error() string {
	return fmt.Sprintf("policy %s: optional attribute %s accessed without a guarding `has`",
		e.PolicyID, e.Access)
}

// UnsafeTagAccessError reports a getTag whose presence is not guaranteed by
// a guarding hasTag test.
type UnsafeTagAccessError struct {
	errorBase
	// Entity is the receiver's entity union, or nil when it could not be
	// resolved.
	Entity *EntityLUB
	// Tag is the tag-key expression as written.
	Tag string
}

func (e UnsafeTagAccessError) Code() ValidationErrorCode { return ErrUnsafeTagAccess }
func (e UnsafeTagAccessError) Error() string {
	receiver := "entity"
	if e.Entity != nil {
		receiver = e.Entity.String()
	}
	return fmt.Sprintf("policy %s: tag %s on %s accessed without a guarding `hasTag`",
		e.PolicyID, e.Tag, receiver)
}

// NoTagsAllowedError reports tag access on an entity type that declares no
// tags.
type NoTagsAllowedError struct {
	errorBase
	// EntityType is the tagless type, or "" when it could not be resolved.
	EntityType types.EntityType
}

func (e NoTagsAllowedError) Code() ValidationErrorCode { return ErrNoTagsAllowed }
func (e NoTagsAllowedError) Error() string {
	if e.EntityType == "" {
		return fmt.Sprintf("policy %s: tag access on a type that allows no tags", e.PolicyID)
	}
	return fmt.Sprintf("policy %s: entity type %s allows no tags", e.PolicyID, e.EntityType)
}

// UndefinedFunctionError reports a call to an extension function that does
// not exist.
type UndefinedFunctionError struct {
	errorBase
	// Name is the function name as written.
	Name string
}

func (e UndefinedFunctionError) Code() ValidationErrorCode { return ErrUndefinedFunction }
func (e UndefinedFunctionError) Error() string {
	return fmt.Sprintf("policy %s: undefined extension function %q", e.PolicyID, e.Name)
}

// WrongNumberArgumentsError reports an extension call with the wrong arity.
type WrongNumberArgumentsError struct {
	errorBase
	Expected int
	Actual   int
}

func (e WrongNumberArgumentsError) Code() ValidationErrorCode { return ErrWrongNumberArguments }
func (e WrongNumberArgumentsError) Error() string {
	return fmt.Sprintf("policy %s: wrong number of arguments: expected %d, found %d",
		e.PolicyID, e.Expected, e.Actual)
}

// FunctionArgumentValidationError reports an extension constructor argument
// that the function's own validator rejected, such as a malformed IP
// address literal.
type FunctionArgumentValidationError struct {
	errorBase
	// Message is the validator's explanation.
	Message string
}

func (e FunctionArgumentValidationError) Code() ValidationErrorCode {
	return ErrFunctionArgumentValidation
}
func (e FunctionArgumentValidationError) Error() string {
	return fmt.Sprintf("policy %s: %s", e.PolicyID, e.Message)
}

// EmptySetForbiddenError reports an empty set literal under strict
// validation, where its element type cannot be determined.
type EmptySetForbiddenError struct {
	errorBase
}

func (e EmptySetForbiddenError) Code() ValidationErrorCode { return ErrEmptySetForbidden }
func (e EmptySetForbiddenError) Error() string {
	return fmt.Sprintf("policy %s: empty set literals are forbidden in strict validation", e.PolicyID)
}

// NonLitExtConstructorError reports an extension constructor called with a
// non-literal argument under strict validation.
type NonLitExtConstructorError struct {
	errorBase
}

func (e NonLitExtConstructorError) Code() ValidationErrorCode { return ErrNonLitExtConstructor }
func (e NonLitExtConstructorError) Error() string {
	return fmt.Sprintf("policy %s: extension constructors require literal arguments in strict validation", e.PolicyID)
}

// HierarchyNotRespectedError reports an `in` test whose left-hand type can
// never be a descendant of the right-hand type per the schema hierarchy.
type HierarchyNotRespectedError struct {
	errorBase
	// InLHS and InRHS name one concrete offending type pair.
	InLHS types.EntityType
	InRHS types.EntityType
}

func (e HierarchyNotRespectedError) Code() ValidationErrorCode { return ErrHierarchyNotRespected }
func (e HierarchyNotRespectedError) Error() string {
	return fmt.Sprintf("policy %s: %s can never be in %s per the schema hierarchy",
		e.PolicyID, e.InLHS, e.InRHS)
}

// InternalInvariantViolationError reports a checker state its own
// invariants say is unreachable. It signals a validator bug, not a policy
// defect; callers should report it and continue.
type InternalInvariantViolationError struct {
	errorBase
}

func (e InternalInvariantViolationError) Code() ValidationErrorCode {
	return ErrInternalInvariantViolation
}
func (e InternalInvariantViolationError) Error() string {
	return fmt.Sprintf("policy %s: internal invariant violation, please report this", e.PolicyID)
}

// EntityDerefLevelViolationError reports an attribute or tag access chain
// traversing more entity hops than the configured maximum allows.
type EntityDerefLevelViolationError struct {
	errorBase
	// AllowedLevel is the configured maximum number of entity hops.
	AllowedLevel int
	// ActualLevel is the number of hops the chain would traverse.
	ActualLevel int
}

func (e EntityDerefLevelViolationError) Code() ValidationErrorCode {
	return ErrEntityDerefLevelViolation
}
func (e EntityDerefLevelViolationError) Error() string {
	return fmt.Sprintf("policy %s: entity dereference level %d exceeds the maximum of %d",
		e.PolicyID, e.ActualLevel, e.AllowedLevel)
}
