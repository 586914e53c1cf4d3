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

	"github.com/cedarlint/cedarlint/types"
)

// ValidationWarningCode identifies a category of validation warning.
type ValidationWarningCode string

const (
	WarnMixedScriptString     ValidationWarningCode = "mixed_script_string"
	WarnBidiCharsInString     ValidationWarningCode = "bidi_chars_in_string"
	WarnBidiCharsInIdentifier ValidationWarningCode = "bidi_chars_in_identifier"
	WarnMixedScriptIdentifier ValidationWarningCode = "mixed_script_identifier"
	WarnConfusableIdentifier  ValidationWarningCode = "confusable_identifier"
	WarnImpossiblePolicy      ValidationWarningCode = "impossible_policy"
)

// ValidationWarning is one advisory finding. Warnings never block
// acceptance. The set of implementations is closed; consumers switch
// exhaustively over it.
type ValidationWarning interface {
	// Code returns the stable category code of the warning.
	Code() ValidationWarningCode
	// Policy returns the identifier of the policy the warning belongs to.
	Policy() types.PolicyID
	// Location returns the source position of the offending construct, or
	// nil when none was recorded.
	Location() *types.Position
	// Warning returns a human-readable description.
	Warning() string

	isValidationWarning()
}

type warningBase struct {
	PolicyID types.PolicyID
	Source   *types.Position
}

func (w warningBase) Policy() types.PolicyID    { return w.PolicyID }
func (w warningBase) Location() *types.Position { return w.Source }
func (warningBase) isValidationWarning()        {}

// MixedScriptStringWarning reports a string literal mixing characters from
// multiple Unicode scripts.
type MixedScriptStringWarning struct {
	warningBase
	// String is the offending literal.
	String string
}

func (w MixedScriptStringWarning) Code() ValidationWarningCode { return WarnMixedScriptString }
func (w MixedScriptStringWarning) Warning() string {
	return fmt.Sprintf("policy %s: string %q mixes multiple Unicode scripts", w.PolicyID, w.String)
}

// BidiCharsInStringWarning reports a string literal containing
// bidirectional control characters.
type BidiCharsInStringWarning struct {
	warningBase
	String string
}

func (w BidiCharsInStringWarning) Code() ValidationWarningCode { return WarnBidiCharsInString }
func (w BidiCharsInStringWarning) Warning() string {
	return fmt.Sprintf("policy %s: string %q contains bidirectional control characters", w.PolicyID, w.String)
}

// BidiCharsInIdentifierWarning reports an identifier containing
// bidirectional control characters.
type BidiCharsInIdentifierWarning struct {
	warningBase
	Identifier string
}

func (w BidiCharsInIdentifierWarning) Code() ValidationWarningCode { return WarnBidiCharsInIdentifier }
func (w BidiCharsInIdentifierWarning) Warning() string {
	return fmt.Sprintf("policy %s: identifier %q contains bidirectional control characters", w.PolicyID, w.Identifier)
}

// MixedScriptIdentifierWarning reports an identifier mixing characters from
// multiple Unicode scripts, a common spoofing vector.
type MixedScriptIdentifierWarning struct {
	warningBase
	Identifier string
}

func (w MixedScriptIdentifierWarning) Code() ValidationWarningCode { return WarnMixedScriptIdentifier }
func (w MixedScriptIdentifierWarning) Warning() string {
	return fmt.Sprintf("policy %s: identifier %q mixes multiple Unicode scripts", w.PolicyID, w.Identifier)
}

// ConfusableIdentifierWarning reports an identifier containing a character
// outside the recognized identifier security profile.
type ConfusableIdentifierWarning struct {
	warningBase
	Identifier string
	// Character is the specific offending rune.
	Character rune
}

func (w ConfusableIdentifierWarning) Code() ValidationWarningCode { return WarnConfusableIdentifier }
func (w ConfusableIdentifierWarning) Warning() string {
	return fmt.Sprintf("policy %s: identifier %q contains character %q outside the identifier security profile",
		w.PolicyID, w.Identifier, w.Character)
}

// ImpossiblePolicyWarning reports a policy whose condition is statically
// false, so it can never fire.
type ImpossiblePolicyWarning struct {
	warningBase
}

func (w ImpossiblePolicyWarning) Code() ValidationWarningCode { return WarnImpossiblePolicy }
func (w ImpossiblePolicyWarning) Warning() string {
	return fmt.Sprintf("policy %s: condition is always false, the policy can never apply", w.PolicyID)
}
