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

// Package types defines the name, identifier, and literal value vocabulary
// shared by the policy AST, the schema model, and the validator.
package types

import "strings"

// EntityType is the name of a declared entity type, e.g. "PhotoApp::User".
type EntityType string

// Namespace returns the namespace portion of the entity type name, or ""
// when the name is unqualified.
func (e EntityType) Namespace() string {
	if i := strings.LastIndex(string(e), "::"); i >= 0 {
		return string(e)[:i]
	}
	return ""
}

// Basename returns the unqualified portion of the entity type name.
func (e EntityType) Basename() string {
	if i := strings.LastIndex(string(e), "::"); i >= 0 {
		return string(e)[i+2:]
	}
	return string(e)
}

// EntityUID identifies a specific entity: a type plus an ID unique within
// that type.
type EntityUID struct {
	Type EntityType
	ID   String
}

// NewEntityUID returns an EntityUID for the given type name and ID.
func NewEntityUID(typ EntityType, id String) EntityUID {
	return EntityUID{Type: typ, ID: id}
}

func (e EntityUID) String() string {
	return string(e.Type) + `::"` + string(e.ID) + `"`
}

// IsZero reports whether the UID is the zero value.
func (e EntityUID) IsZero() bool {
	return e.Type == "" && e.ID == ""
}

// PolicyID is an opaque identifier tying a diagnostic back to its source
// policy. The validator does not interpret it beyond equality and ordering.
type PolicyID string

// Path is a dotted name, such as an extension function name.
type Path string

// Ident is an identifier appearing in policy source, such as an attribute
// name or annotation key.
type Ident string

// Position describes a location within policy source text.
type Position struct {
	// Filename is the name of the source file, if known.
	Filename string

	// Offset is the byte offset from the start of the file, starting at 0.
	Offset int

	// Line is the line number, starting at 1.
	Line int

	// Column is the column number, starting at 1.
	Column int
}
