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

	"github.com/sourcegraph/conc"

	"github.com/cedarlint/cedarlint"
	"github.com/cedarlint/cedarlint/ast"
	"github.com/cedarlint/cedarlint/schema"
	"github.com/cedarlint/cedarlint/types"
)

// Validator checks parsed policies against a schema. It is immutable after
// New and safe for concurrent use.
type Validator struct {
	schema      *schema.Schema
	strict      bool
	maxDeref    int
	maxDerefSet bool
	suggest     SuggestFunc
}

// Option configures a Validator.
type Option func(*Validator)

// WithStrictValidation enables strict mode: a superset of standard
// validation adding soundness rules for empty set literals, non-literal
// extension constructor arguments, joins of unrelated types, and `in`
// tests the hierarchy can never satisfy.
func WithStrictValidation() Option {
	return func(v *Validator) {
		v.strict = true
	}
}

// WithMaxDerefLevel bounds how many entity hops an attribute or tag access
// chain may traverse from the principal, action, resource, and context
// variables. Without this option chains are unbounded.
func WithMaxDerefLevel(level int) Option {
	return func(v *Validator) {
		v.maxDeref = level
		v.maxDerefSet = true
	}
}

// WithSuggester replaces the fuzzy matcher used to populate suggestion
// fields on unrecognized-name errors. Passing nil disables suggestions.
func WithSuggester(f SuggestFunc) Option {
	return func(v *Validator) {
		v.suggest = f
	}
}

// New builds a Validator over the given schema. The schema is checked for
// well-formedness first: every entity type referenced by a membership or
// applies-to declaration must itself be declared.
func New(s *schema.Schema, opts ...Option) (*Validator, error) {
	if err := checkSchema(s); err != nil {
		return nil, err
	}
	v := &Validator{
		schema:  s,
		suggest: FuzzySuggest,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// checkSchema verifies the schema's internal references resolve.
func checkSchema(s *schema.Schema) error {
	for _, name := range s.EntityTypeNames() {
		decl := s.EntityTypes[name]
		for _, parent := range decl.MemberOfTypes {
			if !s.IsDeclared(parent) {
				return fmt.Errorf("entity type %s: memberOfTypes references undeclared type %s", name, parent)
			}
		}
		for attr, a := range decl.Attributes {
			if err := checkSchemaType(s, a.Type); err != nil {
				return fmt.Errorf("entity type %s: attribute %s: %w", name, attr, err)
			}
		}
		if decl.Tags != nil {
			if err := checkSchemaType(s, decl.Tags); err != nil {
				return fmt.Errorf("entity type %s: tags: %w", name, err)
			}
		}
	}
	for _, uid := range s.ActionUIDs() {
		decl := s.Actions[uid]
		for _, pt := range decl.PrincipalTypes {
			if !s.IsDeclared(pt) {
				return fmt.Errorf("action %s: principal type %s is not declared", uid, pt)
			}
		}
		for _, rt := range decl.ResourceTypes {
			if !s.IsDeclared(rt) {
				return fmt.Errorf("action %s: resource type %s is not declared", uid, rt)
			}
		}
		for _, parent := range decl.MemberOf {
			if _, ok := s.Actions[parent]; !ok {
				return fmt.Errorf("action %s: memberOf references undeclared action %s", uid, parent)
			}
		}
	}
	return nil
}

func checkSchemaType(s *schema.Schema, t schema.Type) error {
	switch st := t.(type) {
	case schema.EntityRefType:
		if !s.IsDeclared(st.Name) {
			return fmt.Errorf("references undeclared entity type %s", st.Name)
		}
	case schema.SetType:
		return checkSchemaType(s, st.Element)
	case schema.RecordType:
		for name, a := range st.Attributes {
			if err := checkSchemaType(s, a.Type); err != nil {
				return fmt.Errorf("attribute %s: %w", name, err)
			}
		}
	}
	return nil
}

// Validate checks every policy in the set and gathers all diagnostics into
// one result. Policies are checked concurrently; the schema is shared
// read-only and each policy's analysis state is private, so no locking is
// needed. Diagnostics are joined in the set's iteration order regardless
// of completion order.
func (v *Validator) Validate(ps *cedarlint.PolicySet) ValidationResult {
	ids := make([]types.PolicyID, 0, ps.Len())
	policies := make([]*ast.Policy, 0, ps.Len())
	for id, p := range ps.All() {
		ids = append(ids, id)
		policies = append(policies, p)
	}

	results := make([]ValidationResult, len(ids))
	var wg conc.WaitGroup
	for i := range ids {
		wg.Go(func() {
			results[i] = v.ValidatePolicy(ids[i], policies[i])
		})
	}
	wg.Wait()

	var out ValidationResult
	for _, r := range results {
		out.merge(r)
	}
	return out
}

// ValidatePolicy checks a single policy against the schema.
func (v *Validator) ValidatePolicy(id types.PolicyID, p *ast.Policy) ValidationResult {
	pc := &policyCheck{
		v:        v,
		policyID: id,
		policy:   p,
	}
	pc.checkScopes()
	pc.checkConditions()
	pc.scanPolicy()
	return ValidationResult{errors: pc.errs, warnings: pc.warns}
}
