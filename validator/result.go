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

import "iter"

// ValidationResult accumulates every diagnostic of one validation run.
// Errors and warnings are kept in discovery order, never deduplicated and
// never dropped. The zero value is a passing result with no diagnostics.
type ValidationResult struct {
	errors   []ValidationError
	warnings []ValidationWarning
}

// NewValidationResult returns a result owning the given diagnostics.
func NewValidationResult(errors []ValidationError, warnings []ValidationWarning) ValidationResult {
	return ValidationResult{errors: errors, warnings: warnings}
}

// ValidationPassed reports whether the run produced no errors. Warnings
// never affect acceptance.
func (r *ValidationResult) ValidationPassed() bool {
	return len(r.errors) == 0
}

// Errors iterates over the validation errors in discovery order. The
// sequence is restartable.
func (r *ValidationResult) Errors() iter.Seq[ValidationError] {
	return func(yield func(ValidationError) bool) {
		for _, e := range r.errors {
			if !yield(e) {
				return
			}
		}
	}
}

// Warnings iterates over the validation warnings in discovery order. The
// sequence is restartable.
func (r *ValidationResult) Warnings() iter.Seq[ValidationWarning] {
	return func(yield func(ValidationWarning) bool) {
		for _, w := range r.warnings {
			if !yield(w) {
				return
			}
		}
	}
}

// Split transfers ownership of both diagnostic sequences out of the
// result, leaving it empty.
func (r *ValidationResult) Split() ([]ValidationError, []ValidationWarning) {
	errs, warns := r.errors, r.warnings
	r.errors, r.warnings = nil, nil
	return errs, warns
}

// merge appends another result's diagnostics, preserving order.
func (r *ValidationResult) merge(o ValidationResult) {
	r.errors = append(r.errors, o.errors...)
	r.warnings = append(r.warnings, o.warnings...)
}
