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

// Package validator statically checks Cedar policies against a schema,
// rejecting policies that could fail or misbehave at evaluation time
// before they are deployed.
//
// # Validation
//
// Build a [Validator] over a schema, then hand it a policy set:
//
//	v, err := validator.New(schema)
//	if err != nil {
//	    return err
//	}
//	result := v.Validate(policies)
//	if !result.ValidationPassed() {
//	    for e := range result.Errors() {
//	        fmt.Println(e.Error())
//	    }
//	}
//
// A run produces two independent diagnostic streams. Errors block
// acceptance: unrecognized entity types and actions, scope constraints no
// declared action can satisfy, type mismatches, attribute and tag accesses
// not provable safe, and unsound extension-function use. Warnings never
// block acceptance: Unicode hygiene findings over identifiers and string
// literals, and policies whose condition is statically false.
//
// Every diagnostic is a distinct type carrying the evidence fields for its
// kind, such as the suggested correction on
// [UnrecognizedEntityTypeError]. Consumers that need to react per kind
// switch over the [ValidationError] and [ValidationWarning] unions; both
// are closed.
//
// # Strict mode
//
// [WithStrictValidation] layers additional soundness rules on top of
// standard validation: empty set literals are rejected, extension
// constructors require literal arguments, joined types must be compatible,
// and `in` tests must be satisfiable under the schema hierarchy. Every
// standard-mode error is still produced in strict mode.
//
// # Dereference levels
//
// [WithMaxDerefLevel] bounds how many entity hops a policy may traverse
// from its root variables, for deployments that slice entity data ahead of
// authorization. The analysis is independent of the other checks and only
// adds the one diagnostic kind it can produce.
package validator
