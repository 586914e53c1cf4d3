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

// Package cedarlint holds the policy set container shared by the analyses
// in this module. Policies are parsed elsewhere; this package only carries
// them, keyed by PolicyID, in a stable order.
package cedarlint

import (
	"iter"
	"slices"

	"github.com/cedarlint/cedarlint/ast"
	"github.com/cedarlint/cedarlint/types"
)

//revive:disable-next-line:exported
type PolicyID = types.PolicyID

// PolicySet is a collection of named parsed policies. Iteration order is
// the insertion order, which keeps diagnostics deterministic across runs.
type PolicySet struct {
	policies map[PolicyID]*ast.Policy
	order    []PolicyID
}

// NewPolicySet creates a new, empty PolicySet.
func NewPolicySet() *PolicySet {
	return &PolicySet{policies: map[PolicyID]*ast.Policy{}}
}

// Get returns the policy with the given ID, or nil if none exists.
func (p *PolicySet) Get(policyID PolicyID) *ast.Policy {
	return p.policies[policyID]
}

// Add inserts or updates a policy with the given ID. Returns true if a
// policy with the given ID did not already exist in the set. Updating a
// policy keeps its original position in the iteration order.
func (p *PolicySet) Add(policyID PolicyID, policy *ast.Policy) bool {
	_, exists := p.policies[policyID]
	p.policies[policyID] = policy
	if !exists {
		p.order = append(p.order, policyID)
	}
	return !exists
}

// Remove removes a policy from the PolicySet. Returns true if a policy
// with the given ID existed in the set.
func (p *PolicySet) Remove(policyID PolicyID) bool {
	_, exists := p.policies[policyID]
	if exists {
		delete(p.policies, policyID)
		p.order = slices.DeleteFunc(p.order, func(id PolicyID) bool {
			return id == policyID
		})
	}
	return exists
}

// Len returns the number of policies in the set.
func (p *PolicySet) Len() int {
	return len(p.policies)
}

// All returns an iterator over the (PolicyID, *Policy) tuples in the
// PolicySet, in insertion order.
func (p *PolicySet) All() iter.Seq2[PolicyID, *ast.Policy] {
	return func(yield func(PolicyID, *ast.Policy) bool) {
		for _, id := range p.order {
			if !yield(id, p.policies[id]) {
				return
			}
		}
	}
}
