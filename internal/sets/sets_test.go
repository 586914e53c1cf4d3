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

package sets

import (
	"slices"
	"testing"
)

func TestImmutable(t *testing.T) {
	empty := Immutable[string]{}
	if empty.Len() != 0 || empty.Contains("a") {
		t.Error("zero value must be an empty set")
	}

	s := NewImmutable("b", "a", "b")
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 after dedup", s.Len())
	}
	if !s.Contains("a") || !s.Contains("b") || s.Contains("c") {
		t.Error("membership mismatch")
	}

	if got := s.Slice(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Slice() = %v, want sorted [a b]", got)
	}
}

func TestImmutableUnion(t *testing.T) {
	a := NewImmutable("x", "y")
	b := NewImmutable("y", "z")

	u := a.Union(b)
	if u.Len() != 3 {
		t.Errorf("union Len() = %d, want 3", u.Len())
	}
	// Union must not mutate its inputs.
	if a.Len() != 2 || b.Len() != 2 {
		t.Error("Union mutated an input set")
	}
}

func TestImmutableEqual(t *testing.T) {
	if !NewImmutable("a", "b").Equal(NewImmutable("b", "a")) {
		t.Error("element order must not affect equality")
	}
	if NewImmutable("a").Equal(NewImmutable("a", "b")) {
		t.Error("sets of different size reported equal")
	}
	if !(Immutable[string]{}).Equal(NewImmutable[string]()) {
		t.Error("two empty sets must be equal")
	}
}
