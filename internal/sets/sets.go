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

// Package sets provides an immutable set of ordered comparable elements.
package sets

import (
	"slices"

	"golang.org/x/exp/maps"
)

// An Immutable is an immutable collection of unique ordered elements.
// The zero value is an empty set.
type Immutable[T ~string] struct {
	s map[T]struct{}
}

// NewImmutable returns an Immutable set of the given elements. Duplicates
// are removed.
func NewImmutable[T ~string](elems ...T) Immutable[T] {
	var set map[T]struct{}
	if len(elems) > 0 {
		set = make(map[T]struct{}, len(elems))
	}
	for _, e := range elems {
		set[e] = struct{}{}
	}
	return Immutable[T]{s: set}
}

// Len returns the number of unique elements in the set.
func (s Immutable[T]) Len() int {
	return len(s.s)
}

// Contains reports whether e is present in the set.
func (s Immutable[T]) Contains(e T) bool {
	_, ok := s.s[e]
	return ok
}

// Union returns a new set holding the elements of both sets.
func (s Immutable[T]) Union(o Immutable[T]) Immutable[T] {
	merged := make(map[T]struct{}, len(s.s)+len(o.s))
	maps.Copy(merged, s.s)
	maps.Copy(merged, o.s)
	return Immutable[T]{s: merged}
}

// Equal reports whether both sets hold exactly the same elements.
func (s Immutable[T]) Equal(o Immutable[T]) bool {
	if len(s.s) != len(o.s) {
		return false
	}
	for e := range s.s {
		if _, ok := o.s[e]; !ok {
			return false
		}
	}
	return true
}

// Slice returns the elements in sorted order. The result is safe to mutate.
func (s Immutable[T]) Slice() []T {
	out := maps.Keys(s.s)
	slices.Sort(out)
	return out
}
