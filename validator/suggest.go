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

import "github.com/sahilm/fuzzy"

// SuggestFunc proposes the closest match for a misspelled name out of a
// pool of declared names. It returns false when no candidate is plausible.
// It must be a pure function; the checker calls it only to populate
// suggestion fields, never for typing decisions.
type SuggestFunc func(name string, pool []string) (string, bool)

// FuzzySuggest is the default SuggestFunc, backed by fuzzy matching
// against the declared names.
func FuzzySuggest(name string, pool []string) (string, bool) {
	matches := fuzzy.Find(name, pool)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}
