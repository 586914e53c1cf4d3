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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lattice(t *testing.T, strict bool) lubber {
	t.Helper()
	return lubber{schema: testSchema(t, testSchemaJSON), strict: strict}
}

func TestLubPrimitives(t *testing.T) {
	l := lattice(t, false)

	tests := []struct {
		name string
		a, b Type
		want Type
		ok   bool
	}{
		{"bool/bool", BoolType{}, BoolType{}, BoolType{}, true},
		{"long/long", LongType{}, LongType{}, LongType{}, true},
		{"string/string", StringType{}, StringType{}, StringType{}, true},
		{"long/string", LongType{}, StringType{}, nil, false},
		{"bool/long", BoolType{}, LongType{}, nil, false},
		{"ext/ext", ipType, ipType, ipType, true},
		{"ext/otherext", ipType, decimalType, nil, false},
		{"never/long", NeverType{}, LongType{}, LongType{}, true},
		{"long/never", LongType{}, NeverType{}, LongType{}, true},
		{"set-long/set-long", SetType{Element: LongType{}}, SetType{Element: LongType{}}, SetType{Element: LongType{}}, true},
		{"set-long/set-string", SetType{Element: LongType{}}, SetType{Element: StringType{}}, nil, false},
		{"empty-set/set-long", SetType{Element: NeverType{}}, SetType{Element: LongType{}}, SetType{Element: LongType{}}, true},
		{"long/set-long", LongType{}, SetType{Element: LongType{}}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := l.lub(tt.a, tt.b)
			if ok != tt.ok {
				t.Fatalf("lub(%v, %v) ok = %v, want %v", tt.a, tt.b, ok, tt.ok)
			}
			if ok && !TypesEqual(got, tt.want) {
				t.Errorf("lub(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLubIsCommutative(t *testing.T) {
	l := lattice(t, false)

	samples := []Type{
		BoolType{}, LongType{}, StringType{}, NeverType{}, AnyEntity{},
		NewEntityLUB("User"), NewEntityLUB("Group"),
		SetType{Element: LongType{}}, SetType{Element: NeverType{}},
		RecordType{Attributes: map[string]AttributeType{"a": {Type: LongType{}, Required: true}}},
		ipType, decimalType,
	}
	for _, a := range samples {
		for _, b := range samples {
			ab, _, okAB := l.lub(a, b)
			ba, _, okBA := l.lub(b, a)
			if okAB != okBA {
				t.Errorf("lub(%v, %v) ok = %v but reversed = %v", a, b, okAB, okBA)
				continue
			}
			if okAB && !TypesEqual(ab, ba) {
				t.Errorf("lub(%v, %v) = %v but reversed = %v", a, b, ab, ba)
			}
		}
	}
}

func TestLubEntityUnions(t *testing.T) {
	l := lattice(t, false)

	got, _, ok := l.lub(NewEntityLUB("User"), NewEntityLUB("Admin"))
	if !ok {
		t.Fatal("standard mode must join any entity types")
	}
	lub, ok := got.(EntityLUB)
	if !ok {
		t.Fatalf("join = %T, want EntityLUB", got)
	}
	if !lub.Contains("User") || !lub.Contains("Admin") {
		t.Errorf("union %v missing a member", lub)
	}

	got, _, ok = l.lub(NewEntityLUB("User"), AnyEntity{})
	if !ok {
		t.Fatal("entity/AnyEntity join failed")
	}
	if _, isAny := got.(AnyEntity); !isAny {
		t.Errorf("entity joined with AnyEntity = %v, want AnyEntity", got)
	}
}

func TestLubStrictRefusesUnrelatedEntities(t *testing.T) {
	l := lattice(t, true)

	_, help, ok := l.lub(NewEntityLUB("User"), NewEntityLUB("Admin"))
	if ok {
		t.Fatal("strict mode joined unrelated entity types")
	}
	if help != LubHelpUnrelatedEntityTypes {
		t.Errorf("help = %q, want %q", help, LubHelpUnrelatedEntityTypes)
	}

	// User is a declared member of Group, so the pair is related.
	if _, _, ok := l.lub(NewEntityLUB("User"), NewEntityLUB("Group")); !ok {
		t.Error("strict mode refused a hierarchy-related join")
	}
}

func TestLubRecords(t *testing.T) {
	wide := RecordType{Attributes: map[string]AttributeType{
		"a": {Type: LongType{}, Required: true},
		"b": {Type: StringType{}, Required: true},
	}}
	narrow := RecordType{Attributes: map[string]AttributeType{
		"a": {Type: LongType{}, Required: true},
	}}

	standard := lattice(t, false)
	got, _, ok := standard.lub(wide, narrow)
	if !ok {
		t.Fatal("standard mode must widen record joins")
	}
	want := RecordType{Attributes: map[string]AttributeType{
		"a": {Type: LongType{}, Required: true},
		"b": {Type: StringType{}, Required: false},
	}}
	if !TypesEqual(got, want) {
		t.Errorf("join = %v, want %v", got, want)
	}

	strict := lattice(t, true)
	_, help, ok := strict.lub(wide, narrow)
	if ok {
		t.Fatal("strict mode joined records of different shapes")
	}
	if help != LubHelpDifferentShapes {
		t.Errorf("help = %q, want %q", help, LubHelpDifferentShapes)
	}
}

func TestLubEmptySetHint(t *testing.T) {
	l := lattice(t, false)

	_, help, ok := l.lub(SetType{Element: NeverType{}}, LongType{})
	if ok {
		t.Fatal("expected empty set and Long not to join")
	}
	if help != LubHelpEmptySetLiteral {
		t.Errorf("help = %q, want %q", help, LubHelpEmptySetLiteral)
	}
}

func TestLubAllEvidence(t *testing.T) {
	l := lattice(t, false)

	_, offenders, _, ok := l.lubAll([]Type{LongType{}, LongType{}, StringType{}, LongType{}})
	if ok {
		t.Fatal("expected mixed primitive join to fail")
	}
	want := []Type{LongType{}, StringType{}}
	if diff := cmp.Diff(typeStrings(want), typeStrings(offenders)); diff != "" {
		t.Errorf("offending types mismatch (-want +got):\n%s", diff)
	}
}

func typeStrings(ts []Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}
