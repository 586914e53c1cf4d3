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

package schema

import (
	"encoding/json"
	"testing"

	"github.com/cedarlint/cedarlint/types"
)

func parseSchema(t *testing.T, src string) *Schema {
	t.Helper()
	s := New()
	if err := json.Unmarshal([]byte(src), s); err != nil {
		t.Fatalf("failed to parse schema: %v", err)
	}
	return s
}

func TestParseFlatSchema(t *testing.T) {
	s := parseSchema(t, `{
		"entityTypes": {
			"User": {
				"shape": {
					"type": "Record",
					"attributes": {
						"name": {"type": "String"},
						"age": {"type": "Long", "required": false},
						"teams": {"type": "Set", "element": {"type": "Entity", "name": "Team"}}
					}
				},
				"memberOfTypes": ["Team"],
				"tags": {"type": "String"}
			},
			"Team": {}
		},
		"actions": {
			"join": {
				"appliesTo": {
					"principalTypes": ["User"],
					"resourceTypes": ["Team"],
					"context": {
						"type": "Record",
						"attributes": {"invited": {"type": "Boolean"}}
					}
				}
			}
		}
	}`)

	user, ok := s.EntityTypes["User"]
	if !ok {
		t.Fatal("User not declared")
	}
	if user.Open {
		t.Error("User has a shape, so it must be closed")
	}

	name, ok := user.Attributes["name"]
	if !ok || !name.Required {
		t.Errorf("name = (%+v, %v), want required String", name, ok)
	}
	if _, isString := name.Type.(StringType); !isString {
		t.Errorf("name.Type = %T, want StringType", name.Type)
	}

	age, ok := user.Attributes["age"]
	if !ok || age.Required {
		t.Errorf("age = (%+v, %v), want optional Long", age, ok)
	}

	teams, ok := user.Attributes["teams"]
	if !ok {
		t.Fatal("teams not declared")
	}
	set, ok := teams.Type.(SetType)
	if !ok {
		t.Fatalf("teams.Type = %T, want SetType", teams.Type)
	}
	ref, ok := set.Element.(EntityRefType)
	if !ok || ref.Name != "Team" {
		t.Errorf("teams element = %v, want Entity<Team>", set.Element)
	}

	if _, isString := user.Tags.(StringType); !isString {
		t.Errorf("User.Tags = %T, want StringType", user.Tags)
	}
	if len(user.MemberOfTypes) != 1 || user.MemberOfTypes[0] != "Team" {
		t.Errorf("MemberOfTypes = %v, want [Team]", user.MemberOfTypes)
	}

	team, ok := s.EntityTypes["Team"]
	if !ok {
		t.Fatal("Team not declared")
	}
	if !team.Open {
		t.Error("Team has no shape, so it must be open")
	}
	if team.Tags != nil {
		t.Error("Team declares no tags")
	}

	join, ok := s.Actions[types.NewEntityUID("Action", "join")]
	if !ok {
		t.Fatal("join action not declared")
	}
	if len(join.PrincipalTypes) != 1 || join.PrincipalTypes[0] != "User" {
		t.Errorf("PrincipalTypes = %v, want [User]", join.PrincipalTypes)
	}
	invited, ok := join.Context.Attributes["invited"]
	if !ok || !invited.Required {
		t.Errorf("context invited = (%+v, %v), want required Boolean", invited, ok)
	}
}

func TestParseNamespacedSchema(t *testing.T) {
	s := parseSchema(t, `{
		"PhotoApp": {
			"entityTypes": {
				"User": {"memberOfTypes": ["PhotoApp::Group"]},
				"Group": {}
			},
			"actions": {
				"viewPhoto": {
					"appliesTo": {
						"principalTypes": ["PhotoApp::User"],
						"resourceTypes": ["PhotoApp::User"]
					},
					"memberOf": [{"id": "readOnly"}]
				},
				"readOnly": {}
			}
		}
	}`)

	if _, ok := s.EntityTypes["PhotoApp::User"]; !ok {
		t.Errorf("expected PhotoApp::User, declared: %v", s.EntityTypeNames())
	}
	if _, ok := s.EntityTypes["User"]; ok {
		t.Error("bare User must not leak out of the namespace")
	}

	view, ok := s.Actions[types.NewEntityUID("PhotoApp::Action", "viewPhoto")]
	if !ok {
		t.Fatal("PhotoApp::Action::\"viewPhoto\" not declared")
	}
	if len(view.MemberOf) != 1 || view.MemberOf[0].ID != "readOnly" {
		t.Errorf("MemberOf = %v, want [Action::\"readOnly\"]", view.MemberOf)
	}
}

func TestParseCommonTypes(t *testing.T) {
	s := parseSchema(t, `{
		"App": {
			"commonTypes": {
				"Address": {
					"type": "Record",
					"attributes": {"street": {"type": "String"}}
				}
			},
			"entityTypes": {
				"User": {
					"shape": {
						"type": "Record",
						"attributes": {"home": {"type": "Address"}}
					}
				}
			},
			"actions": {}
		}
	}`)

	user := s.EntityTypes["App::User"]
	if user == nil {
		t.Fatal("App::User not declared")
	}
	home, ok := user.Attributes["home"]
	if !ok {
		t.Fatal("home not declared")
	}
	rec, ok := home.Type.(RecordType)
	if !ok {
		t.Fatalf("home.Type = %T, want the expanded Address record", home.Type)
	}
	if _, ok := rec.Attributes["street"]; !ok {
		t.Error("Address expansion lost the street attribute")
	}
}

func TestParseExtensionTypes(t *testing.T) {
	s := parseSchema(t, `{
		"entityTypes": {
			"Host": {
				"shape": {
					"type": "Record",
					"attributes": {
						"addr": {"type": "Extension", "name": "ipaddr"},
						"uptime": {"type": "Extension", "name": "duration"}
					}
				}
			}
		},
		"actions": {}
	}`)

	host := s.EntityTypes["Host"]
	addr := host.Attributes["addr"].Type
	ext, ok := addr.(ExtensionType)
	if !ok || ext.Name != "ipaddr" {
		t.Errorf("addr = %v, want ipaddr extension", addr)
	}
}

func TestParseRejectsNonRecordContext(t *testing.T) {
	err := json.Unmarshal([]byte(`{
		"entityTypes": {"User": {}},
		"actions": {
			"act": {
				"appliesTo": {
					"principalTypes": ["User"],
					"resourceTypes": ["User"],
					"context": {"type": "String"}
				}
			}
		}
	}`), New())
	if err == nil {
		t.Error("expected error for non-record context")
	}
}

func TestParseRejectsUnknownTypeName(t *testing.T) {
	err := json.Unmarshal([]byte(`{
		"entityTypes": {
			"User": {
				"shape": {
					"type": "Record",
					"attributes": {"x": {"type": "Set"}}
				}
			}
		},
		"actions": {}
	}`), New())
	if err == nil {
		t.Error("expected error for Set without element")
	}
}

func TestCanBeDescendantOf(t *testing.T) {
	s := parseSchema(t, `{
		"entityTypes": {
			"User": {"memberOfTypes": ["Team"]},
			"Team": {"memberOfTypes": ["Org"]},
			"Org": {},
			"Device": {}
		},
		"actions": {}
	}`)

	tests := []struct {
		source, target types.EntityType
		want           bool
	}{
		{"User", "User", true},
		{"User", "Team", true},
		{"User", "Org", true},
		{"Team", "User", false},
		{"User", "Device", false},
		{"Device", "Org", false},
	}
	for _, tt := range tests {
		if got := s.CanBeDescendantOf(tt.source, tt.target); got != tt.want {
			t.Errorf("CanBeDescendantOf(%s, %s) = %v, want %v", tt.source, tt.target, got, tt.want)
		}
	}
}
