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
	"fmt"

	"github.com/cedarlint/cedarlint/types"
)

// jsonNamespace represents a namespace in the Cedar JSON schema format.
type jsonNamespace struct {
	EntityTypes map[string]jsonEntityType `json:"entityTypes"`
	Actions     map[string]jsonAction     `json:"actions"`
	CommonTypes map[string]jsonType       `json:"commonTypes,omitempty"`
}

type jsonEntityType struct {
	Shape         *jsonType `json:"shape,omitempty"`
	MemberOfTypes []string  `json:"memberOfTypes,omitempty"`
	Tags          *jsonType `json:"tags,omitempty"`
}

type jsonAction struct {
	AppliesTo *jsonAppliesTo  `json:"appliesTo,omitempty"`
	MemberOf  []jsonActionRef `json:"memberOf,omitempty"`
}

type jsonAppliesTo struct {
	PrincipalTypes []string  `json:"principalTypes,omitempty"`
	ResourceTypes  []string  `json:"resourceTypes,omitempty"`
	Context        *jsonType `json:"context,omitempty"`
}

type jsonActionRef struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id"`
}

type jsonType struct {
	Type       string              `json:"type"`
	Element    *jsonType           `json:"element,omitempty"`
	Attributes map[string]jsonType `json:"attributes,omitempty"`
	Required   *bool               `json:"required,omitempty"`
	Name       string              `json:"name,omitempty"`
}

// UnmarshalJSON parses a schema in the Cedar JSON schema format. Both the
// namespace-keyed format and the flat single-namespace format are accepted.
func (s *Schema) UnmarshalJSON(data []byte) error {
	*s = *New()

	var namespaces map[string]*jsonNamespace
	if err := json.Unmarshal(data, &namespaces); err != nil {
		return fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	// A flat schema has "entityTypes" or "actions" at the top level, which
	// would otherwise be read as namespace names.
	if _, ok := namespaces["entityTypes"]; ok {
		return s.unmarshalFlat(data)
	}
	if _, ok := namespaces["actions"]; ok {
		return s.unmarshalFlat(data)
	}

	for nsName, ns := range namespaces {
		if ns == nil {
			continue
		}
		if err := s.parseNamespace(nsName, ns); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) unmarshalFlat(data []byte) error {
	var flat jsonNamespace
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	return s.parseNamespace("", &flat)
}

func (s *Schema) parseNamespace(nsName string, ns *jsonNamespace) error {
	common, err := parseCommonTypes(nsName, ns.CommonTypes)
	if err != nil {
		return err
	}

	for name, et := range ns.EntityTypes {
		fullName := types.EntityType(qualifiedName(nsName, name))
		decl, err := parseEntityType(fullName, &et, common)
		if err != nil {
			return err
		}
		s.EntityTypes[fullName] = decl
	}

	for name, act := range ns.Actions {
		decl, err := parseAction(name, &act, common)
		if err != nil {
			return err
		}
		uid := types.EntityUID{
			Type: types.EntityType(qualifiedName(nsName, "Action")),
			ID:   types.String(name),
		}
		s.Actions[uid] = decl
	}
	return nil
}

func parseCommonTypes(nsName string, commonTypes map[string]jsonType) (map[string]Type, error) {
	common := map[string]Type{}
	for name, jt := range commonTypes {
		t, err := parseType(&jt, common)
		if err != nil {
			return nil, fmt.Errorf("failed to parse common type %s: %w", qualifiedName(nsName, name), err)
		}
		common[qualifiedName(nsName, name)] = t
		common[name] = t
	}
	return common, nil
}

func parseEntityType(fullName types.EntityType, et *jsonEntityType, common map[string]Type) (*EntityTypeDecl, error) {
	decl := &EntityTypeDecl{
		Attributes:    map[string]Attribute{},
		MemberOfTypes: make([]types.EntityType, 0, len(et.MemberOfTypes)),
	}

	if et.Shape == nil {
		// No declared shape: any attributes allowed.
		decl.Open = true
	} else {
		for attrName, attr := range et.Shape.Attributes {
			at, err := parseAttribute(&attr, common)
			if err != nil {
				return nil, fmt.Errorf("failed to parse attribute %s.%s: %w", fullName, attrName, err)
			}
			decl.Attributes[attrName] = at
		}
	}

	if et.Tags != nil {
		tags, err := parseType(et.Tags, common)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tags of %s: %w", fullName, err)
		}
		decl.Tags = tags
	}

	for _, mot := range et.MemberOfTypes {
		decl.MemberOfTypes = append(decl.MemberOfTypes, types.EntityType(mot))
	}
	return decl, nil
}

func parseAction(name string, act *jsonAction, common map[string]Type) (*ActionDecl, error) {
	decl := &ActionDecl{
		Context: RecordType{Attributes: map[string]Attribute{}},
	}

	if act.AppliesTo != nil {
		for _, pt := range act.AppliesTo.PrincipalTypes {
			decl.PrincipalTypes = append(decl.PrincipalTypes, types.EntityType(pt))
		}
		for _, rt := range act.AppliesTo.ResourceTypes {
			decl.ResourceTypes = append(decl.ResourceTypes, types.EntityType(rt))
		}
		if act.AppliesTo.Context != nil {
			ctx, err := parseType(act.AppliesTo.Context, common)
			if err != nil {
				return nil, fmt.Errorf("failed to parse action %s context: %w", name, err)
			}
			rec, ok := ctx.(RecordType)
			if !ok {
				return nil, fmt.Errorf("action %s context must be a record", name)
			}
			decl.Context = rec
		}
	}

	for _, mo := range act.MemberOf {
		typ := "Action"
		if mo.Type != "" {
			typ = mo.Type
		}
		decl.MemberOf = append(decl.MemberOf, types.EntityUID{
			Type: types.EntityType(typ),
			ID:   types.String(mo.ID),
		})
	}
	return decl, nil
}

func qualifiedName(namespace, localName string) string {
	if namespace == "" {
		return localName
	}
	return namespace + "::" + localName
}

func parseType(jt *jsonType, common map[string]Type) (Type, error) {
	if jt == nil {
		return RecordType{Attributes: map[string]Attribute{}}, nil
	}

	switch jt.Type {
	case "Boolean", "Bool":
		return BoolType{}, nil
	case "Long":
		return LongType{}, nil
	case "String":
		return StringType{}, nil
	case "Entity":
		if jt.Name != "" {
			return EntityRefType{Name: types.EntityType(jt.Name)}, nil
		}
		return AnyEntityType{}, nil
	case "Set":
		if jt.Element == nil {
			return nil, fmt.Errorf("set type missing element")
		}
		elem, err := parseType(jt.Element, common)
		if err != nil {
			return nil, err
		}
		return SetType{Element: elem}, nil
	case "Record":
		rec := RecordType{Attributes: map[string]Attribute{}}
		for name, attr := range jt.Attributes {
			at, err := parseAttribute(&attr, common)
			if err != nil {
				return nil, err
			}
			rec.Attributes[name] = at
		}
		return rec, nil
	case "Extension":
		if jt.Name == "" {
			return nil, fmt.Errorf("extension type missing name")
		}
		return ExtensionType{Name: jt.Name}, nil
	default:
		// A common type or entity type reference.
		if ct, ok := common[jt.Type]; ok {
			return ct, nil
		}
		if jt.Type != "" {
			return EntityRefType{Name: types.EntityType(jt.Type)}, nil
		}
		return nil, fmt.Errorf("type missing kind")
	}
}

func parseAttribute(jt *jsonType, common map[string]Type) (Attribute, error) {
	required := true
	if jt.Required != nil {
		required = *jt.Required
	}
	t, err := parseType(jt, common)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Type: t, Required: required}, nil
}
