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

import "github.com/cedarlint/cedarlint/schema"

// latticeType converts a declared schema type into its lattice
// counterpart.
func latticeType(t schema.Type) Type {
	switch st := t.(type) {
	case schema.BoolType:
		return BoolType{}
	case schema.LongType:
		return LongType{}
	case schema.StringType:
		return StringType{}
	case schema.EntityRefType:
		return NewEntityLUB(st.Name)
	case schema.AnyEntityType:
		return AnyEntity{}
	case schema.SetType:
		return SetType{Element: latticeType(st.Element)}
	case schema.RecordType:
		return latticeRecord(st)
	case schema.ExtensionType:
		return ExtensionType{Name: st.Name}
	}
	return NeverType{}
}

func latticeRecord(r schema.RecordType) RecordType {
	attrs := make(map[string]AttributeType, len(r.Attributes))
	for name, a := range r.Attributes {
		attrs[name] = AttributeType{Type: latticeType(a.Type), Required: a.Required}
	}
	return RecordType{Attributes: attrs, Open: r.Open}
}
