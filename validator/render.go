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
	"fmt"
	"strings"

	"github.com/cedarlint/cedarlint/ast"
)

// exprString renders an expression back to policy-like text. The rendering
// is canonical: two structurally equal expressions render identically, which
// is what the capability tracker keys on. It is also used as diagnostic
// evidence; it need not round-trip through a parser.
func exprString(n ast.IsNode) string {
	switch v := n.(type) {
	case ast.NodeValue:
		return v.Value.String()
	case ast.NodeTypeVariable:
		return string(v.Name)
	case ast.NodeTypeNot:
		return "!" + exprString(v.Arg)
	case ast.NodeTypeNegate:
		return "-" + exprString(v.Arg)
	case ast.NodeTypeAnd:
		return binaryString(v.Left, "&&", v.Right)
	case ast.NodeTypeOr:
		return binaryString(v.Left, "||", v.Right)
	case ast.NodeTypeEquals:
		return binaryString(v.Left, "==", v.Right)
	case ast.NodeTypeNotEquals:
		return binaryString(v.Left, "!=", v.Right)
	case ast.NodeTypeLessThan:
		return binaryString(v.Left, "<", v.Right)
	case ast.NodeTypeLessThanOrEqual:
		return binaryString(v.Left, "<=", v.Right)
	case ast.NodeTypeGreaterThan:
		return binaryString(v.Left, ">", v.Right)
	case ast.NodeTypeGreaterThanOrEqual:
		return binaryString(v.Left, ">=", v.Right)
	case ast.NodeTypeAdd:
		return binaryString(v.Left, "+", v.Right)
	case ast.NodeTypeSub:
		return binaryString(v.Left, "-", v.Right)
	case ast.NodeTypeMult:
		return binaryString(v.Left, "*", v.Right)
	case ast.NodeTypeIn:
		return binaryString(v.Left, "in", v.Right)
	case ast.NodeTypeIs:
		return fmt.Sprintf("%s is %s", exprString(v.Left), v.EntityType)
	case ast.NodeTypeIsIn:
		return fmt.Sprintf("%s is %s in %s", exprString(v.Left), v.EntityType, exprString(v.Entity))
	case ast.NodeTypeAccess:
		return fmt.Sprintf("%s[%q]", exprString(v.Arg), string(v.Value))
	case ast.NodeTypeHas:
		return fmt.Sprintf("%s has %q", exprString(v.Arg), string(v.Value))
	case ast.NodeTypeLike:
		return fmt.Sprintf("%s like %q", exprString(v.Arg), string(v.Value))
	case ast.NodeTypeContains:
		return methodString(v.Left, "contains", v.Right)
	case ast.NodeTypeContainsAll:
		return methodString(v.Left, "containsAll", v.Right)
	case ast.NodeTypeContainsAny:
		return methodString(v.Left, "containsAny", v.Right)
	case ast.NodeTypeIsEmpty:
		return exprString(v.Arg) + ".isEmpty()"
	case ast.NodeTypeGetTag:
		return methodString(v.Left, "getTag", v.Right)
	case ast.NodeTypeHasTag:
		return methodString(v.Left, "hasTag", v.Right)
	case ast.NodeTypeIfThenElse:
		return fmt.Sprintf("if %s then %s else %s", exprString(v.If), exprString(v.Then), exprString(v.Else))
	case ast.NodeTypeSet:
		elems := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = exprString(e)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case ast.NodeTypeRecord:
		entries := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			entries[i] = fmt.Sprintf("%q: %s", string(e.Key), exprString(e.Value))
		}
		return "{" + strings.Join(entries, ", ") + "}"
	case ast.NodeTypeExtensionCall:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", v.Name, strings.Join(args, ", "))
	}
	return "<unknown>"
}

func binaryString(left ast.IsNode, op string, right ast.IsNode) string {
	return fmt.Sprintf("(%s %s %s)", exprString(left), op, exprString(right))
}

func methodString(left ast.IsNode, name string, right ast.IsNode) string {
	return fmt.Sprintf("%s.%s(%s)", exprString(left), name, exprString(right))
}
