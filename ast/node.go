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

package ast

import "github.com/cedarlint/cedarlint/types"

// IsNode is implemented by every expression node. The set of node types is
// closed; consumers switch exhaustively over it.
type IsNode interface {
	isNode()
}

type node struct{}

func (node) isNode() {}

// NodeValue is a literal value.
type NodeValue struct {
	node
	Value types.Value
}

// NodeTypeVariable references one of the four policy variables: principal,
// action, resource, or context.
type NodeTypeVariable struct {
	node
	Name types.String
}

// UnaryNode is embedded by nodes with a single operand.
type UnaryNode struct {
	node
	Arg IsNode
}

// BinaryNode is embedded by nodes with two operands.
type BinaryNode struct {
	node
	Left, Right IsNode
}

// StrOpNode is embedded by nodes with an operand and a string, such as
// attribute access.
type StrOpNode struct {
	node
	Arg   IsNode
	Value types.String
}

type NodeTypeNot struct{ UnaryNode }

type NodeTypeNegate struct{ UnaryNode }

type NodeTypeAnd struct{ BinaryNode }

type NodeTypeOr struct{ BinaryNode }

type NodeTypeEquals struct{ BinaryNode }

type NodeTypeNotEquals struct{ BinaryNode }

type NodeTypeLessThan struct{ BinaryNode }

type NodeTypeLessThanOrEqual struct{ BinaryNode }

type NodeTypeGreaterThan struct{ BinaryNode }

type NodeTypeGreaterThanOrEqual struct{ BinaryNode }

type NodeTypeAdd struct{ BinaryNode }

type NodeTypeSub struct{ BinaryNode }

type NodeTypeMult struct{ BinaryNode }

// NodeTypeIn is the hierarchy membership test: left in right.
type NodeTypeIn struct{ BinaryNode }

// NodeTypeIs is the entity type test: left is EntityType.
type NodeTypeIs struct {
	node
	Left       IsNode
	EntityType types.EntityType
}

// NodeTypeIsIn combines a type test with a hierarchy test:
// left is EntityType in entity.
type NodeTypeIsIn struct {
	node
	Left       IsNode
	EntityType types.EntityType
	Entity     IsNode
}

// NodeTypeAccess is attribute access: arg.value.
type NodeTypeAccess struct{ StrOpNode }

// NodeTypeHas is the attribute presence test: arg has value.
type NodeTypeHas struct{ StrOpNode }

// NodeTypeLike is the string pattern match: arg like value.
type NodeTypeLike struct{ StrOpNode }

type NodeTypeContains struct{ BinaryNode }

type NodeTypeContainsAll struct{ BinaryNode }

type NodeTypeContainsAny struct{ BinaryNode }

type NodeTypeIsEmpty struct{ UnaryNode }

// NodeTypeGetTag is tag access: left.getTag(right).
type NodeTypeGetTag struct{ BinaryNode }

// NodeTypeHasTag is the tag presence test: left.hasTag(right).
type NodeTypeHasTag struct{ BinaryNode }

type NodeTypeIfThenElse struct {
	node
	If, Then, Else IsNode
}

// NodeTypeSet is a set literal.
type NodeTypeSet struct {
	node
	Elements []IsNode
}

// RecordElementNode is one key/value pair of a record literal.
type RecordElementNode struct {
	Key   types.String
	Value IsNode
}

// NodeTypeRecord is a record literal.
type NodeTypeRecord struct {
	node
	Elements []RecordElementNode
}

// NodeTypeExtensionCall is a call to an extension function, with the method
// receiver (if any) as the first argument.
type NodeTypeExtensionCall struct {
	node
	Name types.Path
	Args []IsNode
}
