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

// Node wraps an expression node so conditions can be composed fluently:
//
//	ast.Principal().Access("department").Equal(ast.String("engineering"))
type Node struct {
	v IsNode
}

// NewNode wraps a raw expression node.
func NewNode(v IsNode) Node {
	return Node{v: v}
}

// AsIsNode unwraps the raw expression node.
func (n Node) AsIsNode() IsNode {
	return n.v
}

// Boolean returns a boolean literal node.
func Boolean(b types.Boolean) Node {
	return NewNode(NodeValue{Value: b})
}

// True returns a true literal node.
func True() Node {
	return Boolean(true)
}

// False returns a false literal node.
func False() Node {
	return Boolean(false)
}

// Long returns a long literal node.
func Long(l types.Long) Node {
	return NewNode(NodeValue{Value: l})
}

// String returns a string literal node.
func String(s types.String) Node {
	return NewNode(NodeValue{Value: s})
}

// EntityUID returns an entity reference literal node.
func EntityUID(typ types.EntityType, id types.String) Node {
	return NewNode(NodeValue{Value: types.NewEntityUID(typ, id)})
}

// Value returns a literal node for any value.
func Value(v types.Value) Node {
	return NewNode(NodeValue{Value: v})
}

// Principal references the principal variable.
func Principal() Node {
	return NewNode(NodeTypeVariable{Name: "principal"})
}

// Action references the action variable.
func Action() Node {
	return NewNode(NodeTypeVariable{Name: "action"})
}

// Resource references the resource variable.
func Resource() Node {
	return NewNode(NodeTypeVariable{Name: "resource"})
}

// Context references the context variable.
func Context() Node {
	return NewNode(NodeTypeVariable{Name: "context"})
}

// Set returns a set literal node.
func Set(nodes ...Node) Node {
	elements := make([]IsNode, len(nodes))
	for i, n := range nodes {
		elements[i] = n.v
	}
	return NewNode(NodeTypeSet{Elements: elements})
}

// Pair is a key/value pair of a record literal under construction.
type Pair struct {
	Key   types.String
	Value Node
}

// Pairs is an ordered list of record literal entries.
type Pairs []Pair

// Record returns a record literal node.
func Record(elements Pairs) Node {
	rec := NodeTypeRecord{Elements: make([]RecordElementNode, len(elements))}
	for i, e := range elements {
		rec.Elements[i] = RecordElementNode{Key: e.Key, Value: e.Value.v}
	}
	return NewNode(rec)
}

// ExtensionCall returns an extension function call node.
func ExtensionCall(name types.Path, args ...Node) Node {
	nodes := make([]IsNode, len(args))
	for i, a := range args {
		nodes[i] = a.v
	}
	return NewNode(NodeTypeExtensionCall{Name: name, Args: nodes})
}

// IPAddr returns an ip("...") constructor call node.
func IPAddr(s types.String) Node {
	return ExtensionCall("ip", String(s))
}

// Decimal returns a decimal("...") constructor call node.
func Decimal(s types.String) Node {
	return ExtensionCall("decimal", String(s))
}

// Datetime returns a datetime("...") constructor call node.
func Datetime(s types.String) Node {
	return ExtensionCall("datetime", String(s))
}

// Duration returns a duration("...") constructor call node.
func Duration(s types.String) Node {
	return ExtensionCall("duration", String(s))
}

// Not negates a boolean expression.
func Not(n Node) Node {
	return NewNode(NodeTypeNot{UnaryNode: UnaryNode{Arg: n.v}})
}

// Negate negates a long expression.
func Negate(n Node) Node {
	return NewNode(NodeTypeNegate{UnaryNode: UnaryNode{Arg: n.v}})
}

// IfThenElse returns a conditional expression node.
func IfThenElse(condition, thenNode, elseNode Node) Node {
	return NewNode(NodeTypeIfThenElse{If: condition.v, Then: thenNode.v, Else: elseNode.v})
}

func (lhs Node) And(rhs Node) Node {
	return NewNode(NodeTypeAnd{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) Or(rhs Node) Node {
	return NewNode(NodeTypeOr{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) Equal(rhs Node) Node {
	return NewNode(NodeTypeEquals{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) NotEqual(rhs Node) Node {
	return NewNode(NodeTypeNotEquals{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) LessThan(rhs Node) Node {
	return NewNode(NodeTypeLessThan{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) LessThanOrEqual(rhs Node) Node {
	return NewNode(NodeTypeLessThanOrEqual{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) GreaterThan(rhs Node) Node {
	return NewNode(NodeTypeGreaterThan{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) GreaterThanOrEqual(rhs Node) Node {
	return NewNode(NodeTypeGreaterThanOrEqual{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) Add(rhs Node) Node {
	return NewNode(NodeTypeAdd{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) Subtract(rhs Node) Node {
	return NewNode(NodeTypeSub{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) Multiply(rhs Node) Node {
	return NewNode(NodeTypeMult{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

// In tests hierarchy membership.
func (lhs Node) In(rhs Node) Node {
	return NewNode(NodeTypeIn{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

// Is tests the entity type of lhs.
func (lhs Node) Is(entityType types.EntityType) Node {
	return NewNode(NodeTypeIs{Left: lhs.v, EntityType: entityType})
}

// IsIn combines a type test with a hierarchy test.
func (lhs Node) IsIn(entityType types.EntityType, rhs Node) Node {
	return NewNode(NodeTypeIsIn{Left: lhs.v, EntityType: entityType, Entity: rhs.v})
}

// Access projects an attribute out of lhs.
func (lhs Node) Access(attr types.String) Node {
	return NewNode(NodeTypeAccess{StrOpNode: StrOpNode{Arg: lhs.v, Value: attr}})
}

// Has tests attribute presence on lhs.
func (lhs Node) Has(attr types.String) Node {
	return NewNode(NodeTypeHas{StrOpNode: StrOpNode{Arg: lhs.v, Value: attr}})
}

// Like matches lhs against a wildcard pattern.
func (lhs Node) Like(pattern types.String) Node {
	return NewNode(NodeTypeLike{StrOpNode: StrOpNode{Arg: lhs.v, Value: pattern}})
}

func (lhs Node) Contains(rhs Node) Node {
	return NewNode(NodeTypeContains{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) ContainsAll(rhs Node) Node {
	return NewNode(NodeTypeContainsAll{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) ContainsAny(rhs Node) Node {
	return NewNode(NodeTypeContainsAny{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

func (lhs Node) IsEmpty() Node {
	return NewNode(NodeTypeIsEmpty{UnaryNode: UnaryNode{Arg: lhs.v}})
}

// GetTag reads a tag off lhs.
func (lhs Node) GetTag(rhs Node) Node {
	return NewNode(NodeTypeGetTag{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}

// HasTag tests tag presence on lhs.
func (lhs Node) HasTag(rhs Node) Node {
	return NewNode(NodeTypeHasTag{BinaryNode: BinaryNode{Left: lhs.v, Right: rhs.v}})
}
