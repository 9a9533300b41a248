// Package ast defines the immutable tree describing data shapes and the pure
// structural operations over it (union normalization, key algebra, partial,
// struct merge).
//
// Nodes are never mutated after construction. Interpreters (decoder, guard,
// encoder) compile a Node into an artifact through package interp.
package ast

import (
	"math/big"
	"sync"

	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/symbol"
	"github.com/reoring/goshape/value"
)

// NodeKind identifies an AST node variant.
type NodeKind int

const (
	KindTypeAliasDeclaration NodeKind = iota
	KindLiteral
	KindUndefined
	KindNever
	KindUnknown
	KindAny
	KindString
	KindNumber
	KindBoolean
	KindBigInt
	KindSymbol
	KindStruct
	KindTuple
	KindUnion
	KindLazy
)

// Node is the root AST interface.
type Node interface {
	Kind() NodeKind
}

// TypeAliasDeclaration is a named, possibly generic type whose interpreters
// are supplied by providers keyed on ID.
type TypeAliasDeclaration struct {
	ID             symbol.Symbol
	Config         any
	HasConfig      bool
	Provider       provider.Registry
	TypeParameters []Node
	Type           Node
}

func (*TypeAliasDeclaration) Kind() NodeKind { return KindTypeAliasDeclaration }

// Declare builds a declaration without config.
func Declare(id symbol.Symbol, p provider.Registry, typeParameters []Node, typ Node) *TypeAliasDeclaration {
	return &TypeAliasDeclaration{ID: id, Provider: p, TypeParameters: typeParameters, Type: typ}
}

// DeclareWithConfig builds a declaration whose handlers are first applied to config.
func DeclareWithConfig(id symbol.Symbol, config any, p provider.Registry, typeParameters []Node, typ Node) *TypeAliasDeclaration {
	return &TypeAliasDeclaration{ID: id, Config: config, HasConfig: true, Provider: p, TypeParameters: typeParameters, Type: typ}
}

// Literal is an exact-value type. Value is one of string, float64, bool, nil,
// *big.Int or symbol.Symbol.
type Literal struct {
	Value any
}

func (*Literal) Kind() NodeKind { return KindLiteral }

// NewLiteral builds a literal node. Go numeric values are widened to float64
// so that literals compare equal to decoded JSON numbers.
func NewLiteral(v any) *Literal {
	if n, ok := v.(*big.Int); ok {
		return &Literal{Value: new(big.Int).Set(n)}
	}
	if f, ok := value.Float(v); ok {
		v = f
	}
	return &Literal{Value: v}
}

// Keyword is a primitive, top or bottom type.
type Keyword struct {
	kind NodeKind
}

func (k *Keyword) Kind() NodeKind { return k.kind }

var (
	UndefinedKeyword = &Keyword{kind: KindUndefined}
	NeverKeyword     = &Keyword{kind: KindNever}
	UnknownKeyword   = &Keyword{kind: KindUnknown}
	AnyKeyword       = &Keyword{kind: KindAny}
	StringKeyword    = &Keyword{kind: KindString}
	NumberKeyword    = &Keyword{kind: KindNumber}
	BooleanKeyword   = &Keyword{kind: KindBoolean}
	BigIntKeyword    = &Keyword{kind: KindBigInt}
	SymbolKeyword    = &Keyword{kind: KindSymbol}
)

// Field is one struct member.
type Field struct {
	Key      string
	Value    Node
	Optional bool
	Readonly bool
}

// NewField builds a Field.
func NewField(key string, value Node, optional, readonly bool) Field {
	return Field{Key: key, Value: value, Optional: optional, Readonly: readonly}
}

// IndexSignature maps every key of one domain to Value.
type IndexSignature struct {
	Value    Node
	Readonly bool
}

// NewIndexSignature builds an index signature.
func NewIndexSignature(value Node, readonly bool) *IndexSignature {
	return &IndexSignature{Value: value, Readonly: readonly}
}

// IndexSignatures holds at most one signature per key domain; nil means absent.
type IndexSignatures struct {
	String *IndexSignature
	Number *IndexSignature
	Symbol *IndexSignature
}

func (s IndexSignatures) count() int {
	n := 0
	for _, sig := range []*IndexSignature{s.String, s.Number, s.Symbol} {
		if sig != nil {
			n++
		}
	}
	return n
}

// Struct is a record shape. Field keys are not required to be unique.
type Struct struct {
	Fields          []Field
	IndexSignatures IndexSignatures
}

func (*Struct) Kind() NodeKind { return KindStruct }

// NewStruct builds a Struct.
func NewStruct(fields []Field, indexSignatures IndexSignatures) *Struct {
	return &Struct{Fields: fields, IndexSignatures: indexSignatures}
}

// Component is one tuple slot.
type Component struct {
	Value    Node
	Optional bool
}

// NewComponent builds a Component.
func NewComponent(value Node, optional bool) Component {
	return Component{Value: value, Optional: optional}
}

// Tuple is a fixed or variadic sequence. Rest is nil when there is no rest element.
type Tuple struct {
	Components []Component
	Rest       Node
	Readonly   bool
}

func (*Tuple) Kind() NodeKind { return KindTuple }

// NewTuple builds a Tuple; pass a nil rest for a fixed-length tuple.
func NewTuple(components []Component, rest Node, readonly bool) *Tuple {
	return &Tuple{Components: components, Rest: rest, Readonly: readonly}
}

// Array is a readonly tuple made only of a rest element.
func Array(item Node) *Tuple { return NewTuple(nil, item, true) }

// Union is a sum of at least two distinct members, sorted by descending
// specificity weight. Build it with NewUnion.
type Union struct {
	Members []Node
}

func (*Union) Kind() NodeKind { return KindUnion }

// Lazy defers the construction of a possibly self-referential node. The
// producer runs at most once; it must not force the Lazy it belongs to.
type Lazy struct {
	once sync.Once
	f    func() Node
	node Node
}

func (*Lazy) Kind() NodeKind { return KindLazy }

// NewLazy wraps a producer.
func NewLazy(f func() Node) *Lazy { return &Lazy{f: f} }

// Force evaluates the producer on first use and returns the memoized node.
func (l *Lazy) Force() Node {
	l.once.Do(func() { l.node = l.f() })
	return l.node
}
