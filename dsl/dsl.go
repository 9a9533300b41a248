// Package dsl offers a fluent way to assemble AST shapes.
//
//	user := dsl.Object().
//		Field("name", dsl.String()).Required().
//		Field("age", dsl.Number()).Optional().
//		Build()
package dsl

import "github.com/reoring/goshape/ast"

func String() ast.Node  { return ast.StringKeyword }
func Number() ast.Node  { return ast.NumberKeyword }
func Bool() ast.Node    { return ast.BooleanKeyword }
func BigInt() ast.Node  { return ast.BigIntKeyword }
func Unknown() ast.Node { return ast.UnknownKeyword }

// Literal is a single-value shape.
func Literal(v any) ast.Node { return ast.NewLiteral(v) }

// Enum is the union of the given literals.
func Enum(vs ...any) ast.Node {
	ns := make([]ast.Node, len(vs))
	for i, v := range vs {
		ns[i] = ast.NewLiteral(v)
	}
	return ast.NewUnion(ns...)
}

// Array is a readonly array of item.
func Array(item ast.Node) ast.Node { return ast.Array(item) }

// Union normalizes the members (see ast.NewUnion).
func Union(members ...ast.Node) ast.Node { return ast.NewUnion(members...) }

// Nullable is n or null.
func Nullable(n ast.Node) ast.Node { return ast.NewUnion(ast.NewLiteral(nil), n) }

// Lazy defers f, for recursive shapes.
func Lazy(f func() ast.Node) ast.Node { return ast.NewLazy(f) }

type objectBuilder struct {
	fields []ast.Field
	index  ast.IndexSignatures
}

type fieldStep struct {
	b *objectBuilder
	i int
}

// Object starts a struct. Fields keep their declaration order and are
// required unless marked otherwise.
func Object() *objectBuilder { return &objectBuilder{} }

// Field appends a field, replacing an earlier one with the same key.
func (b *objectBuilder) Field(key string, n ast.Node) *fieldStep {
	for i, f := range b.fields {
		if f.Key == key {
			b.fields[i] = ast.NewField(key, n, false, false)
			return &fieldStep{b: b, i: i}
		}
	}
	b.fields = append(b.fields, ast.NewField(key, n, false, false))
	return &fieldStep{b: b, i: len(b.fields) - 1}
}

// Required marks the field as required (default) and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.fields[f.i].Optional = false
	return f.b
}

// Optional marks the field as optional and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	f.b.fields[f.i].Optional = true
	return f.b
}

// Readonly marks the field as readonly.
func (f *fieldStep) Readonly() *fieldStep {
	f.b.fields[f.i].Readonly = true
	return f
}

// Rest lets keys beyond the declared fields through when their values match n.
func (b *objectBuilder) Rest(n ast.Node) *objectBuilder {
	b.index.String = ast.NewIndexSignature(n, false)
	return b
}

// Build returns the struct node. The builder can keep being used.
func (b *objectBuilder) Build() *ast.Struct {
	return ast.NewStruct(append([]ast.Field(nil), b.fields...), b.index)
}

type variant struct {
	name string
	b    *objectBuilder
}

// Variant names one member of a discriminated union.
func Variant(name string, b *objectBuilder) variant { return variant{name: name, b: b} }

// Discriminated builds the union of variants, each extended with a required
// literal field named key holding the variant name.
func Discriminated(key string, variants ...variant) ast.Node {
	members := make([]ast.Node, 0, len(variants))
	for _, v := range variants {
		fields := append([]ast.Field{ast.NewField(key, ast.NewLiteral(v.name), false, false)}, v.b.fields...)
		members = append(members, ast.NewStruct(fields, v.b.index))
	}
	return ast.NewUnion(members...)
}
