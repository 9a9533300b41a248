package decoder

import (
	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/interp"
	"github.com/reoring/goshape/provider"
)

// Kind is the interpreter kind of decoders. Declaration handlers registered
// under it take the compiled type parameters (Decoder[any] each) and return a
// Decoder[any].
const Kind provider.Kind = "Decoder"

// ProvideFor returns a function compiling nodes to decoders, resolving
// declarations through r (handlers on the declarations themselves win).
// Compilation panics with *interp.ConfigError when a declaration has no
// decoder handler.
func ProvideFor(r provider.Registry) func(ast.Node) Decoder[any] {
	c := interp.New(Kind, rules, r)
	return c.Compile
}

// For compiles n with no caller registry.
func For(n ast.Node) Decoder[any] { return ProvideFor(provider.Empty)(n) }

var rules = interp.Rules[Decoder[any]]{
	Literal: func(l *ast.Literal) Decoder[any] { return Literal(l.Value) },
	Keyword: keyword,
	Struct: func(s *ast.Struct, parts interp.StructParts[Decoder[any]]) Decoder[any] {
		props := make([]Prop, len(s.Fields))
		for i, f := range s.Fields {
			props[i] = Prop{Key: f.Key, Decoder: parts.Fields[i], Optional: f.Optional}
		}
		var index Index
		if parts.String != nil {
			index.String = *parts.String
		}
		if parts.Number != nil {
			index.Number = *parts.Number
		}
		return Erase(StructOf(props, index))
	},
	Tuple: func(t *ast.Tuple, parts interp.TupleParts[Decoder[any]]) Decoder[any] {
		slots := make([]Slot, len(t.Components))
		for i, c := range t.Components {
			slots[i] = Slot{Decoder: parts.Components[i], Optional: c.Optional}
		}
		var rest Decoder[any]
		if parts.Rest != nil {
			rest = *parts.Rest
		}
		return Erase(TupleOf(slots, rest))
	},
	Union: func(_ *ast.Union, members []Decoder[any]) Decoder[any] { return Union(members...) },
	Lazy: func(_ *ast.Lazy, force func() Decoder[any]) Decoder[any] {
		return Make(func(v any) Result[any] { return force().Decode(v) })
	},
}

func keyword(k *ast.Keyword) Decoder[any] {
	switch k.Kind() {
	case ast.KindString:
		return Erase(String)
	case ast.KindNumber:
		return Erase(Number)
	case ast.KindBoolean:
		return Erase(Boolean)
	case ast.KindBigInt:
		return Erase(BigInt)
	case ast.KindSymbol:
		return Erase(Symbol)
	case ast.KindUndefined:
		return Undefined
	case ast.KindNever:
		return Never
	default: // unknown, any
		return Unknown
	}
}
