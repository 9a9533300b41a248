// Package guard compiles shapes to membership tests.
package guard

import (
	"math/big"
	"strconv"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/interp"
	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/symbol"
	"github.com/reoring/goshape/value"
)

// Guard reports whether a value belongs to a shape.
type Guard func(v any) bool

// Kind is the interpreter kind of guards. Declaration handlers registered
// under it receive one Guard per type parameter and return a Guard.
const Kind provider.Kind = "Guard"

// ProvideFor returns a function compiling nodes to guards against r.
func ProvideFor(r provider.Registry) func(ast.Node) Guard {
	return interp.New(Kind, rules, r).Compile
}

// For compiles n with no caller registry.
func For(n ast.Node) Guard { return ProvideFor(provider.Empty)(n) }

var (
	String  Guard = func(v any) bool { _, ok := v.(string); return ok }
	Number  Guard = func(v any) bool { _, ok := value.Float(v); return ok }
	Boolean Guard = func(v any) bool { _, ok := v.(bool); return ok }
	BigInt  Guard = func(v any) bool { n, ok := v.(*big.Int); return ok && n != nil }
	Symbol  Guard = func(v any) bool { s, ok := v.(symbol.Symbol); return ok && !s.IsZero() }
	Unknown Guard = func(any) bool { return true }
	Never   Guard = func(any) bool { return false }
)

// Literal matches values equal to lit; Go numbers compare as float64.
func Literal(lit any) Guard {
	lit = ast.NewLiteral(lit).Value
	return func(v any) bool {
		if f, ok := value.Float(v); ok {
			v = f
		}
		return ast.LiteralEqual(lit, v)
	}
}

var rules = interp.Rules[Guard]{
	Literal: func(l *ast.Literal) Guard { return Literal(l.Value) },
	Keyword: func(k *ast.Keyword) Guard {
		switch k.Kind() {
		case ast.KindString:
			return String
		case ast.KindNumber:
			return Number
		case ast.KindBoolean:
			return Boolean
		case ast.KindBigInt:
			return BigInt
		case ast.KindSymbol:
			return Symbol
		case ast.KindUndefined:
			return value.IsUndefined
		case ast.KindNever:
			return Never
		}
		return Unknown
	},
	Struct: func(s *ast.Struct, parts interp.StructParts[Guard]) Guard {
		declared := make(map[string]struct{}, len(s.Fields))
		for _, f := range s.Fields {
			declared[f.Key] = struct{}{}
		}
		return func(v any) bool {
			m, ok := v.(map[string]any)
			if !ok || m == nil {
				return false
			}
			for i, f := range s.Fields {
				x, present := m[f.Key]
				if !present {
					if f.Optional {
						continue
					}
					x = value.Undefined
				}
				if !parts.Fields[i](x) {
					return false
				}
			}
			if parts.String == nil && parts.Number == nil {
				return true
			}
			for k, x := range m {
				if _, ok := declared[k]; ok {
					continue
				}
				g := parts.String
				if parts.Number != nil && numeric(k) {
					g = parts.Number
				}
				if g != nil && !(*g)(x) {
					return false
				}
			}
			return true
		}
	},
	Tuple: func(t *ast.Tuple, parts interp.TupleParts[Guard]) Guard {
		return func(v any) bool {
			xs, ok := v.([]any)
			if !ok {
				return false
			}
			for i, c := range t.Components {
				if i >= len(xs) {
					if c.Optional {
						continue
					}
					if !parts.Components[i](value.Undefined) {
						return false
					}
					continue
				}
				if !parts.Components[i](xs[i]) {
					return false
				}
			}
			for i := len(t.Components); i < len(xs); i++ {
				if parts.Rest == nil || !(*parts.Rest)(xs[i]) {
					return false
				}
			}
			return true
		}
	},
	Union: func(_ *ast.Union, members []Guard) Guard {
		return func(v any) bool {
			for _, m := range members {
				if m(v) {
					return true
				}
			}
			return false
		}
	},
	Lazy: func(_ *ast.Lazy, force func() Guard) Guard {
		return func(v any) bool { return force()(v) }
	},
}

func numeric(k string) bool {
	_, err := strconv.ParseFloat(k, 64)
	return err == nil
}
