// Package encoder compiles shapes to encoders.
//
// Two interpreter kinds share the same structural rules. Kind produces
// encoders that keep Go values as they are apart from projecting structs onto
// their declared keys. JSONKind produces encoders whose output is made only of
// JSON-representable values (map[string]any, []any, string, float64, bool and
// nil), ready for MarshalJSON.
package encoder

import (
	"math/big"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/guard"
	"github.com/reoring/goshape/interp"
	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/symbol"
	"github.com/reoring/goshape/value"
)

// Encoder turns a value of a shape into its encoded form.
type Encoder func(v any) any

const (
	// Kind is the interpreter kind of plain encoders.
	Kind provider.Kind = "Encoder"
	// JSONKind is the interpreter kind of JSON encoders.
	JSONKind provider.Kind = "JSONEncoder"
)

// Identity returns its input.
func Identity(v any) any { return v }

// ProvideFor returns a function compiling nodes to plain encoders. Union
// members are selected by guards compiled against the same registry.
func ProvideFor(r provider.Registry) func(ast.Node) Encoder {
	return interp.New(Kind, rulesFor(Kind, r, Identity), r).Compile
}

// For compiles n with no caller registry.
func For(n ast.Node) Encoder { return ProvideFor(provider.Empty)(n) }

// JSONProvideFor returns a function compiling nodes to JSON encoders.
func JSONProvideFor(r provider.Registry) func(ast.Node) Encoder {
	return interp.New(JSONKind, rulesFor(JSONKind, r, jsonScalar), r).Compile
}

// JSONFor compiles n to a JSON encoder with no caller registry.
func JSONFor(n ast.Node) Encoder { return JSONProvideFor(provider.Empty)(n) }

// MarshalJSON encodes v with e and serializes the result.
func MarshalJSON(e Encoder, v any) ([]byte, error) {
	return json.Marshal(e(v))
}

// jsonScalar maps scalars with no JSON counterpart: big integers become
// decimal strings and symbols their description.
func jsonScalar(v any) any {
	switch x := v.(type) {
	case *big.Int:
		return x.String()
	case symbol.Symbol:
		return x.Description()
	}
	if f, ok := value.Float(v); ok {
		return f
	}
	return v
}

func rulesFor(kind provider.Kind, r provider.Registry, scalar Encoder) interp.Rules[Encoder] {
	guards := guard.ProvideFor(r)
	return interp.Rules[Encoder]{
		Literal: func(*ast.Literal) Encoder { return scalar },
		Keyword: func(*ast.Keyword) Encoder { return scalar },
		Struct: func(s *ast.Struct, parts interp.StructParts[Encoder]) Encoder {
			declared := make(map[string]struct{}, len(s.Fields))
			for _, f := range s.Fields {
				declared[f.Key] = struct{}{}
			}
			return func(v any) any {
				m, _ := v.(map[string]any)
				out := make(map[string]any, len(s.Fields))
				for i, f := range s.Fields {
					x, ok := m[f.Key]
					if !ok || value.IsUndefined(x) {
						continue
					}
					out[f.Key] = parts.Fields[i](x)
				}
				if parts.String == nil && parts.Number == nil {
					return out
				}
				for k, x := range m {
					if _, ok := declared[k]; ok {
						continue
					}
					e := parts.String
					if parts.Number != nil {
						if _, err := strconv.ParseFloat(k, 64); err == nil {
							e = parts.Number
						}
					}
					if e != nil {
						out[k] = (*e)(x)
					}
				}
				return out
			}
		},
		Tuple: func(t *ast.Tuple, parts interp.TupleParts[Encoder]) Encoder {
			return func(v any) any {
				xs, _ := v.([]any)
				out := make([]any, 0, len(xs))
				for i, x := range xs {
					switch {
					case i < len(parts.Components):
						out = append(out, undefinedAsNull(kind, parts.Components[i](x)))
					case parts.Rest != nil:
						out = append(out, undefinedAsNull(kind, (*parts.Rest)(x)))
					}
				}
				return out
			}
		},
		Union: func(u *ast.Union, members []Encoder) Encoder {
			gs := make([]guard.Guard, len(u.Members))
			for i, m := range u.Members {
				gs[i] = guards(m)
			}
			return func(v any) any {
				for i, g := range gs {
					if g(v) {
						return members[i](v)
					}
				}
				panic(&interp.ConfigError{Kind: kind, Reason: "value " + value.Describe(v) + " matches no member of " + ast.String(u)})
			}
		},
		Lazy: func(_ *ast.Lazy, force func() Encoder) Encoder {
			return func(v any) any { return force()(v) }
		},
	}
}

func undefinedAsNull(kind provider.Kind, v any) any {
	if kind == JSONKind && value.IsUndefined(v) {
		return nil
	}
	return v
}
