// Package decoder implements validating decoders: functions from raw input to
// a three-way Result (Success, PartialSuccess with warnings, Failure with
// errors), hand-written combinators and the decoder interpreter compiled from
// an AST.
package decoder

import (
	"math"
	"math/big"
	"slices"
	"strconv"
	"sync"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/symbol"
	"github.com/reoring/goshape/value"
)

// Decoder turns raw input into a Result.
type Decoder[A any] interface {
	Decode(v any) Result[A]
}

type decoderFunc[A any] func(any) Result[A]

func (f decoderFunc[A]) Decode(v any) Result[A] { return f(v) }

// Make builds a Decoder from a function.
func Make[A any](f func(v any) Result[A]) Decoder[A] { return decoderFunc[A](f) }

// Erase widens a typed decoder to Decoder[any].
func Erase[A any](d Decoder[A]) Decoder[any] {
	if da, ok := any(d).(Decoder[any]); ok {
		return da
	}
	return Make(func(v any) Result[any] {
		return Map(d.Decode(v), func(a A) any { return a })
	})
}

// Compose runs next on the value decoded by d (see FlatMap).
func Compose[A, B any](d Decoder[A], next func(A) Result[B]) Decoder[B] {
	return Make(func(v any) Result[B] { return FlatMap(d.Decode(v), next) })
}

// MapDecoder transforms the decoded value.
func MapDecoder[A, B any](d Decoder[A], f func(A) B) Decoder[B] {
	return Make(func(v any) Result[B] { return Map(d.Decode(v), f) })
}

// ---- primitives ----

var (
	// String accepts Go strings.
	String Decoder[string] = Make(func(v any) Result[string] {
		if s, ok := v.(string); ok {
			return Succeed(s)
		}
		return Fail[string](TypeError("string", v))
	})

	// Number accepts any Go number, NaN included, as float64.
	Number Decoder[float64] = Make(func(v any) Result[float64] {
		if f, ok := value.Float(v); ok {
			return Succeed(f)
		}
		return Fail[float64](TypeError("number", v))
	})

	// Boolean accepts Go bools.
	Boolean Decoder[bool] = Make(func(v any) Result[bool] {
		if b, ok := v.(bool); ok {
			return Succeed(b)
		}
		return Fail[bool](TypeError("boolean", v))
	})

	// BigInt accepts *big.Int, Go integers, integral float64 and decimal strings.
	BigInt Decoder[*big.Int] = Make(func(v any) Result[*big.Int] {
		if n, ok := value.BigInt(v); ok {
			return Succeed(n)
		}
		return Fail[*big.Int](TypeError("bigint", v))
	})

	// Symbol accepts symbol.Symbol values.
	Symbol Decoder[symbol.Symbol] = Make(func(v any) Result[symbol.Symbol] {
		if s, ok := v.(symbol.Symbol); ok && !s.IsZero() {
			return Succeed(s)
		}
		return Fail[symbol.Symbol](TypeError("symbol", v))
	})

	// Undefined accepts only value.Undefined.
	Undefined Decoder[any] = Make(func(v any) Result[any] {
		if value.IsUndefined(v) {
			return Succeed(v)
		}
		return Fail[any](TypeError("undefined", v))
	})

	// Never rejects every input.
	Never Decoder[any] = Make(func(v any) Result[any] { return Fail[any](TypeError("never", v)) })

	// Unknown accepts every input unchanged.
	Unknown Decoder[any] = Make(func(v any) Result[any] { return Succeed(v) })
)

// NumberOrNaN is Number reporting NaN as a warning instead of silently
// accepting it.
var NumberOrNaN Decoder[float64] = Compose(Number, func(n float64) Result[float64] {
	if math.IsNaN(n) {
		return Warn(n, NaNError())
	}
	return Succeed(n)
})

// Literal accepts values equal to lit (see ast.LiteralEqual). Go numbers are
// compared as float64.
func Literal(lit any) Decoder[any] {
	lit = ast.NewLiteral(lit).Value
	return Make(func(v any) Result[any] {
		cmp := v
		if f, ok := value.Float(v); ok {
			cmp = f
		}
		if ast.LiteralEqual(lit, cmp) {
			return Succeed(cmp)
		}
		return Fail[any](EqualError(lit, v))
	})
}

// ---- composites ----

// Array decodes every element of a []any with item, accumulating failures.
func Array[A any](item Decoder[A]) Decoder[[]A] {
	return Make(func(v any) Result[[]A] {
		in, ok := v.([]any)
		if !ok {
			return Fail[[]A](TypeError("Array", v))
		}
		acc := &Accumulator{}
		out := make([]A, 0, len(in))
		for i, x := range in {
			if a, ok := Collect(acc, item.Decode(x), strconv.Itoa(i)); ok {
				out = append(out, a)
			}
		}
		return Finish(acc, out)
	})
}

// Slot is one tuple position.
type Slot struct {
	Decoder  Decoder[any]
	Optional bool
}

// Tuple decodes a fixed sequence of required positions.
func Tuple(ds ...Decoder[any]) Decoder[[]any] {
	slots := make([]Slot, len(ds))
	for i, d := range ds {
		slots[i] = Slot{Decoder: d}
	}
	return TupleOf(slots, nil)
}

// TupleOf decodes slots left to right, then every remaining position with
// rest. Without rest, extra positions are reported as unexpected_index.
// Missing optional slots are skipped; missing required slots decode
// value.Undefined.
func TupleOf(slots []Slot, rest Decoder[any]) Decoder[[]any] {
	return Make(func(v any) Result[[]any] {
		in, ok := v.([]any)
		if !ok {
			return Fail[[]any](TypeError("Array", v))
		}
		acc := &Accumulator{}
		out := make([]any, 0, len(in))
		for i, s := range slots {
			if i >= len(in) && s.Optional {
				continue
			}
			if a, ok := Collect(acc, s.Decoder.Decode(value.Index(in, i)), strconv.Itoa(i)); ok {
				out = append(out, a)
			}
		}
		for i := len(slots); i < len(in); i++ {
			if rest == nil {
				acc.Report(unexpectedIndex(in[i]).At(strconv.Itoa(i)))
				continue
			}
			if a, ok := Collect(acc, rest.Decode(in[i]), strconv.Itoa(i)); ok {
				out = append(out, a)
			}
		}
		return Finish(acc, out)
	})
}

// Prop is one struct member.
type Prop struct {
	Key      string
	Decoder  Decoder[any]
	Optional bool
}

// Required declares a required member.
func Required(key string, d Decoder[any]) Prop { return Prop{Key: key, Decoder: d} }

// Optional declares an optional member.
func Optional(key string, d Decoder[any]) Prop { return Prop{Key: key, Decoder: d, Optional: true} }

// Index holds the decoders of a struct's index signatures. Keys of a
// map[string]any that parse as numbers use Number when present, every other
// undeclared key uses String. Undeclared keys not covered are dropped.
type Index struct {
	String Decoder[any]
	Number Decoder[any]
}

// Struct decodes a map[string]any with the given members and no index
// signatures.
func Struct(props ...Prop) Decoder[map[string]any] { return StructOf(props, Index{}) }

// StructOf decodes every member in order regardless of earlier failures and
// accumulates all errors. The output holds declared keys and keys covered by
// an index signature.
func StructOf(props []Prop, index Index) Decoder[map[string]any] {
	declared := make(map[string]struct{}, len(props))
	for _, p := range props {
		declared[p.Key] = struct{}{}
	}
	return Make(func(v any) Result[map[string]any] {
		in, ok := v.(map[string]any)
		if !ok || in == nil {
			return Fail[map[string]any](TypeError("Object", v))
		}
		acc := &Accumulator{}
		out := make(map[string]any, len(props))
		for _, p := range props {
			raw, present := in[p.Key]
			if !present {
				if p.Optional {
					continue
				}
				raw = value.Undefined
			}
			if a, ok := Collect(acc, p.Decoder.Decode(raw), p.Key); ok {
				out[p.Key] = a
			}
		}
		if index.String != nil || index.Number != nil {
			rest := make([]string, 0, len(in))
			for k := range in {
				if _, ok := declared[k]; !ok {
					rest = append(rest, k)
				}
			}
			slices.Sort(rest)
			for _, k := range rest {
				d := index.String
				if index.Number != nil && isNumericKey(k) {
					d = index.Number
				}
				if d == nil {
					continue
				}
				if a, ok := Collect(acc, d.Decode(in[k]), k); ok {
					out[k] = a
				}
			}
		}
		return Finish(acc, out)
	})
}

func isNumericKey(k string) bool {
	_, err := strconv.ParseFloat(k, 64)
	return err == nil
}

// Union tries members in order and returns the first non-Failure result. When
// every member fails, the Failure holds all members' errors in member order.
func Union(members ...Decoder[any]) Decoder[any] {
	return Make(func(v any) Result[any] {
		var errs Errors
		for _, m := range members {
			r := m.Decode(v)
			if !r.IsFailure() {
				return r
			}
			errs = append(errs, r.Errors()...)
		}
		if len(errs) == 0 {
			return Fail[any](TypeError("never", v))
		}
		return Result[any]{outcome: Failure, issues: errs}
	})
}

// Lazy defers building the decoder until first use and memoizes it.
func Lazy[A any](f func() Decoder[A]) Decoder[A] {
	var (
		once sync.Once
		d    Decoder[A]
	)
	return Make(func(v any) Result[A] {
		once.Do(func() { d = f() })
		return d.Decode(v)
	})
}

// Refine keeps values accepted by d that satisfy ok; others fail with the
// error built by fail.
func Refine[A any](d Decoder[A], ok func(A) bool, fail func(A) Error) Decoder[A] {
	return Compose(d, func(a A) Result[A] {
		if ok(a) {
			return Succeed(a)
		}
		return Fail[A](fail(a))
	})
}
