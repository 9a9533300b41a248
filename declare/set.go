package declare

import (
	"cmp"
	"math/big"
	"reflect"
	"slices"
	"strings"

	set "github.com/hashicorp/go-set/v3"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/decoder"
	"github.com/reoring/goshape/encoder"
	"github.com/reoring/goshape/guard"
	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/value"
)

// SetID identifies Set declarations.
var SetID = newID("Set")

// DuplicateError is the Meta of the custom error reported when a decoded
// sequence repeats an element.
type DuplicateError struct {
	Value any
}

// Set is a sequence of distinct items, decoded to *set.Set[any]. Items must be
// comparable Go values; big integers compare by pointer.
func Set(item ast.Node) *ast.TypeAliasDeclaration {
	return ast.Declare(SetID, setProvider, []ast.Node{item}, ast.Array(item))
}

var setProvider = provider.CombineAll(
	provider.Make(decoder.Kind, SetID, func(args ...any) any {
		return setDecoder(args[0].(decoder.Decoder[any]))
	}),
	provider.Make(guard.Kind, SetID, func(args ...any) any {
		item := args[0].(guard.Guard)
		return guard.Guard(func(v any) bool {
			s, ok := v.(*set.Set[any])
			if !ok || s == nil {
				return false
			}
			for _, x := range s.Slice() {
				if !item(x) {
					return false
				}
			}
			return true
		})
	}),
	provider.Make(encoder.Kind, SetID, func(args ...any) any { return setEncoder(args[0].(encoder.Encoder)) }),
	provider.Make(encoder.JSONKind, SetID, func(args ...any) any { return setEncoder(args[0].(encoder.Encoder)) }),
)

func setDecoder(item decoder.Decoder[any]) decoder.Decoder[any] {
	return decoder.Erase(decoder.Compose(decoder.Array(item), func(xs []any) decoder.Result[*set.Set[any]] {
		out := set.New[any](len(xs))
		for _, x := range xs {
			if x != nil && !reflect.ValueOf(x).Comparable() {
				return decoder.Fail[*set.Set[any]](decoder.CustomError("comparable set element", x))
			}
			if !out.Insert(x) {
				return decoder.Fail[*set.Set[any]](decoder.CustomError("distinct set elements", DuplicateError{Value: x}))
			}
		}
		return decoder.Succeed(out)
	}))
}

// setEncoder emits the encoded items in a stable order (numbers, then big
// integers, then everything else by description), so the output does not
// depend on map iteration.
func setEncoder(item encoder.Encoder) encoder.Encoder {
	return func(v any) any {
		s, _ := v.(*set.Set[any])
		if s == nil {
			return []any{}
		}
		xs := s.Slice()
		slices.SortFunc(xs, compareElements)
		out := make([]any, len(xs))
		for i, x := range xs {
			out[i] = item(x)
		}
		return out
	}
}

func compareElements(a, b any) int {
	if c := cmp.Compare(elementRank(a), elementRank(b)); c != 0 {
		return c
	}
	switch elementRank(a) {
	case 0:
		fa, _ := value.Float(a)
		fb, _ := value.Float(b)
		return cmp.Compare(fa, fb)
	case 1:
		return a.(*big.Int).Cmp(b.(*big.Int))
	}
	return strings.Compare(value.Describe(a), value.Describe(b))
}

func elementRank(v any) int {
	if _, ok := value.Float(v); ok {
		return 0
	}
	if n, ok := v.(*big.Int); ok && n != nil {
		return 1
	}
	return 2
}
