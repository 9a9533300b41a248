// Package value holds the runtime conventions shared by interpreters.
//
// Values handled by decoders, guards and encoders are plain Go values as
// produced by the sources: map[string]any for structs, []any for tuples and
// arrays, string, float64, bool, nil for null, *big.Int for big integers and
// symbol.Symbol. Absence is represented by Undefined.
package value

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/reoring/goshape/symbol"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined stands for an absent value (a missing struct key or tuple slot).
var Undefined any = undefined{}

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Lookup returns m[key], or Undefined when the key is missing.
func Lookup(m map[string]any, key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	return Undefined
}

// Index returns s[i], or Undefined when i is out of range.
func Index(s []any, i int) any {
	if i < len(s) {
		return s[i]
	}
	return Undefined
}

// Float converts Go numeric values to float64.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// BigInt converts v to a big integer. Integral floats and decimal strings are
// accepted as well as Go integers.
func BigInt(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n, n != nil
	case string:
		return new(big.Int).SetString(n, 10)
	case float64:
		if n != float64(int64(n)) {
			return nil, false
		}
		return big.NewInt(int64(n)), true
	case int:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	}
	return nil, false
}

// Describe renders v for diagnostics.
func Describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case *big.Int:
		return x.String() + "n"
	case symbol.Symbol:
		return x.String()
	case map[string]any:
		return "object"
	case []any:
		return "array(" + strconv.Itoa(len(x)) + ")"
	}
	return fmt.Sprintf("%v", v)
}
