package ast

import (
	"math"
	"math/big"
	"reflect"
	"slices"

	"github.com/reoring/goshape/symbol"
)

// NewUnion flattens nested unions, removes structural duplicates and collapses
// the result: no candidate yields Never, one candidate yields that candidate,
// otherwise a *Union whose members are sorted by descending Weight.
func NewUnion(candidates ...Node) Node {
	uniq := make([]Node, 0, len(candidates))
	add := func(n Node) {
		for _, u := range uniq {
			if Equal(u, n) {
				return
			}
		}
		uniq = append(uniq, n)
	}
	for _, c := range candidates {
		if u, ok := c.(*Union); ok {
			for _, m := range u.Members {
				add(m)
			}
			continue
		}
		add(c)
	}
	switch len(uniq) {
	case 0:
		return NeverKeyword
	case 1:
		return uniq[0]
	}
	slices.SortStableFunc(uniq, func(a, b Node) int { return Weight(b) - Weight(a) })
	return &Union{Members: uniq}
}

// OrUndefined is NewUnion(Undefined, n).
func OrUndefined(n Node) Node { return NewUnion(UndefinedKeyword, n) }

// Weight is the specificity weight used to order union members. Required
// members dominate optional ones; index signatures and rest elements only break
// ties.
func Weight(n Node) int {
	switch t := n.(type) {
	case *Tuple:
		w := 0
		for _, c := range t.Components {
			if c.Optional {
				w += 2
			} else {
				w += 200
			}
		}
		if t.Rest != nil {
			w++
		}
		return w
	case *Struct:
		w := 0
		for _, f := range t.Fields {
			if f.Optional {
				w += 4
			} else {
				w += 400
			}
		}
		return w + t.IndexSignatures.count()
	default:
		return 0
	}
}

// Equal reports structural identity. Lazy nodes compare by pointer and
// declarations by id, config and type parameters.
func Equal(a, b Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *TypeAliasDeclaration:
		y := b.(*TypeAliasDeclaration)
		if x.ID != y.ID || x.HasConfig != y.HasConfig || !reflect.DeepEqual(x.Config, y.Config) {
			return false
		}
		return equalNodes(x.TypeParameters, y.TypeParameters)
	case *Literal:
		return LiteralEqual(x.Value, b.(*Literal).Value)
	case *Keyword:
		return true
	case *Struct:
		y := b.(*Struct)
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for i, f := range x.Fields {
			g := y.Fields[i]
			if f.Key != g.Key || f.Optional != g.Optional || f.Readonly != g.Readonly || !Equal(f.Value, g.Value) {
				return false
			}
		}
		return equalSignature(x.IndexSignatures.String, y.IndexSignatures.String) &&
			equalSignature(x.IndexSignatures.Number, y.IndexSignatures.Number) &&
			equalSignature(x.IndexSignatures.Symbol, y.IndexSignatures.Symbol)
	case *Tuple:
		y := b.(*Tuple)
		if x.Readonly != y.Readonly || len(x.Components) != len(y.Components) {
			return false
		}
		for i, c := range x.Components {
			if c.Optional != y.Components[i].Optional || !Equal(c.Value, y.Components[i].Value) {
				return false
			}
		}
		if x.Rest == nil || y.Rest == nil {
			return x.Rest == nil && y.Rest == nil
		}
		return Equal(x.Rest, y.Rest)
	case *Union:
		y := b.(*Union)
		if len(x.Members) != len(y.Members) {
			return false
		}
		for _, m := range x.Members {
			if !slices.ContainsFunc(y.Members, func(o Node) bool { return Equal(m, o) }) {
				return false
			}
		}
		return true
	}
	return false
}

func equalNodes(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalSignature(a, b *IndexSignature) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Readonly == b.Readonly && Equal(a.Value, b.Value)
}

// LiteralEqual compares two literal values. NaN equals NaN and big integers
// compare by value.
func LiteralEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && (x == y || (math.IsNaN(x) && math.IsNaN(y)))
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	case symbol.Symbol:
		y, ok := b.(symbol.Symbol)
		return ok && x == y
	}
	return false
}
