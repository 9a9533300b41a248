package ast

import (
	"strconv"

	"github.com/hashicorp/go-set/v3"
)

// KeyOf returns the keys usable on every value of n: tuple positions, struct
// field keys, or for a union the keys shared by all members.
func KeyOf(n Node) []string {
	switch t := n.(type) {
	case *TypeAliasDeclaration:
		return KeyOf(t.Type)
	case *Tuple:
		out := make([]string, len(t.Components))
		for i := range t.Components {
			out[i] = strconv.Itoa(i)
		}
		return out
	case *Struct:
		out := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			out[i] = f.Key
		}
		return out
	case *Union:
		out := KeyOf(t.Members[0])
		for _, m := range t.Members[1:] {
			out = intersect(out, KeyOf(m))
		}
		return out
	case *Lazy:
		return KeyOf(t.Force())
	default:
		return nil
	}
}

// intersect keeps the elements of a that also appear in b, in a's order.
func intersect(a, b []string) []string {
	in := set.From(b)
	out := make([]string, 0, len(a))
	for _, k := range a {
		if in.Contains(k) {
			out = append(out, k)
		}
	}
	return out
}

// Fields returns the fields of n. Tuples synthesize one readonly field per
// component. Unions synthesize a field for every shared key whose value is the
// union of the members' values; it is optional (readonly) when any member has
// it optional (readonly).
func Fields(n Node) []Field {
	switch t := n.(type) {
	case *TypeAliasDeclaration:
		return Fields(t.Type)
	case *Tuple:
		out := make([]Field, len(t.Components))
		for i, c := range t.Components {
			out[i] = NewField(strconv.Itoa(i), c.Value, c.Optional, true)
		}
		return out
	case *Struct:
		return t.Fields
	case *Union:
		var all []Field
		for _, m := range t.Members {
			all = append(all, Fields(m)...)
		}
		keys := KeyOf(t)
		out := make([]Field, 0, len(keys))
		for _, k := range keys {
			var values []Node
			optional, readonly := false, false
			for _, f := range all {
				if f.Key != k {
					continue
				}
				values = append(values, f.Value)
				optional = optional || f.Optional
				readonly = readonly || f.Readonly
			}
			out = append(out, NewField(k, NewUnion(values...), optional, readonly))
		}
		return out
	case *Lazy:
		return Fields(t.Force())
	default:
		return nil
	}
}

// Pick projects the fields of n onto keys. Index signatures are dropped.
func Pick(n Node, keys ...string) *Struct {
	in := set.From(keys)
	return project(n, func(k string) bool { return in.Contains(k) })
}

// Omit projects the fields of n onto every key not in keys. Index signatures
// are dropped.
func Omit(n Node, keys ...string) *Struct {
	in := set.From(keys)
	return project(n, func(k string) bool { return !in.Contains(k) })
}

func project(n Node, keep func(string) bool) *Struct {
	fields := Fields(n)
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if keep(f.Key) {
			out = append(out, f)
		}
	}
	return NewStruct(out, IndexSignatures{})
}

// Partial marks every struct field and tuple component optional. A tuple rest
// element becomes rest | undefined; unions are mapped member-wise and
// renormalized. Other nodes are returned unchanged.
func Partial(n Node) Node {
	switch t := n.(type) {
	case *Struct:
		fields := make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = NewField(f.Key, f.Value, true, f.Readonly)
		}
		return NewStruct(fields, t.IndexSignatures)
	case *Tuple:
		components := make([]Component, len(t.Components))
		for i, c := range t.Components {
			components[i] = NewComponent(c.Value, true)
		}
		var rest Node
		if t.Rest != nil {
			rest = OrUndefined(t.Rest)
		}
		return NewTuple(components, rest, t.Readonly)
	case *Union:
		members := make([]Node, len(t.Members))
		for i, m := range t.Members {
			members[i] = Partial(m)
		}
		return NewUnion(members...)
	default:
		return n
	}
}
