package ast

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/reoring/goshape/symbol"
)

// String renders n in a compact TypeScript-like notation. Lazy nodes are not
// forced.
func String(n Node) string {
	b := &strings.Builder{}
	render(b, n)
	return b.String()
}

func render(b *strings.Builder, n Node) {
	switch t := n.(type) {
	case nil:
		b.WriteString("<nil>")
	case *TypeAliasDeclaration:
		b.WriteString(t.ID.Description())
		if len(t.TypeParameters) > 0 {
			b.WriteByte('<')
			for i, p := range t.TypeParameters {
				if i > 0 {
					b.WriteString(", ")
				}
				render(b, p)
			}
			b.WriteByte('>')
		}
	case *Literal:
		b.WriteString(LiteralString(t.Value))
	case *Keyword:
		b.WriteString(keywordNames[t.kind])
	case *Struct:
		renderStruct(b, t)
	case *Tuple:
		renderTuple(b, t)
	case *Union:
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString(" | ")
			}
			render(b, m)
		}
	case *Lazy:
		b.WriteString("<lazy>")
	}
}

var keywordNames = map[NodeKind]string{
	KindUndefined: "undefined",
	KindNever:     "never",
	KindUnknown:   "unknown",
	KindAny:       "any",
	KindString:    "string",
	KindNumber:    "number",
	KindBoolean:   "boolean",
	KindBigInt:    "bigint",
	KindSymbol:    "symbol",
}

func renderStruct(b *strings.Builder, s *Struct) {
	parts := make([]string, 0, len(s.Fields)+3)
	for _, f := range s.Fields {
		p := &strings.Builder{}
		if f.Readonly {
			p.WriteString("readonly ")
		}
		p.WriteString(f.Key)
		if f.Optional {
			p.WriteByte('?')
		}
		p.WriteString(": ")
		render(p, f.Value)
		parts = append(parts, p.String())
	}
	sigs := []struct {
		name string
		sig  *IndexSignature
	}{{"string", s.IndexSignatures.String}, {"number", s.IndexSignatures.Number}, {"symbol", s.IndexSignatures.Symbol}}
	for _, it := range sigs {
		if it.sig == nil {
			continue
		}
		p := &strings.Builder{}
		if it.sig.Readonly {
			p.WriteString("readonly ")
		}
		p.WriteString("[x: " + it.name + "]: ")
		render(p, it.sig.Value)
		parts = append(parts, p.String())
	}
	if len(parts) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{ " + strings.Join(parts, "; ") + " }")
}

func renderTuple(b *strings.Builder, t *Tuple) {
	if t.Readonly {
		b.WriteString("readonly ")
	}
	b.WriteByte('[')
	for i, c := range t.Components {
		if i > 0 {
			b.WriteString(", ")
		}
		render(b, c.Value)
		if c.Optional {
			b.WriteByte('?')
		}
	}
	if t.Rest != nil {
		if len(t.Components) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
		render(b, t.Rest)
		b.WriteString("[]")
	}
	b.WriteByte(']')
}

// LiteralString renders a literal value.
func LiteralString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case *big.Int:
		return x.String() + "n"
	case symbol.Symbol:
		return x.String()
	}
	return "<invalid literal>"
}
