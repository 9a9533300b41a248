// Package interp implements the generic recursive compilation of an AST into
// an interpreter-specific artifact.
//
// An interpreter supplies Rules for the structural node kinds; declarations
// are resolved through provider registries. Lazy nodes are compiled on first
// use of their artifact and memoized per node, so self-referential shapes
// compile in finite time and share one artifact.
package interp

import (
	"fmt"
	"sync"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/symbol"
)

// ConfigError is raised (via panic) when an AST and a registry do not fit
// together: a declaration without a handler for the interpreter, a handler
// producing the wrong artifact type, or a value matching no union member at
// encode time. It is a programmer error, never a data error.
type ConfigError struct {
	Kind   provider.Kind
	ID     symbol.Symbol
	Reason string
}

func (e *ConfigError) Error() string {
	if e.ID.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s for data type %s", e.Kind, e.Reason, e.ID.Description())
}

// StructParts are the compiled pieces of a struct: one artifact per field (in
// field order) and one per present index signature.
type StructParts[A any] struct {
	Fields []A
	String *A
	Number *A
	Symbol *A
}

// TupleParts are the compiled pieces of a tuple.
type TupleParts[A any] struct {
	Components []A
	Rest       *A
}

// Rules describe how an interpreter builds artifacts for non-declaration
// nodes. Lazy receives a function that compiles the forced node on first call
// and must not call it before the artifact itself is used.
type Rules[A any] struct {
	Literal func(*ast.Literal) A
	Keyword func(*ast.Keyword) A
	Struct  func(*ast.Struct, StructParts[A]) A
	Tuple   func(*ast.Tuple, TupleParts[A]) A
	Union   func(*ast.Union, []A) A
	Lazy    func(*ast.Lazy, func() A) A
}

// Compiler compiles nodes for one interpreter kind against a caller registry.
// It is safe for concurrent use.
type Compiler[A any] struct {
	kind     provider.Kind
	rules    Rules[A]
	registry provider.Registry

	mu     sync.Mutex
	lazies map[*ast.Lazy]A
}

// New returns a Compiler. registry holds caller-supplied handlers; handlers
// attached to declarations take precedence over it.
func New[A any](kind provider.Kind, rules Rules[A], registry provider.Registry) *Compiler[A] {
	return &Compiler[A]{kind: kind, rules: rules, registry: registry, lazies: map[*ast.Lazy]A{}}
}

// Kind returns the interpreter kind.
func (c *Compiler[A]) Kind() provider.Kind { return c.kind }

// Registry returns the caller registry.
func (c *Compiler[A]) Registry() provider.Registry { return c.registry }

// Compile turns n into an artifact. It panics with *ConfigError on
// configuration errors.
func (c *Compiler[A]) Compile(n ast.Node) A {
	switch t := n.(type) {
	case *ast.TypeAliasDeclaration:
		return c.declaration(t)
	case *ast.Literal:
		return rule(c, c.rules.Literal, "literal")(t)
	case *ast.Keyword:
		return rule(c, c.rules.Keyword, "keyword")(t)
	case *ast.Struct:
		parts := StructParts[A]{Fields: make([]A, len(t.Fields))}
		for i, f := range t.Fields {
			parts.Fields[i] = c.Compile(f.Value)
		}
		parts.String = c.signature(t.IndexSignatures.String)
		parts.Number = c.signature(t.IndexSignatures.Number)
		parts.Symbol = c.signature(t.IndexSignatures.Symbol)
		return rule2(c, c.rules.Struct, "struct")(t, parts)
	case *ast.Tuple:
		parts := TupleParts[A]{Components: make([]A, len(t.Components))}
		for i, comp := range t.Components {
			parts.Components[i] = c.Compile(comp.Value)
		}
		if t.Rest != nil {
			rest := c.Compile(t.Rest)
			parts.Rest = &rest
		}
		return rule2(c, c.rules.Tuple, "tuple")(t, parts)
	case *ast.Union:
		members := make([]A, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.Compile(m)
		}
		return rule2(c, c.rules.Union, "union")(t, members)
	case *ast.Lazy:
		return c.lazy(t)
	}
	panic(&ConfigError{Kind: c.kind, Reason: fmt.Sprintf("unsupported node %T", n)})
}

func (c *Compiler[A]) signature(sig *ast.IndexSignature) *A {
	if sig == nil {
		return nil
	}
	a := c.Compile(sig.Value)
	return &a
}

func (c *Compiler[A]) declaration(d *ast.TypeAliasDeclaration) A {
	h, ok := provider.Combine(c.registry, d.Provider).Find(c.kind, d.ID)
	if !ok {
		panic(&ConfigError{Kind: c.kind, ID: d.ID, Reason: "missing interpreter support"})
	}
	if d.HasConfig {
		next, ok := asHandler(h(d.Config))
		if !ok {
			panic(&ConfigError{Kind: c.kind, ID: d.ID, Reason: "configured handler did not return a handler"})
		}
		h = next
	}
	params := make([]any, len(d.TypeParameters))
	for i, p := range d.TypeParameters {
		params[i] = c.Compile(p)
	}
	out, ok := h(params...).(A)
	if !ok {
		var zero A
		panic(&ConfigError{Kind: c.kind, ID: d.ID, Reason: fmt.Sprintf("handler must return %T", zero)})
	}
	return out
}

func asHandler(v any) (provider.Handler, bool) {
	switch h := v.(type) {
	case provider.Handler:
		return h, true
	case func(...any) any:
		return h, true
	}
	return nil, false
}

func (c *Compiler[A]) lazy(l *ast.Lazy) A {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.lazies[l]; ok {
		return a
	}
	var (
		once  sync.Once
		inner A
	)
	force := func() A {
		once.Do(func() { inner = c.Compile(l.Force()) })
		return inner
	}
	a := rule2(c, c.rules.Lazy, "lazy")(l, force)
	c.lazies[l] = a
	return a
}

func rule[A, N any](c *Compiler[A], f func(N) A, name string) func(N) A {
	if f == nil {
		panic(&ConfigError{Kind: c.kind, Reason: "no " + name + " rule"})
	}
	return f
}

func rule2[A, N, P any](c *Compiler[A], f func(N, P) A, name string) func(N, P) A {
	if f == nil {
		panic(&ConfigError{Kind: c.kind, Reason: "no " + name + " rule"})
	}
	return f
}
