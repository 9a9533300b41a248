// Package provider implements the extension registry that maps an
// interpreter kind and a type identity to the handler building that
// interpreter's artifact for a user-defined type.
//
// Registries are immutable values. Combine merges two registries with
// last-write-wins precedence: for a key present on both sides the right-hand
// handler is kept.
package provider

import "github.com/reoring/goshape/symbol"

// Kind identifies an interpreter (decoder, guard, encoder, ...).
type Kind string

// Handler builds an artifact from the already compiled artifacts of a
// declaration's type parameters. For declarations carrying a config value the
// handler is first called with the config alone and must return the Handler
// that receives the type parameters.
type Handler func(args ...any) any

type key struct {
	kind Kind
	id   symbol.Symbol
}

// Registry is an immutable mapping (Kind, Symbol) -> Handler.
type Registry struct {
	handlers map[key]Handler
}

// Empty is the identity element for Combine.
var Empty = Registry{}

// Make returns a registry holding a single entry.
func Make(kind Kind, id symbol.Symbol, h Handler) Registry {
	return Empty.With(kind, id, h)
}

// With returns a copy of r with (kind, id) bound to h, replacing any previous
// binding.
func (r Registry) With(kind Kind, id symbol.Symbol, h Handler) Registry {
	out := make(map[key]Handler, len(r.handlers)+1)
	for k, v := range r.handlers {
		out[k] = v
	}
	out[key{kind: kind, id: id}] = h
	return Registry{handlers: out}
}

// Find returns the handler registered for (kind, id).
func (r Registry) Find(kind Kind, id symbol.Symbol) (Handler, bool) {
	h, ok := r.handlers[key{kind: kind, id: id}]
	return h, ok
}

// Len reports the number of entries.
func (r Registry) Len() int { return len(r.handlers) }

// Combine merges two registries. Entries of that override entries of r.
func Combine(r, that Registry) Registry {
	switch {
	case len(that.handlers) == 0:
		return r
	case len(r.handlers) == 0:
		return that
	}
	out := make(map[key]Handler, len(r.handlers)+len(that.handlers))
	for k, v := range r.handlers {
		out[k] = v
	}
	for k, v := range that.handlers {
		out[k] = v
	}
	return Registry{handlers: out}
}

// CombineAll folds registries left to right; later registries win.
func CombineAll(rs ...Registry) Registry {
	out := Empty
	for _, r := range rs {
		out = Combine(out, r)
	}
	return out
}
