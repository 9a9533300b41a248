// Package symbol provides process-unique identity tokens.
//
// A Symbol compares equal only to itself (and to copies of itself): two symbols
// created with the same description are distinct. Symbols key provider
// registries and may also appear as literal values in an AST.
package symbol

import "github.com/google/uuid"

// Symbol is a comparable identity token. The zero value is not a valid symbol.
type Symbol struct {
	id   uuid.UUID
	desc string
}

// New returns a fresh symbol carrying an informational description.
func New(description string) Symbol {
	return Symbol{id: uuid.New(), desc: description}
}

// Description returns the description given to New.
func (s Symbol) Description() string { return s.desc }

// IsZero reports whether s was never initialised through New.
func (s Symbol) IsZero() bool { return s.id == uuid.Nil }

// String renders the symbol as Symbol(description).
func (s Symbol) String() string { return "Symbol(" + s.desc + ")" }
