// Package declare provides type-alias declarations that carry their own
// interpreter support: every declaration here registers a decoder, a guard, a
// plain encoder and a JSON encoder, so the shapes it returns compile with an
// empty caller registry.
package declare

import "github.com/reoring/goshape/symbol"

func newID(name string) symbol.Symbol { return symbol.New(name) }
