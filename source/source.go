// Package source loads raw input documents into the plain values decoders
// work on: objects become map[string]any, arrays []any, numbers float64 (or
// *big.Int for integers beyond 2^53), plus string, bool and nil.
package source

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	eng "github.com/reoring/goshape/internal/engine"
)

// Format names an input syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.Errorf("unknown format %q", s)
}

// DefaultMaxDepth bounds nesting unless overridden.
const DefaultMaxDepth = 512

// DefaultMaxAliasTokens bounds how many values YAML alias expansion may
// produce in one document unless overridden.
const DefaultMaxAliasTokens = 1 << 20

// Option configures loading.
type Option func(*config)

type config struct {
	eng.Options
	maxAliasTokens int
}

// WithMaxDepth limits container nesting (0 disables the limit).
func WithMaxDepth(n int) Option { return func(c *config) { c.MaxDepth = n } }

// WithStrictKeys rejects objects that repeat a key.
func WithStrictKeys() Option { return func(c *config) { c.RejectDuplicateKeys = true } }

// WithMaxAliasTokens limits the tokens YAML aliases may expand to in one
// document (0 disables the limit).
func WithMaxAliasTokens(n int) Option { return func(c *config) { c.maxAliasTokens = n } }

func options(opts []Option) config {
	c := config{Options: eng.Options{MaxDepth: DefaultMaxDepth}, maxAliasTokens: DefaultMaxAliasTokens}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Load reads one document in the given format.
func Load(f Format, r io.Reader, opts ...Option) (any, error) {
	switch f {
	case FormatJSON:
		return JSONReader(r, opts...)
	case FormatYAML:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "read yaml")
		}
		return YAML(b, opts...)
	}
	return nil, errors.Errorf("unknown format %q", f)
}
