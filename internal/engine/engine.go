// Package engine turns token streams into the plain values understood by
// decoders (map[string]any, []any, string, float64, *big.Int, bool, nil).
package engine

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset (-1 when
// unknown).
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Options controls value building.
type Options struct {
	// MaxDepth limits container nesting; 0 means unlimited.
	MaxDepth int
	// RejectDuplicateKeys fails on an object repeating a key. Otherwise the
	// last occurrence wins.
	RejectDuplicateKeys bool
}

// DepthError reports nesting beyond Options.MaxDepth.
type DepthError struct {
	Path  string
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("max depth %d exceeded at %s", e.Limit, e.Path)
}

// DuplicateKeyError reports a repeated object key.
type DuplicateKeyError struct {
	Path string
}

func (e *DuplicateKeyError) Error() string { return "duplicate key at " + e.Path }

// Build reads exactly one value from src.
func Build(src TokenSource, opt Options) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	b := builder{src: src, opt: opt}
	return b.value(tok, "", 0)
}

type builder struct {
	src TokenSource
	opt Options
}

func (b *builder) value(tok Token, path string, depth int) (any, error) {
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		if b.opt.MaxDepth > 0 && depth >= b.opt.MaxDepth {
			return nil, &DepthError{Path: pointer(path), Limit: b.opt.MaxDepth}
		}
		if tok.Kind == KindBeginObject {
			return b.object(path, depth+1)
		}
		return b.array(path, depth+1)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return Number(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func (b *builder) object(path string, depth int) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := b.src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		p := path + "/" + escape(tok.String)
		if _, dup := m[tok.String]; dup && b.opt.RejectDuplicateKeys {
			return nil, &DuplicateKeyError{Path: p}
		}
		vt, err := b.src.NextToken()
		if err != nil {
			return nil, err
		}
		v, err := b.value(vt, p, depth)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func (b *builder) array(path string, depth int) (any, error) {
	arr := []any{}
	for {
		tok, err := b.src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := b.value(tok, path+"/"+strconv.Itoa(len(arr)), depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// maxSafeInteger is the largest integer a float64 holds exactly (2^53).
const maxSafeInteger = 1 << 53

// Number converts a numeric literal to float64, or to *big.Int for integer
// literals a float64 cannot hold exactly.
func Number(s string) (any, error) {
	if isIntegerLiteral(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			if n <= maxSafeInteger && n >= -maxSafeInteger {
				return float64(n), nil
			}
			return big.NewInt(n), nil
		}
		if n, ok := new(big.Int).SetString(s, 10); ok {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func escape(seg string) string {
	return strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1")
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
