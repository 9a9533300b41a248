package decoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/i18n"
	"github.com/reoring/goshape/value"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType     = "invalid_type"
	CodeNotEqual        = "not_equal"
	CodeNaN             = "nan"
	CodeUnexpectedIndex = "unexpected_index"
	CodeCustom          = "custom"
)

// Error is a single decode error or warning.
type Error struct {
	Code string
	// Path is a JSON Pointer to the offending value ("/" at the root).
	Path string
	// Expected is the expected shape name for invalid_type, the expected
	// literal for not_equal, or a description for custom errors.
	Expected any
	Actual   any
	Message  string
	// Meta optionally carries a caller-defined error value.
	Meta any
}

// At returns a copy of e whose path is nested under seg.
func (e Error) At(seg string) Error {
	esc := strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1")
	if e.Path == "" || e.Path == "/" {
		e.Path = "/" + esc
	} else {
		e.Path = "/" + esc + e.Path
	}
	return e
}

func newError(code string, expected, actual any) Error {
	e := Error{Code: code, Path: "/", Expected: expected, Actual: actual}
	e.Message = i18n.T(code, e.messageData())
	return e
}

func (e Error) messageData() map[string]string {
	expected := ""
	switch e.Code {
	case CodeNotEqual:
		expected = ast.LiteralString(e.Expected)
	case CodeInvalidType, CodeCustom:
		expected, _ = e.Expected.(string)
	}
	return map[string]string{"expected": expected, "actual": value.Describe(e.Actual)}
}

// Localize returns a copy of es with messages rendered by tr.
func Localize(es Errors, tr i18n.Translator) Errors {
	if es == nil {
		return nil
	}
	out := make(Errors, len(es))
	for i, e := range es {
		e.Message = tr.Message(e.Code, e.messageData())
		out[i] = e
	}
	return out
}

// TypeError reports a value whose shape is not the expected one.
func TypeError(expected string, actual any) Error {
	return newError(CodeInvalidType, expected, actual)
}

// EqualError reports a value different from the expected literal.
func EqualError(expected, actual any) Error {
	return newError(CodeNotEqual, expected, actual)
}

// NaNError reports a NaN number.
func NaNError() Error {
	return newError(CodeNaN, nil, nil)
}

// CustomError wraps a caller-defined error value.
func CustomError(description string, meta any) Error {
	e := newError(CodeCustom, description, nil)
	e.Meta = meta
	return e
}

func unexpectedIndex(actual any) Error {
	return newError(CodeUnexpectedIndex, nil, actual)
}

// Errors is an ordered sequence of decode errors that implements error.
type Errors []Error

// Error summarizes the first few errors.
func (es Errors) Error() string {
	if len(es) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(es), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", es[i].Code, es[i].Path)
	}
	if len(es) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(es))
	}
	return b.String()
}

// AsErrors extracts Errors from an error using errors.As internally.
func AsErrors(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	var es Errors
	if errors.As(err, &es) {
		return es, true
	}
	return nil, false
}
