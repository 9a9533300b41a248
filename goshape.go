package goshape

import (
	"bytes"
	"errors"
	"sync"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/decoder"
	"github.com/reoring/goshape/encoder"
	"github.com/reoring/goshape/guard"
	"github.com/reoring/goshape/i18n"
	"github.com/reoring/goshape/interp"
	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/source"
)

// Option configures Compile and the convenience functions.
type Option func(*options)

type options struct {
	registry   provider.Registry
	translator i18n.Translator
	source     []source.Option
}

// WithProvider adds caller handlers. Several registries combine left to right
// (later ones win); handlers attached to declarations still take precedence.
func WithProvider(r provider.Registry) Option {
	return func(o *options) { o.registry = provider.Combine(o.registry, r) }
}

// WithLanguage renders error messages in lang ("en", "ja") instead of the
// process-wide translator.
func WithLanguage(lang string) Option {
	return func(o *options) { o.translator = i18n.Language(lang) }
}

// WithSourceOptions forwards limits to the JSON/YAML loaders.
func WithSourceOptions(opts ...source.Option) Option {
	return func(o *options) { o.source = append(o.source, opts...) }
}

// Shape is a node together with its lazily compiled interpreters. It is safe
// for concurrent use.
type Shape struct {
	node ast.Node
	opt  options

	decodeOnce, guardOnce, encodeOnce, jsonOnce sync.Once

	dec  decoder.Decoder[any]
	is   guard.Guard
	enc  encoder.Encoder
	json encoder.Encoder
}

// Compile wraps n. Each interpreter is compiled on first use; a missing
// handler then panics with *interp.ConfigError (see Check).
func Compile(n ast.Node, opts ...Option) *Shape {
	s := &Shape{node: n}
	for _, opt := range opts {
		opt(&s.opt)
	}
	return s
}

// Node returns the wrapped node.
func (s *Shape) Node() ast.Node { return s.node }

// Check compiles every interpreter once and reports the first configuration
// error instead of panicking.
func (s *Shape) Check() (err error) {
	defer func() {
		if r := recover(); r != nil {
			var ce *interp.ConfigError
			if e, ok := r.(error); ok && errors.As(e, &ce) {
				err = ce
				return
			}
			panic(r)
		}
	}()
	r := s.opt.registry
	decoder.ProvideFor(r)(s.node)
	guard.ProvideFor(r)(s.node)
	encoder.ProvideFor(r)(s.node)
	encoder.JSONProvideFor(r)(s.node)
	return nil
}

func (s *Shape) decoder() decoder.Decoder[any] {
	s.decodeOnce.Do(func() { s.dec = decoder.ProvideFor(s.opt.registry)(s.node) })
	return s.dec
}

func (s *Shape) guard() guard.Guard {
	s.guardOnce.Do(func() { s.is = guard.ProvideFor(s.opt.registry)(s.node) })
	return s.is
}

func (s *Shape) encoder() encoder.Encoder {
	s.encodeOnce.Do(func() { s.enc = encoder.ProvideFor(s.opt.registry)(s.node) })
	return s.enc
}

func (s *Shape) jsonEncoder() encoder.Encoder {
	s.jsonOnce.Do(func() { s.json = encoder.JSONProvideFor(s.opt.registry)(s.node) })
	return s.json
}

// Decode validates an already loaded value.
func (s *Shape) Decode(v any) decoder.Result[any] {
	r := s.decoder().Decode(v)
	if s.opt.translator != nil {
		r = r.Localize(s.opt.translator)
	}
	return r
}

// DecodeJSON loads a JSON document and decodes it. err reports unreadable
// input only; validation problems are in the Result.
func (s *Shape) DecodeJSON(b []byte) (decoder.Result[any], error) {
	v, err := source.JSON(b, s.opt.source...)
	if err != nil {
		return decoder.Result[any]{}, err
	}
	return s.Decode(v), nil
}

// DecodeYAML loads the first YAML document of b and decodes it.
func (s *Shape) DecodeYAML(b []byte) (decoder.Result[any], error) {
	v, err := source.YAML(b, s.opt.source...)
	if err != nil {
		return decoder.Result[any]{}, err
	}
	return s.Decode(v), nil
}

// DecodeFrom loads a document in format f and decodes it.
func (s *Shape) DecodeFrom(f source.Format, b []byte) (decoder.Result[any], error) {
	v, err := source.Load(f, bytes.NewReader(b), s.opt.source...)
	if err != nil {
		return decoder.Result[any]{}, err
	}
	return s.Decode(v), nil
}

// Is reports whether v belongs to the shape.
func (s *Shape) Is(v any) bool { return s.guard()(v) }

// Encode runs the plain encoder.
func (s *Shape) Encode(v any) any { return s.encoder()(v) }

// EncodeJSON runs the JSON encoder and serializes the result.
func (s *Shape) EncodeJSON(v any) ([]byte, error) {
	return encoder.MarshalJSON(s.jsonEncoder(), v)
}

// Decode is Compile(n, opts...).Decode(v).
func Decode(n ast.Node, v any, opts ...Option) decoder.Result[any] {
	return Compile(n, opts...).Decode(v)
}

// DecodeJSON is Compile(n, opts...).DecodeJSON(b).
func DecodeJSON(n ast.Node, b []byte, opts ...Option) (decoder.Result[any], error) {
	return Compile(n, opts...).DecodeJSON(b)
}

// DecodeYAML is Compile(n, opts...).DecodeYAML(b).
func DecodeYAML(n ast.Node, b []byte, opts ...Option) (decoder.Result[any], error) {
	return Compile(n, opts...).DecodeYAML(b)
}

// Is is Compile(n, opts...).Is(v).
func Is(n ast.Node, v any, opts ...Option) bool { return Compile(n, opts...).Is(v) }

// Encode is Compile(n, opts...).Encode(v).
func Encode(n ast.Node, v any, opts ...Option) any { return Compile(n, opts...).Encode(v) }

// EncodeJSON is Compile(n, opts...).EncodeJSON(v).
func EncodeJSON(n ast.Node, v any, opts ...Option) ([]byte, error) {
	return Compile(n, opts...).EncodeJSON(v)
}
