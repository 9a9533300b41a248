// Package goshape provides:
//
// - One explicit description of a data shape (an ast.Node) from which decoders,
// guards and encoders are derived
// - A three-way decode result (success, partial success with warnings,
// failure) with a stable error model (JSON Pointer, code, message)
// - Per-type extension through provider registries
// - JSON and YAML input through the source package
//
// Design policy:
// - Keep only the convenience API in the root package; the AST lives in ast/,
// interpreters in decoder/, guard/ and encoder/, ready-made declarations in
// declare/ and the CLI under cmd/goshape.
// - Configuration mistakes (a declaration nobody can interpret) panic with
// *interp.ConfigError; data mistakes are returned in decoder.Result.
//
// Typical usage:
//
//	person := ast.NewStruct([]ast.Field{
//		ast.NewField("name", ast.StringKeyword, false, false),
//		ast.NewField("born", declare.TimeRFC3339(), true, false),
//	}, ast.IndexSignatures{})
//
//	r, err := goshape.DecodeJSON(person, data)
//	v, ok := r.Value()
//
//	wire, err := goshape.EncodeJSON(person, v)
package goshape
