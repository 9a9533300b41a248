package decoder_test

import (
	"errors"
	"math"
	"testing"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/decoder"
	"github.com/reoring/goshape/i18n"
	"github.com/reoring/goshape/interp"
	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/symbol"
	"github.com/reoring/goshape/value"
)

func required(key string, n ast.Node) ast.Field { return ast.NewField(key, n, false, false) }

func TestStruct_AccumulatesFieldErrors(t *testing.T) {
	d := decoder.For(ast.NewStruct([]ast.Field{
		required("a", ast.StringKeyword),
		required("b", ast.NumberKeyword),
	}, ast.IndexSignatures{}))

	r := d.Decode(map[string]any{"a": "a", "b": "bad"})
	errs := r.Errors()
	if r.Outcome() != decoder.Failure || len(errs) != 1 {
		t.Fatalf("want one error, got %v %v", r.Outcome(), errs)
	}
	if errs[0].Code != decoder.CodeInvalidType || errs[0].Path != "/b" || errs[0].Expected != "number" {
		t.Fatalf("unexpected error %+v", errs[0])
	}

	r = d.Decode(map[string]any{"a": 1.0, "b": "bad"})
	errs = r.Errors()
	if len(errs) != 2 {
		t.Fatalf("want two errors, got %v", errs)
	}
	if errs[0].Path != "/a" || errs[1].Path != "/b" {
		t.Fatalf("errors must follow field order, got %s then %s", errs[0].Path, errs[1].Path)
	}
	if errs[0].Actual != 1.0 {
		t.Fatalf("actual value not carried: %+v", errs[0])
	}
}

func TestStruct_ShapeAndKeys(t *testing.T) {
	d := decoder.For(ast.NewStruct([]ast.Field{
		required("a", ast.StringKeyword),
		ast.NewField("b", ast.NumberKeyword, true, false),
	}, ast.IndexSignatures{}))

	if r := d.Decode([]any{}); r.Errors()[0].Expected != "Object" {
		t.Fatalf("non-object input: %v", r.Errors())
	}
	r := d.Decode(map[string]any{"a": "x", "extra": true})
	v, ok := r.Value()
	if !ok {
		t.Fatalf("decode failed: %v", r.Err())
	}
	m := v.(map[string]any)
	if len(m) != 1 || m["a"] != "x" {
		t.Fatalf("undeclared keys must be dropped and optional absent keys skipped: %v", m)
	}
	r = d.Decode(map[string]any{})
	if errs := r.Errors(); len(errs) != 1 || errs[0].Path != "/a" || !value.IsUndefined(errs[0].Actual) {
		t.Fatalf("missing required key: %+v", errs)
	}
}

func TestStruct_IndexSignatures(t *testing.T) {
	d := decoder.For(ast.NewStruct(
		[]ast.Field{required("name", ast.StringKeyword)},
		ast.IndexSignatures{String: ast.NewIndexSignature(ast.NumberKeyword, false)},
	))
	r := d.Decode(map[string]any{"name": "n", "x": 1.0, "y": "no"})
	errs := r.Errors()
	if len(errs) != 1 || errs[0].Path != "/y" {
		t.Fatalf("index signature must validate undeclared keys: %v", errs)
	}
	v, _ := d.Decode(map[string]any{"name": "n", "x": 1.0}).Value()
	if m := v.(map[string]any); m["x"] != 1.0 {
		t.Fatalf("covered key dropped: %v", m)
	}
}

func TestArray_NaNWarning(t *testing.T) {
	d := decoder.Array(decoder.NumberOrNaN)
	r := d.Decode([]any{1.0, math.NaN(), 3.0})
	if r.Outcome() != decoder.PartialSuccess {
		t.Fatalf("want partial success, got %v", r.Outcome())
	}
	ws := r.Warnings()
	if len(ws) != 1 || ws[0].Code != decoder.CodeNaN || ws[0].Path != "/1" {
		t.Fatalf("want one nan warning at /1, got %+v", ws)
	}
	v, _ := r.Value()
	if len(v) != 3 || v[0] != 1 || !math.IsNaN(v[1]) || v[2] != 3 {
		t.Fatalf("value not kept: %v", v)
	}
	if r.Err() != nil {
		t.Fatal("warnings must not surface as an error")
	}
}

func TestTuple_MissingAndExtra(t *testing.T) {
	d := decoder.For(ast.NewTuple([]ast.Component{
		ast.NewComponent(ast.StringKeyword, false),
		ast.NewComponent(ast.NumberKeyword, false),
	}, nil, false))

	errs := d.Decode([]any{"a"}).Errors()
	if len(errs) != 1 || errs[0].Path != "/1" || errs[0].Expected != "number" || !value.IsUndefined(errs[0].Actual) {
		t.Fatalf("missing component: %+v", errs)
	}
	errs = d.Decode([]any{"a", 1.0, true}).Errors()
	if len(errs) != 1 || errs[0].Code != decoder.CodeUnexpectedIndex || errs[0].Path != "/2" {
		t.Fatalf("extra component: %+v", errs)
	}
	if errs := d.Decode("a").Errors(); errs[0].Expected != "Array" {
		t.Fatalf("non-array input: %+v", errs)
	}
}

func TestTuple_OptionalAndRest(t *testing.T) {
	d := decoder.For(ast.NewTuple([]ast.Component{
		ast.NewComponent(ast.StringKeyword, false),
		ast.NewComponent(ast.NumberKeyword, true),
	}, ast.BooleanKeyword, false))

	if v, ok := d.Decode([]any{"a"}).Value(); !ok || len(v.([]any)) != 1 {
		t.Fatalf("optional component: %v", v)
	}
	errs := d.Decode([]any{"a", 1.0, true, "x", 2.0}).Errors()
	if len(errs) != 2 || errs[0].Path != "/3" || errs[1].Path != "/4" {
		t.Fatalf("rest must govern every extra position: %+v", errs)
	}
}

func TestUnion(t *testing.T) {
	d := decoder.For(ast.NewUnion(ast.StringKeyword, ast.NumberKeyword))
	if v, ok := d.Decode(1.0).Value(); !ok || v != 1.0 {
		t.Fatalf("number member: %v", v)
	}
	errs := d.Decode(true).Errors()
	if len(errs) != 2 {
		t.Fatalf("all member errors expected: %v", errs)
	}

	lit := decoder.For(ast.NewUnion(ast.NewLiteral("a"), ast.NewLiteral(1)))
	if _, ok := lit.Decode(1).Value(); !ok {
		t.Fatal("int input must match a numeric literal")
	}
	if errs := lit.Decode("b").Errors(); errs[0].Code != decoder.CodeNotEqual {
		t.Fatalf("literal mismatch: %+v", errs)
	}
}

func TestLazy_LinkedList(t *testing.T) {
	var list ast.Node
	list = ast.NewStruct([]ast.Field{
		required("head", ast.NumberKeyword),
		required("tail", ast.NewUnion(ast.NewLiteral(nil), ast.NewLazy(func() ast.Node { return list }))),
	}, ast.IndexSignatures{})

	d := decoder.For(list)
	in := map[string]any{"head": 1.0, "tail": map[string]any{"head": 2.0, "tail": map[string]any{"head": 3.0, "tail": nil}}}
	if r := d.Decode(in); r.Outcome() != decoder.Success {
		t.Fatalf("three level list: %v", r.Err())
	}
	bad := map[string]any{"head": 1.0, "tail": map[string]any{"head": "x", "tail": nil}}
	if r := d.Decode(bad); !r.IsFailure() {
		t.Fatal("nested error expected")
	}
}

func TestFlatMap(t *testing.T) {
	w1 := decoder.NaNError()
	w2 := decoder.CustomError("second", nil)
	e := decoder.TypeError("string", 1.0)

	partial := decoder.Warn(1, w1)
	r := decoder.FlatMap(partial, func(n int) decoder.Result[int] { return decoder.Succeed(n + 1) })
	if v, _ := r.Value(); r.Outcome() != decoder.PartialSuccess || v != 2 || len(r.Warnings()) != 1 {
		t.Fatalf("partial then success: %v %v", r.Outcome(), r.Warnings())
	}
	r = decoder.FlatMap(partial, func(n int) decoder.Result[int] { return decoder.Warn(n, w2) })
	if ws := r.Warnings(); len(ws) != 2 || ws[0].Code != decoder.CodeNaN || ws[1].Code != decoder.CodeCustom {
		t.Fatalf("warnings must concatenate in order: %v", ws)
	}
	r = decoder.FlatMap(partial, func(int) decoder.Result[int] { return decoder.Fail[int](e) })
	if errs := r.Errors(); len(errs) != 1 || errs[0].Code != decoder.CodeInvalidType {
		t.Fatalf("downstream failure keeps only its errors: %v", errs)
	}
	called := false
	r = decoder.FlatMap(decoder.Fail[int](e), func(int) decoder.Result[int] { called = true; return decoder.Succeed(0) })
	if called || !r.IsFailure() {
		t.Fatal("failure must short-circuit")
	}
	r = decoder.FlatMap(decoder.Succeed(1), func(n int) decoder.Result[int] { return decoder.Warn(n, w2) })
	if r.Outcome() != decoder.PartialSuccess || len(r.Warnings()) != 1 {
		t.Fatal("success must pass the next outcome through")
	}
}

type setError struct{ dup any }

var setID = symbol.New("Set")

// setDecoder decodes an array without duplicates, like a set.
func setDecoder(item decoder.Decoder[any]) decoder.Decoder[any] {
	arr := decoder.Array(item)
	return decoder.Erase(decoder.Compose(arr, func(xs []any) decoder.Result[[]any] {
		for i := range xs {
			for j := 0; j < i; j++ {
				if xs[i] == xs[j] {
					return decoder.Fail[[]any](decoder.CustomError("duplicate item", setError{xs[i]}))
				}
			}
		}
		return decoder.Succeed(xs)
	}))
}

func setOf(item ast.Node) ast.Node {
	p := provider.Make(decoder.Kind, setID, func(args ...any) any {
		return setDecoder(args[0].(decoder.Decoder[any]))
	})
	return ast.Declare(setID, p, []ast.Node{item}, ast.Array(item))
}

func TestCustomError(t *testing.T) {
	d := decoder.For(setOf(ast.NumberKeyword))
	if _, ok := d.Decode([]any{1.0, 2.0}).Value(); !ok {
		t.Fatal("distinct items must decode")
	}
	errs := d.Decode([]any{1.0, 1.0}).Errors()
	if len(errs) != 1 || errs[0].Code != decoder.CodeCustom {
		t.Fatalf("custom error expected: %v", errs)
	}
	if se, ok := errs[0].Meta.(setError); !ok || se.dup != 1.0 {
		t.Fatalf("meta not carried: %+v", errs[0].Meta)
	}
	if errs := d.Decode([]any{"a"}).Errors(); errs[0].Path != "/0" {
		t.Fatalf("item error path: %+v", errs)
	}
}

func TestRegistryOverride(t *testing.T) {
	id := symbol.New("Even")
	decl := ast.Declare(id, provider.Empty, nil, ast.NumberKeyword)

	func() {
		defer func() {
			var ce *interp.ConfigError
			rec := recover()
			err, _ := rec.(error)
			if !errors.As(err, &ce) || ce.ID != id {
				t.Fatalf("want config error for missing handler, got %v", rec)
			}
		}()
		decoder.For(decl)
	}()

	even := decoder.Refine(decoder.Number, func(n float64) bool { return math.Mod(n, 2) == 0 },
		func(float64) decoder.Error { return decoder.CustomError("even", nil) })
	r := provider.Make(decoder.Kind, id, func(...any) any { return decoder.Erase(even) })
	d := decoder.ProvideFor(r)(decl)
	if _, ok := d.Decode(2.0).Value(); !ok {
		t.Fatal("caller handler not used")
	}
	if errs := d.Decode(3.0).Errors(); len(errs) != 1 || errs[0].Expected != "even" {
		t.Fatalf("refinement error expected: %v", errs)
	}
}

func TestErrors_Summary(t *testing.T) {
	d := decoder.Tuple(decoder.Erase(decoder.String), decoder.Erase(decoder.String), decoder.Erase(decoder.String), decoder.Erase(decoder.String))
	err := d.Decode([]any{1.0, 2.0, 3.0, 4.0}).Err()
	es, ok := decoder.AsErrors(err)
	if !ok || len(es) != 4 {
		t.Fatalf("AsErrors: %v", err)
	}
	want := "invalid_type at /0; invalid_type at /1; invalid_type at /2; ... (total 4)"
	if err.Error() != want {
		t.Fatalf("summary = %q", err.Error())
	}
	if es[0].Message != "expected string, got 1" {
		t.Fatalf("message = %q", es[0].Message)
	}
}

func TestPrimitives(t *testing.T) {
	if _, ok := decoder.BigInt.Decode("123456789012345678901234567890").Value(); !ok {
		t.Fatal("bigint from decimal string")
	}
	if _, ok := decoder.BigInt.Decode(1.5).Value(); ok {
		t.Fatal("fractional bigint accepted")
	}
	s := symbol.New("s")
	if v, ok := decoder.Symbol.Decode(s).Value(); !ok || v != s {
		t.Fatal("symbol")
	}
	if !decoder.Never.Decode(nil).IsFailure() || decoder.Unknown.Decode(nil).IsFailure() {
		t.Fatal("never/unknown")
	}
	if !decoder.Undefined.Decode(nil).IsFailure() {
		t.Fatal("null is not undefined")
	}
}

func TestLiteral_NarrowIntegers(t *testing.T) {
	for _, lit := range []any{int8(7), int16(7), uint(7), uint8(7), uint16(7), uint32(7), uint64(7)} {
		if r := decoder.For(ast.NewLiteral(lit)).Decode(7.0); r.IsFailure() {
			t.Fatalf("%T literal: %v", lit, r.Err())
		}
	}
}

func TestCodes_HaveMessages(t *testing.T) {
	for _, code := range []string{
		decoder.CodeInvalidType, decoder.CodeNotEqual, decoder.CodeNaN,
		decoder.CodeUnexpectedIndex, decoder.CodeCustom,
	} {
		for _, lang := range []string{"en", "ja"} {
			if msg := i18n.Language(lang).Message(code, nil); msg == code {
				t.Fatalf("%s: no %s message", code, lang)
			}
		}
	}
	if msg := i18n.T("unexpected_key", nil); msg != "unexpected_key" {
		t.Fatalf("unused code has a message: %q", msg)
	}
}
