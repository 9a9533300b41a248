package declare_test

import (
	"testing"
	"time"

	set "github.com/hashicorp/go-set/v3"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/declare"
	"github.com/reoring/goshape/decoder"
	"github.com/reoring/goshape/encoder"
	"github.com/reoring/goshape/guard"
)

func TestSet(t *testing.T) {
	shape := declare.Set(ast.NumberKeyword)
	d := decoder.For(shape)

	v, ok := d.Decode([]any{3.0, 1.0, 2.0}).Value()
	if !ok {
		t.Fatal("distinct items must decode")
	}
	s := v.(*set.Set[any])
	if s.Size() != 3 || !s.Contains(2.0) {
		t.Fatalf("unexpected set %v", s)
	}
	if !guard.For(shape)(s) || guard.For(shape)([]any{1.0}) {
		t.Fatal("set guard")
	}
	b, err := encoder.MarshalJSON(encoder.JSONFor(shape), s)
	if err != nil || string(b) != "[1,2,3]" {
		t.Fatalf("encode: %s %v", b, err)
	}

	v, _ = d.Decode([]any{10.0, 2.0, 1.0}).Value()
	if b, err := encoder.MarshalJSON(encoder.JSONFor(shape), v); err != nil || string(b) != "[1,2,10]" {
		t.Fatalf("numbers must be ordered numerically: %s %v", b, err)
	}

	errs := d.Decode([]any{1.0, 1.0}).Errors()
	if len(errs) != 1 || errs[0].Code != decoder.CodeCustom {
		t.Fatalf("duplicate: %v", errs)
	}
	if dup, ok := errs[0].Meta.(declare.DuplicateError); !ok || dup.Value != 1.0 {
		t.Fatalf("meta: %+v", errs[0].Meta)
	}
	if errs := d.Decode([]any{"x"}).Errors(); errs[0].Path != "/0" || errs[0].Code != decoder.CodeInvalidType {
		t.Fatalf("item error: %v", errs)
	}
}

func TestTimeRFC3339(t *testing.T) {
	shape := ast.NewStruct([]ast.Field{ast.NewField("at", declare.TimeRFC3339(), false, false)}, ast.IndexSignatures{})
	r := decoder.For(shape).Decode(map[string]any{"at": "2024-05-01T10:00:00+09:00"})
	v, ok := r.Value()
	if !ok {
		t.Fatalf("decode: %v", r.Err())
	}
	at := v.(map[string]any)["at"].(time.Time)
	if at.UTC().Hour() != 1 {
		t.Fatalf("parsed %v", at)
	}
	b, err := encoder.MarshalJSON(encoder.JSONFor(shape), v)
	if err != nil || string(b) != `{"at":"2024-05-01T01:00:00Z"}` {
		t.Fatalf("encode: %s %v", b, err)
	}
	errs := decoder.For(shape).Decode(map[string]any{"at": "yesterday"}).Errors()
	if len(errs) != 1 || errs[0].Path != "/at" || errs[0].Code != decoder.CodeCustom {
		t.Fatalf("bad time: %v", errs)
	}
}

func TestTime_Layout(t *testing.T) {
	d := decoder.For(declare.Time(time.DateOnly))
	if _, ok := d.Decode("2024-05-01").Value(); !ok {
		t.Fatal("date layout")
	}
	if !d.Decode("2024-05-01T00:00:00Z").IsFailure() {
		t.Fatal("layout must be honoured")
	}
}

func TestOption(t *testing.T) {
	shape := ast.NewStruct([]ast.Field{ast.NewField("nick", declare.Option(ast.StringKeyword), false, false)}, ast.IndexSignatures{})
	d := decoder.For(shape)
	for _, in := range []map[string]any{{}, {"nick": nil}, {"nick": "n"}} {
		if r := d.Decode(in); r.IsFailure() {
			t.Fatalf("%v: %v", in, r.Err())
		}
	}
	if !d.Decode(map[string]any{"nick": 1.0}).IsFailure() {
		t.Fatal("item must still be validated")
	}
	g := guard.For(declare.Option(ast.StringKeyword))
	if !g(nil) || !g("x") || g(1.0) {
		t.Fatal("option guard")
	}
}
