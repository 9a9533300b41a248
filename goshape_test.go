package goshape_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/declare"
	"github.com/reoring/goshape/decoder"
	"github.com/reoring/goshape/interp"
	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/source"
	"github.com/reoring/goshape/symbol"
)

func event() ast.Node {
	return ast.NewStruct([]ast.Field{
		ast.NewField("name", ast.StringKeyword, false, false),
		ast.NewField("at", declare.TimeRFC3339(), false, false),
		ast.NewField("tags", declare.Set(ast.StringKeyword), true, false),
	}, ast.IndexSignatures{})
}

func TestDecodeJSON_RoundTrip(t *testing.T) {
	r, err := goshape.DecodeJSON(event(), []byte(`{"name":"deploy","at":"2024-01-02T03:04:05Z","tags":["b","a"],"x":1}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	v, ok := r.Value()
	if !ok {
		t.Fatalf("decode failed: %v", r.Err())
	}
	if _, ok := v.(map[string]any)["at"].(time.Time); !ok {
		t.Fatalf("time not decoded: %v", v)
	}
	if !goshape.Is(event(), v) {
		t.Fatal("decoded value must satisfy the guard")
	}
	b, err := goshape.EncodeJSON(event(), v)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"at":"2024-01-02T03:04:05Z","name":"deploy","tags":["a","b"]}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}

func TestDecodeYAML_Errors(t *testing.T) {
	r, err := goshape.DecodeYAML(event(), []byte("name: 1\nat: nope\n"))
	if err != nil {
		t.Fatal(err)
	}
	errs := r.Errors()
	if len(errs) != 2 || errs[0].Path != "/name" || errs[1].Path != "/at" {
		t.Fatalf("unexpected errors %v", errs)
	}
	if _, err := goshape.DecodeYAML(event(), []byte("a: [")); err == nil {
		t.Fatal("syntax errors are returned as err")
	}
}

func TestWithLanguage(t *testing.T) {
	r := goshape.Decode(ast.StringKeyword, 1.0, goshape.WithLanguage("ja"))
	if msg := r.Errors()[0].Message; msg != "string が必要ですが 1 でした" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := goshape.Decode(ast.StringKeyword, 1.0).Errors()[0].Message; msg != "expected string, got 1" {
		t.Fatalf("default language changed: %q", msg)
	}
}

func TestWithProvider(t *testing.T) {
	id := symbol.New("Port")
	port := ast.Declare(id, provider.Empty, nil, ast.NumberKeyword)

	s := goshape.Compile(port)
	var ce *interp.ConfigError
	if err := s.Check(); !errors.As(err, &ce) || ce.Kind != decoder.Kind {
		t.Fatalf("want decoder config error, got %v", err)
	}

	inRange := decoder.Refine(decoder.Number, func(n float64) bool { return n > 0 && n < 65536 },
		func(float64) decoder.Error { return decoder.CustomError("port", nil) })
	r := provider.Make(decoder.Kind, id, func(...any) any { return decoder.Erase(inRange) })
	s = goshape.Compile(port, goshape.WithProvider(r))
	if got := s.Decode(70000.0); !got.IsFailure() {
		t.Fatal("caller decoder not used")
	}
	if err := s.Check(); err == nil {
		t.Fatal("guard and encoders are still missing")
	}
}

func TestSourceOptions(t *testing.T) {
	_, err := goshape.DecodeJSON(ast.UnknownKeyword, []byte(`[[1]]`), goshape.WithSourceOptions(source.WithMaxDepth(1)))
	if err == nil {
		t.Fatal("depth limit ignored")
	}
}

func TestShape_ConcurrentUse(t *testing.T) {
	var list ast.Node
	list = ast.NewStruct([]ast.Field{
		ast.NewField("v", ast.NumberKeyword, false, false),
		ast.NewField("next", declare.Option(ast.NewLazy(func() ast.Node { return list })), false, false),
	}, ast.IndexSignatures{})
	s := goshape.Compile(list)
	in := map[string]any{"v": 1.0, "next": map[string]any{"v": 2.0, "next": map[string]any{"v": 3.0, "next": nil}}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r := s.Decode(in); r.Outcome() != decoder.Success {
				t.Errorf("decode: %v", r.Err())
			}
			if !s.Is(in) {
				t.Error("guard")
			}
		}()
	}
	wg.Wait()
}
