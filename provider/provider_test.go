package provider_test

import (
	"testing"

	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/symbol"
)

const testKind provider.Kind = "Test"

func constant(v string) provider.Handler {
	return func(...any) any { return v }
}

func call(t *testing.T, r provider.Registry, id symbol.Symbol) string {
	t.Helper()
	h, ok := r.Find(testKind, id)
	if !ok {
		t.Fatalf("handler for %s not found", id)
	}
	return h().(string)
}

func TestRegistry_FindAbsent(t *testing.T) {
	id := symbol.New("x")
	if _, ok := provider.Empty.Find(testKind, id); ok {
		t.Fatalf("empty registry must not resolve handlers")
	}
	r := provider.Make(testKind, id, constant("h"))
	if _, ok := r.Find("Other", id); ok {
		t.Fatalf("lookup must be keyed by kind as well")
	}
	if _, ok := r.Find(testKind, symbol.New("x")); ok {
		t.Fatalf("lookup must be keyed by identity, not description")
	}
}

func TestRegistry_CombineRightWins(t *testing.T) {
	x := symbol.New("x")
	y := symbol.New("y")
	a := provider.Make(testKind, x, constant("h1")).With(testKind, y, constant("only-a"))
	b := provider.Make(testKind, x, constant("h2"))

	got := provider.Combine(a, b)
	if s := call(t, got, x); s != "h2" {
		t.Fatalf("expected right operand to win, got %s", s)
	}
	if s := call(t, got, y); s != "only-a" {
		t.Fatalf("left-only entries must survive, got %s", s)
	}
	if s := call(t, provider.Combine(b, a), x); s != "h1" {
		t.Fatalf("expected h1 when a is on the right, got %s", s)
	}
}

func TestRegistry_EmptyIsIdentity(t *testing.T) {
	x := symbol.New("x")
	a := provider.Make(testKind, x, constant("h"))
	for _, r := range []provider.Registry{provider.Combine(a, provider.Empty), provider.Combine(provider.Empty, a)} {
		if r.Len() != 1 || call(t, r, x) != "h" {
			t.Fatalf("empty must be the identity for Combine")
		}
	}
}

func TestRegistry_WithDoesNotMutate(t *testing.T) {
	x := symbol.New("x")
	a := provider.Make(testKind, x, constant("h1"))
	_ = a.With(testKind, x, constant("h2"))
	if call(t, a, x) != "h1" {
		t.Fatalf("With must return a new registry")
	}
}

func TestRegistry_CombineAll(t *testing.T) {
	x := symbol.New("x")
	r := provider.CombineAll(
		provider.Make(testKind, x, constant("1")),
		provider.Make(testKind, x, constant("2")),
		provider.Make(testKind, x, constant("3")),
	)
	if call(t, r, x) != "3" {
		t.Fatalf("last registry should win")
	}
}
