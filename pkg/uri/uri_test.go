package uri

import (
	"strconv"
	"testing"
)

func TestRouterLiteralAndWildcard(t *testing.T) {
	r := New()
	if err := r.Register("/[uuid]/ep/[epId]/r/[resId]", "read resource", "resourceHandler"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := r.Register("/[uuid]/ep/[epId]", "read endpoint", "endpointHandler"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	handler, desc, vars, ok := r.Lookup("/abc-123/ep/1/r/faulted")
	if !ok {
		t.Fatal("expected lookup to match")
	}
	if handler != "resourceHandler" || desc != "read resource" {
		t.Errorf("unexpected handler/desc: %v %v", handler, desc)
	}
	if vars["uuid"] != "abc-123" || vars["epId"] != "1" || vars["resId"] != "faulted" {
		t.Errorf("unexpected vars: %+v", vars)
	}

	handler, _, vars, ok = r.Lookup("/abc-123/ep/1")
	if !ok || handler != "endpointHandler" || vars["epId"] != "1" {
		t.Errorf("expected endpoint route to match, got ok=%v handler=%v vars=%+v", ok, handler, vars)
	}
}

func TestRouterDirectiveWildcard(t *testing.T) {
	r := New()
	if err := r.RegisterDirective("int", func(raw string) (string, bool) {
		if _, err := strconv.Atoi(raw); err != nil {
			return "", false
		}
		return raw, true
	}); err != nil {
		t.Fatalf("register directive failed: %v", err)
	}
	if err := r.Register("/devices/[idx#int]", "indexed device", "indexHandler"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, vars, ok := r.Lookup("/devices/7")
	if !ok || vars["idx"] != "7" {
		t.Errorf("expected directive match, got ok=%v vars=%+v", ok, vars)
	}
}

func TestRouterUnknownDirectiveRejected(t *testing.T) {
	r := New()
	if err := r.Register("/devices/[idx#int]", "indexed device", "handler"); err == nil {
		t.Fatal("expected unknown directive to be rejected at registration")
	}
}

func TestRouterRejectsEmptySegments(t *testing.T) {
	r := New()
	if err := r.Register("/devices//r", "bad", "handler"); err == nil {
		t.Fatal("expected empty-segment template to be rejected")
	}

	r2 := New()
	if err := r2.Register("/devices/[id]", "ok", "handler"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, ok := r2.Lookup("/devices//x"); ok {
		t.Fatal("expected lookup with empty segment to fail")
	}
}

func TestRouterDuplicateHandlerRejected(t *testing.T) {
	r := New()
	if err := r.Register("/devices/[id]", "first", "h1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := r.Register("/devices/[id]", "second", "h2"); err == nil {
		t.Fatal("expected duplicate template registration to be rejected")
	}
}

func TestRouterNoMatchReturnsFalse(t *testing.T) {
	r := New()
	if err := r.Register("/devices/[id]", "desc", "handler"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, ok := r.Lookup("/unknown/path"); ok {
		t.Fatal("expected no match for unregistered path")
	}
}

func TestDirectiveNoTransformFallsBackToRawToken(t *testing.T) {
	r := New()
	if err := r.RegisterDirective("decode", func(raw string) (string, bool) {
		return "", false
	}); err != nil {
		t.Fatalf("register directive failed: %v", err)
	}
	if err := r.Register("/things/[name#decode]", "desc", "handler"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, _, vars, ok := r.Lookup("/things/raw-token")
	if !ok || vars["name"] != "raw-token" {
		t.Errorf("expected raw token fallback, got ok=%v vars=%+v", ok, vars)
	}
}
