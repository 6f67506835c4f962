package propconfig

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func testCatalog() json.RawMessage {
	return json.RawMessage(`{
		"properties": {
			"fast-timer": {"type": "boolean"},
			"watchdog.timeoutSecs": {"type": "number", "minimum": 1, "maximum": 3600}
		}
	}`)
}

func TestSetAndGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.xml")
	s, err := Load(path, testCatalog())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if err := s.Set("fast-timer", "true", "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, ok := s.Get("fast-timer")
	if !ok || value != "true" {
		t.Errorf("got %q ok=%v", value, ok)
	}
}

func TestSetRejectsOutOfRangeValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.xml")
	s, _ := Load(path, testCatalog())

	if err := s.Set("watchdog.timeoutSecs", "99999", "test"); err == nil {
		t.Fatal("expected out-of-range value to be rejected")
	}
}

func TestSetRejectsWrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.xml")
	s, _ := Load(path, testCatalog())

	if err := s.Set("fast-timer", "\"not-a-bool\"", "test"); err == nil {
		t.Fatal("expected type mismatch to be rejected")
	}
}

func TestUnconstrainedKeyIsAccepted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.xml")
	s, _ := Load(path, testCatalog())

	if err := s.Set("custom.unlisted", "anything", "test"); err != nil {
		t.Errorf("expected unconstrained key to be accepted, got %v", err)
	}
}

func TestLoadPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.xml")
	s1, _ := Load(path, testCatalog())
	if err := s1.Set("fast-timer", "true", "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s2, err := Load(path, testCatalog())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	value, ok := s2.Get("fast-timer")
	if !ok || value != "true" {
		t.Errorf("expected persisted value to survive reload, got %q ok=%v", value, ok)
	}
}
