package descriptor

import "testing"

func TestCatalogLookupHonorsVersionRange(t *testing.T) {
	c := NewEmptyCatalog().WithAllowList([]*Descriptor{
		{Manufacturer: "Acme", Model: "Widget", MinVersion: 2, MaxVersion: 4},
	})

	if _, ok := c.Lookup("Acme", "Widget", 1); ok {
		t.Error("expected version below MinVersion to be rejected")
	}
	if _, ok := c.Lookup("Acme", "Widget", 5); ok {
		t.Error("expected version above MaxVersion to be rejected")
	}
	if _, ok := c.Lookup("Acme", "Widget", 3); !ok {
		t.Error("expected version within range to match")
	}
}

func TestCatalogLookupIsCaseInsensitive(t *testing.T) {
	c := NewEmptyCatalog().WithAllowList([]*Descriptor{
		{Manufacturer: "Acme", Model: "Widget"},
	})
	if _, ok := c.Lookup("acme", "WIDGET", 0); !ok {
		t.Error("expected case-insensitive match")
	}
}

func TestDenyListWinsOverAllowList(t *testing.T) {
	c := NewEmptyCatalog().
		WithAllowList([]*Descriptor{{Manufacturer: "Acme", Model: "Widget"}}).
		WithDenyList([]DenyEntry{{Manufacturer: "Acme", Model: "Widget"}})

	if _, ok := c.Lookup("Acme", "Widget", 0); ok {
		t.Error("expected deny-list entry to override allow-list match")
	}
}

func TestParseAllowListAndDenyList(t *testing.T) {
	allow, err := ParseAllowList([]byte(`[{"deviceClass":"sensor","manufacturer":"Acme","model":"Widget"}]`))
	if err != nil || len(allow) != 1 {
		t.Fatalf("unexpected result: %v %v", allow, err)
	}
	deny, err := ParseDenyList([]byte(`[{"manufacturer":"Bad","model":"Actor"}]`))
	if err != nil || len(deny) != 1 {
		t.Fatalf("unexpected result: %v %v", deny, err)
	}
}
