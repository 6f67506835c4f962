package model

import "testing"

func TestInitialResourceValues_AbsentKeySkipsCreation(t *testing.T) {
	bag := NewInitialResourceValues()
	ep := &Endpoint{ID: "1", DeviceURI: "/dev1"}

	r := CreateEndpointResourceIfAvailable(ep, bag, "faulted", "boolean", Readable, CacheNever)
	if r != nil {
		t.Fatalf("expected nil resource for absent key, got %+v", r)
	}
	if len(ep.Resources) != 0 {
		t.Fatalf("expected no resources attached, got %d", len(ep.Resources))
	}
}

func TestInitialResourceValues_PresentNullUsesEmptySentinel(t *testing.T) {
	bag := NewInitialResourceValues()
	bag.PutEndpointNull("1", "faulted")
	ep := &Endpoint{ID: "1", DeviceURI: "/dev1"}

	r := CreateEndpointResourceIfAvailable(ep, bag, "faulted", "boolean", Readable, CacheNever)
	if r == nil {
		t.Fatal("expected resource to be created")
	}
	if r.Value != EmptySentinel {
		t.Errorf("expected empty sentinel value, got %q", r.Value)
	}
}

func TestInitialResourceValues_PresentValueIsUsed(t *testing.T) {
	bag := NewInitialResourceValues()
	bag.PutEndpoint("1", "faulted", "false")
	ep := &Endpoint{ID: "1", DeviceURI: "/dev1"}

	r := CreateEndpointResourceIfAvailable(ep, bag, "faulted", "boolean", Readable, CacheNever)
	if r == nil {
		t.Fatal("expected resource to be created")
	}
	if r.Value != "false" {
		t.Errorf("expected value %q, got %q", "false", r.Value)
	}
	if r.URI() != "/dev1/ep/1/r/faulted" {
		t.Errorf("unexpected uri: %s", r.URI())
	}
}

func TestInitialResourceValues_PutIfAbsentDoesNotReplace(t *testing.T) {
	bag := NewInitialResourceValues()
	bag.Put("model", "v1")

	if bag.PutIfAbsent("model", "v2") {
		t.Fatal("expected PutIfAbsent to report no-op when key already present")
	}
	value, present, isNull := bag.Get("model")
	if !present || isNull || value != "v1" {
		t.Errorf("expected original value to survive, got value=%q present=%v isNull=%v", value, present, isNull)
	}
}

func TestDeviceEndpointResourceURIs(t *testing.T) {
	d := NewDevice("abc-123", "sensor", "zigbee")
	ep := &Endpoint{ID: "1", Profile: "sensor"}
	d.AddEndpoint(ep)

	r := &Resource{ID: "faulted", Type: "boolean", Mode: Readable}
	ep.AddResource(r)

	if got, want := d.URI(), "/abc-123"; got != want {
		t.Errorf("device uri = %q, want %q", got, want)
	}
	if got, want := ep.URI(), "/abc-123/ep/1"; got != want {
		t.Errorf("endpoint uri = %q, want %q", got, want)
	}
	if got, want := r.URI(), "/abc-123/ep/1/r/faulted"; got != want {
		t.Errorf("resource uri = %q, want %q", got, want)
	}
}
