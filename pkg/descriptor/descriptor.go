// Package descriptor implements the allow-list/deny-list download and
// gating subsystem: it keeps the two descriptor files synchronized
// with their declared URLs, parses them into a lookup Catalog, and
// tells the lifecycle orchestrator when it is safe to start admitting
// devices.
package descriptor

import (
	"encoding/json"
	"strings"
)

// Descriptor is a single allow-list entry: a metadata record
// describing how to configure a specific device model.
type Descriptor struct {
	DeviceClass  string            `json:"deviceClass"`
	Manufacturer string            `json:"manufacturer"`
	Model        string            `json:"model"`
	MinVersion   int               `json:"minVersion"`
	MaxVersion   int               `json:"maxVersion"`
	Config       map[string]string `json:"config"`
}

func descriptorKey(manufacturer, model string) string {
	return strings.ToLower(manufacturer) + "\x00" + strings.ToLower(model)
}

// DenyEntry is a single deny-list entry: a manufacturer/model pair
// that must never be admitted regardless of an allow-list match.
type DenyEntry struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

// Catalog is the parsed, queryable form of the current allow-list and
// deny-list content. A Catalog is immutable once built; the Handler
// swaps in a new Catalog after each successful download rather than
// mutating one in place, so readers never observe a half-updated list.
type Catalog struct {
	allow map[string]*Descriptor
	deny  map[string]struct{}
}

// NewEmptyCatalog returns a Catalog with no entries, used before the
// first successful descriptor download completes.
func NewEmptyCatalog() *Catalog {
	return &Catalog{allow: make(map[string]*Descriptor), deny: make(map[string]struct{})}
}

// ParseAllowList decodes a JSON array of Descriptor records.
func ParseAllowList(data []byte) ([]*Descriptor, error) {
	var entries []*Descriptor
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseDenyList decodes a JSON array of DenyEntry records.
func ParseDenyList(data []byte) ([]DenyEntry, error) {
	var entries []DenyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// WithAllowList returns a copy of c with its allow-list entries
// replaced.
func (c *Catalog) WithAllowList(entries []*Descriptor) *Catalog {
	next := &Catalog{allow: make(map[string]*Descriptor, len(entries)), deny: c.deny}
	for _, d := range entries {
		next.allow[descriptorKey(d.Manufacturer, d.Model)] = d
	}
	return next
}

// WithDenyList returns a copy of c with its deny-list entries
// replaced.
func (c *Catalog) WithDenyList(entries []DenyEntry) *Catalog {
	next := &Catalog{allow: c.allow, deny: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		next.deny[descriptorKey(e.Manufacturer, e.Model)] = struct{}{}
	}
	return next
}

// Lookup finds the Descriptor matching manufacturer/model, subject to
// deviceClassVersion falling within [MinVersion, MaxVersion] when
// either bound is non-zero. A deny-list match always wins over an
// allow-list hit.
func (c *Catalog) Lookup(manufacturer, model string, deviceClassVersion int) (*Descriptor, bool) {
	key := descriptorKey(manufacturer, model)
	if _, denied := c.deny[key]; denied {
		return nil, false
	}
	d, ok := c.allow[key]
	if !ok {
		return nil, false
	}
	if d.MinVersion != 0 && deviceClassVersion < d.MinVersion {
		return nil, false
	}
	if d.MaxVersion != 0 && deviceClassVersion > d.MaxVersion {
		return nil, false
	}
	return d, true
}
