// Package propconfig implements the gateway's system property store: a
// single XML file of key/value/src triples, schema-version tagged,
// gated in front of writes by a JSON-defined type catalog so an
// out-of-range or ill-typed value rejects with VALUE_NOT_ALLOWED
// instead of silently corrupting configuration.
//
// The XML encoding itself is built on the standard library's
// encoding/xml: no example dependency in the pack addresses XML
// serialization, and the format here is a small, fixed shape that
// does not benefit from a third-party XML toolkit.
package propconfig

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"sync"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/atomicfile"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/device/schema"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
)

const currentSchemaVersion = 1

// Property is a single persisted key/value pair, tagged with the
// component that last wrote it.
type Property struct {
	Key   string `xml:"key"`
	Value string `xml:"value"`
	Src   string `xml:"src"`
}

type propertyFile struct {
	XMLName       xml.Name   `xml:"properties"`
	SchemaVersion int        `xml:"schemaVersion,attr"`
	Properties    []Property `xml:"property"`
}

// Store is the in-memory, disk-backed property table.
type Store struct {
	mu         sync.RWMutex
	path       string
	properties map[string]Property

	typeCatalog json.RawMessage
	validator   *schema.Validator
}

// Load reads path (creating an empty store if it does not exist yet)
// and gates future writes against typeCatalog, a JSON Schema object
// whose top-level "properties" describe the allowed type/range for
// each known property key. A key absent from typeCatalog is
// unconstrained.
func Load(path string, typeCatalog json.RawMessage) (*Store, error) {
	s := &Store{
		path:        path,
		properties:  make(map[string]Property),
		typeCatalog: typeCatalog,
		validator:   schema.NewValidator(),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var pf propertyFile
	if err := xml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	for _, p := range pf.Properties {
		s.properties[p.Key] = p
	}
	return s, nil
}

// Get returns the current value for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[key]
	return p.Value, ok
}

// All returns a snapshot of every property.
func (s *Store) All() map[string]Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Property, len(s.properties))
	for k, v := range s.properties {
		out[k] = v
	}
	return out
}

// Set validates value against the type catalog entry for key (if any)
// and, on success, stores it and persists the file atomically. A
// schema violation returns a VALUE_NOT_ALLOWED error carrying the
// validator's message and leaves the store unchanged.
//
// The map update and the disk write happen under the same lock
// acquisition, so concurrent Set calls persist in the same order they
// apply in memory; releasing the lock between the two would let a
// slower writer's snapshot land on disk after a faster, later one and
// leave the file silently diverging from Get's view of the store.
func (s *Store) Set(key, value, src string) error {
	if err := s.validateValue(key, value); err != nil {
		return gwerrors.Wrap(gwerrors.ValueNotAllowed, "property "+key+" rejected by type catalog", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[key] = Property{Key: key, Value: value, Src: src}
	return s.writeLocked(s.snapshotLocked())
}

func (s *Store) snapshotLocked() propertyFile {
	pf := propertyFile{SchemaVersion: currentSchemaVersion}
	for _, p := range s.properties {
		pf.Properties = append(pf.Properties, p)
	}
	return pf
}

func (s *Store) writeLocked(pf propertyFile) error {
	data, err := xml.MarshalIndent(pf, "", "  ")
	if err != nil {
		return err
	}
	return atomicfile.WriteWithBackup(s.path, data, 0o644)
}

func (s *Store) propertySchema(key string) (any, bool) {
	if len(s.typeCatalog) == 0 {
		return nil, false
	}
	var catalog struct {
		Properties map[string]any `json:"properties"`
	}
	if err := json.Unmarshal(s.typeCatalog, &catalog); err != nil {
		return nil, false
	}
	sub, ok := catalog.Properties[key]
	return sub, ok
}

func (s *Store) validateValue(key, value string) error {
	subSchema, constrained := s.propertySchema(key)
	if !constrained {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		parsed = value
	}

	wrapper, err := json.Marshal(map[string]any{
		"type":       "object",
		"properties": map[string]any{key: subSchema},
	})
	if err != nil {
		return err
	}
	return s.validator.Validate(wrapper, map[string]any{key: parsed})
}
