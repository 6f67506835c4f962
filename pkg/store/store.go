// Package store owns the live device graph: an in-memory cache backed
// by an embedded bbolt database for crash-safe persistence. Its
// exported operations are the only path that persists changes and
// emits events. The devices, endpoints and resources its getters
// return are the live graph objects, not copies.
package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
)

var devicesBucket = []byte("devices")

// Store is the single owner of the device graph.
type Store struct {
	mu      sync.RWMutex
	devices map[string]*model.Device

	bolt *bolt.DB

	cache    *lru.Cache[string, string]
	drivers  *driver.Registry
	bus      *events.Bus
}

// Open creates/opens the bbolt database at path, loads every
// previously persisted device into memory, and returns a ready Store.
func Open(path string, drivers *driver.Registry, bus *events.Bus) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open device database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(devicesBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create devices bucket: %w", err)
	}

	cache, err := lru.New[string, string](2048)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		devices: make(map[string]*model.Device),
		bolt:    db,
		cache:   cache,
		drivers: drivers,
		bus:     bus,
	}

	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) loadAll() error {
	return s.bolt.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(devicesBucket)
		return b.ForEach(func(k, v []byte) error {
			var d model.Device
			if err := json.Unmarshal(v, &d); err != nil {
				log.Error().Err(err).Str("uuid", string(k)).Msg("failed to decode persisted device, skipping")
				return nil
			}
			s.devices[d.UUID] = &d
			return nil
		})
	})
}

// Close releases the underlying bbolt database handle.
func (s *Store) Close() error {
	return s.bolt.Close()
}

func (s *Store) persist(d *model.Device) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.bolt.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(devicesBucket).Put([]byte(d.UUID), data)
	})
}

func (s *Store) removePersisted(uuid string) error {
	return s.bolt.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(devicesBucket).Delete([]byte(uuid))
	})
}

// GetAll returns every live device. The returned slice is a fresh
// snapshot; mutating it does not affect the store.
func (s *Store) GetAll() []*model.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d)
	}
	return out
}

// GetByClass returns every live device whose DeviceClass matches.
func (s *Store) GetByClass(class string) []*model.Device {
	return s.filter(func(d *model.Device) bool { return d.DeviceClass == class })
}

// GetBySubsystem returns every live device whose Subsystem matches.
func (s *Store) GetBySubsystem(subsystem string) []*model.Device {
	return s.filter(func(d *model.Device) bool { return d.Subsystem == subsystem })
}

func (s *Store) filter(pred func(*model.Device) bool) []*model.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Device
	for _, d := range s.devices {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}

// GetByUri resolves a device by its canonical "/<uuid>" URI.
func (s *Store) GetByUri(uri string) (*model.Device, bool) {
	uuid, ok := parseDeviceUUID(uri)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[uuid]
	return d, ok
}

// GetEndpointByUri resolves an endpoint by its "/<uuid>/ep/<id>" URI.
func (s *Store) GetEndpointByUri(uri string) (*model.Endpoint, bool) {
	uuid, epID, ok := parseEndpointUUID(uri)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[uuid]
	if !ok {
		return nil, false
	}
	return d.Endpoint(epID)
}

// GetResourceByUri resolves a resource by either its device-level or
// endpoint-qualified URI form.
func (s *Store) GetResourceByUri(uri string) (*model.Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveResourceLocked(uri)
}

// AddDevice registers a newly onboarded device: persists it, makes it
// visible to readers, and emits deviceAdded. Rejects with DUPLICATE if
// the uuid is already present.
func (s *Store) AddDevice(d *model.Device) error {
	s.mu.Lock()
	if _, exists := s.devices[d.UUID]; exists {
		s.mu.Unlock()
		return gwerrors.New(gwerrors.Duplicate, "device already persisted: "+d.UUID)
	}
	s.devices[d.UUID] = d
	s.mu.Unlock()

	if err := s.persist(d); err != nil {
		log.Error().Err(err).Str("uuid", d.UUID).Msg("failed to persist new device")
	}

	s.bus.Publish(events.Event{Kind: events.DeviceAdded, Timestamp: time.Now(), DeviceUUID: d.UUID, Device: d})
	return nil
}

// RemoveDevice removes uuid and every endpoint/resource/metadata it
// owns, emitting deviceRemoved on success.
func (s *Store) RemoveDevice(uuid string) error {
	s.mu.Lock()
	d, ok := s.devices[uuid]
	if !ok {
		s.mu.Unlock()
		return gwerrors.New(gwerrors.NotFound, "no such device: "+uuid)
	}
	delete(s.devices, uuid)
	s.mu.Unlock()

	if err := s.removePersisted(uuid); err != nil {
		log.Error().Err(err).Str("uuid", uuid).Msg("failed to remove persisted device")
	}

	s.bus.Publish(events.Event{Kind: events.DeviceRemoved, Timestamp: time.Now(), DeviceUUID: uuid, Device: d})
	return nil
}

// RemoveEndpointById removes a single endpoint, preserving the device.
func (s *Store) RemoveEndpointById(deviceUUID, endpointID string) error {
	s.mu.Lock()
	d, ok := s.devices[deviceUUID]
	if !ok {
		s.mu.Unlock()
		return gwerrors.New(gwerrors.NotFound, "no such device: "+deviceUUID)
	}
	found := false
	kept := d.Endpoints[:0]
	for _, e := range d.Endpoints {
		if e.ID == endpointID {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		s.mu.Unlock()
		return gwerrors.New(gwerrors.NotFound, "no such endpoint: "+endpointID)
	}
	d.Endpoints = kept
	s.mu.Unlock()

	if err := s.persist(d); err != nil {
		log.Error().Err(err).Str("uuid", deviceUUID).Msg("failed to persist endpoint removal")
	}
	return nil
}

// ChangeResourceMode overwrites a resource's mode bits in place.
func (s *Store) ChangeResourceMode(uri string, mode model.ResourceMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resolveResourceLocked(uri)
	if !ok {
		return gwerrors.New(gwerrors.NotFound, "no such resource: "+uri)
	}
	r.Mode = mode
	if d, ok := s.ownerDeviceLocked(uri); ok {
		if err := s.persist(d); err != nil {
			log.Error().Err(err).Str("uri", uri).Msg("failed to persist resource mode change")
		}
	}
	return nil
}
