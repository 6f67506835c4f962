package store

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
)

// parseDeviceUUID extracts the uuid from a "/<uuid>" style URI.
func parseDeviceUUID(uri string) (string, bool) {
	trimmed := strings.TrimPrefix(uri, "/")
	if trimmed == "" || strings.Contains(trimmed, "/") {
		return "", false
	}
	return trimmed, true
}

// parseEndpointUUID extracts (uuid, endpointId) from
// "/<uuid>/ep/<id>".
func parseEndpointUUID(uri string) (uuid, endpointID string, ok bool) {
	parts := strings.Split(strings.TrimPrefix(uri, "/"), "/")
	if len(parts) != 3 || parts[1] != "ep" {
		return "", "", false
	}
	return parts[0], parts[2], true
}

// resolveResourceLocked resolves a resource URI in either form:
// "/<uuid>/r/<id>" (device-owned) or "/<uuid>/ep/<epId>/r/<id>"
// (endpoint-owned). Caller must hold s.mu.
func (s *Store) resolveResourceLocked(uri string) (*model.Resource, bool) {
	parts := strings.Split(strings.TrimPrefix(uri, "/"), "/")
	if len(parts) < 3 {
		return nil, false
	}
	d, ok := s.devices[parts[0]]
	if !ok {
		return nil, false
	}

	switch {
	case len(parts) == 3 && parts[1] == "r":
		return d.Resource(parts[2])
	case len(parts) == 5 && parts[1] == "ep" && parts[3] == "r":
		ep, ok := d.Endpoint(parts[2])
		if !ok {
			return nil, false
		}
		return ep.Resource(parts[4])
	default:
		return nil, false
	}
}

// ownerDeviceLocked returns the device owning the resource/endpoint
// addressed by uri. Caller must hold s.mu.
func (s *Store) ownerDeviceLocked(uri string) (*model.Device, bool) {
	parts := strings.Split(strings.TrimPrefix(uri, "/"), "/")
	if len(parts) < 1 {
		return nil, false
	}
	d, ok := s.devices[parts[0]]
	return d, ok
}

// ReadResource returns the current value of the resource at uri. A
// CacheAlways resource is served from the in-memory LRU cache when
// present; otherwise it is re-read through the managing driver.
func (s *Store) ReadResource(uri string) (string, error) {
	s.mu.RLock()
	r, ok := s.resolveResourceLocked(uri)
	if !ok {
		s.mu.RUnlock()
		return "", gwerrors.New(gwerrors.NotFound, "no such resource: "+uri)
	}
	if r.CachingPolicy == model.CacheAlways {
		if cached, hit := s.cache.Get(uri); hit {
			s.mu.RUnlock()
			return cached, nil
		}
	}
	d, _ := s.ownerDeviceLocked(uri)
	driverName := ""
	if d != nil {
		driverName = d.ManagingDriverName
	}
	s.mu.RUnlock()

	drv, ok := s.drivers.Get(driverName)
	if !ok {
		return "", gwerrors.New(gwerrors.DriverError, "no driver registered: "+driverName)
	}

	value, err := drv.ReadResource(r)
	if err != nil {
		return "", gwerrors.Wrap(gwerrors.DriverError, "driver read failed", err)
	}

	if r.CachingPolicy == model.CacheAlways {
		s.cache.Add(uri, value)
	}
	return value, nil
}

// WriteResource resolves uri, confirms WRITEABLE mode, and delegates
// to the managing driver. If the driver reports handledByStore, the
// store persists the new value and, if EMIT_EVENTS is set and the
// value actually changed, emits resourceUpdated.
func (s *Store) WriteResource(uri, newValue string) error {
	s.mu.Lock()
	r, ok := s.resolveResourceLocked(uri)
	if !ok {
		s.mu.Unlock()
		return gwerrors.New(gwerrors.NotFound, "no such resource: "+uri)
	}
	if !r.Mode.Has(model.Writeable) {
		s.mu.Unlock()
		return gwerrors.New(gwerrors.NotAllowed, "resource is not writeable: "+uri)
	}
	previousValue := r.Value
	d, _ := s.ownerDeviceLocked(uri)
	driverName := ""
	if d != nil {
		driverName = d.ManagingDriverName
	}
	s.mu.Unlock()

	drv, ok := s.drivers.Get(driverName)
	if !ok {
		return gwerrors.New(gwerrors.DriverError, "no driver registered: "+driverName)
	}

	handledByStore, err := drv.WriteEndpointResource(r, previousValue, newValue)
	if err != nil {
		return gwerrors.Wrap(gwerrors.DriverError, "driver write failed", err)
	}
	if !handledByStore {
		return nil
	}

	s.mu.Lock()
	r.Value = newValue
	if r.CachingPolicy == model.CacheAlways {
		s.cache.Add(uri, newValue)
	}
	s.mu.Unlock()

	if d != nil {
		if err := s.persist(d); err != nil {
			log.Error().Err(err).Str("uri", uri).Msg("failed to persist resource write")
		}
	}

	if r.Mode.Has(model.EmitEvents) && previousValue != newValue {
		s.bus.Publish(events.Event{
			Kind:       events.ResourceUpdated,
			Timestamp:  time.Now(),
			ResourceID: r.ID,
			URI:        uri,
			OldValue:   previousValue,
			NewValue:   newValue,
			Resource:   r,
		})
	}
	return nil
}

// ExecuteResource delegates to the managing driver's execute hook and
// returns its response verbatim. Executing has no persistence
// side-effect unless the driver separately calls back into the store.
func (s *Store) ExecuteResource(uri, arg string) (string, error) {
	s.mu.RLock()
	r, ok := s.resolveResourceLocked(uri)
	if !ok {
		s.mu.RUnlock()
		return "", gwerrors.New(gwerrors.NotFound, "no such resource: "+uri)
	}
	d, _ := s.ownerDeviceLocked(uri)
	driverName := ""
	if d != nil {
		driverName = d.ManagingDriverName
	}
	s.mu.RUnlock()

	drv, ok := s.drivers.Get(driverName)
	if !ok {
		return "", gwerrors.New(gwerrors.DriverError, "no driver registered: "+driverName)
	}

	result, err := drv.ExecuteResource(r, arg)
	if err != nil {
		return "", gwerrors.Wrap(gwerrors.DriverError, "driver execute failed", err)
	}
	return result, nil
}

// SetMetadata attaches name=value to the device or endpoint addressed
// by ownerURI.
func (s *Store) SetMetadata(ownerURI, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uuid, ok := parseDeviceUUID(ownerURI); ok {
		d, exists := s.devices[uuid]
		if !exists {
			return gwerrors.New(gwerrors.NotFound, "no such device: "+ownerURI)
		}
		d.Metadata[name] = &model.Metadata{Name: name, Value: value}
		return s.persistOrLog(d, ownerURI)
	}
	if uuid, epID, ok := parseEndpointUUID(ownerURI); ok {
		d, exists := s.devices[uuid]
		if !exists {
			return gwerrors.New(gwerrors.NotFound, "no such device: "+ownerURI)
		}
		ep, exists := d.Endpoint(epID)
		if !exists {
			return gwerrors.New(gwerrors.NotFound, "no such endpoint: "+ownerURI)
		}
		ep.Metadata[name] = &model.Metadata{Name: name, Value: value}
		return s.persistOrLog(d, ownerURI)
	}
	return gwerrors.New(gwerrors.InvalidArg, "malformed metadata owner uri: "+ownerURI)
}

func (s *Store) persistOrLog(d *model.Device, uri string) error {
	if err := s.persist(d); err != nil {
		log.Error().Err(err).Str("uri", uri).Msg("failed to persist metadata write")
	}
	return nil
}

// GetMetadata returns the metadata value named name on the device or
// endpoint addressed by ownerURI.
func (s *Store) GetMetadata(ownerURI, name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if uuid, ok := parseDeviceUUID(ownerURI); ok {
		d, exists := s.devices[uuid]
		if !exists {
			return "", false
		}
		m, exists := d.Metadata[name]
		if !exists {
			return "", false
		}
		return m.Value, true
	}
	if uuid, epID, ok := parseEndpointUUID(ownerURI); ok {
		d, exists := s.devices[uuid]
		if !exists {
			return "", false
		}
		ep, exists := d.Endpoint(epID)
		if !exists {
			return "", false
		}
		m, exists := ep.Metadata[name]
		if !exists {
			return "", false
		}
		return m.Value, true
	}
	return "", false
}
