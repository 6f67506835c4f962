// Package events implements the gateway-wide publish/subscribe bus used
// to fan out device lifecycle and communication-state changes to the
// API, MCP, and watchdog layers. It generalizes the channel-subscriber
// pattern the zigbee controller used privately for discovery events
// into a shared, typed bus any component can publish or subscribe to.
package events

import (
	"sync"
	"time"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
)

// Kind identifies the category of an Event.
type Kind string

const (
	DeviceAdded           Kind = "deviceAdded"
	DeviceRemoved         Kind = "deviceRemoved"
	EndpointAdded         Kind = "endpointAdded"
	EndpointUpdated       Kind = "endpointUpdated"
	EndpointDisabled      Kind = "endpointDisabled"
	ResourceUpdated       Kind = "resourceUpdated"
	CommunicationFailed   Kind = "communicationFailed"
	CommunicationRestored Kind = "communicationRestored"
	DescriptorsUpdated    Kind = "descriptorsUpdated"
)

// Event is a single notification carried on the bus. Fields not
// relevant to Kind are left zero; consumers switch on Kind before
// reading the others.
type Event struct {
	Kind       Kind
	Timestamp  time.Time
	DeviceUUID string
	EndpointID string
	ResourceID string
	URI        string
	OldValue   string
	NewValue   string
	Device     *model.Device
	Endpoint   *model.Endpoint
	Resource   *model.Resource
}

// Bus fans out Events to any number of subscribers. Publish never
// blocks on a slow subscriber beyond the subscriber's own buffer;
// a subscriber that falls behind drops events rather than stalling
// the publisher, matching the "no callback invoked under a lock"
// discipline used throughout the gateway.
type Bus struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
}

// NewBus returns an empty, ready-to-use Bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[chan Event]struct{})}
}

// Subscribe registers a new channel of the given buffer depth and
// returns it. Callers must Unsubscribe when done to avoid leaking the
// channel and its buffer.
func (b *Bus) Subscribe(buffer int) chan Event {
	ch := make(chan Event, buffer)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch. Safe to call more than once.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish fans evt out to every current subscriber. A subscriber whose
// buffer is full is skipped for this event rather than blocking the
// publisher.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}
