package events

import "testing"

func TestBusPublishDeliversToSubscriber(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(4)
	defer bus.Unsubscribe(ch)

	bus.Publish(Event{Kind: DeviceAdded, DeviceUUID: "abc"})

	select {
	case evt := <-ch:
		if evt.Kind != DeviceAdded || evt.DeviceUUID != "abc" {
			t.Errorf("unexpected event: %+v", evt)
		}
	default:
		t.Fatal("expected event to be delivered")
	}
}

func TestBusPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(1)
	defer bus.Unsubscribe(ch)

	bus.Publish(Event{Kind: ResourceUpdated})
	// Second publish must not block even though the buffer is full.
	done := make(chan struct{})
	go func() {
		bus.Publish(Event{Kind: ResourceUpdated})
		close(done)
	}()
	<-done
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(1)
	bus.Unsubscribe(ch)

	bus.Publish(Event{Kind: DeviceRemoved})

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after unsubscribe")
	}
}
