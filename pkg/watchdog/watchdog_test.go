package watchdog

import "testing"

func newTestWatchdog(startMillis int64) (*Watchdog, *int64) {
	w := New()
	clock := startMillis
	w.now = func() int64 { return clock }
	return w, &clock
}

func TestMonitorZeroTimeoutIsNoOp(t *testing.T) {
	w, _ := newTestWatchdog(0)
	w.Monitor("u1", 0, false)

	w.mu.Lock()
	_, tracked := w.entries["u1"]
	w.mu.Unlock()
	if tracked {
		t.Error("expected zero timeout to be a no-op")
	}
}

func TestPetClearsFailAndNotifiesRestored(t *testing.T) {
	w, clock := newTestWatchdog(0)
	restored := make(chan string, 1)
	w.OnRestored = func(uuid string) { restored <- uuid }

	w.Monitor("u1", 60, true)
	*clock = 5000
	w.Pet("u1")

	select {
	case uuid := <-restored:
		if uuid != "u1" {
			t.Errorf("unexpected uuid: %s", uuid)
		}
	default:
		t.Fatal("expected restored callback to fire")
	}
}

func TestPetIsIdempotentWithRespectToCallbacks(t *testing.T) {
	w, _ := newTestWatchdog(0)
	var restoredCount int
	w.OnRestored = func(uuid string) { restoredCount++ }

	w.Monitor("u1", 60, true)
	w.Pet("u1")
	w.Pet("u1")

	if restoredCount != 1 {
		t.Errorf("expected exactly one restored callback, got %d", restoredCount)
	}
}

func TestForceFailOnlyFiresOnce(t *testing.T) {
	w, _ := newTestWatchdog(0)
	var failedCount int
	w.OnFailed = func(uuid string) { failedCount++ }

	w.Monitor("u1", 60, false)
	w.ForceFail("u1")
	w.ForceFail("u1")

	if failedCount != 1 {
		t.Errorf("expected exactly one failed callback, got %d", failedCount)
	}
}

func TestScanDetectsExpiredEntryExactlyOnce(t *testing.T) {
	w, clock := newTestWatchdog(0)
	var failedCount int
	w.OnFailed = func(uuid string) { failedCount++ }

	w.Monitor("u1", 60, false)
	*clock = 65 * 1000
	w.scan()
	w.scan()

	if failedCount != 1 {
		t.Errorf("expected exactly one failed notification, got %d", failedCount)
	}
}

func TestScanFastModeUsesMillisecondUnits(t *testing.T) {
	w, clock := newTestWatchdog(0)
	var failedCount int
	w.OnFailed = func(uuid string) { failedCount++ }
	w.SetFastMode(true)

	w.Monitor("u1", 60, false)
	*clock = 65
	w.scan()

	if failedCount != 1 {
		t.Errorf("expected fast-mode scan to treat timeout as milliseconds, got %d failures", failedCount)
	}
}

func TestRemainingForLPM(t *testing.T) {
	w, clock := newTestWatchdog(0)
	w.Monitor("u1", 120, false)

	*clock = 30 * 1000
	if got := w.RemainingForLPM("u1", 120); got != 90 {
		t.Errorf("got %d, want 90", got)
	}

	*clock = 130 * 1000
	if got := w.RemainingForLPM("u1", 120); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
}

func TestRemainingForLPMFailingDeviceReturnsNegativeOne(t *testing.T) {
	w, _ := newTestWatchdog(0)
	w.Monitor("u1", 120, true)

	if got := w.RemainingForLPM("u1", 120); got != -1 {
		t.Errorf("got %d, want -1 for failing device", got)
	}
}

func TestMonitorStopMonitorMonitorRestoresFreshState(t *testing.T) {
	w, clock := newTestWatchdog(0)
	w.Monitor("u1", 60, true)
	w.StopMonitoring("u1")
	*clock = 1000
	w.Monitor("u1", 60, false)

	w.mu.Lock()
	e := w.entries["u1"]
	w.mu.Unlock()
	if e.inFail {
		t.Error("expected fresh monitor to start out of fail state")
	}
	if e.lastSuccessMonotonicMs != 1000 {
		t.Errorf("expected lastSuccess to reset to now, got %d", e.lastSuccessMonotonicMs)
	}
}
