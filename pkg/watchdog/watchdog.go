// Package watchdog implements the communication watchdog: a map of
// per-device liveness deadlines, a single background scanner, and
// message-passed callback dispatch so user code never runs while the
// monitored-device map is locked.
package watchdog

import (
	"sync"
	"time"
)

// Callback is invoked for a failed/restored transition. Never called
// while the Watchdog's internal lock is held.
type Callback func(uuid string)

const defaultScanInterval = 60 * time.Second

type entry struct {
	uuid                   string
	timeoutSecs            int64
	lastSuccessMonotonicMs int64
	inFail                 bool
}

// Watchdog tracks per-device liveness and periodically scans for
// devices that have gone silent past their timeout.
type Watchdog struct {
	mu      sync.Mutex
	entries map[string]*entry

	fastMode bool

	OnFailed   Callback
	OnRestored Callback

	scanInterval time.Duration
	wake         chan struct{}
	stop         chan struct{}
	stopped      sync.Once

	now func() int64
}

// New returns a Watchdog with the default 60s scan interval. Call Run
// in its own goroutine to start the background scanner.
func New() *Watchdog {
	return &Watchdog{
		entries:      make(map[string]*entry),
		scanInterval: defaultScanInterval,
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		now:          nowMillis,
	}
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// Monitor inserts or replaces the entry for uuid with the given
// timeout and initial failing state. A timeoutSecs of 0 is a no-op:
// the device is never armed and never produces a failure event.
func (w *Watchdog) Monitor(uuid string, timeoutSecs int64, initialInFail bool) {
	if timeoutSecs == 0 {
		return
	}
	w.mu.Lock()
	w.entries[uuid] = &entry{
		uuid:                   uuid,
		timeoutSecs:            timeoutSecs,
		lastSuccessMonotonicMs: w.now(),
		inFail:                 initialInFail,
	}
	w.mu.Unlock()
}

// StopMonitoring removes uuid from the watchdog entirely.
func (w *Watchdog) StopMonitoring(uuid string) {
	w.mu.Lock()
	delete(w.entries, uuid)
	w.mu.Unlock()
}

// Pet refreshes uuid's liveness timestamp. If the device was in a
// failing state, it is cleared and a restored notification is queued
// for delivery after the lock is released.
func (w *Watchdog) Pet(uuid string) {
	var notify func()

	w.mu.Lock()
	if e, ok := w.entries[uuid]; ok {
		e.lastSuccessMonotonicMs = w.now()
		if e.inFail {
			e.inFail = false
			if w.OnRestored != nil {
				notify = func() { w.OnRestored(uuid) }
			}
		}
	}
	w.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// ForceFail marks uuid failing (if not already) and fires a failed
// notification.
func (w *Watchdog) ForceFail(uuid string) {
	var notify func()

	w.mu.Lock()
	if e, ok := w.entries[uuid]; ok && !e.inFail {
		e.inFail = true
		if w.OnFailed != nil {
			notify = func() { w.OnFailed(uuid) }
		}
	}
	w.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// ResetTimeout updates uuid's timeout. If the device is not currently
// failing, this counts as a fresh pet (its liveness clock restarts).
func (w *Watchdog) ResetTimeout(uuid string, newTimeoutSecs int64) {
	w.mu.Lock()
	e, ok := w.entries[uuid]
	if ok {
		e.timeoutSecs = newTimeoutSecs
		if !e.inFail {
			e.lastSuccessMonotonicMs = w.now()
		}
	}
	w.mu.Unlock()
}

// RemainingForLPM returns delaySecs minus the elapsed time since last
// success, in whole seconds, or -1 if the device is unknown, already
// failing, or the window has already expired.
func (w *Watchdog) RemainingForLPM(uuid string, delaySecs int64) int32 {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.entries[uuid]
	if !ok || e.inFail {
		return -1
	}
	elapsedSecs := (w.now() - e.lastSuccessMonotonicMs) / 1000
	remaining := delaySecs - elapsedSecs
	if remaining < 0 {
		return -1
	}
	return int32(remaining)
}

// SetFastMode toggles the scan-unit collapse (seconds -> milliseconds)
// used to accelerate synthetic test scenarios, and wakes the scanner
// so the new mode takes effect without waiting out the current sleep.
func (w *Watchdog) SetFastMode(enabled bool) {
	w.mu.Lock()
	w.fastMode = enabled
	w.mu.Unlock()
	w.wakeScanner()
}

func (w *Watchdog) wakeScanner() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run executes the background scanner loop until Stop is called. It
// is intended to run in its own goroutine for the lifetime of the
// gateway process.
func (w *Watchdog) Run() {
	for {
		select {
		case <-w.stop:
			return
		case <-time.After(w.scanInterval):
			w.scan()
		case <-w.wake:
			w.scan()
		}
	}
}

// Stop halts the background scanner. Safe to call more than once.
func (w *Watchdog) Stop() {
	w.stopped.Do(func() { close(w.stop) })
}

// scan walks every entry once, collecting newly-failed uuids under the
// lock, then fires their callbacks after releasing it.
func (w *Watchdog) scan() {
	unitDivisor := int64(1000)

	w.mu.Lock()
	fastMode := w.fastMode
	if fastMode {
		unitDivisor = 1
	}
	var newlyFailed []string
	now := w.now()
	for _, e := range w.entries {
		if e.inFail {
			continue
		}
		elapsed := now - e.lastSuccessMonotonicMs
		if elapsed > e.timeoutSecs*unitDivisor {
			e.inFail = true
			newlyFailed = append(newlyFailed, e.uuid)
		}
	}
	w.mu.Unlock()

	if w.OnFailed != nil {
		for _, uuid := range newlyFailed {
			w.OnFailed(uuid)
		}
	}
}
