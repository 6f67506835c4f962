package descriptor

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

var _ backoff.BackOff = (*arithmeticBackOff)(nil)

// arithmeticBackOff implements cenkalti/backoff/v4's BackOff interface
// with the spec's retry strategy: a fixed initial delay, a fixed
// per-attempt increment, and a cap, rather than the package's usual
// exponential growth. It never caps out on its own; runTask wraps it
// with backoff.WithContext so the retry stops when the task's context
// is cancelled.
type arithmeticBackOff struct {
	Initial   time.Duration
	Increment time.Duration
	Cap       time.Duration

	attempt int
}

func newArithmeticBackOff(initial, increment, cap time.Duration) *arithmeticBackOff {
	return &arithmeticBackOff{Initial: initial, Increment: increment, Cap: cap}
}

// NextBackOff returns the delay before the next attempt and advances
// the internal attempt counter.
func (b *arithmeticBackOff) NextBackOff() time.Duration {
	delay := b.Initial + time.Duration(b.attempt)*b.Increment
	if delay > b.Cap {
		delay = b.Cap
	}
	b.attempt++
	return delay
}

// Reset restarts the progression at Initial, used when a new URL is
// assigned to a task.
func (b *arithmeticBackOff) Reset() {
	b.attempt = 0
}
