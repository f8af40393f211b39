package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Breaker stops calling a dependency after consecutive failures and lets a
// limited number of probes through once the open timeout has elapsed.
type Breaker struct {
	name string
	cfg  BreakerConfig

	mu                sync.Mutex
	state             State
	failures          int
	openedAt          time.Time
	probesInFlight    int
	probesSucceeded   int
	now               func() time.Time
	onStateTransition func(name string, from, to State)
}

type BreakerOption func(*Breaker)

// WithStateListener is called with the breaker lock held; keep it cheap.
func WithStateListener(fn func(name string, from, to State)) BreakerOption {
	return func(b *Breaker) {
		b.onStateTransition = fn
	}
}

func NewBreaker(name string, cfg BreakerConfig, opts ...BreakerOption) *Breaker {
	b := &Breaker{
		name:  name,
		cfg:   cfg.normalize(),
		state: StateClosed,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string {
	return b.name
}

// Execute runs fn unless the breaker is open. Context cancellation from the
// caller is not counted against the dependency.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn(ctx)
	switch {
	case err == nil:
		b.recordSuccess()
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		b.release()
	default:
		b.recordFailure()
	}
	return err
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return fmt.Errorf("%w: %s", ErrCircuitOpen, b.name)
		}
		b.transition(StateHalfOpen)
	}

	if b.state == StateHalfOpen {
		if b.probesInFlight >= b.cfg.HalfOpenProbes {
			return fmt.Errorf("%w: %s", ErrCircuitOpen, b.name)
		}
		b.probesInFlight++
	}

	return nil
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.probesInFlight = max(b.probesInFlight-1, 0)
		b.probesSucceeded++
		if b.probesSucceeded >= b.cfg.HalfOpenProbes && b.probesInFlight == 0 {
			b.transition(StateClosed)
		}
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		b.transition(StateOpen)
	case StateOpen:
		b.openedAt = b.now()
	}
}

func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.probesInFlight = max(b.probesInFlight-1, 0)
	}
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	b.probesInFlight = 0
	b.probesSucceeded = 0
	switch to {
	case StateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case StateOpen:
		b.openedAt = b.now()
	}
	if b.onStateTransition != nil && from != to {
		b.onStateTransition(b.name, from, to)
	}
}
