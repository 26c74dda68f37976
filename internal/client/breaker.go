package client

import (
	"errors"
	"sync"
	"time"
)

// ErrServerUnavailable is returned without a request while the breaker is open.
var ErrServerUnavailable = errors.New("server unavailable, retry later")

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

type BreakerConfig struct {
	MaxFailures  int
	ResetTimeout time.Duration
	// HalfOpenSuccesses closes the breaker again after this many probes succeed.
	HalfOpenSuccesses int
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:       5,
		ResetTimeout:      30 * time.Second,
		HalfOpenSuccesses: 2,
	}
}

// breaker stops the client from calling a server that keeps failing.
// Only transport errors and 5xx responses count as failures.
type breaker struct {
	mu        sync.Mutex
	config    BreakerConfig
	now       func() time.Time
	state     breakerState
	failures  int
	successes int
	openedAt  time.Time
}

func newBreaker(config BreakerConfig) *breaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = DefaultBreakerConfig().MaxFailures
	}
	if config.HalfOpenSuccesses <= 0 {
		config.HalfOpenSuccesses = 1
	}
	return &breaker{config: config, now: time.Now}
}

// allow reports whether a request may be sent, moving open to half-open once
// the reset timeout has passed.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == breakerOpen {
		if b.now().Sub(b.openedAt) < b.config.ResetTimeout {
			return false
		}
		b.state = breakerHalfOpen
		b.successes = 0
	}
	return true
}

func (b *breaker) success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerHalfOpen:
		b.successes++
		if b.successes >= b.config.HalfOpenSuccesses {
			b.state = breakerClosed
			b.failures = 0
		}
	case breakerClosed:
		b.failures = 0
	}
}

func (b *breaker) failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerHalfOpen:
		b.open()
	case breakerClosed:
		b.failures++
		if b.failures >= b.config.MaxFailures {
			b.open()
		}
	}
}

func (b *breaker) open() {
	b.state = breakerOpen
	b.openedAt = b.now()
	b.successes = 0
}

func (b *breaker) current() breakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
