package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      20 * time.Millisecond,
		HalfOpenMax:      2,
	}
}

var errDownstream = errors.New("downstream failure")

func failN(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}
}

func TestExecute_PassesThroughWhenClosed(t *testing.T) {
	cb := New(testConfig())

	err := cb.Execute(func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.GetState())

	err = cb.Execute(func() error { return errDownstream })
	assert.ErrorIs(t, err, errDownstream)
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestOpensAfterFailureThreshold(t *testing.T) {
	cb := New(testConfig())

	failN(cb, 3)
	assert.Equal(t, StateOpen, cb.GetState())

	// Open breaker fails fast without calling fn.
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(testConfig())

	failN(cb, 2)
	assert.NoError(t, cb.Execute(func() error { return nil }))
	failN(cb, 2)

	// Never reached three consecutive failures.
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := New(testConfig())
	failN(cb, 3)
	assert.Equal(t, StateOpen, cb.GetState())

	time.Sleep(25 * time.Millisecond)

	// Two successful probes close the breaker.
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestHalfOpenProbeSlotsAreReleased(t *testing.T) {
	cfg := Config{
		FailureThreshold: 3,
		SuccessThreshold: 3,
		OpenTimeout:      20 * time.Millisecond,
		HalfOpenMax:      1,
	}
	cb := New(cfg)
	failN(cb, 3)
	assert.Equal(t, StateOpen, cb.GetState())

	time.Sleep(25 * time.Millisecond)

	// Sequential probes each reuse the single slot; the breaker closes after
	// the success threshold instead of wedging in half-open.
	for i := 0; i < 3; i++ {
		assert.NoError(t, cb.Execute(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New(testConfig())
	failN(cb, 3)

	time.Sleep(25 * time.Millisecond)

	err := cb.Execute(func() error { return errDownstream })
	assert.ErrorIs(t, err, errDownstream)
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestReset(t *testing.T) {
	cb := New(testConfig())
	failN(cb, 3)
	assert.Equal(t, StateOpen, cb.GetState())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState())
	assert.NoError(t, cb.Execute(func() error { return nil }))
}
