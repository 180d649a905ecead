// internal/platform/resilience/circuit_breaker_test.go
package resilience

import (
	"testing"
	"time"

	"overseerx/internal/testutil"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, 1)

	testutil.AssertTrue(t, cb.Allow(), "closed circuit allows")

	cb.RecordFailure()
	cb.RecordFailure()
	testutil.AssertEqual(t, cb.CurrentState(), StateClosed, "below threshold stays closed")

	cb.RecordFailure()
	testutil.AssertEqual(t, cb.CurrentState(), StateOpen, "threshold opens the circuit")
	testutil.AssertFalse(t, cb.Allow(), "open circuit rejects")
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute, 1)

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	testutil.AssertEqual(t, cb.CurrentState(), StateClosed, "non-consecutive failures do not open")
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, 1)

	cb.RecordFailure()
	testutil.AssertEqual(t, cb.CurrentState(), StateOpen, "open after failure")

	time.Sleep(15 * time.Millisecond)
	testutil.AssertTrue(t, cb.Allow(), "timeout elapsed, probe allowed")
	testutil.AssertEqual(t, cb.CurrentState(), StateHalfOpen, "probing state")

	cb.RecordSuccess()
	testutil.AssertEqual(t, cb.CurrentState(), StateClosed, "successful probe closes the circuit")
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, 1)

	cb.RecordFailure()
	time.Sleep(15 * time.Millisecond)
	cb.Allow() // transición a half-open

	cb.RecordFailure()
	testutil.AssertEqual(t, cb.CurrentState(), StateOpen, "failed probe reopens")
	testutil.AssertFalse(t, cb.Allow(), "reopened circuit rejects")
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(0, 0, 0)

	// Umbral por defecto: 5 fallos consecutivos
	for i := 0; i < 4; i++ {
		cb.RecordFailure()
	}
	testutil.AssertEqual(t, cb.CurrentState(), StateClosed, "below default threshold")

	cb.RecordFailure()
	testutil.AssertEqual(t, cb.CurrentState(), StateOpen, "default threshold reached")
}
