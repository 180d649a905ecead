// internal/platform/rate/rate_test.go
package rate

import (
	"context"
	"testing"
	"time"

	"overseerx/internal/testutil"
)

func TestNew_Defaults(t *testing.T) {
	l := New(0, 0)
	testutil.AssertEqual(t, l.Rate(), 1.0, "invalid rate falls back to 1")
	testutil.AssertTrue(t, l.Allow(), "bucket starts full")
}

func TestLimiter_BurstConsumption(t *testing.T) {
	l := New(1, 3)

	for i := 0; i < 3; i++ {
		testutil.AssertTrue(t, l.Allow(), "burst token available")
	}
	testutil.AssertFalse(t, l.Allow(), "bucket drained")
}

func TestLimiter_Refill(t *testing.T) {
	l := New(100, 1) // one token every 10ms

	testutil.AssertTrue(t, l.Allow(), "initial token")
	testutil.AssertFalse(t, l.Allow(), "drained")

	time.Sleep(15 * time.Millisecond)
	testutil.AssertTrue(t, l.Allow(), "token refilled")
}

func TestLimiter_TokensNeverExceedBurst(t *testing.T) {
	l := New(1000, 2)

	time.Sleep(10 * time.Millisecond)
	testutil.AssertTrue(t, l.Tokens() <= 2.0, "tokens capped at burst")
}

func TestLimiter_WaitBlocksUntilToken(t *testing.T) {
	l := New(50, 1) // refill every 20ms
	ctx := context.Background()

	testutil.AssertNoError(t, l.Wait(ctx), "first wait immediate")

	start := time.Now()
	testutil.AssertNoError(t, l.Wait(ctx), "second wait succeeds")
	testutil.AssertTrue(t, time.Since(start) >= 10*time.Millisecond, "second wait actually waited")
}

func TestLimiter_WaitCancellation(t *testing.T) {
	l := New(0.1, 1) // next token in ~10s
	l.Allow()        // drain

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	testutil.AssertError(t, err, "cancelled wait returns the context error")
}

func TestLimiter_SetRate(t *testing.T) {
	l := New(0.1, 1)
	l.Allow() // drain

	l.SetRate(1000)
	time.Sleep(5 * time.Millisecond)

	testutil.AssertTrue(t, l.Allow(), "new rate takes effect")
	testutil.AssertEqual(t, l.Rate(), 1000.0, "rate updated")
}

func TestLimiter_Reset(t *testing.T) {
	l := New(0.1, 2)
	l.Allow()
	l.Allow()
	testutil.AssertFalse(t, l.Allow(), "drained")

	l.Reset()
	testutil.AssertTrue(t, l.Allow(), "reset refills the bucket")
}
