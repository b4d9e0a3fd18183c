package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestAdmissionGateUnboundedPassesThrough admits immediately when nothing is
// configured.
func TestAdmissionGateUnboundedPassesThrough(t *testing.T) {
	t.Parallel()

	gate := newAdmissionGate(Config{})
	require.NoError(t, gate.acquire(context.Background()))
	gate.release()
}

// TestAdmissionGateSlotsBlockUntilRelease holds the third caller until a
// slot frees up.
func TestAdmissionGateSlotsBlockUntilRelease(t *testing.T) {
	t.Parallel()

	gate := newAdmissionGate(Config{MaxConcurrency: 2})
	ctx := context.Background()
	require.NoError(t, gate.acquire(ctx))
	require.NoError(t, gate.acquire(ctx))

	admitted := make(chan struct{})
	go func() {
		if err := gate.acquire(ctx); err == nil {
			close(admitted)
		}
	}()

	select {
	case <-admitted:
		t.Fatal("third acquire admitted past the bound")
	case <-time.After(50 * time.Millisecond):
	}

	gate.release()
	select {
	case <-admitted:
	case <-time.After(5 * time.Second):
		t.Fatal("acquire did not proceed after release")
	}
}

// TestAdmissionGateCanceledContext unblocks a waiting caller with an error.
func TestAdmissionGateCanceledContext(t *testing.T) {
	t.Parallel()

	gate := newAdmissionGate(Config{MaxConcurrency: 1})
	require.NoError(t, gate.acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, gate.acquire(ctx), context.Canceled)

	// The unbounded path reports cancellation too.
	unbounded := newAdmissionGate(Config{})
	require.ErrorIs(t, unbounded.acquire(ctx), context.Canceled)
}

// TestAdmissionGateRateLimiterWaits spaces admissions out at the configured
// rate.
func TestAdmissionGateRateLimiterWaits(t *testing.T) {
	t.Parallel()

	gate := newAdmissionGate(Config{RequestsPerSecond: 50, RateBurst: 1})
	ctx := context.Background()

	start := time.Now()
	for range 3 {
		require.NoError(t, gate.acquire(ctx))
		gate.release()
	}
	// Burst 1 at 50 rps: the second and third admissions each wait ~20ms.
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
