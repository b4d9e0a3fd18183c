package discovery

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"sitescout/internal/gitea"
)

// admissionGate bounds in-flight remote calls with an optional slot
// semaphore and an optional token bucket. Nil fields disable the
// corresponding bound.
type admissionGate struct {
	slots   chan struct{}
	limiter *rate.Limiter
}

func newAdmissionGate(cfg Config) *admissionGate {
	g := &admissionGate{}
	if cfg.MaxConcurrency > 0 {
		g.slots = make(chan struct{}, cfg.MaxConcurrency)
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return g
}

// acquire blocks until the call may proceed or ctx ends.
func (g *admissionGate) acquire(ctx context.Context) error {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if g.slots == nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("admission canceled: %w", err)
		}
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("admission canceled: %w", ctx.Err())
	case g.slots <- struct{}{}:
		return nil
	}
}

func (g *admissionGate) release() {
	if g.slots != nil {
		<-g.slots
	}
}

// gatedTree applies the admission gate to every remote call, so listings and
// file fetches share the same bounds.
type gatedTree struct {
	tree TreeClient
	gate *admissionGate
}

func newGatedTree(tree TreeClient, gate *admissionGate) *gatedTree {
	return &gatedTree{tree: tree, gate: gate}
}

func (g *gatedTree) ListChildren(ctx context.Context, path, ref string) ([]gitea.Entry, error) {
	if err := g.gate.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.gate.release()
	return g.tree.ListChildren(ctx, path, ref)
}

func (g *gatedTree) FetchFile(ctx context.Context, filePath, ref string) ([]byte, error) {
	if err := g.gate.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.gate.release()
	return g.tree.FetchFile(ctx, filePath, ref)
}
