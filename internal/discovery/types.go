package discovery

import (
	"context"

	"sitescout/internal/gitea"
)

// TreeClient is the remote tree surface the walk depends on. gitea.Client
// satisfies it.
type TreeClient interface {
	ListChildren(ctx context.Context, path, ref string) ([]gitea.Entry, error)
	FetchFile(ctx context.Context, filePath, ref string) ([]byte, error)
}

// Config controls walk admission. Zero values keep the walk unbounded and
// unthrottled, matching the behavior without a gate.
type Config struct {
	// MaxConcurrency bounds concurrent in-flight remote calls; 0 = unbounded.
	MaxConcurrency int
	// RequestsPerSecond throttles remote calls; 0 = unlimited.
	RequestsPerSecond float64
	// RateBurst is the token bucket burst, used when RequestsPerSecond > 0.
	RateBurst int
}
