package site

import "context"

type ctxKey int

const runIDKey ctxKey = iota

// WithRunID returns a context carrying the discovery run identifier. Sinks
// read it to tag records with the run that produced them.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID extracts the discovery run identifier, or "" when absent.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}
