package sinks

import (
	"context"
	"sync"

	"sitescout/internal/site"
)

// MemorySink stores published records for inspection. One-shot consumers
// (the aggregation endpoint, the CLI) run a walk against it and read the
// result afterwards; tests use it the same way.
type MemorySink struct {
	mu      sync.RWMutex
	records []site.Record
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{records: []site.Record{}}
}

// Publish appends the record.
func (s *MemorySink) Publish(_ context.Context, rec site.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *MemorySink) Close(context.Context) error {
	return nil
}

// Records returns a copy of the captured records in publish order.
func (s *MemorySink) Records() []site.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]site.Record, len(s.records))
	copy(out, s.records)
	return out
}
