package site

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Sink consumes records as the walk produces them. Implementations must be
// safe for concurrent use and honor ctx cancellation.
type Sink interface {
	Publish(ctx context.Context, rec Record) error
	Close(ctx context.Context) error
}

// MultiSink fans every record out to all wrapped sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks into one. Nil entries are skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &MultiSink{sinks: out}
}

// Publish delivers rec to every sink and joins any failures.
func (m *MultiSink) Publish(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Publish(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins any failures.
func (m *MultiSink) Close(ctx context.Context) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ChannelSink delivers records over a channel with context-aware sends. It
// backs per-request streaming: a walk publishes into it while the request
// handler drains Records. Close must not be called before the last Publish.
type ChannelSink struct {
	ch      chan Record
	closeMu sync.Mutex
	closed  bool
}

// NewChannelSink constructs a ChannelSink with the provided buffer capacity.
func NewChannelSink(capacity int) *ChannelSink {
	return &ChannelSink{ch: make(chan Record, capacity)}
}

// Publish sends rec or returns once the context ends.
func (s *ChannelSink) Publish(ctx context.Context, rec Record) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("publish canceled: %w", ctx.Err())
	case s.ch <- rec:
		return nil
	}
}

// Records returns the receive side of the sink. The channel is closed by
// Close, signaling that no further records will arrive.
func (s *ChannelSink) Records() <-chan Record {
	return s.ch
}

// Close closes the underlying channel. Safe to call more than once.
func (s *ChannelSink) Close(context.Context) error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return nil
	}
	close(s.ch)
	s.closed = true
	return nil
}
