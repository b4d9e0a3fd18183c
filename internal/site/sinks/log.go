// Package sinks provides site.Sink implementations beyond the per-run channel.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"sitescout/internal/site"
)

// LogSink emits a structured log line for every published record. It is
// useful during development or audits where no downstream consumer exists.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Publish logs the record using structured fields.
func (s *LogSink) Publish(ctx context.Context, rec site.Record) error {
	fields := []zap.Field{
		zap.String("site_path", rec.Path),
		zap.Strings("hostnames", rec.Hostnames),
		zap.Strings("node_files", rec.NodeFiles),
		zap.Strings("errors", rec.Errors),
	}
	if runID := site.RunID(ctx); runID != "" {
		fields = append(fields, zap.String("run_id", runID))
	}
	s.logger.Info("site discovered", fields...)
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
