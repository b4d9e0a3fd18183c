package sinks

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"go.uber.org/zap"

	"sitescout/internal/site"
)

// PubSubSink forwards every record to a Google Cloud Pub/Sub topic as a JSON
// payload, tagged with the site path and run id.
type PubSubSink struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *zap.Logger
}

// NewPubSubSink connects to the project and prepares a publisher for the
// topic. The caller owns Close.
func NewPubSubSink(ctx context.Context, projectID, topicName string, logger *zap.Logger) (*PubSubSink, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PubSubSink{
		client:    client,
		publisher: client.Publisher(topicName),
		logger:    logger,
	}, nil
}

// Publish marshals the record and publishes it, waiting for the server ack.
func (s *PubSubSink) Publish(ctx context.Context, rec site.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	msg := &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"site_path": rec.Path},
	}
	if runID := site.RunID(ctx); runID != "" {
		msg.Attributes["run_id"] = runID
	}

	result := s.publisher.Publish(ctx, msg)
	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publish record: %w", err)
	}
	s.logger.Debug("record forwarded",
		zap.String("message_id", id),
		zap.String("site_path", rec.Path),
	)
	return nil
}

// Close flushes pending publishes and releases the client.
func (s *PubSubSink) Close(context.Context) error {
	s.publisher.Stop()
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
