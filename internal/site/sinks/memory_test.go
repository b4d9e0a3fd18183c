package sinks

import (
	"context"
	"testing"

	"sitescout/internal/site"
)

func TestMemorySinkCapturesRecords(t *testing.T) {
	t.Parallel()

	sink := NewMemorySink()
	first := site.NewRecord("zone-a/site-101")
	second := site.NewRecord("zone-b/site-202")

	if err := sink.Publish(context.Background(), first); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := sink.Publish(context.Background(), second); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	recs := sink.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Path != "zone-a/site-101" || recs[1].Path != "zone-b/site-202" {
		t.Fatalf("records not in publish order: %+v", recs)
	}

	recs[0].Path = "modified"
	if sink.Records()[0].Path == "modified" {
		t.Fatal("expected Records() to return a copy")
	}

	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
