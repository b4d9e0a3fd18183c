package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitescout/internal/gitea"
	"sitescout/internal/site"
)

// Walker coordinates the recursive walk of the repository tree. A single
// Walker serves any number of runs; each Run is independent.
type Walker struct {
	tree      TreeClient
	processor *Processor
	metrics   *Metrics
	logger    *zap.Logger
}

// NewWalker wraps the tree client with the configured admission gate and
// prepares the per-site processor behind it.
func NewWalker(tree TreeClient, cfg Config, metrics *Metrics, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	gated := newGatedTree(tree, newAdmissionGate(cfg))
	return &Walker{
		tree:      gated,
		processor: NewProcessor(gated, metrics, logger),
		metrics:   metrics,
		logger:    logger.Named("walker"),
	}
}

// Run walks the tree at ref from the root and publishes one record per site
// directory into sink as soon as the record is assembled. A directory's
// record is always published before any of its subdirectories are descended
// into. Run returns once every transitively spawned branch has finished; a
// canceled ctx stops spawning and unwinds the outstanding branches.
//
// Run does not close the sink: callers that stream should use Stream, which
// owns end-of-stream signaling.
func (w *Walker) Run(ctx context.Context, ref string, sink site.Sink) error {
	runID := uuid.NewString()
	ctx = site.WithRunID(ctx, runID)
	logger := w.logger.With(zap.String("run_id", runID), zap.String("ref", ref))

	logger.Info("walk started")
	start := time.Now()
	w.metrics.walkStarted()

	var wg sync.WaitGroup
	wg.Add(1)
	go w.walk(ctx, "", ref, sink, &wg, logger)
	wg.Wait()

	dur := time.Since(start)
	w.metrics.walkFinished(dur)
	if err := ctx.Err(); err != nil {
		logger.Warn("walk canceled", zap.Duration("dur", dur))
		return fmt.Errorf("walk canceled: %w", err)
	}
	logger.Info("walk finished", zap.Duration("dur", dur))
	return nil
}

// Stream starts a walk and returns its record stream. The stream is closed
// only after every branch has finished, never before, so the consumer can
// rely on the close as the end-of-stream signal. Records also fan out to
// any aux sinks, which stay open across runs.
func (w *Walker) Stream(ctx context.Context, ref string, aux ...site.Sink) <-chan site.Record {
	out := site.NewChannelSink(0)
	sink := site.Sink(out)
	if len(aux) > 0 {
		sink = site.NewMultiSink(append([]site.Sink{out}, aux...)...)
	}

	go func() {
		defer out.Close(context.Background())
		if err := w.Run(ctx, ref, sink); err != nil {
			w.logger.Warn("streamed walk ended early", zap.Error(err))
		}
	}()
	return out.Records()
}

// walk explores one directory: list it, publish its record when it is a
// site, then spawn one branch per child directory. Branches register with wg
// before they spawn, so Run cannot return while any remain.
func (w *Walker) walk(ctx context.Context, path, ref string, sink site.Sink, wg *sync.WaitGroup, logger *zap.Logger) {
	defer wg.Done()

	entries, err := w.tree.ListChildren(ctx, path, ref)
	if err != nil {
		logger.Warn("directory listing failed", zap.String("path", path), zap.Error(err))
		w.metrics.listingFailed()
		return
	}
	w.metrics.directoryListed()

	if IsSiteDir(entries) {
		rec := w.processor.Process(ctx, path, ref)
		w.metrics.siteFound()
		if err := sink.Publish(ctx, rec); err != nil {
			// A sink failure only loses this record; the subtree below the
			// site is still explored. Cancellation is the one publish
			// failure that ends the branch.
			logger.Warn("record publish failed", zap.String("path", rec.Path), zap.Error(err))
			if ctx.Err() != nil {
				return
			}
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		wg.Add(1)
		go w.walk(ctx, gitea.JoinPath(path, entry.Name), ref, sink, wg, logger)
	}
}
