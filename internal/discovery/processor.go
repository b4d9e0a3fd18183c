package discovery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sitescout/internal/gitea"
	"sitescout/internal/site"
)

// Processor turns one confirmed site directory into a site.Record.
type Processor struct {
	tree    TreeClient
	metrics *Metrics
	logger  *zap.Logger
}

// NewProcessor builds a Processor over the tree client.
func NewProcessor(tree TreeClient, metrics *Metrics, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{tree: tree, metrics: metrics, logger: logger}
}

// Process re-lists the directory at path and assembles its record. Every
// matched node file is attempted: a fetch failure or a missing annotation
// becomes a record error and the remaining files still run. When the listing
// itself fails the record carries only that failure.
//
// path is the real directory path; the record reports the tree root as
// site.RootPath.
func (p *Processor) Process(ctx context.Context, path, ref string) site.Record {
	rec := site.NewRecord(recordPath(path))

	entries, err := p.tree.ListChildren(ctx, path, ref)
	if err != nil {
		rec.Errors = append(rec.Errors, err.Error())
		return rec
	}

	for _, entry := range entries {
		if !entry.IsFile() || !MatchesNodeFile(entry.Name) {
			continue
		}
		rec.NodeFiles = append(rec.NodeFiles, entry.Name)

		content, err := p.tree.FetchFile(ctx, gitea.JoinPath(path, entry.Name), ref)
		if err != nil {
			rec.Errors = append(rec.Errors, fmt.Sprintf("Error processing %s: %v", entry.Name, err))
			p.metrics.fileOutcome(fileOutcomeFetchError)
			continue
		}

		if hostname, ok := ExtractHostname(content); ok {
			rec.Hostnames = append(rec.Hostnames, hostname)
			p.metrics.fileOutcome(fileOutcomeHostname)
		} else {
			rec.Errors = append(rec.Errors, fmt.Sprintf("No hostname annotation found in %s", entry.Name))
			p.metrics.fileOutcome(fileOutcomeMissingAnnotation)
		}
	}

	p.logger.Debug("site processed",
		zap.String("path", rec.Path),
		zap.Int("node_files", len(rec.NodeFiles)),
		zap.Int("hostnames", len(rec.Hostnames)),
		zap.Int("errors", len(rec.Errors)),
	)
	return rec
}

// recordPath maps the real root path to its report label.
func recordPath(path string) string {
	if path == "" {
		return site.RootPath
	}
	return path
}
