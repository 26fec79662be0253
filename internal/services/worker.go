package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// ExtractionJob names one stored document to extract.
type ExtractionJob struct {
	ID       string
	Path     string
	Declared string
}

// ExtractionPool extracts many documents concurrently. Results keep job order.
type ExtractionPool interface {
	ExtractAll(ctx context.Context, jobs []ExtractionJob) ([]models.Candidate, error)
}

type extractionPool struct {
	extractor   DocumentExtractor
	concurrency int
	log         *zap.Logger
}

func NewExtractionPool(extractor DocumentExtractor, concurrency int, log *zap.Logger) ExtractionPool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &extractionPool{
		extractor:   extractor,
		concurrency: concurrency,
		log:         log,
	}
}

// ExtractAll implements ExtractionPool. A cancelled context stops jobs that
// have not started yet; a running extraction always finishes.
func (p *extractionPool) ExtractAll(ctx context.Context, jobs []ExtractionJob) ([]models.Candidate, error) {
	results := make([]models.Candidate, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc := p.extractor.ExtractFile(job.Path, job.Declared)
			if doc.Text == "" {
				p.log.Warn("document produced no text", zap.String("id", job.ID), zap.String("path", job.Path))
			}
			results[i] = models.Candidate{ID: job.ID, Text: doc.Text}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to extract documents: %w", err)
	}

	p.log.Debug("batch extraction finished", zap.Int("documents", len(jobs)))
	return results, nil
}
