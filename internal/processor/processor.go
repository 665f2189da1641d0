// Package processor implements the batch run that pulls fresh measurements
// for every configured slide and writes the results back in one commit.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
	"github.com/itk-os2display/aarhus-data-bundle/internal/slides"
	"github.com/itk-os2display/aarhus-data-bundle/internal/sources"
)

// Summary reports what a single batch run did.
type Summary struct {
	RunID    string `json:"run_id"`
	Slides   int    `json:"slides"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Failures int    `json:"failures"`
}

// BatchProcessor drives one batch run end to end: load slides, resolve each
// slide's data function, fetch, and bulk-commit the non-empty results.
type BatchProcessor struct {
	store     slides.Store
	registry  *sources.Registry
	slideType string
	logger    *slog.Logger
	metrics   *Metrics
}

// NewBatchProcessor creates a processor over the given store and registry.
// A nil metrics is allowed and disables instrumentation.
func NewBatchProcessor(
	store slides.Store,
	registry *sources.Registry,
	slideType string,
	logger *slog.Logger,
	metrics *Metrics,
) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		store:     store,
		registry:  registry,
		slideType: slideType,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes one batch run. Per-slide fetch and transform errors are
// absorbed: the affected slide keeps its previous data and the run carries
// on. Only failures against the slide store abort the run.
func (p *BatchProcessor) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", summary.RunID)

	started := time.Now()
	logger.Info("starting batch run", "slide_type", p.slideType)
	p.metrics.runStarted()

	found, err := p.store.FindBySlideType(ctx, p.slideType)
	if err != nil {
		return nil, fmt.Errorf("failed to load slides: %w", err)
	}
	summary.Slides = len(found)

	var updated []*slides.Slide
	for _, slide := range found {
		records, ok := p.processSlide(ctx, logger, slide)
		if !ok {
			summary.Failures++
			continue
		}
		if len(records) == 0 {
			summary.Skipped++
			continue
		}
		slide.ExternalData = records
		updated = append(updated, slide)
	}

	if len(updated) > 0 {
		if err := p.store.SetExternalData(ctx, updated); err != nil {
			return nil, fmt.Errorf("failed to store slide data: %w", err)
		}
	}
	summary.Updated = len(updated)
	p.metrics.runFinished(summary)

	logger.Info("batch run finished",
		"slides", summary.Slides,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failures", summary.Failures,
		"duration", time.Since(started).String(),
	)
	return summary, nil
}

// processSlide resolves and executes the slide's data function. The bool is
// false when the slide failed and should count as a failure; an empty record
// list with true means there is nothing to write.
func (p *BatchProcessor) processSlide(
	ctx context.Context,
	logger *slog.Logger,
	slide *slides.Slide,
) ([]measurement.Record, bool) {
	functionID := slide.Options.DataFunction
	if functionID == "" {
		return nil, true
	}

	handler, ok := p.registry.Resolve(functionID)
	if !ok {
		logger.Warn("unknown data function, leaving slide untouched",
			"slide_id", slide.ID,
			"data_function", functionID,
		)
		return nil, false
	}

	records, err := handler.Records(ctx, sources.Params{
		URL:  slide.Options.DataURL,
		Type: slide.Options.DataType,
	})
	if err != nil {
		logger.Warn("data function failed, leaving slide untouched",
			"slide_id", slide.ID,
			"data_function", functionID,
			"error", err,
		)
		p.metrics.fetchFailed(functionID)
		return nil, false
	}

	return records, true
}
