package core

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrentCategories bounds how many categories of a batch
// import run at the same time.
const DefaultMaxConcurrentCategories = 4

// CategoryFailure records a category whose import produced no report,
// such as an unknown category id.
type CategoryFailure struct {
	CategoryID string `json:"categoryId"`
	Error      string `json:"error"`
	Err        error  `json:"-"`
}

// BatchReport merges the per-category outcomes of a batch import.
// The totals only count categories that produced a report.
type BatchReport struct {
	Reports      map[string]*ImportReport `json:"reports"`
	Failures     []CategoryFailure        `json:"failures,omitempty"`
	TotalRows    int                      `json:"totalRows"`
	SuccessCount int                      `json:"successCount"`
	ErrorCount   int                      `json:"errorCount"`
	Duration     time.Duration            `json:"durationNs"`
}

// Categories returns the ids that produced a report, sorted.
func (b *BatchReport) Categories() []string {
	ids := make([]string, 0, len(b.Reports))
	for id := range b.Reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ImportOrchestrator runs one ImportPipeline per category of a batch.
// Categories are independent: a failure in one never affects another.
type ImportOrchestrator struct {
	Pipeline      *ImportPipeline
	MaxConcurrent int // <= 0 means DefaultMaxConcurrentCategories
	Logger        *slog.Logger
}

// NewImportOrchestrator creates an orchestrator around pipeline.
func NewImportOrchestrator(pipeline *ImportPipeline, maxConcurrent int) *ImportOrchestrator {
	return &ImportOrchestrator{
		Pipeline:      pipeline,
		MaxConcurrent: maxConcurrent,
		Logger:        slog.Default(),
	}
}

// RunBatch imports every file into its category and merges the reports.
//
// Categories may run concurrently; each pipeline stays sequential
// internally. A cancelled category still contributes its partial report.
// RunBatch itself never fails.
func (o *ImportOrchestrator) RunBatch(ctx context.Context, files map[string][]byte) *BatchReport {
	startTime := time.Now()
	batch := &BatchReport{Reports: make(map[string]*ImportReport, len(files))}

	limit := o.MaxConcurrent
	if limit <= 0 {
		limit = DefaultMaxConcurrentCategories
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(limit)

	for categoryID, data := range files {
		g.Go(func() error {
			report, err := o.Pipeline.Run(ctx, categoryID, data)

			mu.Lock()
			defer mu.Unlock()
			if report == nil {
				batch.Failures = append(batch.Failures, CategoryFailure{
					CategoryID: categoryID,
					Error:      err.Error(),
					Err:        err,
				})
				return nil
			}
			batch.Reports[categoryID] = report
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(batch.Failures, func(i, j int) bool {
		return batch.Failures[i].CategoryID < batch.Failures[j].CategoryID
	})
	for _, r := range batch.Reports {
		batch.TotalRows += r.TotalRows
		batch.SuccessCount += r.SuccessCount
		batch.ErrorCount += r.ErrorCount
	}
	batch.Duration = time.Since(startTime)

	o.logger().Info("batch import finished",
		"categories", len(files),
		"failed_categories", len(batch.Failures),
		"total", batch.TotalRows,
		"succeeded", batch.SuccessCount,
		"failed", batch.ErrorCount,
		"duration", batch.Duration,
	)
	return batch
}

func (o *ImportOrchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
