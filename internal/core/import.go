package core

import (
	"context"
	"log/slog"
	"time"
)

// ImportPipeline loads one spreadsheet into one category.
// Rows are validated and persisted strictly in file order; a failed row
// never stops the rows after it, and created rows are never rolled back.
type ImportPipeline struct {
	Registry   *Registry
	Store      Store
	Codec      Codec
	Logger     *slog.Logger
	OnProgress ProgressCallback // Optional
}

// NewImportPipeline creates a pipeline with the default logger.
func NewImportPipeline(reg *Registry, store Store, codec Codec) *ImportPipeline {
	return &ImportPipeline{
		Registry: reg,
		Store:    store,
		Codec:    codec,
		Logger:   slog.Default(),
	}
}

// Run imports file into categoryID.
//
// An unknown category returns (nil, *SchemaError). A file the codec cannot
// read returns a report holding one "file" error and a nil error. If ctx is
// cancelled between rows, Run returns the partial report (Cancelled set)
// together with ctx.Err().
func (p *ImportPipeline) Run(ctx context.Context, categoryID string, file []byte) (*ImportReport, error) {
	return p.run(ctx, categoryID, file, false)
}

// Preview validates file exactly as Run would without persisting anything.
func (p *ImportPipeline) Preview(ctx context.Context, categoryID string, file []byte) (*ImportReport, error) {
	return p.run(ctx, categoryID, file, true)
}

func (p *ImportPipeline) run(ctx context.Context, categoryID string, file []byte, dryRun bool) (*ImportReport, error) {
	startTime := time.Now()
	logger := p.logger().With("category", categoryID, "dry_run", dryRun)

	schema, err := p.Registry.Schema(categoryID)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{
		CategoryID: categoryID,
		Errors:     []ValidationError{},
		DryRun:     dryRun,
	}
	progress := ImportProgress{CategoryID: categoryID, Phase: PhaseDecoding}
	p.notify(progress)

	rows, err := p.Codec.Decode(file)
	if err != nil {
		logger.Warn("import file could not be decoded", "error", err)
		report.Errors = append(report.Errors, ValidationError{
			RowNumber: 0,
			Field:     ErrorFieldFile,
			Message:   err.Error(),
		})
		report.Duration = time.Since(startTime)
		progress.Phase = PhaseFileFailed
		p.notify(progress)
		return report, nil
	}

	progress.Phase = PhaseImporting
	progress.TotalRows = len(rows)
	p.notify(progress)

	var validator *RowValidator
	if len(rows) > 0 {
		validator = NewRowValidator(schema, rows[0].Headers)
		report.MissingColumns = validator.MissingColumns()
		if len(report.MissingColumns) > 0 {
			logger.Warn("import file is missing required columns", "columns", report.MissingColumns)
		}
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			report.Duration = time.Since(startTime)
			progress.Phase = PhaseCancelled
			p.notify(progress)
			logger.Info("import cancelled",
				"processed", report.TotalRows,
				"remaining", len(rows)-i,
			)
			return report, err
		}

		report.TotalRows++
		if row.Number == 0 {
			row.Number = i + 1
		}

		rec, rowErrs := validator.ValidateRow(row)
		if len(rowErrs) > 0 {
			report.ErrorCount++
			report.Errors = append(report.Errors, rowErrs...)
		} else if dryRun {
			report.SuccessCount++
		} else if _, err := p.Store.Create(ctx, categoryID, rec); err != nil {
			report.ErrorCount++
			report.Errors = append(report.Errors, ValidationError{
				RowNumber: row.Number,
				Field:     ErrorFieldSystem,
				Message:   err.Error(),
			})
			logger.Debug("row rejected by store", "row", row.Number, "error", err)
		} else {
			report.SuccessCount++
		}

		progress.CurrentRow = i + 1
		progress.Succeeded = report.SuccessCount
		progress.Failed = report.ErrorCount
		p.notify(progress)
	}

	report.Duration = time.Since(startTime)
	progress.Phase = PhaseComplete
	p.notify(progress)

	logger.Info("import finished",
		"total", report.TotalRows,
		"succeeded", report.SuccessCount,
		"failed", report.ErrorCount,
		"duration", report.Duration,
	)
	return report, nil
}

func (p *ImportPipeline) notify(progress ImportProgress) {
	if p.OnProgress != nil {
		p.OnProgress(progress)
	}
}

func (p *ImportPipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
