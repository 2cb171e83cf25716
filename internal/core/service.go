package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// ServiceConfig tunes a Service. Zero values fall back to package defaults.
type ServiceConfig struct {
	MaxConcurrentImports    int
	MaxImportWait           time.Duration
	MaxConcurrentCategories int
	ImportTimeout           time.Duration // 0 means no timeout
	Locale                  language.Tag
	MaxPageSize             int
	Logger                  *slog.Logger
}

// Service bundles the engine's pipelines behind one entry point for the
// HTTP server and the CLI. It holds no per-call state; the import limiter
// is the only thing shared between calls.
type Service struct {
	registry      *Registry
	store         Store
	codec         Codec
	limiter       *ImportLimiter
	importer      *ImportPipeline
	orchestrator  *ImportOrchestrator
	exporter      *ExportPipeline
	templates     *TemplateGenerator
	query         *QueryEngine
	importTimeout time.Duration
	logger        *slog.Logger
}

// NewService wires the pipelines around a registry, store and default codec.
func NewService(reg *Registry, store Store, codec Codec, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Locale == (language.Tag{}) {
		cfg.Locale = language.English
	}

	importer := NewImportPipeline(reg, store, codec)
	importer.Logger = logger

	exporter := NewExportPipeline(reg, store, codec)
	exporter.Logger = logger

	orchestrator := NewImportOrchestrator(importer, cfg.MaxConcurrentCategories)
	orchestrator.Logger = logger

	query := NewQueryEngine(cfg.Locale)
	query.MaxPageSize = cfg.MaxPageSize

	return &Service{
		registry:      reg,
		store:         store,
		codec:         codec,
		limiter:       NewImportLimiter(cfg.MaxConcurrentImports, cfg.MaxImportWait),
		importer:      importer,
		orchestrator:  orchestrator,
		exporter:      exporter,
		templates:     NewTemplateGenerator(reg, codec),
		query:         query,
		importTimeout: cfg.ImportTimeout,
		logger:        logger,
	}
}

// Registry returns the category registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Schema returns the schema for a category.
func (s *Service) Schema(categoryID string) (*Schema, error) {
	return s.registry.Schema(categoryID)
}

// Import loads one file into one category.
// See ImportPipeline.Run for the report and error contract.
func (s *Service) Import(ctx context.Context, categoryID string, data []byte) (*ImportReport, error) {
	return s.runImport(ctx, func(ctx context.Context) (*ImportReport, error) {
		return s.importer.Run(ctx, categoryID, data)
	})
}

// Preview validates a file without persisting anything.
func (s *Service) Preview(ctx context.Context, categoryID string, data []byte) (*ImportReport, error) {
	return s.runImport(ctx, func(ctx context.Context) (*ImportReport, error) {
		return s.importer.Preview(ctx, categoryID, data)
	})
}

// ImportWithProgress is Import with a progress callback for this call only.
func (s *Service) ImportWithProgress(ctx context.Context, categoryID string, data []byte, fn ProgressCallback) (*ImportReport, error) {
	pipeline := *s.importer
	pipeline.OnProgress = fn
	return s.runImport(ctx, func(ctx context.Context) (*ImportReport, error) {
		return pipeline.Run(ctx, categoryID, data)
	})
}

func (s *Service) runImport(ctx context.Context, fn func(context.Context) (*ImportReport, error)) (*ImportReport, error) {
	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, cancel := s.withImportTimeout(ctx)
	defer cancel()
	return fn(ctx)
}

// ImportBatch imports one file per category. The whole batch holds a
// single import slot; categories inside it run concurrently.
func (s *Service) ImportBatch(ctx context.Context, files map[string][]byte) (*BatchReport, error) {
	if len(files) == 0 {
		return nil, ErrNoCategories
	}

	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, cancel := s.withImportTimeout(ctx)
	defer cancel()
	return s.orchestrator.RunBatch(ctx, files), nil
}

func (s *Service) withImportTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.importTimeout > 0 {
		return context.WithTimeout(ctx, s.importTimeout)
	}
	return context.WithCancel(ctx)
}

// Records returns every record of a category, hydrated to schema types.
func (s *Service) Records(ctx context.Context, categoryID string) ([]Record, error) {
	schema, err := s.registry.Schema(categoryID)
	if err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", categoryID, err)
	}
	return schema.HydrateAll(records), nil
}

// Query fetches a category's records and runs them through the QueryEngine.
func (s *Service) Query(ctx context.Context, categoryID string, state QueryState) (QueryResult, error) {
	records, err := s.Records(ctx, categoryID)
	if err != nil {
		return QueryResult{}, err
	}
	return s.query.Query(records, state), nil
}

// Export encodes a category's records. When state narrows the listing
// (search or filters) only the matching records are exported, in the
// state's sort order. A nil codec uses the service default.
func (s *Service) Export(ctx context.Context, categoryID string, state *QueryState, codec Codec) ([]byte, error) {
	exporter := s.exporter
	if codec != nil {
		exporter = exporter.WithCodec(codec)
	}

	if state == nil || (strings.TrimSpace(state.Search) == "" && len(state.Filters) == 0 && state.SortField == "") {
		return exporter.Run(ctx, categoryID)
	}

	records, err := s.Records(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	all := *state
	all.Page = 1
	all.PageSize = len(records) + 1
	all.Aggregate = nil

	engine := *s.query
	engine.MaxPageSize = 0
	result := engine.Query(records, all)
	return exporter.RunRecords(categoryID, result.Items)
}

// Template returns an empty import template. A nil codec uses the service default.
func (s *Service) Template(categoryID string, codec Codec) ([]byte, error) {
	gen := s.templates
	if codec != nil {
		gen = gen.WithCodec(codec)
	}
	return gen.Run(categoryID)
}

// ImportStatus reports the import limiter state.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
