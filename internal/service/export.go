package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/grouping"
	"github.com/pkordes/fuel-logbook/internal/repo"
	"github.com/pkordes/fuel-logbook/internal/sheet"
)

// ExportObserver is notified about export outcomes. The metrics package
// provides the production implementation.
type ExportObserver interface {
	DocumentExported(kind domain.DocumentKind)
	ExportFailed(kind domain.DocumentKind, reason string)
}

// ExportService turns the record log into filled spreadsheet documents.
// Exports run sequentially and are not transactional: documents emitted
// before a failure stay emitted.
type ExportService struct {
	records  repo.RecordRepo
	dispatch sheet.TemplateLoader
	fuelLog  sheet.TemplateLoader
	logger   *slog.Logger
	observer ExportObserver
}

// ExportOption customizes an ExportService.
type ExportOption func(*ExportService)

// WithLogger sets the logger used for per-document and failure lines.
func WithLogger(l *slog.Logger) ExportOption {
	return func(s *ExportService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver sets the observer notified about export outcomes.
func WithObserver(o ExportObserver) ExportOption {
	return func(s *ExportService) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewExportService constructs an ExportService reading from records and
// filling the given dispatch and fuel log templates.
func NewExportService(records repo.RecordRepo, dispatch, fuelLog sheet.TemplateLoader, opts ...ExportOption) *ExportService {
	s := &ExportService{
		records:  records,
		dispatch: dispatch,
		fuelLog:  fuelLog,
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch emits one dispatch sheet per (date, driver) group, in order of
// first appearance. It returns the number of documents emitted.
// An empty record set fails with domain.ErrEmptyInput.
func (s *ExportService) Dispatch(ctx context.Context, f domain.RecordFilter, sink DocumentSink) (n int, err error) {
	defer func() { s.finish(ctx, domain.KindDispatch, n, err) }()

	records, err := s.records.List(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("service.ExportService.Dispatch: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("service.ExportService.Dispatch: %w", domain.ErrEmptyInput)
	}

	tmpl, err := s.dispatch.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.ExportService.Dispatch: %w", err)
	}

	used := make(map[string]bool)
	for _, g := range grouping.By(records, sheet.DispatchKeyOf) {
		data, err := render(tmpl, func(w sheet.CellWriter) error {
			return sheet.FillDispatch(w, g.Key, g.Items)
		})
		if err != nil {
			return n, fmt.Errorf("service.ExportService.Dispatch: %w", err)
		}

		doc := domain.Document{
			Kind:     domain.KindDispatch,
			Filename: uniqueFilename(sheet.DispatchFilename(g.Key), used),
			Data:     data,
		}
		if err := s.emit(ctx, sink, doc); err != nil {
			return n, fmt.Errorf("service.ExportService.Dispatch: %w", err)
		}
		n++
	}
	return n, nil
}

// FuelLog emits a single fuel consumption log covering every matching
// record. An empty record set emits nothing and is not an error.
func (s *ExportService) FuelLog(ctx context.Context, f domain.RecordFilter, sink DocumentSink) (n int, err error) {
	defer func() { s.finish(ctx, domain.KindFuelLog, n, err) }()

	records, err := s.records.List(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("service.ExportService.FuelLog: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	tmpl, err := s.fuelLog.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.ExportService.FuelLog: %w", err)
	}

	data, err := render(tmpl, func(w sheet.CellWriter) error {
		return sheet.FillFuelLog(w, records)
	})
	if err != nil {
		return 0, fmt.Errorf("service.ExportService.FuelLog: %w", err)
	}

	doc := domain.Document{
		Kind:     domain.KindFuelLog,
		Filename: sheet.FuelLogFilename(records[0].Date),
		Data:     data,
	}
	if err := s.emit(ctx, sink, doc); err != nil {
		return 0, fmt.Errorf("service.ExportService.FuelLog: %w", err)
	}
	return 1, nil
}

// uniqueFilename returns name, or name with a _2, _3, ... suffix before the
// extension when the export already produced a document under that name.
// Distinct groups can share a sanitized filename.
func uniqueFilename(name string, used map[string]bool) string {
	candidate := name
	ext := path.Ext(name)
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), i, ext)
	}
	used[candidate] = true
	return candidate
}

// render opens a fresh workbook from tmpl, fills it and serializes it.
func render(tmpl []byte, fill func(sheet.CellWriter) error) ([]byte, error) {
	wb, err := sheet.Open(tmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTemplateFetch, err)
	}
	defer wb.Close()

	if err := fill(wb); err != nil {
		return nil, err
	}

	data, err := wb.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}
	return data, nil
}

func (s *ExportService) emit(ctx context.Context, sink DocumentSink, doc domain.Document) error {
	if err := sink.Emit(ctx, doc); err != nil {
		return err
	}
	s.observer.DocumentExported(doc.Kind)
	s.logger.InfoContext(ctx, "document exported",
		slog.String("kind", string(doc.Kind)),
		slog.String("filename", doc.Filename),
		slog.Int("bytes", len(doc.Data)),
	)
	return nil
}

func (s *ExportService) finish(ctx context.Context, kind domain.DocumentKind, n int, err error) {
	if err == nil {
		return
	}
	reason := failureReason(err)
	s.observer.ExportFailed(kind, reason)
	s.logger.ErrorContext(ctx, "export failed",
		slog.String("kind", string(kind)),
		slog.String("reason", reason),
		slog.Int("emitted", n),
		slog.String("error", err.Error()),
	)
}

// failureReason maps an export error onto a short, bounded label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, domain.ErrTemplateFetch):
		return "template_fetch"
	case errors.Is(err, domain.ErrSerialization):
		return "serialization"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

type nopObserver struct{}

func (nopObserver) DocumentExported(domain.DocumentKind)     {}
func (nopObserver) ExportFailed(domain.DocumentKind, string) {}
