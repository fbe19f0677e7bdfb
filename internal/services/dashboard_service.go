package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"ridepulse/internal/bookings"
	"ridepulse/internal/dashboard"
	apperrors "ridepulse/internal/errors"
	"ridepulse/internal/exporter"
	"ridepulse/internal/infrastructure"
	"ridepulse/internal/session"
	"ridepulse/pkg/contracts/domain"
)

// Export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Content types of the export formats
const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DatasetLoader reads and derives the booking table
type DatasetLoader interface {
	Load(ctx context.Context, source string) (*bookings.RawDataset, error)
}

// DashboardService owns the loaded dataset and the session store. Renders run
// under a read lock so a reload never races an in-flight render.
type DashboardService struct {
	mu      sync.RWMutex
	dataset *dashboard.Dataset

	loader      DatasetLoader
	sessions    *session.Store
	metrics     *infrastructure.BusinessMetrics
	tracer      trace.Tracer
	logger      *slog.Logger
	loadTimeout time.Duration
	bomPrefix   bool
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithMetrics records renders, exports and loads on m
func WithMetrics(m *infrastructure.BusinessMetrics) DashboardOption {
	return func(s *DashboardService) { s.metrics = m }
}

// WithTracer sets the tracer used for render spans
func WithTracer(t trace.Tracer) DashboardOption {
	return func(s *DashboardService) { s.tracer = t }
}

// WithLoadTimeout bounds LoadDataset
func WithLoadTimeout(d time.Duration) DashboardOption {
	return func(s *DashboardService) { s.loadTimeout = d }
}

// WithCSVBOM toggles the UTF-8 BOM on CSV exports
func WithCSVBOM(enabled bool) DashboardOption {
	return func(s *DashboardService) { s.bomPrefix = enabled }
}

// NewDashboardService creates a dashboard service with no dataset loaded
func NewDashboardService(loader DatasetLoader, sessions *session.Store, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DashboardService{
		loader:    loader,
		sessions:  sessions,
		tracer:    otel.Tracer(infrastructure.MeterName),
		logger:    logger.With(slog.String("service", "dashboard")),
		bomPrefix: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadDataset reads source, derives the enriched table and swaps it in. The
// previous dataset stays active when loading fails.
func (s *DashboardService) LoadDataset(ctx context.Context, source string) (domain.DatasetInfo, error) {
	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("dataset.source", source)))
	defer span.End()

	raw, err := s.loader.Load(ctx, source)
	if err != nil {
		s.failLoad(ctx, span, source, err)
		return domain.DatasetInfo{}, err
	}

	table, err := bookings.Derive(raw)
	if err != nil {
		s.failLoad(ctx, span, source, err)
		return domain.DatasetInfo{}, err
	}

	s.SetTable(table)
	infrastructure.RecordDatasetLoad(ctx, s.metrics, source, table.Len(), nil)
	span.SetAttributes(attribute.Int("dataset.rows", table.Len()))

	info := table.Info()
	s.logger.InfoContext(ctx, "dataset ready",
		slog.String("source", info.Source),
		slog.Int("rows", info.Rows),
		slog.String("start", info.Bounds.Start.String()),
		slog.String("end", info.Bounds.End.String()))
	return info, nil
}

func (s *DashboardService) failLoad(ctx context.Context, span trace.Span, source string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	infrastructure.RecordDatasetLoad(ctx, s.metrics, source, 0, err)
	s.logger.ErrorContext(ctx, "dataset load failed",
		slog.String("source", source),
		slog.String("error", err.Error()))
}

// SetTable indexes table and makes it the active dataset
func (s *DashboardService) SetTable(table *bookings.Table) {
	ds := dashboard.NewDataset(table)

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()
}

// current returns the active dataset
func (s *DashboardService) current() (*dashboard.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	return s.dataset, nil
}

// Ready reports whether a dataset is loaded
func (s *DashboardService) Ready() bool {
	_, err := s.current()
	return err == nil
}

// DatasetInfo describes the active dataset
func (s *DashboardService) DatasetInfo(ctx context.Context) (domain.DatasetInfo, error) {
	ds, err := s.current()
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	return ds.Table().Info(), nil
}

// Views lists the dashboard views with defaults resolved against the dataset
func (s *DashboardService) Views(ctx context.Context) ([]domain.ViewDescriptor, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return dashboard.Descriptors(ds.Table().Bounds()), nil
}

// Render renders one view for state
func (s *DashboardService) Render(ctx context.Context, state dashboard.RenderState) (*domain.ViewModel, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return s.render(ctx, ds, state)
}

func (s *DashboardService) render(ctx context.Context, ds *dashboard.Dataset, state dashboard.RenderState) (*domain.ViewModel, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.render",
		trace.WithAttributes(attribute.String("dashboard.view", string(state.View))))
	defer span.End()

	start := time.Now()
	vm, err := dashboard.Render(state, ds)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.RecordRender(ctx, s.metrics, string(state.View), 0, duration, err)
		s.logger.WarnContext(ctx, "render rejected",
			slog.String("view", string(state.View)),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(attribute.Int("dashboard.rows", vm.RowCount))
	infrastructure.RecordRender(ctx, s.metrics, string(vm.View), vm.RowCount, duration, nil)
	s.logger.DebugContext(ctx, "view rendered",
		slog.String("view", string(vm.View)),
		slog.Int("rows", vm.RowCount),
		slog.Duration("duration", duration))
	return vm, nil
}

// RenderAll renders every view with its default filters, concurrently. The
// result follows menu order.
func (s *DashboardService) RenderAll(ctx context.Context) ([]*domain.ViewModel, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}

	models := make([]*domain.ViewModel, len(domain.Views))
	g, gctx := errgroup.WithContext(ctx)
	for i, view := range domain.Views {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vm, err := s.render(gctx, ds, dashboard.RenderState{View: view})
			if err != nil {
				return fmt.Errorf("render %s: %w", view, err)
			}
			models[i] = vm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}

// ETag identifies the response for state on the active dataset. Unset dates
// are resolved first so equivalent requests share a tag.
func (s *DashboardService) ETag(state dashboard.RenderState) (string, error) {
	ds, err := s.current()
	if err != nil {
		return "", err
	}
	table := ds.Table()

	resolved, err := dashboard.Resolve(state.View, state.Filters, table.Bounds())
	if err != nil {
		return "", err
	}
	canonical, err := json.Marshal(dashboard.RenderState{View: state.View, Filters: canonicalFilters(resolved)})
	if err != nil {
		return "", fmt.Errorf("failed to encode render state: %w", err)
	}

	h, err := blake2b.New(16, nil)
	if err != nil {
		return "", err
	}
	h.Write([]byte(table.Fingerprint()))
	h.Write(canonical)
	return `"` + hex.EncodeToString(h.Sum(nil)) + `"`, nil
}

// canonicalFilters maps "All" to the empty string; both mean no constraint
func canonicalFilters(f domain.Filters) domain.Filters {
	normalize := func(v string) string {
		if domain.IsConstrained(v) {
			return v
		}
		return ""
	}
	f.VehicleType = normalize(f.VehicleType)
	f.Status = normalize(f.Status)
	f.PaymentMethod = normalize(f.PaymentMethod)
	return f
}

// Export renders state and writes it to out in format. It returns the
// content type of what was written.
func (s *DashboardService) Export(ctx context.Context, state dashboard.RenderState, format string, out io.Writer) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	contentType, ok := contentTypes[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, format)
	}

	vm, err := s.Render(ctx, state)
	if err != nil {
		return "", err
	}

	if err := s.encode(vm, format, out); err != nil {
		return "", apperrors.NewExportError(fmt.Sprintf("failed to export %s as %s", vm.View, format), err)
	}

	infrastructure.RecordExport(ctx, s.metrics, string(vm.View), format)
	s.logger.InfoContext(ctx, "view exported",
		slog.String("view", string(vm.View)),
		slog.String("format", format),
		slog.Int("rows", vm.RowCount))
	return contentType, nil
}

var contentTypes = map[string]string{
	FormatJSON: ContentTypeJSON,
	FormatCSV:  ContentTypeCSV,
	FormatXLSX: ContentTypeXLSX,
}

func (s *DashboardService) encode(vm *domain.ViewModel, format string, out io.Writer) error {
	switch format {
	case FormatCSV:
		return exporter.EncodeCSV(out, exporter.WriteOptions{
			Headers:   exporter.ViewHeaders,
			Records:   exporter.ViewRecords(vm),
			BOMPrefix: s.bomPrefix,
		})
	case FormatXLSX:
		return exporter.WriteViewXLSX(out, vm)
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(vm)
	}
}

// ExportWorkbook writes every view, rendered with its defaults, as one xlsx
// workbook with a sheet per view.
func (s *DashboardService) ExportWorkbook(ctx context.Context, out io.Writer) error {
	models, err := s.RenderAll(ctx)
	if err != nil {
		return err
	}

	// Encode fully before touching out
	var buf bytes.Buffer
	if err := exporter.WriteWorkbookXLSX(&buf, models); err != nil {
		return apperrors.NewExportError("failed to build workbook", err)
	}
	if _, err := buf.WriteTo(out); err != nil {
		return err
	}

	infrastructure.RecordExport(ctx, s.metrics, "ALL", FormatXLSX)
	s.logger.InfoContext(ctx, "workbook exported", slog.Int("views", len(models)))
	return nil
}
