package usecase

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"visitboard/domain"
	"visitboard/metrics"
	"visitboard/port"
)

// SummaryUsecase builds the dataset summary page: preview, statistics and chart.
type SummaryUsecase struct {
	dataset     port.DatasetPort
	chart       port.ChartPort
	previewRows int
	logger      *slog.Logger
}

// NewSummaryUsecase creates a new SummaryUsecase. A non-positive previewRows
// falls back to domain.DefaultPreviewRows.
func NewSummaryUsecase(dataset port.DatasetPort, chart port.ChartPort, previewRows int, logger *slog.Logger) *SummaryUsecase {
	if previewRows <= 0 {
		previewRows = domain.DefaultPreviewRows
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryUsecase{
		dataset:     dataset,
		chart:       chart,
		previewRows: previewRows,
		logger:      logger,
	}
}

// BuildSummary loads the dataset and summarizes it. It never returns an error:
// data failures are carried in RenderedSummary.Err and a chart failure leaves
// RenderedSummary.Chart nil.
func (u *SummaryUsecase) BuildSummary(ctx context.Context) domain.RenderedSummary {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "SummaryUsecase.BuildSummary")
	defer span.End()

	ds, err := u.dataset.Load(ctx)
	if err != nil {
		return u.unavailable(ctx, span, err)
	}

	stats, err := domain.ComputeStatistics(ds.Rows)
	if err != nil {
		return u.unavailable(ctx, span, err)
	}

	summary := domain.RenderedSummary{
		Preview: domain.NewPreviewTable(ds, u.previewRows),
		Stats:   stats,
	}
	span.SetAttributes(
		attribute.Int("dataset.total", stats.Total),
		attribute.Int("dataset.survived", stats.Survived),
	)

	summary.Groups = domain.GroupBySurvival(ds.Rows)
	img, err := u.chart.Render(ctx, summary.Groups)
	switch {
	case err == nil:
		metrics.RecordChartRender("success")
		summary.Chart = img
	case errors.Is(err, domain.ErrRenderFailure):
		metrics.RecordChartRender("failure")
		u.logger.WarnContext(ctx, "chart omitted", "error", err)
	default:
		metrics.RecordChartRender("failure")
		u.logger.ErrorContext(ctx, "chart rendering failed", "error", err)
	}

	metrics.RecordSummaryBuild("success")
	return summary
}

func (u *SummaryUsecase) unavailable(ctx context.Context, span trace.Span, err error) domain.RenderedSummary {
	metrics.RecordSummaryBuild("unavailable")
	span.RecordError(err)
	span.SetStatus(codes.Error, "dataset unavailable")

	level := slog.LevelWarn
	if !errors.Is(err, domain.ErrDataUnavailable) {
		level = slog.LevelError
	}
	u.logger.Log(ctx, level, "dataset unavailable", "error", err)

	return domain.UnavailableSummary(err)
}
