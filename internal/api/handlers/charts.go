package handlers

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/RMahshie/curveplot/internal/axis"
	"github.com/RMahshie/curveplot/internal/classify"
	"github.com/RMahshie/curveplot/internal/curves"
	"github.com/RMahshie/curveplot/internal/processing"
	"github.com/RMahshie/curveplot/internal/repository"
	"github.com/RMahshie/curveplot/internal/storage"
	"github.com/RMahshie/curveplot/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChartHandler handles chart-related HTTP requests
type ChartHandler struct {
	repo  repository.ChartRepository
	store storage.ObjectStore
	svc   processing.ChartService
	rules *classify.RuleSet
}

// NewChartHandler creates a new chart handler. store may be nil, in which case
// charts are rendered and recorded but their images cannot be fetched later.
func NewChartHandler(repo repository.ChartRepository, store storage.ObjectStore, svc processing.ChartService, rules *classify.RuleSet) *ChartHandler {
	return &ChartHandler{
		repo:  repo,
		store: store,
		svc:   svc,
		rules: rules,
	}
}

// CreateChart renders the posted CSV and returns the chart summary
func (h *ChartHandler) CreateChart(ctx context.Context, req *models.CreateChartRequest) (*models.CreateChartResponse, error) {
	log.Info().Str("name", req.Body.Name).Str("kind", req.Body.Kind).Int("csvBytes", len(req.Body.CSV)).Msg("Creating chart")

	kind, err := models.ParseChartKind(req.Body.Kind)
	if err != nil {
		return nil, huma.Error400BadRequest("Unknown chart kind", err)
	}
	mode, err := models.ParseColorMode(req.Body.ColorMode)
	if err != nil {
		return nil, huma.Error400BadRequest("Unknown color mode", err)
	}

	opts := processing.Options{Kind: kind, Mode: mode, Rules: h.rules}
	if len(req.Body.YRange) > 0 {
		if len(req.Body.YRange) != 2 || !finite(req.Body.YRange...) {
			return nil, huma.Error400BadRequest("y_range must be two finite numbers", axis.ErrInvalidRange)
		}
		opts.YRange = &axis.Range{req.Body.YRange[0], req.Body.YRange[1]}
	}

	set, err := curves.Read(strings.NewReader(req.Body.CSV), req.Body.Name)
	if err != nil {
		return nil, huma.Error400BadRequest("Could not read CSV", err)
	}

	result, err := h.svc.Process(ctx, set, opts)
	if err != nil {
		if errors.Is(err, axis.ErrNoData) || errors.Is(err, axis.ErrInvalidRange) {
			return nil, huma.Error422UnprocessableEntity("CSV has nothing to plot", err)
		}
		return nil, huma.Error500InternalServerError("Failed to render chart", err)
	}

	body := models.CreateChartResponseBody{
		ID:         result.ID.String(),
		CurveCount: result.Summary.CurveCount,
		UnitCount:  result.Summary.UnitCount,
		Legend:     result.Spec.Legend,
		YMin:       result.Spec.YAxis.Min,
		YMax:       result.Spec.YAxis.Max,
	}

	if h.store != nil && result.OutputKey != "" {
		// Keep the source beside the chart; the chart is still usable if this fails
		if err := h.store.UploadFile(ctx, storage.SourceKey(body.ID), storage.ContentTypeCSV, []byte(req.Body.CSV)); err != nil {
			log.Warn().Err(err).Str("chartID", body.ID).Msg("Failed to store source CSV")
		}

		url, err := h.store.GenerateDownloadURL(ctx, result.OutputKey)
		if err != nil {
			log.Warn().Err(err).Str("chartID", body.ID).Msg("Failed to generate download URL")
		} else {
			body.DownloadURL = url
			body.ExpiresIn = int(storage.DownloadURLExpiry.Seconds())
		}
	}

	log.Info().Str("chartID", body.ID).Int("curves", body.CurveCount).Msg("Chart created")
	return &models.CreateChartResponse{Body: body}, nil
}

// GetChart returns a chart record
func (h *ChartHandler) GetChart(ctx context.Context, req *models.GetChartRequest) (*models.GetChartResponse, error) {
	chart, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &models.GetChartResponse{Body: chart}, nil
}

// ListCharts returns the most recent chart records
func (h *ChartHandler) ListCharts(ctx context.Context, req *models.ListChartsRequest) (*models.ListChartsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	charts, err := h.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list charts", err)
	}
	if charts == nil {
		charts = []*models.ChartRecord{}
	}

	resp := &models.ListChartsResponse{}
	resp.Body.Charts = charts
	return resp, nil
}

// GetChartImage returns the rendered PNG
func (h *ChartHandler) GetChartImage(ctx context.Context, req *models.GetChartImageRequest) (*models.GetChartImageResponse, error) {
	chart, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if chart.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Chart not rendered", errors.New("chart status is "+chart.Status))
	}
	if h.store == nil || chart.OutputKey == nil {
		return nil, huma.Error404NotFound("Chart image not stored")
	}

	data, err := h.store.DownloadFile(ctx, *chart.OutputKey)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch chart image", err)
	}

	return &models.GetChartImageResponse{
		ContentType: storage.ContentTypePNG,
		Body:        data,
	}, nil
}

func (h *ChartHandler) lookup(ctx context.Context, rawID string) (*models.ChartRecord, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid chart ID", err)
	}

	chart, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Chart not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to get chart", err)
	}
	return chart, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
