package processing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/RMahshie/curveplot/internal/curves"
	"github.com/RMahshie/curveplot/internal/render"
	"github.com/RMahshie/curveplot/internal/repository"
	"github.com/RMahshie/curveplot/internal/storage"
	"github.com/RMahshie/curveplot/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ChartService interface {
	Process(ctx context.Context, set *models.CurveSet, opts Options) (*Result, error)
	RenderFile(ctx context.Context, csvPath string, opts Options) (*Result, error)
}

// Result is a rendered chart
type Result struct {
	ID         uuid.UUID
	Spec       *models.ChartSpec
	Summary    Summary
	PNG        []byte
	OutputPath string // set by RenderFile
	OutputKey  string // set when an object store is configured
}

type chartService struct {
	store    storage.ObjectStore
	repo     repository.ChartRepository
	renderer *render.Renderer
}

// NewChartService wires the renderer with optional storage and history; nil store or repo disables them
func NewChartService(store storage.ObjectStore, repo repository.ChartRepository, renderer *render.Renderer) ChartService {
	if renderer == nil {
		renderer = render.NewRenderer(render.DefaultDPI)
	}
	return &chartService{
		store:    store,
		repo:     repo,
		renderer: renderer,
	}
}

func (s *chartService) Process(ctx context.Context, set *models.CurveSet, opts Options) (*Result, error) {
	if opts.Mode == "" {
		opts.Mode = models.ColorByLabel
	}
	chartID := uuid.New()
	logger := log.With().Str("chartID", chartID.String()).Str("source", set.Name).Logger()

	// Step 1: Record the pending chart
	if s.repo != nil {
		now := time.Now()
		record := &models.ChartRecord{
			ID:         chartID.String(),
			SourceName: set.Name,
			Kind:       opts.Kind.String(),
			ColorMode:  string(opts.Mode),
			CurveCount: len(set.Rows),
			Status:     models.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to create chart record: %w", err)
		}
	}

	// Step 2: Classify rows and resolve axes
	spec, summary, err := BuildSpec(set, opts)
	if err != nil {
		s.fail(ctx, chartID, err)
		return nil, err
	}
	logger.Info().
		Str("kind", opts.Kind.String()).
		Str("colorMode", string(opts.Mode)).
		Int("curves", summary.CurveCount).
		Int("legendEntries", len(spec.Legend)).
		Float64("yMin", spec.YAxis.Min).
		Float64("yMax", spec.YAxis.Max).
		Msg("Chart spec built")

	// Step 3: Render
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, spec); err != nil {
		err = fmt.Errorf("failed to render chart: %w", err)
		s.fail(ctx, chartID, err)
		return nil, err
	}

	result := &Result{
		ID:      chartID,
		Spec:    spec,
		Summary: summary,
		PNG:     buf.Bytes(),
	}

	// Step 4: Upload
	if s.store != nil {
		key := storage.ChartKey(chartID.String())
		if err := s.store.UploadFile(ctx, key, storage.ContentTypePNG, result.PNG); err != nil {
			s.fail(ctx, chartID, err)
			return nil, err
		}
		result.OutputKey = key
		logger.Info().Str("key", key).Int("bytes", len(result.PNG)).Msg("Chart uploaded")
	}

	// Step 5: Mark complete
	if s.repo != nil {
		if err := s.repo.MarkCompleted(ctx, chartID, result.OutputKey, summary.CurveCount, summary.UnitCount); err != nil {
			return nil, fmt.Errorf("failed to complete chart record: %w", err)
		}
	}

	return result, nil
}

// RenderFile renders the CSV at csvPath and writes <stem>_output.png beside it
func (s *chartService) RenderFile(ctx context.Context, csvPath string, opts Options) (*Result, error) {
	set, err := curves.ReadFile(csvPath)
	if err != nil {
		return nil, err
	}

	result, err := s.Process(ctx, set, opts)
	if err != nil {
		return nil, err
	}

	out := curves.OutputPath(csvPath)
	if err := os.WriteFile(out, result.PNG, 0644); err != nil {
		return nil, fmt.Errorf("failed to write chart: %w", err)
	}
	result.OutputPath = out

	log.Info().Str("path", out).Int("curves", result.Summary.CurveCount).Msg("Chart saved")
	return result, nil
}

func (s *chartService) fail(ctx context.Context, id uuid.UUID, cause error) {
	log.Error().Err(cause).Str("chartID", id.String()).Msg("Chart processing failed")
	if s.repo == nil {
		return
	}
	if err := s.repo.MarkFailed(ctx, id, cause.Error()); err != nil {
		log.Warn().Err(err).Str("chartID", id.String()).Msg("Failed to record chart failure")
	}
}
