package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/curveplot/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no chart record has the requested ID
var ErrNotFound = errors.New("chart not found")

// ChartRepository defines the interface for render history operations
type ChartRepository interface {
	Create(ctx context.Context, chart *models.ChartRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ChartRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*models.ChartRecord, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, outputKey string, curveCount int, unitCount *int) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMsg string) error
}
