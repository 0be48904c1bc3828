// Package memory is a ChartRepository kept in process memory, used when no
// database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/RMahshie/curveplot/internal/repository"
	"github.com/RMahshie/curveplot/pkg/models"
	"github.com/google/uuid"
)

// ChartRepository is a thread-safe map of chart records keyed by ID
type ChartRepository struct {
	mu     sync.RWMutex
	charts map[string]*models.ChartRecord
	now    func() time.Time // injectable for deterministic tests
}

// NewChartRepository creates an empty repository
func NewChartRepository() *ChartRepository {
	return &ChartRepository{
		charts: make(map[string]*models.ChartRecord),
		now:    time.Now,
	}
}

var _ repository.ChartRepository = (*ChartRepository)(nil)

// Create stores a copy of chart
func (r *ChartRepository) Create(_ context.Context, chart *models.ChartRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *chart
	r.charts[chart.ID] = &c
	return nil
}

// GetByID returns a copy of the record
func (r *ChartRepository) GetByID(_ context.Context, id uuid.UUID) (*models.ChartRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.charts[id.String()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

// ListRecent returns up to limit records, newest first
func (r *ChartRepository) ListRecent(_ context.Context, limit int) ([]*models.ChartRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.ChartRecord, 0, len(r.charts))
	for _, c := range r.charts {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkCompleted records the stored output and final counts
func (r *ChartRepository) MarkCompleted(_ context.Context, id uuid.UUID, outputKey string, curveCount int, unitCount *int) error {
	return r.update(id, func(c *models.ChartRecord, now time.Time) {
		c.Status = models.StatusCompleted
		c.OutputKey = &outputKey
		c.CurveCount = curveCount
		c.UnitCount = unitCount
		c.CompletedAt = &now
	})
}

// MarkFailed stores the error message
func (r *ChartRepository) MarkFailed(_ context.Context, id uuid.UUID, errorMsg string) error {
	return r.update(id, func(c *models.ChartRecord, _ time.Time) {
		c.Status = models.StatusFailed
		c.ErrorMsg = &errorMsg
	})
}

func (r *ChartRepository) update(id uuid.UUID, fn func(*models.ChartRecord, time.Time)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.charts[id.String()]
	if !ok {
		return repository.ErrNotFound
	}
	now := r.now()
	fn(c, now)
	c.UpdatedAt = now
	return nil
}
