package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RMahshie/curveplot/internal/repository"
	"github.com/RMahshie/curveplot/pkg/models"
	"github.com/google/uuid"
)

// PostgresChartRepository implements ChartRepository for PostgreSQL
type PostgresChartRepository struct {
	db *sql.DB
}

// NewPostgresChartRepository creates a new PostgreSQL chart repository
func NewPostgresChartRepository(db *sql.DB) repository.ChartRepository {
	return &PostgresChartRepository{db: db}
}

const chartColumns = `id, source_name, kind, color_mode, curve_count, unit_count, status, output_key, error_message, created_at, updated_at, completed_at`

// Create inserts a new chart record
func (r *PostgresChartRepository) Create(ctx context.Context, chart *models.ChartRecord) error {
	query := `
		INSERT INTO charts (id, source_name, kind, color_mode, curve_count, unit_count, status, output_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		chart.ID,
		chart.SourceName,
		chart.Kind,
		chart.ColorMode,
		chart.CurveCount,
		chart.UnitCount,
		chart.Status,
		chart.OutputKey,
		chart.CreatedAt,
		chart.UpdatedAt)

	return err
}

// GetByID retrieves a chart record by ID
func (r *PostgresChartRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ChartRecord, error) {
	query := `SELECT ` + chartColumns + ` FROM charts WHERE id = $1`

	chart, err := scanChart(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return chart, nil
}

// ListRecent returns the newest chart records first
func (r *PostgresChartRepository) ListRecent(ctx context.Context, limit int) ([]*models.ChartRecord, error) {
	query := `SELECT ` + chartColumns + ` FROM charts ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charts []*models.ChartRecord
	for rows.Next() {
		chart, err := scanChart(rows)
		if err != nil {
			return nil, err
		}
		charts = append(charts, chart)
	}

	return charts, rows.Err()
}

// MarkCompleted records the stored output and final counts
func (r *PostgresChartRepository) MarkCompleted(ctx context.Context, id uuid.UUID, outputKey string, curveCount int, unitCount *int) error {
	query := `
		UPDATE charts
		SET status = 'completed', output_key = $1, curve_count = $2, unit_count = $3,
		    updated_at = NOW(), completed_at = NOW()
		WHERE id = $4`

	return r.exec(ctx, query, outputKey, curveCount, unitCount, id)
}

// MarkFailed updates the error message for a chart
func (r *PostgresChartRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE charts
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	return r.exec(ctx, query, errorMsg, id)
}

func (r *PostgresChartRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChart(row scanner) (*models.ChartRecord, error) {
	var chart models.ChartRecord
	var unitCount sql.NullInt64
	var outputKey, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&chart.ID,
		&chart.SourceName,
		&chart.Kind,
		&chart.ColorMode,
		&chart.CurveCount,
		&unitCount,
		&chart.Status,
		&outputKey,
		&errorMsg,
		&chart.CreatedAt,
		&chart.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}

	if unitCount.Valid {
		n := int(unitCount.Int64)
		chart.UnitCount = &n
	}
	if outputKey.Valid {
		chart.OutputKey = &outputKey.String
	}
	if errorMsg.Valid {
		chart.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		chart.CompletedAt = &completedAt.Time
	}

	return &chart, nil
}
