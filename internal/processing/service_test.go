package processing

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image/png"
	"math"
	"os"
	"strings"
	"path/filepath"
	"testing"
	"time"

	"github.com/RMahshie/curveplot/internal/curves"
	"github.com/RMahshie/curveplot/internal/render"
	"github.com/RMahshie/curveplot/internal/repository/memory"
	"github.com/RMahshie/curveplot/internal/repository/postgres"
	"github.com/RMahshie/curveplot/internal/storage"
	"github.com/RMahshie/curveplot/pkg/models"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MockObjectStore implements storage.ObjectStore for testing
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockObjectStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

const sampleCSV = `Freq,20,100,1000,10000,20000
LIMIT-max,95,95,95,95,95
LIMIT-min,80,80,80,80,80
#A-Left,85,88,90,91,n/a
#B-Right,84,87,91,90,86
`

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readSample() (*models.CurveSet, error) {
	return curves.Read(strings.NewReader(sampleCSV), "sample")
}

func nan() float64 { return math.NaN() }

// lowRes keeps test renders small
func lowRes() *render.Renderer { return render.NewRenderer(20) }

func TestRenderFile_WritesBesideInput(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "speaker.csv", sampleCSV)

	svc := NewChartService(nil, nil, lowRes())
	result, err := svc.RenderFile(context.Background(), path, Options{Kind: models.ChartFR})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "speaker_output.png"), result.OutputPath)
	assert.Empty(t, result.OutputKey)
	assert.Equal(t, 4, result.Summary.CurveCount)
	assert.Len(t, result.Spec.Legend, 3)

	data, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRenderFile_Errors(t *testing.T) {
	dir := t.TempDir()
	svc := NewChartService(nil, nil, lowRes())

	_, err := svc.RenderFile(context.Background(), filepath.Join(dir, "missing.csv"), Options{Kind: models.ChartFR})
	assert.Error(t, err)

	path := writeCSV(t, dir, "empty.csv", "x,20,100\n")
	_, err = svc.RenderFile(context.Background(), path, Options{Kind: models.ChartFR})
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "empty_output.png"))
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestProcess_UploadsAndRecords(t *testing.T) {
	ctx := context.Background()
	store := &MockObjectStore{}
	store.On("UploadFile", mock.Anything, mock.MatchedBy(func(key string) bool {
		return filepath.Dir(key) == "charts" && filepath.Ext(key) == ".png"
	}), storage.ContentTypePNG, mock.Anything).Return(nil)
	repo := memory.NewChartRepository()

	svc := NewChartService(store, repo, lowRes())
	set, err := readSample()
	require.NoError(t, err)

	result, err := svc.Process(ctx, set, Options{Kind: models.ChartFR, Mode: models.ColorByParity})
	require.NoError(t, err)
	assert.Equal(t, storage.ChartKey(result.ID.String()), result.OutputKey)

	rec, err := repo.GetByID(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, rec.Status)
	assert.Equal(t, "parity", rec.ColorMode)
	assert.Equal(t, "fr", rec.Kind)
	assert.Equal(t, 4, rec.CurveCount)
	require.NotNil(t, rec.UnitCount)
	assert.Equal(t, 1, *rec.UnitCount)

	store.AssertExpectations(t)
}

func TestProcess_UploadFailureMarksRecord(t *testing.T) {
	ctx := context.Background()
	store := &MockObjectStore{}
	store.On("UploadFile", mock.Anything, mock.Anything, storage.ContentTypePNG, mock.Anything).Return(errors.New("bucket gone"))
	repo := memory.NewChartRepository()

	svc := NewChartService(store, repo, lowRes())
	set, err := readSample()
	require.NoError(t, err)

	_, err = svc.Process(ctx, set, Options{Kind: models.ChartTHD})
	require.Error(t, err)

	recs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.StatusFailed, recs[0].Status)
	require.NotNil(t, recs[0].ErrorMsg)
	assert.Contains(t, *recs[0].ErrorMsg, "bucket gone")
}

func TestProcess_SpecFailureMarksRecord(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewChartRepository()
	svc := NewChartService(nil, repo, lowRes())

	set := &models.CurveSet{Name: "blank", X: []float64{20, 100}, Rows: []models.CurveRow{{Label: "A-1", Samples: []float64{nan(), nan()}}}}
	_, err := svc.Process(ctx, set, Options{Kind: models.ChartFR})
	require.Error(t, err)

	recs, _ := repo.ListRecent(ctx, 10)
	require.Len(t, recs, 1)
	assert.Equal(t, models.StatusFailed, recs[0].Status)
}

func TestWatch_RerendersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "live.csv", sampleCSV)
	out := filepath.Join(dir, "live_output.png")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewChartService(nil, nil, lowRes())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, svc, path, Options{Kind: models.ChartFR}) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 10*time.Second, 50*time.Millisecond, "initial render")

	first, err := os.Stat(out)
	require.NoError(t, err)

	// wait for the watcher to be registered before writing again
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV+"#C-Extra,70,71,72,73,74\n"), 0644))

	require.Eventually(t, func() bool {
		info, err := os.Stat(out)
		return err == nil && (info.ModTime().After(first.ModTime()) || info.Size() != first.Size())
	}, 10*time.Second, 50*time.Millisecond, "re-render after write")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

// TestFullChartPipeline_Integration runs the service against PostgreSQL and MinIO containers
func TestFullChartPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pg, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("curveplot_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, testcontainers.TerminateContainer(pg)) }()

	mc, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, testcontainers.TerminateContainer(mc)) }()

	dbURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, postgres.Migrate(ctx, db))

	minioURL, err := mc.ConnectionString(ctx)
	require.NoError(t, err)
	store, err := storage.NewMinioService(ctx, storage.Config{
		Bucket:    "curveplot-test-" + uuid.New().String()[:8],
		Endpoint:  minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	repo := postgres.NewPostgresChartRepository(db)
	svc := NewChartService(store, repo, lowRes())

	path := writeCSV(t, t.TempDir(), "bench.csv", sampleCSV)
	result, err := svc.RenderFile(ctx, path, Options{Kind: models.ChartFR})
	require.NoError(t, err)

	rec, err := repo.GetByID(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, rec.Status)
	assert.Equal(t, "bench", rec.SourceName)
	assert.NotNil(t, rec.CompletedAt)

	stored, err := store.DownloadFile(ctx, result.OutputKey)
	require.NoError(t, err)
	assert.Equal(t, result.PNG, stored)
}
