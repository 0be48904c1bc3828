package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/curveplot/internal/storage"
	"github.com/RMahshie/curveplot/pkg/models"
)

// isolate resets viper and runs the test from an empty directory so no .env file is picked up
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Chdir(dir)

	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, storage.BackendNone, cfg.Storage.Backend)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, ".", cfg.Chart.DataDir)
	assert.Equal(t, models.ColorByLabel, cfg.Chart.ColorMode)
	assert.Equal(t, 180, cfg.Chart.DPI)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "MinIO")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("COLOR_MODE", "parity")
	t.Setenv("CHART_DPI", "96")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, storage.BackendMinio, cfg.Storage.Backend)
	assert.Equal(t, models.ColorByParity, cfg.Chart.ColorMode)
	assert.Equal(t, 96, cfg.Chart.DPI)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)

	store := cfg.Storage.ObjectStore()
	assert.Equal(t, "minio", store.Backend)
	assert.Equal(t, "http://localhost:9000", store.Endpoint)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ENVIRONMENT", "test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("DATA_DIR=/srv/measurements\nCOLOR_RULES_FILE=rules.yaml\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.Equal(t, "/srv/measurements", cfg.Chart.DataDir)
	assert.Equal(t, "rules.yaml", cfg.Chart.RulesFile)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "COLOR_MODE", value: "rainbow"},
		{key: "STORAGE_BACKEND", value: "gcs"},
		{key: "CHART_DPI", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSetupLogging(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, SetupLogging("debug"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, SetupLogging(""))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	assert.Error(t, SetupLogging("loud"))
}
