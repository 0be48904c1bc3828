package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/RMahshie/curveplot/internal/storage"
	"github.com/RMahshie/curveplot/pkg/models"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Storage  StorageConfig
	Chart    ChartConfig
	LogLevel string
}

// DatabaseConfig holds database configuration. An empty URL keeps render history in memory.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Backend         string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
}

// ChartConfig holds chart rendering defaults
type ChartConfig struct {
	DataDir   string
	ColorMode models.ColorMode
	RulesFile string
	DPI       int
}

var keys = []string{
	"ENVIRONMENT",
	"PORT",
	"ALLOWED_ORIGINS",
	"DATABASE_URL",
	"STORAGE_BACKEND",
	"S3_BUCKET",
	"S3_ENDPOINT",
	"AWS_REGION",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"DATA_DIR",
	"COLOR_MODE",
	"COLOR_RULES_FILE",
	"CHART_DPI",
	"LOG_LEVEL",
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	viper.SetDefault("ENVIRONMENT", "dev")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("STORAGE_BACKEND", storage.BackendNone)
	viper.SetDefault("S3_BUCKET", "curveplot-charts")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ACCESS_KEY_ID", "")
	viper.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	viper.SetDefault("DATA_DIR", ".")
	viper.SetDefault("COLOR_MODE", string(models.ColorByLabel))
	viper.SetDefault("COLOR_RULES_FILE", "")
	viper.SetDefault("CHART_DPI", 180)
	viper.SetDefault("LOG_LEVEL", "info")

	// The environment variable picks the .env file, so read it before viper has one loaded
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = viper.GetString("ENVIRONMENT")
	}

	viper.SetConfigName(".env." + env)
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Read .env file (ignore error if file doesn't exist)
	_ = viper.ReadInConfig()

	// Environment variables override .env file values
	viper.AutomaticEnv()
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}

	mode, err := models.ParseColorMode(viper.GetString("COLOR_MODE"))
	if err != nil {
		return nil, fmt.Errorf("COLOR_MODE: %w", err)
	}

	backend := strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_BACKEND")))
	switch backend {
	case storage.BackendS3, storage.BackendMinio, storage.BackendNone:
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND: unknown backend %q", backend)
	}

	dpi := viper.GetInt("CHART_DPI")
	if dpi <= 0 {
		return nil, fmt.Errorf("CHART_DPI must be positive, got %q", viper.GetString("CHART_DPI"))
	}

	var config Config
	config.Database.URL = viper.GetString("DATABASE_URL")
	config.Server.Port = viper.GetString("PORT")
	config.Server.Env = viper.GetString("ENVIRONMENT")
	config.Server.AllowedOrigins = splitList(viper.GetString("ALLOWED_ORIGINS"))
	config.Storage.Backend = backend
	config.Storage.Region = viper.GetString("AWS_REGION")
	config.Storage.AccessKeyID = viper.GetString("AWS_ACCESS_KEY_ID")
	config.Storage.SecretAccessKey = viper.GetString("AWS_SECRET_ACCESS_KEY")
	config.Storage.Bucket = viper.GetString("S3_BUCKET")
	config.Storage.Endpoint = viper.GetString("S3_ENDPOINT")
	config.Chart.DataDir = viper.GetString("DATA_DIR")
	config.Chart.ColorMode = mode
	config.Chart.RulesFile = viper.GetString("COLOR_RULES_FILE")
	config.Chart.DPI = dpi
	config.LogLevel = viper.GetString("LOG_LEVEL")

	return &config, nil
}

// ObjectStore converts the storage settings for storage.New
func (c StorageConfig) ObjectStore() storage.Config {
	return storage.Config{
		Backend:   c.Backend,
		Bucket:    c.Bucket,
		Endpoint:  c.Endpoint,
		Region:    c.Region,
		AccessKey: c.AccessKeyID,
		SecretKey: c.SecretAccessKey,
	}
}

// SetupLogging points the global logger at a console writer on stderr and applies level
func SetupLogging(level string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
