// Command curveplot renders frequency response and THD measurement CSVs to PNG charts.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RMahshie/curveplot/internal/axis"
	"github.com/RMahshie/curveplot/internal/classify"
	"github.com/RMahshie/curveplot/internal/config"
	"github.com/RMahshie/curveplot/internal/curves"
	"github.com/RMahshie/curveplot/internal/processing"
	"github.com/RMahshie/curveplot/internal/prompt"
	"github.com/RMahshie/curveplot/internal/render"
	"github.com/RMahshie/curveplot/internal/repository"
	"github.com/RMahshie/curveplot/internal/repository/postgres"
	"github.com/RMahshie/curveplot/internal/storage"
	"github.com/RMahshie/curveplot/pkg/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout))
}

// flagKeys maps command line flags onto the configuration keys they override
var flagKeys = map[string]string{
	"dir":       "DATA_DIR",
	"mode":      "COLOR_MODE",
	"rules":     "COLOR_RULES_FILE",
	"dpi":       "CHART_DPI",
	"log-level": "LOG_LEVEL",
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) int {
	fs := pflag.NewFlagSet("curveplot", pflag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.String("dir", "", "directory listed by the interactive file menu")
	file := fs.String("file", "", "CSV to render; skips the interactive prompts")
	kindName := fs.String("kind", "fr", "chart type with --file: fr or thd")
	yrange := fs.String("yrange", "", "FR Y axis range as min,max")
	fs.String("mode", "", "curve coloring: label or parity")
	fs.String("rules", "", "YAML file replacing the marker color table")
	fs.Int("dpi", 0, "output resolution")
	upload := fs.Bool("upload", false, "upload the chart to object storage and record it")
	watch := fs.Bool("watch", false, "re-render whenever the CSV changes")
	fs.String("log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			fmt.Fprintln(stdout, err)
			return 2
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}

	opts := processing.Options{Mode: cfg.Chart.ColorMode}
	if cfg.Chart.RulesFile != "" {
		if opts.Rules, err = classify.LoadRules(cfg.Chart.RulesFile); err != nil {
			log.Error().Err(err).Str("path", cfg.Chart.RulesFile).Msg("Failed to load color rules")
			return 1
		}
	}

	csvPath := *file
	if csvPath == "" {
		// Interactive flow: chart type, data file, then the optional FR range
		p := prompt.New(stdin, stdout)
		names, err := curves.List(cfg.Chart.DataDir)
		if err != nil {
			log.Error().Err(err).Str("dir", cfg.Chart.DataDir).Msg("Failed to list data files")
			return 1
		}
		sel, err := p.Select(names)
		if err != nil {
			fmt.Fprintln(stdout, prompt.Message(err))
			return 1
		}
		opts.Kind = sel.Kind
		csvPath = filepath.Join(cfg.Chart.DataDir, sel.Path)

		if opts.Kind == models.ChartFR && *yrange == "" {
			if opts.YRange, err = p.YRange(); err != nil {
				fmt.Fprintln(stdout, prompt.Message(err))
				return 1
			}
		}
	} else {
		if opts.Kind, err = models.ParseChartKind(*kindName); err != nil {
			fmt.Fprintln(stdout, err)
			return 2
		}
	}

	if *yrange != "" {
		r, err := axis.ParseRange(*yrange)
		if err != nil {
			fmt.Fprintln(stdout, prompt.Message(fmt.Errorf("%w: %w", prompt.ErrInvalidInput, err)))
			return 1
		}
		opts.YRange = &r
	}

	var (
		store storage.ObjectStore
		repo  repository.ChartRepository
	)
	if *upload {
		var closeDB func()
		store, repo, closeDB, err = uploadTargets(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("Upload requested but storage is unavailable")
			return 1
		}
		defer closeDB()
	}

	svc := processing.NewChartService(store, repo, render.NewRenderer(cfg.Chart.DPI))

	if *watch {
		fmt.Fprintf(stdout, "Watching %s, press Ctrl+C to stop\n", csvPath)
		if err := processing.Watch(ctx, svc, csvPath, opts); err != nil {
			log.Error().Err(err).Msg("Watch stopped")
			return 1
		}
		return 0
	}

	result, err := svc.RenderFile(ctx, csvPath, opts)
	if err != nil {
		log.Error().Err(err).Str("path", csvPath).Msg("Failed to render chart")
		return 1
	}

	fmt.Fprintf(stdout, "Chart saved to: %s\n", result.OutputPath)
	if result.OutputKey != "" {
		fmt.Fprintf(stdout, "Uploaded as: %s (chart %s)\n", result.OutputKey, result.ID)
	}
	fmt.Fprintln(stdout, "Done!")
	return 0
}

// uploadTargets opens the configured object store and, when DATABASE_URL is set, the render history
func uploadTargets(ctx context.Context, cfg *config.Config) (storage.ObjectStore, repository.ChartRepository, func(), error) {
	noop := func() {}

	store, err := storage.New(ctx, cfg.Storage.ObjectStore())
	if err != nil {
		return nil, nil, noop, err
	}
	if store == nil {
		return nil, nil, noop, errors.New("STORAGE_BACKEND is none")
	}

	if cfg.Database.URL == "" {
		return store, nil, noop, nil
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, noop, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, noop, err
	}
	return store, postgres.NewPostgresChartRepository(db), func() { db.Close() }, nil
}
