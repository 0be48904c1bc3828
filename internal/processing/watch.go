package processing

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// WatchFile calls onChange each time path is written, until ctx is cancelled.
//
// The parent directory is watched rather than the file so that editors and
// exporters that save by rename (write temp file, move over original) are
// still seen.
func WatchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	log.Info().Str("path", abs).Msg("Watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

// Watch renders csvPath once and again after every change. Render errors are
// logged and the previous chart stays on disk.
func Watch(ctx context.Context, svc ChartService, csvPath string, opts Options) error {
	rerender := func() {
		if _, err := svc.RenderFile(ctx, csvPath, opts); err != nil {
			log.Error().Err(err).Str("path", csvPath).Msg("Re-render failed, keeping previous chart")
		}
	}
	rerender()
	return WatchFile(ctx, csvPath, rerender)
}
