package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"prep_admin_backend/internal/config"
	"prep_admin_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Reloader receives the freshly loaded configuration.
type Reloader func(cfg *config.Config)

// Watcher reloads configs/config.yaml when it changes and hands the result
// to every registered reloader. Bursts of writes collapse into one reload.
type Watcher struct {
	path      string
	debounce  time.Duration
	load      func(dir string) (*config.Config, error)
	reloaders []Reloader
}

func New(configFile string, reloaders ...Reloader) *Watcher {
	return &Watcher{
		path:      configFile,
		debounce:  time.Second,
		load:      config.LoadConfig,
		reloaders: reloaders,
	}
}

// Watch blocks until ctx is done. The directory is watched rather than the
// file so editors that replace the file on save are still seen.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create config watcher")
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return errors.Wrap(err, "resolve config path")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			w.reload(filepath.Dir(abs))
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(dir string) {
	cfg, err := w.load(dir)
	if err != nil {
		logger.Log.Error("reload config failed", zap.Error(err))
		return
	}
	logger.Log.Info("config reloaded", zap.String("path", w.path))
	for _, r := range w.reloaders {
		r(cfg)
	}
}
