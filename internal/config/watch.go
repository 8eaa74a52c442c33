package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"ims/internal/engine"
)

// ScoringWatcher reloads the scoring file into a Holder whenever it changes.
// A file that fails to load is logged and the current engine is kept.
type ScoringWatcher struct {
	path     string
	holder   *engine.Holder
	log      *slog.Logger
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

func NewScoringWatcher(path string, holder *engine.Holder, log *slog.Logger) (*ScoringWatcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the directory so editors that replace the file by rename are seen
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &ScoringWatcher{
		path:     filepath.Clean(path),
		holder:   holder,
		log:      log.With("component", "scoring-watcher"),
		debounce: 200 * time.Millisecond,
		fsw:      fsw,
	}, nil
}

// Run blocks until ctx is done.
func (w *ScoringWatcher) Run(ctx context.Context) {
	defer w.fsw.Close()
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == w.path && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = true
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", "err", err)
		case <-ticker.C:
			if pending {
				pending = false
				w.Reload()
			}
		}
	}
}

// Reload loads the file once and swaps it in when valid.
func (w *ScoringWatcher) Reload() bool {
	e, err := LoadScoring(w.path)
	if err != nil {
		w.log.Warn("scoring reload rejected", "path", w.path, "err", err)
		return false
	}
	w.holder.Swap(e)
	w.log.Info("scoring tables reloaded", "path", w.path,
		"riskLevels", e.Tables.Risk.Levels(), "aspectLevels", e.Tables.Aspect.Levels())
	return true
}
