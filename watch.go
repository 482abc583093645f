package thicket

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// configDebounce is the quiet period after the last event before a reload
// is signalled. Editors often write a file in several steps.
const configDebounce = 100 * time.Millisecond

// ConfigWatcher reloads a config file when it changes on disk. Events are
// collected on a background goroutine; the frame loop picks them up with
// Poll, so reloads are applied between frames.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changed chan struct{}
	errs    chan error
	closeCh chan struct{}
	once    sync.Once
}

// WatchConfig starts watching path. The containing directory is watched so
// that atomic replace-by-rename saves are seen.
func WatchConfig(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:    abs,
		watcher: w,
		changed: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

// Path returns the absolute path being watched.
func (cw *ConfigWatcher) Path() string { return cw.path }

// Poll returns the reloaded config if the file changed since the last call.
// It never blocks. A parse failure is returned as the error with ok false;
// the caller should keep its current config.
func (cw *ConfigWatcher) Poll() (Config, bool, error) {
	select {
	case err := <-cw.errs:
		return Config{}, false, err
	default:
	}
	select {
	case <-cw.changed:
	default:
		return Config{}, false, nil
	}
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		getLogger().Warn("config reload failed", "path", cw.path, "err", err)
		return Config{}, false, err
	}
	getLogger().Debug("config reloaded", "path", cw.path)
	return cfg, true, nil
}

// Close stops the watcher. Safe to call more than once.
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.closeCh)
		err = cw.watcher.Close()
	})
	return err
}

func (cw *ConfigWatcher) run() {
	timer := time.NewTimer(configDebounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			// Every event restarts the window; the reload follows the last one.
			timer.Reset(configDebounce)
			fire = timer.C
		case <-fire:
			fire = nil
			// A pending signal already covers this change.
			select {
			case cw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case cw.errs <- err:
			default:
			}
		case <-cw.closeCh:
			return
		}
	}
}
