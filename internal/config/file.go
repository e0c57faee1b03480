package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.yaml.in/yaml/v3"

	"github.com/barkeepapp/barkeep/internal/action"
	"github.com/barkeepapp/barkeep/internal/hotkey"
	"github.com/barkeepapp/barkeep/internal/logging"
)

// File is the on-disk YAML config: hotkey bindings plus move tuning.
type File struct {
	Bindings map[string]string `yaml:"bindings"`
	Move     MoveTuning        `yaml:"move"`
}

// MoveTuning overrides the relocation engine defaults. Zero values mean
// "use the default".
type MoveTuning struct {
	Tolerance   float64 `yaml:"tolerance"`
	MaxAttempts int     `yaml:"max_attempts"`
	SettleDelay string  `yaml:"settle_delay"`
}

// SettleDuration parses the settle delay, falling back when unset.
func (m MoveTuning) SettleDuration(fallback time.Duration) time.Duration {
	if m.SettleDelay == "" {
		return fallback
	}
	d, err := time.ParseDuration(m.SettleDelay)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// DefaultFilePath returns the conventional config file location.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "barkeep", "config.yaml"), nil
}

// LoadFile reads and validates the YAML config. A missing file is not an
// error; it yields an empty File so the daemon runs with no bindings.
func LoadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return File{}, nil
	}
	if err != nil {
		return File{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Validate checks every binding names a known action and a parseable
// key combination.
func (f File) Validate() error {
	for name, combo := range f.Bindings {
		if _, err := action.ParseName(name); err != nil {
			return err
		}
		if _, err := hotkey.Parse(combo); err != nil {
			return fmt.Errorf("binding %s: %w", name, err)
		}
	}
	if f.Move.Tolerance < 0 {
		return fmt.Errorf("move.tolerance must be >= 0 (got %g)", f.Move.Tolerance)
	}
	if f.Move.MaxAttempts < 0 {
		return fmt.Errorf("move.max_attempts must be >= 0 (got %d)", f.Move.MaxAttempts)
	}
	return nil
}

// ParsedBindings returns the validated bindings as typed values.
func (f File) ParsedBindings() (map[action.Name]hotkey.KeyCombination, error) {
	out := make(map[action.Name]hotkey.KeyCombination, len(f.Bindings))
	for name, combo := range f.Bindings {
		act, err := action.ParseName(name)
		if err != nil {
			return nil, err
		}
		c, err := hotkey.Parse(combo)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
		out[act] = c
	}
	return out, nil
}

// FileWatcher reloads the config file when it changes on disk and hands
// each valid result to the callback. Invalid edits are logged and the
// previous configuration stays in effect.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// WatchFile starts watching path's directory. Watching the directory
// rather than the file survives editors that replace-on-save.
func WatchFile(path string, onChange func(File)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	fw := &FileWatcher{watcher: watcher, done: make(chan struct{})}
	go fw.run(path, onChange)
	return fw, nil
}

func (fw *FileWatcher) run(path string, onChange func(File)) {
	defer close(fw.done)
	target := filepath.Clean(path)
	for {
		select {
		case evt, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			f, err := LoadFile(path)
			if err != nil {
				logging.Error(err)
				continue
			}
			onChange(f)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error(err)
		}
	}
}

// Close stops the watcher and waits for the reload goroutine to exit.
func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		err = fw.watcher.Close()
		<-fw.done
	})
	return err
}
