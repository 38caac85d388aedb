package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"svw.info/cardle/internal/platform/logger"
)

// PreferenceValues is the on-disk shape of the preference file.
type PreferenceValues struct {
	Dark   bool `yaml:"dark" json:"dark"`
	German bool `yaml:"german" json:"german"`
}

// Preferences holds the process-wide theme and language choice, backed by a
// YAML file. Safe for concurrent use.
type Preferences struct {
	path string
	log  *logger.Logger

	mu   sync.RWMutex
	vals PreferenceValues
}

// LoadPreferences reads path. A missing file yields the defaults.
func LoadPreferences(path string, log *logger.Logger) (*Preferences, error) {
	if log == nil {
		log = logger.Nop()
	}
	p := &Preferences{path: path, log: log}
	if err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Preferences) reload() error {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read preferences: %w", err)
	}
	var v PreferenceValues
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse preferences: %w", err)
	}
	p.mu.Lock()
	p.vals = v
	p.mu.Unlock()
	return nil
}

func (p *Preferences) German() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vals.German
}

func (p *Preferences) Dark() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vals.Dark
}

func (p *Preferences) Values() PreferenceValues {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vals
}

func (p *Preferences) SetGerman(v bool) error {
	return p.update(func(pv *PreferenceValues) { pv.German = v })
}

func (p *Preferences) SetDark(v bool) error {
	return p.update(func(pv *PreferenceValues) { pv.Dark = v })
}

func (p *Preferences) update(fn func(*PreferenceValues)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := p.vals
	fn(&next)
	data, err := yaml.Marshal(next)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	p.vals = next
	return nil
}

// Watch reloads the preference file whenever it changes on disk and calls
// onChange with the new values. It blocks until ctx is done. The parent
// directory is watched so editors that replace the file are picked up too.
func (p *Preferences) Watch(ctx context.Context, onChange func(PreferenceValues)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	name := filepath.Clean(p.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			before := p.Values()
			if err := p.reload(); err != nil {
				p.log.Warn("preferences reload failed", "error", err)
				continue
			}
			if after := p.Values(); after != before {
				p.log.Info("preferences changed", "dark", after.Dark, "german", after.German)
				if onChange != nil {
					onChange(after)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.log.Warn("preferences watcher error", "error", err)
		}
	}
}
