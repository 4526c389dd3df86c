package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/lysyi3m/feed-reader/app/feed"
	"gopkg.in/yaml.v3"
)

const defaultTimeout = 30

var ErrFeedNotFound = errors.New("feed not found")

var configExtensions = []string{".yml", ".yaml"}

// Registry holds the feed definitions found in a directory, one YAML file
// per feed. The file name without extension is the feed name.
type Registry struct {
	dir   string
	mu    sync.RWMutex
	feeds map[string]*Config
}

func New(dir string) *Registry {
	return &Registry{
		dir:   dir,
		feeds: make(map[string]*Config),
	}
}

// Load reads every feed file in the directory. A missing directory is an
// empty registry. Invalid files are reported together; valid ones are
// still registered.
func (r *Registry) Load() error {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read feeds directory: %w", err)
	}

	var errs []error
	seen := make(map[string]string)

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || !slices.Contains(configExtensions, ext) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ext)
		if other, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("feed '%s' is defined by both %s and %s", name, other, entry.Name()))
			continue
		}
		seen[name] = entry.Name()

		feedConfig, err := r.readFile(name, filepath.Join(r.dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}

		r.store(feedConfig)
		slog.Debug("Configuration loaded", "feed", name, "type", feedConfig.Type, "enabled", feedConfig.Settings.Enabled)
	}

	return errors.Join(errs...)
}

// Reload re-reads the file of a single feed.
func (r *Registry) Reload(name string) (*Config, error) {
	for _, ext := range configExtensions {
		path := filepath.Join(r.dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		feedConfig, err := r.readFile(name, path)
		if err != nil {
			return nil, err
		}
		r.store(feedConfig)
		return feedConfig, nil
	}

	return nil, fmt.Errorf("%w: no configuration file for '%s' in %s", ErrFeedNotFound, name, r.dir)
}

func (r *Registry) Get(name string) (*Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	feedConfig, ok := r.feeds[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrFeedNotFound, name)
	}
	return feedConfig, nil
}

// All returns every registered feed ordered by name.
func (r *Registry) All() []*Config {
	return r.list(func(*Config) bool { return true })
}

// Enabled returns the enabled feeds ordered by name.
func (r *Registry) Enabled() []*Config {
	return r.list(func(c *Config) bool { return c.Settings.Enabled })
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.feeds)
}

func (r *Registry) list(keep func(*Config) bool) []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]*Config, 0, len(r.feeds))
	for _, c := range r.feeds {
		if keep(c) {
			configs = append(configs, c)
		}
	}
	slices.SortFunc(configs, func(a, b *Config) int {
		return strings.Compare(a.Name, b.Name)
	})
	return configs
}

func (r *Registry) store(feedConfig *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feeds[feedConfig.Name] = feedConfig
}

func (r *Registry) readFile(name, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	feedConfig, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	feedConfig.Name = name

	if err := feedConfig.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return feedConfig, nil
}

// decode rejects keys the Config type does not know, so a typo such as
// "setings" fails loudly instead of silently disabling the feed.
func decode(data []byte) (*Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var feedConfig Config
	if err := decoder.Decode(&feedConfig); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty configuration")
		}
		return nil, err
	}

	if feedConfig.Type == "" {
		feedConfig.Type = feed.DialectRSS
	}
	if feedConfig.Settings.Timeout == 0 {
		feedConfig.Settings.Timeout = defaultTimeout
	}

	return &feedConfig, nil
}
