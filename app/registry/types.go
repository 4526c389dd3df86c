package registry

import (
	"fmt"
	"slices"
	"time"

	"github.com/lysyi3m/feed-reader/app/feed"
)

type Config struct {
	Name     string   // Derived from filename (without .yml/.yaml extension)
	URL      string   `yaml:"url"`
	Type     string   `yaml:"type"` // feed dialect code: RSS or ATOM
	Settings Settings `yaml:"settings"`
	Filters  []Filter `yaml:"filters"`
}

type Settings struct {
	Enabled bool `yaml:"enabled"`
	Timeout int  `yaml:"timeout"` // seconds
}

type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

func (s Settings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}

func (c *Config) validate() error {
	if c.URL == "" {
		return fmt.Errorf("feed URL is required")
	}

	if _, err := feed.SelectDialect(c.Type); err != nil {
		return fmt.Errorf("feed type must be one of %v: %w", feed.Dialects(), err)
	}

	if c.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	for i, filter := range c.Filters {
		if !slices.Contains(filterFields, filter.Field) {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
