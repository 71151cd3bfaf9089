// Package config holds the settings for a match-center scrape.
//
// Settings start from Default and may be overridden by an optional json5 file and a
// sibling "<name>.local.<ext>" file, then by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

const (
	MatchCenterURL = "https://www.yallakora.com/match-center"
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultTimeout = 10 * time.Second
	DefaultDir     = "data"
	DefaultFile    = "yallakora.json5"
)

// Groupings selects which championship groupings are extracted from a page
type Groupings string

const (
	GroupingsFirst Groupings = "first"
	GroupingsAll   Groupings = "all"
)

// Config is the full set of scraper settings
type Config struct {
	BaseURL        string    `json:"base_url"`
	UserAgent      string    `json:"user_agent"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	OutputDir      string    `json:"output_dir"`
	Groupings      Groupings `json:"groupings"`
	LenientDates   bool      `json:"lenient_dates"`
	LogFile        string    `json:"log_file"`

	// CloudflareBypass sends browser-like TLS settings and headers for hosts
	// that challenge plain HTTP clients
	CloudflareBypass bool `json:"cloudflare_bypass"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		BaseURL:        MatchCenterURL,
		UserAgent:      UserAgent,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
		OutputDir:      DefaultDir,
		Groupings:      GroupingsFirst,
	}
}

// Timeout returns the fetch timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks that the settings can drive a run
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	switch c.Groupings {
	case GroupingsFirst, GroupingsAll:
	default:
		return fmt.Errorf("groupings must be %q or %q, got %q", GroupingsFirst, GroupingsAll, c.Groupings)
	}
	return nil
}

// Load returns Default merged with the file at path and its local override.
// Missing files are not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	fromFile, err := ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := mergo.Merge(&cfg, fromFile, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("merging config %s: %w", path, err)
	}
	cfg.Groupings = Groupings(strings.ToLower(string(cfg.Groupings)))

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// ReadConfig reads a configuration file, `name` should come with a file extension.
// These files are merged, later entries winning:
// 1. <name>.<ext>
// 2. <name>.local.<ext>
// os.ErrNotExist is returned when neither exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		if err := json5.Unmarshal(defaultFile, &out); err != nil {
			return out, fmt.Errorf("parsing %s: %w", name, err)
		}
		allNotFound = false
	}

	localFilepath := filepath.Join(dirname, fmt.Sprintf("%s.local.%s", prefixname, ext))
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		// Decoding onto out replaces only the keys the local file sets, so an
		// explicit false or 0 there still wins over the base file.
		if err := json5.Unmarshal(localFile, &out); err != nil {
			return out, fmt.Errorf("parsing %s: %w", localFilepath, err)
		}
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}
