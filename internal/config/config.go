package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dshills/inlay/internal/diag"
)

// DefaultFileName is the configuration file looked up next to a host document.
const DefaultFileName = "inlay.json"

// Errors returned by configuration loading.
var (
	// ErrInvalidConfig indicates the configuration file could not be parsed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownSeverity indicates an unrecognized minSeverity value.
	ErrUnknownSeverity = errors.New("unknown severity")

	// ErrInvalidDebounce indicates a negative debounce interval.
	ErrInvalidDebounce = errors.New("debounce must not be negative")

	// ErrInvalidMaxDiagnostics indicates a non-positive diagnostics cap.
	ErrInvalidMaxDiagnostics = errors.New("maxDiagnostics must be positive")
)

// Config is the inlay.json project configuration.
type Config struct {
	// Languages lists the embedded languages to analyze.
	// Empty means every language found in the host document.
	Languages []string `json:"languages,omitempty"`

	// RulesFile is the path of the Lua formatting-rules file, relative to
	// the configuration file. Empty means the built-in defaults.
	RulesFile string `json:"rulesFile,omitempty"`

	// MinSeverity is the lowest severity to report: "error", "warning",
	// "info", or "hint".
	MinSeverity string `json:"minSeverity,omitempty"`

	// MaxDiagnostics caps diagnostics per contained document.
	MaxDiagnostics int `json:"maxDiagnostics,omitempty"`

	// DebounceMs is the watch-mode debounce interval in milliseconds.
	DebounceMs int `json:"debounceMs,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		MinSeverity:    "hint",
		MaxDiagnostics: 1000,
		DebounceMs:     200,
	}
}

// Load reads the configuration from a file. A missing file is not an error
// and yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates configuration bytes. Fields absent from the
// input keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if _, ok := diag.ParseSeverity(c.MinSeverity); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeverity, c.MinSeverity)
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDebounce, c.DebounceMs)
	}
	if c.MaxDiagnostics <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxDiagnostics, c.MaxDiagnostics)
	}
	return nil
}

// Severity returns the parsed minimum severity.
func (c Config) Severity() diag.Severity {
	s, ok := diag.ParseSeverity(c.MinSeverity)
	if !ok {
		s = diag.SeverityHint
	}
	return s
}

// LanguageEnabled reports whether an embedded language should be analyzed.
func (c Config) LanguageEnabled(language string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	for _, l := range c.Languages {
		if l == language {
			return true
		}
	}
	return false
}
