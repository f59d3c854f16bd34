// Package config loads engine settings from a TOML file.
//
// A missing file is not an error: the engine runs on defaults and the file
// appears the first time settings are saved. Replacing settings at runtime
// is always a whole-value swap through the engine API, never a partial
// mutation of a loaded Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full settings file.
type Config struct {
	Match   MatchConfig   `toml:"match"`
	Formats FormatsConfig `toml:"formats"`
	Library LibraryConfig `toml:"library"`
	Hooks   HooksConfig   `toml:"hooks"`
}

// MatchConfig mirrors the matcher's settings.
type MatchConfig struct {
	CaseSensitive    bool   `toml:"case_sensitive"`
	RequireDelimiter bool   `toml:"require_delimiter"`
	RequirePrefix    bool   `toml:"require_prefix"`
	PrefixChar       string `toml:"prefix_char"`
}

// FormatsConfig holds Go reference-time layouts for date/time markers.
type FormatsConfig struct {
	Date     string `toml:"date"`
	Time     string `toml:"time"`
	DateTime string `toml:"datetime"`
}

// LibraryConfig locates the snippet library.
type LibraryConfig struct {
	Path string `toml:"path"`
}

// HooksConfig locates the optional Lua hook script.
type HooksConfig struct {
	Script string `toml:"script"`
}

// Default returns the engine defaults, rooted under the user config dir.
func Default() Config {
	return Config{
		Match: MatchConfig{PrefixChar: ";"},
		Formats: FormatsConfig{
			Date:     "2006-01-02",
			Time:     "15:04",
			DateTime: "2006-01-02 15:04",
		},
		Library: LibraryConfig{Path: defaultLibraryPath()},
	}
}

func defaultLibraryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "snippets.json"
	}
	return filepath.Join(dir, "snipforge", "snippets.json")
}

// Load reads configuration from path, applying defaults for absent keys.
// A missing file returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// PrefixRune returns the configured prefix character, or the default when
// the config value is empty or multi-character.
func (m MatchConfig) PrefixRune() rune {
	runes := []rune(m.PrefixChar)
	if len(runes) != 1 {
		return ';'
	}
	return runes[0]
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
