// Package config loads exif-trackr settings from an optional TOML file.
//
// Values are resolved in three layers: built-in defaults, then the file, then
// any command-line flags the caller applies on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/quidome/exif-trackr-go/pkg/output"
	"github.com/quidome/exif-trackr-go/pkg/render"
)

var (
	// ErrInvalidTimezone is returned when the timezone is not a known IANA zone.
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// Log contains logger settings.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full set of run settings.
type Config struct {
	Format     string   `toml:"format"`
	Recursive  bool     `toml:"recursive"`
	Output     string   `toml:"output"`
	Timezone   string   `toml:"timezone"`
	Extensions []string `toml:"extensions"`
	Log        Log      `toml:"log"`
}

// Default returns the settings used when no file or flag overrides them.
func Default() Config {
	return Config{
		Format: string(render.Formats[0]),
		Output: output.Stdout,
		Log: Log{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load returns the defaults overlaid with the file at path. An empty path
// skips the file. The result is normalized but not validated, so flags can
// still replace a bad value before Validate runs.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Normalize()
	return &cfg, nil
}

// Normalize trims and lowercases the log settings and fills empty fields
// with their defaults. Format is matched exactly and left as given.
func (c *Config) Normalize() {
	def := Default()

	if c.Format == "" {
		c.Format = def.Format
	}
	c.Output = strings.TrimSpace(c.Output)
	if c.Output == "" {
		c.Output = def.Output
	}
	c.Timezone = strings.TrimSpace(c.Timezone)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := render.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: format: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: log.level: unsupported value %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("config: log.format: unsupported value %q", c.Log.Format)
	}
	return nil
}

// RenderFormat returns the validated output format.
func (c *Config) RenderFormat() (render.Format, error) {
	return render.ParseFormat(c.Format)
}

// Location returns the timezone used to interpret EXIF capture times. An
// empty value or "local" means time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone: %w", errors.Join(ErrInvalidTimezone, err))
	}
	return loc, nil
}
