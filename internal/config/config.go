package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/danmaku2ass/internal/layout"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Video contains the script resolution of the output track.
type Video struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Font contains the single style every comment is drawn with.
type Font struct {
	Name string `toml:"name"`
	Size int    `toml:"size"`
}

// Layout contains comment placement and timing settings.
type Layout struct {
	Lanes      int    `toml:"lanes"`
	LongText   string `toml:"long_text"`
	MaxEntries int    `toml:"max_entries"`
}

// Config encapsulates all configuration values for a conversion.
type Config struct {
	Video  Video  `toml:"video"`
	Font   Font   `toml:"font"`
	Layout Layout `toml:"layout"`
}

// SampleConfig returns the annotated sample configuration file.
func SampleConfig() string {
	return sampleConfig
}

const projectConfigName = "danmaku2ass.toml"

// DefaultConfigPath is the per-user config file, ~/.config/danmaku2ass/config.toml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "danmaku2ass", "config.toml"), nil
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: defaults are returned and exists reports false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

// LayoutConfig returns the geometry handed to the conversion stages.
func (c *Config) LayoutConfig() layout.Config {
	return layout.Config{
		Width:      c.Video.Width,
		Height:     c.Video.Height,
		FontSize:   c.Font.Size,
		LaneCount:  c.Layout.Lanes,
		LongText:   layout.LongTextPolicy(c.Layout.LongText),
		MaxEntries: c.Layout.MaxEntries,
	}
}

// ApplyGeometry overrides resolution, font size and lane count.
func (c *Config) ApplyGeometry(g Geometry) {
	c.Video.Width = g.Width
	c.Video.Height = g.Height
	c.Font.Size = g.FontSize
	c.Layout.Lanes = g.Lanes
}

// Validate checks the configuration for values no conversion can use.
func (c *Config) Validate() error {
	if c.Font.Name == "" {
		return errors.New("font.name must not be empty")
	}
	if strings.ContainsAny(c.Font.Name, ",\n") {
		return fmt.Errorf("font.name %q must not contain commas or newlines", c.Font.Name)
	}
	if err := c.LayoutConfig().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Font.Name = strings.TrimSpace(c.Font.Name)
	if c.Font.Name == "" {
		c.Font.Name = defaultFontName
	}
	c.Layout.LongText = strings.ToLower(strings.TrimSpace(c.Layout.LongText))
	if c.Layout.LongText == "" {
		c.Layout.LongText = defaultLongText
	}
}

// resolveConfigPath picks the file Load reads. An explicit path must exist;
// otherwise the user config is preferred over ./danmaku2ass.toml.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandHome(path)
		if err != nil {
			return "", false, err
		}
		path = expanded
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("config file not found: %s", path)
		case err != nil:
			return "", false, fmt.Errorf("stat config: %w", err)
		case info.IsDir():
			return "", false, fmt.Errorf("config path %s is a directory", path)
		}
		return path, true, nil
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectConfigName} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", false, err
			}
			return abs, true, nil
		}
	}
	return userPath, false, nil
}

// expandHome resolves a leading ~ the shell left alone, as in --config=~/x.toml.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
