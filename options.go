package ikona

import "io"
import "os"
import "fmt"
import "log/slog"

import "github.com/goccy/go-yaml"
import "github.com/liqmix/ikona/tick"

const (
	defaultIconPathFormat = "icon/%06d.png"
	defaultLocaleIconPathFormat = "icon/%s/%06d.png"
	defaultFramePathFormat = "frame/%06d.png"
	defaultHiresSuffix = "@2x"

	// Most hardware tops out at 4096 or above; decoded sources larger
	// than this get downscaled before upload.
	defaultMaxTextureSize = 4096
)

// Config describes one cache variant. Data and Ticks are required;
// everything else has a sensible zero value. The yaml-tagged fields can
// also be loaded from a file with [LoadConfig].
type Config struct {
	// Asset access. Required.
	Data DataSource `yaml:"-"`

	// Per-frame tick source driving admission and eviction. Required.
	Ticks tick.Source `yaml:"-"`

	// Optional path remapping layer (mod support). May be nil.
	Redirect Redirector `yaml:"-"`

	// Failures are logged here; nil discards.
	Logger *slog.Logger `yaml:"-"`

	// Built-in icons registered at construction time. Nil selects
	// [DefaultCatalog]; an empty non-nil slice registers nothing.
	Catalog []CatalogEntry `yaml:"-"`

	// Initial path overrides, installed before the catalog pass so
	// they take precedence over catalog entries for the same key.
	Overrides map[Key]string `yaml:"overrides,omitempty"`

	// Locale code tried when the locale-neutral icon path is absent.
	Locale string `yaml:"locale,omitempty"`

	// Hires selects the high-resolution variant: catalog entries flagged
	// as such, and synthesized paths, get HiresSuffix inserted before
	// the file extension.
	Hires bool `yaml:"hires,omitempty"`

	// Grayscale variants replicate luminance across the color channels.
	Grayscale bool `yaml:"grayscale,omitempty"`

	IconPathFormat string `yaml:"iconPathFormat,omitempty"`
	LocaleIconPathFormat string `yaml:"localeIconPathFormat,omitempty"`
	FramePathFormat string `yaml:"framePathFormat,omitempty"`
	HiresSuffix string `yaml:"hiresSuffix,omitempty"`
	MaxTextureSize int `yaml:"maxTextureSize,omitempty"`
}

// Reads the yaml-backed Config fields from the given file. A missing
// file is not an error; it simply yields an empty Config for the caller
// to fill in programmatically.
func LoadConfig(path string) (Config, error) {
	var config Config
	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) { return config, nil }
		return config, err
	}
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return config, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}

func (self *Config) withDefaults() Config {
	config := *self
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Catalog == nil { config.Catalog = DefaultCatalog }
	if config.IconPathFormat == "" { config.IconPathFormat = defaultIconPathFormat }
	if config.LocaleIconPathFormat == "" {
		config.LocaleIconPathFormat = defaultLocaleIconPathFormat
	}
	if config.FramePathFormat == "" { config.FramePathFormat = defaultFramePathFormat }
	if config.HiresSuffix == "" { config.HiresSuffix = defaultHiresSuffix }
	if config.MaxTextureSize <= 0 { config.MaxTextureSize = defaultMaxTextureSize }
	return config
}
