package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "24h" decode.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// LogLevel wraps slog.Level so YAML values like "debug" decode.
type LogLevel slog.Level

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(value.Value)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", value.Value, err)
	}
	*l = LogLevel(lv)
	return nil
}

// Std returns the wrapped slog.Level.
func (l LogLevel) Std() slog.Level { return slog.Level(l) }

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	Theme   ThemeConfig       `yaml:"theme"`
	Output  OutputConfig      `yaml:"output"`
	Watch   WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.Theme.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel LogLevel `yaml:"log_level"`
}

// ContentConfig locates and tunes the content indexer.
type ContentConfig struct {
	// Root is the directory of authored Markdown documents.
	Root string `yaml:"root"`
	// SkewTolerance is how far in the future a document date may lie before
	// it is rejected.
	SkewTolerance Duration `yaml:"skew_tolerance"`
	// Parallelism bounds concurrent document parsing; 0 means NumCPU.
	Parallelism int `yaml:"parallelism"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Parallelism, validation.Min(0)),
	)
}

// ThemeConfig locates the theme configuration for the style extractor.
type ThemeConfig struct {
	// Path is the theme configuration file.
	Path string `yaml:"path"`
	// ScanRoot is the directory the theme's content globs are resolved
	// against.
	ScanRoot string `yaml:"scan_root"`
}

// Validate validates the theme configuration.
func (c *ThemeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.ScanRoot, validation.Required),
	)
}

// OutputConfig controls artifact emission.
type OutputConfig struct {
	Dir string `yaml:"dir"`
	// RenderHTML additionally emits rendered HTML fragments per document.
	RenderHTML bool `yaml:"render_html"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// Debounce batches rapid editor events into one rebuild.
	Debounce Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	if c.Debounce < 0 {
		return fmt.Errorf("watch: debounce must not be negative")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: LogLevel(slog.LevelInfo),
		},
		Content: ContentConfig{
			Root:          "./content",
			SkewTolerance: Duration(24 * time.Hour),
		},
		Theme: ThemeConfig{
			Path:     "./theme.yaml",
			ScanRoot: ".",
		},
		Output: OutputConfig{
			Dir: "./public",
		},
		Watch: WatchConfig{
			Debounce: Duration(250 * time.Millisecond),
		},
	}
}
