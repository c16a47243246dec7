package texturerender

import (
	"fmt"
	"os"
	"time"

	"github.com/opd-ai/texturerender/interfaces"
	"github.com/opd-ai/texturerender/limits"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultIdleThreshold is how long a texture may go without a pull before it
// is reported idle. Three seconds is far beyond any display refresh interval.
const DefaultIdleThreshold = 3 * time.Second

// Options contains configuration for a Bridge and the host it runs under.
type Options struct {
	// NotifyHost makes UpdateFrame call MarkFrameAvailable on the registrar.
	NotifyHost bool `yaml:"notify_host"`

	// MaxTextures caps the number of live textures.
	MaxTextures int `yaml:"max_textures"`

	// IdleThreshold marks a texture idle in stats when no pull happened for
	// this long.
	IdleThreshold time.Duration `yaml:"idle_threshold"`

	// LogLevel is a logrus level name applied by ApplyLogLevel.
	LogLevel string `yaml:"log_level"`

	// Host configures the host created by the factory package.
	Host interfaces.HostConfig `yaml:"host"`
}

// NewOptions creates a new default Options.
func NewOptions() *Options {
	return &Options{
		NotifyHost:    true,
		MaxTextures:   limits.DefaultMaxTextures,
		IdleThreshold: DefaultIdleThreshold,
		LogLevel:      "info",
		Host: interfaces.HostConfig{
			UseSimulation: false,
			RefreshRate:   60,
			SurfaceWidth:  1280,
			SurfaceHeight: 720,
		},
	}
}

// Validate checks every field and returns the first problem found.
func (o *Options) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: nil options", ErrInvalidOptions)
	}
	if err := limits.ValidateMaxTextures(o.MaxTextures); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.IdleThreshold <= 0 {
		return fmt.Errorf("%w: idle threshold must be positive, got %v", ErrInvalidOptions, o.IdleThreshold)
	}
	if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := o.Host.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// ApplyLogLevel sets the standard logrus logger to o.LogLevel.
func (o *Options) ApplyLogLevel() error {
	level, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	return nil
}

// LoadOptions reads YAML options from path. Fields missing from the file
// keep their NewOptions defaults.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options %s: %w", path, err)
	}
	return ParseOptions(data)
}

// ParseOptions decodes YAML options on top of the defaults and validates them.
func ParseOptions(data []byte) (*Options, error) {
	opts := NewOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":     "ParseOptions",
		"notify_host":  opts.NotifyHost,
		"max_textures": opts.MaxTextures,
		"refresh_rate": opts.Host.RefreshRate,
		"simulation":   opts.Host.UseSimulation,
	}).Debug("Loaded bridge options")

	return opts, nil
}
