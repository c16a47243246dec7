package factory

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/opd-ai/texturerender/interfaces"
	"github.com/opd-ai/texturerender/real"
	"github.com/opd-ai/texturerender/testing"
	"github.com/sirupsen/logrus"
)

// Environment variables read by NewHostFactory.
const (
	EnvSimulation  = "TEXTURE_RENDER_SIMULATION"
	EnvRefreshRate = "TEXTURE_RENDER_REFRESH_HZ"
	EnvSurfaceSize = "TEXTURE_RENDER_SURFACE_SIZE"
)

// HostFactory creates texture host implementations based on configuration.
// It is safe for concurrent use.
type HostFactory struct {
	mu            sync.RWMutex
	defaultConfig *interfaces.HostConfig
}

// TestConfigOption customizes the configuration used by CreateSimulationForTesting.
type TestConfigOption func(*interfaces.HostConfig)

// NewHostFactory creates a factory with default configuration and
// environment overrides applied.
func NewHostFactory() *HostFactory {
	defaultConfig := createDefaultConfig()
	applyEnvironmentOverrides(defaultConfig)
	logConfigurationInfo(defaultConfig)

	return &HostFactory{defaultConfig: defaultConfig}
}

// createDefaultConfig returns the production defaults: the in-process
// compositor painting 1280x720 surfaces at 60 Hz.
func createDefaultConfig() *interfaces.HostConfig {
	return &interfaces.HostConfig{
		UseSimulation: false,
		RefreshRate:   60,
		SurfaceWidth:  1280,
		SurfaceHeight: 720,
	}
}

// WithEnvironment returns a copy of config with the TEXTURE_RENDER_*
// environment overrides applied. Unparsable values keep the config's value.
func WithEnvironment(config *interfaces.HostConfig) *interfaces.HostConfig {
	cfg := *config
	applyEnvironmentOverrides(&cfg)
	return &cfg
}

func applyEnvironmentOverrides(config *interfaces.HostConfig) {
	parseSimulationSetting(config)
	parseRefreshRateSetting(config)
	parseSurfaceSizeSetting(config)
}

// parseSimulationSetting reads TEXTURE_RENDER_SIMULATION as a boolean.
func parseSimulationSetting(config *interfaces.HostConfig) {
	value := os.Getenv(EnvSimulation)
	if value == "" {
		return
	}
	useSim, err := strconv.ParseBool(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "parseSimulationSetting",
			"env_var":     EnvSimulation,
			"value":       value,
			"error":       err.Error(),
			"using_value": config.UseSimulation,
		}).Warn("Failed to parse TEXTURE_RENDER_SIMULATION environment variable, using default")
		return
	}
	config.UseSimulation = useSim
}

// parseRefreshRateSetting reads TEXTURE_RENDER_REFRESH_HZ within
// [MinRefreshRate, MaxRefreshRate].
func parseRefreshRateSetting(config *interfaces.HostConfig) {
	value := os.Getenv(EnvRefreshRate)
	if value == "" {
		return
	}
	rate, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "parseRefreshRateSetting",
			"env_var":     EnvRefreshRate,
			"value":       value,
			"error":       err.Error(),
			"using_value": config.RefreshRate,
		}).Warn("Failed to parse TEXTURE_RENDER_REFRESH_HZ environment variable, using default")
		return
	}
	if rate < interfaces.MinRefreshRate || rate > interfaces.MaxRefreshRate {
		logrus.WithFields(logrus.Fields{
			"function":    "parseRefreshRateSetting",
			"env_var":     EnvRefreshRate,
			"value":       rate,
			"min":         interfaces.MinRefreshRate,
			"max":         interfaces.MaxRefreshRate,
			"using_value": config.RefreshRate,
		}).Warn("TEXTURE_RENDER_REFRESH_HZ value out of bounds, using default")
		return
	}
	config.RefreshRate = rate
}

// parseSurfaceSizeSetting reads TEXTURE_RENDER_SURFACE_SIZE in WIDTHxHEIGHT form.
func parseSurfaceSizeSetting(config *interfaces.HostConfig) {
	value := os.Getenv(EnvSurfaceSize)
	if value == "" {
		return
	}
	width, height, err := parseSize(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "parseSurfaceSizeSetting",
			"env_var":     EnvSurfaceSize,
			"value":       value,
			"error":       err.Error(),
			"using_value": fmt.Sprintf("%dx%d", config.SurfaceWidth, config.SurfaceHeight),
		}).Warn("Failed to parse TEXTURE_RENDER_SURFACE_SIZE environment variable, using default")
		return
	}
	config.SurfaceWidth = width
	config.SurfaceHeight = height
}

func parseSize(value string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(value)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("expected WIDTHxHEIGHT, got %q", value)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width: %w", err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height: %w", err)
	}
	if width <= 0 || height <= 0 || width > interfaces.MaxSurfaceDimension || height > interfaces.MaxSurfaceDimension {
		return 0, 0, fmt.Errorf("size %dx%d out of bounds (max %d)", width, height, interfaces.MaxSurfaceDimension)
	}
	return width, height, nil
}

func logConfigurationInfo(config *interfaces.HostConfig) {
	logrus.WithFields(logrus.Fields{
		"function":       "NewHostFactory",
		"use_simulation": config.UseSimulation,
		"refresh_rate":   config.RefreshRate,
		"surface_width":  config.SurfaceWidth,
		"surface_height": config.SurfaceHeight,
	}).Info("Created host factory with configuration")
}

// CreateHost creates a host from the factory's default configuration.
func (f *HostFactory) CreateHost() (interfaces.ITextureHost, error) {
	return f.CreateHostWithConfig(nil)
}

// CreateHostWithConfig creates a host from config, or from the default
// configuration when config is nil.
func (f *HostFactory) CreateHostWithConfig(config *interfaces.HostConfig) (interfaces.ITextureHost, error) {
	if config == nil {
		config = f.GetCurrentConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.UseSimulation {
		logrus.WithFields(logrus.Fields{
			"function": "CreateHostWithConfig",
			"type":     "simulation",
		}).Info("Creating simulated texture host")
		return testing.NewSimulatedRegistrar(config), nil
	}

	logrus.WithFields(logrus.Fields{
		"function":     "CreateHostWithConfig",
		"type":         "real",
		"refresh_rate": config.RefreshRate,
	}).Info("Creating in-process compositor host")

	compositor, err := real.NewCompositor(config)
	if err != nil {
		return nil, err
	}
	return compositor, nil
}

// WithRefreshRate sets the refresh rate for the test configuration.
func WithRefreshRate(rate int) TestConfigOption {
	return func(c *interfaces.HostConfig) {
		c.RefreshRate = rate
	}
}

// WithSurfaceSize sets the default surface size for the test configuration.
func WithSurfaceSize(width, height int) TestConfigOption {
	return func(c *interfaces.HostConfig) {
		c.SurfaceWidth = width
		c.SurfaceHeight = height
	}
}

// CreateSimulationForTesting creates a simulated host with small surfaces.
// Defaults are RefreshRate=60 and 64x64 surfaces.
func (f *HostFactory) CreateSimulationForTesting(opts ...TestConfigOption) *testing.SimulatedRegistrar {
	testConfig := &interfaces.HostConfig{
		UseSimulation: true,
		RefreshRate:   60,
		SurfaceWidth:  64,
		SurfaceHeight: 64,
	}
	for _, opt := range opts {
		opt(testConfig)
	}

	logrus.WithFields(logrus.Fields{
		"function":       "CreateSimulationForTesting",
		"refresh_rate":   testConfig.RefreshRate,
		"surface_width":  testConfig.SurfaceWidth,
		"surface_height": testConfig.SurfaceHeight,
	}).Info("Creating simulation host for testing")

	return testing.NewSimulatedRegistrar(testConfig)
}

// SwitchToSimulation makes CreateHost return simulated hosts.
func (f *HostFactory) SwitchToSimulation() {
	f.setSimulation(true)
}

// SwitchToReal makes CreateHost return the in-process compositor.
func (f *HostFactory) SwitchToReal() {
	f.setSimulation(false)
}

func (f *HostFactory) setSimulation(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "setSimulation",
		"previous": f.defaultConfig.UseSimulation,
		"current":  enabled,
	}).Info("Switching factory host mode")

	f.defaultConfig.UseSimulation = enabled
}

// GetCurrentConfig returns a copy of the current default configuration.
func (f *HostFactory) GetCurrentConfig() *interfaces.HostConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cfg := *f.defaultConfig
	return &cfg
}

// IsUsingSimulation reports whether the factory creates simulated hosts.
func (f *HostFactory) IsUsingSimulation() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.defaultConfig.UseSimulation
}

// UpdateConfig replaces the default configuration after validating it.
func (f *HostFactory) UpdateConfig(config *interfaces.HostConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":       "UpdateConfig",
		"old_simulation": f.defaultConfig.UseSimulation,
		"new_simulation": config.UseSimulation,
		"old_rate":       f.defaultConfig.RefreshRate,
		"new_rate":       config.RefreshRate,
	}).Info("Updating factory configuration")

	cfg := *config
	f.defaultConfig = &cfg
	return nil
}
