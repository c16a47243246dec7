package texturerender

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opd-ai/texturerender/limits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()

	assert.True(t, opts.NotifyHost)
	assert.Equal(t, limits.DefaultMaxTextures, opts.MaxTextures)
	assert.Equal(t, DefaultIdleThreshold, opts.IdleThreshold)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, 60, opts.Host.RefreshRate)
	assert.False(t, opts.Host.UseSimulation)
	assert.NoError(t, opts.Validate())
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"zero max textures", func(o *Options) { o.MaxTextures = 0 }},
		{"negative idle threshold", func(o *Options) { o.IdleThreshold = -time.Second }},
		{"unknown log level", func(o *Options) { o.LogLevel = "chatty" }},
		{"bad refresh rate", func(o *Options) { o.Host.RefreshRate = 0 }},
		{"bad surface size", func(o *Options) { o.Host.SurfaceWidth = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			tt.mutate(opts)
			assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)
		})
	}

	var nilOpts *Options
	assert.ErrorIs(t, nilOpts.Validate(), ErrInvalidOptions)
}

func TestParseOptions(t *testing.T) {
	data := []byte(`
notify_host: false
max_textures: 4
idle_threshold: 500ms
log_level: debug
host:
  use_simulation: true
  refresh_rate: 30
`)

	opts, err := ParseOptions(data)
	require.NoError(t, err)

	assert.False(t, opts.NotifyHost)
	assert.Equal(t, 4, opts.MaxTextures)
	assert.Equal(t, 500*time.Millisecond, opts.IdleThreshold)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.True(t, opts.Host.UseSimulation)
	assert.Equal(t, 30, opts.Host.RefreshRate)
	// Unset fields keep their defaults.
	assert.Equal(t, 1280, opts.Host.SurfaceWidth)
	assert.Equal(t, 720, opts.Host.SurfaceHeight)
}

func TestParseOptionsRejectsInvalid(t *testing.T) {
	_, err := ParseOptions([]byte("max_textures: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = ParseOptions([]byte("max_textures: [1, 2]\n"))
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "texturerender.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_textures: 8\n"), 0o600))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 8, opts.MaxTextures)

	_, err = LoadOptions(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
