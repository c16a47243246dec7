package main

import (
	"errors"
	"os"
	"sync"
	"unsafe"

	"github.com/opd-ai/texturerender"
	"github.com/opd-ai/texturerender/interfaces"
	"github.com/sirupsen/logrus"
)

// EnvConfigPath names a YAML options file read when the library loads.
const EnvConfigPath = "TEXTURE_RENDER_CONFIG"

// The process-wide bridge. The host loads the library once, so one bridge
// serves every texture.
var (
	bridgeMu sync.RWMutex
	bridge   = texturerender.New(loadOptions())
)

// loadOptions reads options from TEXTURE_RENDER_CONFIG, falling back to
// defaults when unset or invalid.
func loadOptions() *texturerender.Options {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return texturerender.NewOptions()
	}

	opts, err := texturerender.LoadOptions(path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "loadOptions",
			"env_var":  EnvConfigPath,
			"path":     path,
			"error":    err.Error(),
		}).Warn("Failed to load bridge options, using defaults")
		return texturerender.NewOptions()
	}

	if err := opts.ApplyLogLevel(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "loadOptions",
			"log_level": opts.LogLevel,
			"error":     err.Error(),
		}).Warn("Failed to apply log level")
	}
	return opts
}

func currentBridge() *texturerender.Bridge {
	bridgeMu.RLock()
	defer bridgeMu.RUnlock()
	return bridge
}

// registerWithRegistrar registers the shared bridge with the host. A
// repeated call is logged and ignored. Every other failure is fatal because
// the host and the library cannot cooperate.
func registerWithRegistrar(registrar interfaces.IHostRegistrar) {
	if registrar == nil {
		logrus.WithFields(logrus.Fields{
			"function": "TextureRenderPluginCApiRegisterWithRegistrar",
		}).Fatal("Host registrar handle is NULL")
		return
	}

	err := currentBridge().Register(registrar)
	switch {
	case err == nil:
	case errors.Is(err, texturerender.ErrAlreadyRegistered):
		logrus.WithFields(logrus.Fields{
			"function": "TextureRenderPluginCApiRegisterWithRegistrar",
		}).Warn("Plugin already registered, ignoring repeated registration")
	default:
		logrus.WithFields(logrus.Fields{
			"function": "TextureRenderPluginCApiRegisterWithRegistrar",
			"error":    err.Error(),
		}).Fatal("Failed to register texture bridge with host")
	}
}

// updateFrame never lets a panic cross into the caller's thread.
func updateFrame(id int64, texture, frame unsafe.Pointer) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "UpdateFrameCallback",
				"texture_id": id,
				"panic":      r,
			}).Error("Recovered panic while publishing frame")
		}
	}()

	currentBridge().UpdateFrame(interfaces.TextureID(id), texture, frame)
}

func addTexture(id int64) int {
	if err := currentBridge().AddTexture(interfaces.TextureID(id)); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "TextureRenderAddTexture",
			"texture_id": id,
			"error":      err.Error(),
		}).Error("Failed to add texture")
		return -1
	}
	return 0
}

func removeTexture(id int64) int {
	if currentBridge().RemoveTexture(interfaces.TextureID(id)) {
		return 1
	}
	return 0
}

func pullFrame(id int64) interfaces.PullResult {
	return currentBridge().Pull(interfaces.TextureID(id))
}

// shutdownBridge closes the shared bridge and installs a fresh one so the
// host may register again.
func shutdownBridge() {
	bridgeMu.Lock()
	old := bridge
	bridge = texturerender.New(loadOptions())
	bridgeMu.Unlock()

	old.Close()
}
