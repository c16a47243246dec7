package texturerender

import "errors"

// Sentinel errors for bridge operations.
// These errors enable reliable error classification using errors.Is().

// Registration errors. Any of these at start-up means the host and the
// plugin cannot work together.
var (
	// ErrInvalidRegistrar indicates a nil host registrar handle.
	ErrInvalidRegistrar = errors.New("invalid host registrar")

	// ErrABIMismatch indicates the host was built for another bridge ABI.
	ErrABIMismatch = errors.New("host ABI version mismatch")

	// ErrAlreadyRegistered indicates Register was called more than once.
	ErrAlreadyRegistered = errors.New("bridge already registered")

	// ErrAttachFailed indicates the host refused the frame source.
	ErrAttachFailed = errors.New("host refused frame source")
)

// Texture lifecycle errors.
var (
	// ErrTextureExists indicates the host reused a live texture id.
	ErrTextureExists = errors.New("texture already registered")

	// ErrTooManyTextures indicates Options.MaxTextures was reached.
	ErrTooManyTextures = errors.New("too many textures")

	// ErrBridgeClosed indicates the bridge was closed.
	ErrBridgeClosed = errors.New("bridge is closed")
)

// Configuration errors.
var (
	// ErrInvalidOptions indicates Options failed validation.
	ErrInvalidOptions = errors.New("invalid options")
)
