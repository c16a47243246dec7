package interfaces

import (
	"context"
	"errors"
	"fmt"
	"unsafe"
)

// BridgeABIVersion is the host ABI revision this bridge was built against.
// A registrar reporting any other value was built for a different plugin.
const BridgeABIVersion uint32 = 1

// Refresh rate bounds in Hz accepted by HostConfig.Validate.
const (
	MinRefreshRate = 1
	MaxRefreshRate = 480
)

// MaxSurfaceDimension bounds SurfaceWidth and SurfaceHeight.
const MaxSurfaceDimension = 8192

// TextureID is the host-issued handle of one presentable video surface.
// It is unique for the lifetime of the host session.
type TextureID int64

// FrameRefs is the pair of non-owning references a producer hands over for
// one frame: the host texture object and the newest decoded frame.
//
// The bridge stores both pointers as one unit and never dereferences or
// frees them. The producer must keep the frame valid until it is superseded
// or the compositor has consumed it.
type FrameRefs struct {
	Texture unsafe.Pointer
	Frame   unsafe.Pointer
}

// IsZero reports whether neither reference is set.
func (r FrameRefs) IsZero() bool {
	return r.Texture == nil && r.Frame == nil
}

// PullStatus classifies the outcome of a compositor pull.
type PullStatus int

const (
	// PullNoFrame means the texture is registered but no frame arrived yet.
	PullNoFrame PullStatus = iota
	// PullNothingNew means the newest frame was already returned by an earlier pull.
	PullNothingNew
	// PullFrameAvailable means Refs holds a frame not seen by any earlier pull.
	PullFrameAvailable
	// PullUnregistered means the texture id is unknown or was torn down.
	PullUnregistered
)

// String returns a short name for the status.
func (s PullStatus) String() string {
	switch s {
	case PullNoFrame:
		return "no_frame"
	case PullNothingNew:
		return "nothing_new"
	case PullFrameAvailable:
		return "frame_available"
	case PullUnregistered:
		return "unregistered"
	default:
		return fmt.Sprintf("pull_status(%d)", int(s))
	}
}

// PullResult is what a frame source returns to the compositor.
type PullResult struct {
	Refs     FrameRefs
	Status   PullStatus
	Sequence uint64 // producer sequence of Refs, 0 when no frame
}

// HasFrame reports whether the result carries a frame to present.
func (r PullResult) HasFrame() bool {
	return r.Status == PullFrameAvailable
}

// IFrameSource is consulted by the host once per texture per paint cycle.
// Implementations must never block.
type IFrameSource interface {
	// Pull returns the newest frame for id if one arrived since the last pull.
	Pull(id TextureID) PullResult
}

// ITextureLifecycle is optionally implemented by a frame source that wants
// to follow surface creation and teardown performed by the host.
type ITextureLifecycle interface {
	// AddTexture starts tracking a surface the host just created.
	AddTexture(id TextureID) error

	// RemoveTexture stops tracking a surface the host is tearing down.
	RemoveTexture(id TextureID) bool
}

// IHostRegistrar is the capability a host hands to the plugin at start-up.
// No assumption is made about the concrete runtime behind it.
type IHostRegistrar interface {
	// ABIVersion reports the bridge ABI revision the host expects.
	ABIVersion() uint32

	// AttachFrameSource routes all future paint-cycle pulls through source.
	AttachFrameSource(source IFrameSource) error

	// MarkFrameAvailable tells the host a new frame is ready for id.
	// It must return promptly and must not call back into the source.
	MarkFrameAvailable(id TextureID)
}

// ITextureHost is a registrar that also owns texture surfaces and a paint loop.
type ITextureHost interface {
	IHostRegistrar

	// CreateSurface allocates a surface, issues its id and returns the
	// texture object producers must pass along with their frames.
	CreateSurface(width, height int) (TextureID, unsafe.Pointer, error)

	// DestroySurface tears the surface down.
	DestroySurface(id TextureID) error

	// Start begins the paint loop; it returns once the loop is running.
	Start(ctx context.Context) error

	// Stop ends the paint loop and waits for it to exit.
	Stop() error
}

// ErrInvalidHostConfig is returned by HostConfig.Validate.
var ErrInvalidHostConfig = errors.New("invalid host configuration")

// HostConfig holds settings for host implementations.
type HostConfig struct {
	// UseSimulation selects the deterministic simulated host.
	UseSimulation bool `yaml:"use_simulation"`

	// RefreshRate is the paint cadence in Hz.
	RefreshRate int `yaml:"refresh_rate"`

	// SurfaceWidth and SurfaceHeight are the default presentation size used
	// when CreateSurface is called with zero dimensions.
	SurfaceWidth  int `yaml:"surface_width"`
	SurfaceHeight int `yaml:"surface_height"`
}

// Validate checks the configuration bounds.
func (c *HostConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidHostConfig)
	}
	if c.RefreshRate < MinRefreshRate || c.RefreshRate > MaxRefreshRate {
		return fmt.Errorf("%w: refresh rate %d outside [%d, %d]",
			ErrInvalidHostConfig, c.RefreshRate, MinRefreshRate, MaxRefreshRate)
	}
	if c.SurfaceWidth <= 0 || c.SurfaceWidth > MaxSurfaceDimension ||
		c.SurfaceHeight <= 0 || c.SurfaceHeight > MaxSurfaceDimension {
		return fmt.Errorf("%w: surface size %dx%d", ErrInvalidHostConfig, c.SurfaceWidth, c.SurfaceHeight)
	}
	return nil
}
