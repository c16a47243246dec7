package real

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/opd-ai/texturerender/interfaces"
	"github.com/opd-ai/texturerender/limits"
	"github.com/opd-ai/texturerender/video"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoFrameSource indicates painting before a frame source was attached.
	ErrNoFrameSource = errors.New("no frame source attached")

	// ErrSourceAttached indicates a second AttachFrameSource call.
	ErrSourceAttached = errors.New("frame source already attached")

	// ErrUnknownSurface indicates the texture id was not issued by this host.
	ErrUnknownSurface = errors.New("unknown surface")

	// ErrTextureMismatch indicates a frame carried another surface's texture object.
	ErrTextureMismatch = errors.New("frame texture object does not match surface")

	// ErrInvalidFrameRef indicates a pulled frame reference was nil.
	ErrInvalidFrameRef = errors.New("nil frame reference")

	// ErrAlreadyRunning indicates Start on a running compositor.
	ErrAlreadyRunning = errors.New("compositor is already running")

	// ErrNotRunning indicates Stop on a stopped compositor.
	ErrNotRunning = errors.New("compositor is not running")
)

var _ interfaces.ITextureHost = (*Compositor)(nil)

// PresentFunc is called on the paint goroutine after a surface was updated.
type PresentFunc func(id interfaces.TextureID, img *image.RGBA, sequence uint64)

// CompositorStats is a snapshot of compositor counters.
type CompositorStats struct {
	Surfaces      int
	Paints        uint64
	Presented     uint64
	Failures      uint64
	Notifications uint64
}

// Compositor is an in-process host. It issues texture ids, owns the
// surfaces frames are presented on and pulls every surface once per refresh
// interval, the way a desktop UI runtime does during paint.
//
// Frames pulled from the source must be *video.Frame values.
type Compositor struct {
	config *interfaces.HostConfig

	mu        sync.RWMutex
	source    interfaces.IFrameSource
	surfaces  map[interfaces.TextureID]*Surface
	onPresent PresentFunc
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	wake      chan struct{}

	nextID        atomic.Int64
	paints        atomic.Uint64
	presented     atomic.Uint64
	failures      atomic.Uint64
	notifications atomic.Uint64
}

// NewCompositor creates a compositor from config.
func NewCompositor(config *interfaces.HostConfig) (*Compositor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":       "NewCompositor",
		"refresh_rate":   config.RefreshRate,
		"surface_width":  config.SurfaceWidth,
		"surface_height": config.SurfaceHeight,
	}).Info("Creating in-process compositor")

	cfg := *config
	return &Compositor{
		config:   &cfg,
		surfaces: make(map[interfaces.TextureID]*Surface),
		wake:     make(chan struct{}, 1),
	}, nil
}

// ABIVersion implements IHostRegistrar.
func (c *Compositor) ABIVersion() uint32 {
	return interfaces.BridgeABIVersion
}

// AttachFrameSource implements IHostRegistrar. Surfaces created before the
// source was attached are announced to it in id order.
func (c *Compositor) AttachFrameSource(source interfaces.IFrameSource) error {
	if source == nil {
		return ErrNoFrameSource
	}

	c.mu.Lock()
	if c.source != nil {
		c.mu.Unlock()
		return ErrSourceAttached
	}
	c.source = source
	existing := make([]interfaces.TextureID, 0, len(c.surfaces))
	for id := range c.surfaces {
		existing = append(existing, id)
	}
	c.mu.Unlock()

	lifecycle, ok := source.(interfaces.ITextureLifecycle)
	if !ok {
		return nil
	}
	slices.Sort(existing)
	for _, id := range existing {
		if err := lifecycle.AddTexture(id); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "AttachFrameSource",
				"texture_id": id,
				"error":      err.Error(),
			}).Warn("Frame source refused existing surface")
		}
	}
	return nil
}

// MarkFrameAvailable implements IHostRegistrar. It schedules an early paint
// cycle and never blocks the producer.
func (c *Compositor) MarkFrameAvailable(id interfaces.TextureID) {
	c.notifications.Add(1)
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// OnPresent sets the callback invoked after each presented frame.
func (c *Compositor) OnPresent(fn PresentFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPresent = fn
}

// CreateSurface implements ITextureHost. Zero dimensions select the
// configured default surface size. The returned pointer is the *Surface.
func (c *Compositor) CreateSurface(width, height int) (interfaces.TextureID, unsafe.Pointer, error) {
	if width == 0 && height == 0 {
		width, height = c.config.SurfaceWidth, c.config.SurfaceHeight
	}
	if err := limits.ValidateDimensions(width, height); err != nil {
		return 0, nil, err
	}

	id := interfaces.TextureID(c.nextID.Add(1))
	surface := newSurface(id, width, height)

	c.mu.Lock()
	c.surfaces[id] = surface
	source := c.source
	c.mu.Unlock()

	if lifecycle, ok := source.(interfaces.ITextureLifecycle); ok {
		if err := lifecycle.AddTexture(id); err != nil {
			c.mu.Lock()
			delete(c.surfaces, id)
			c.mu.Unlock()
			return 0, nil, fmt.Errorf("register surface %d: %w", id, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":   "CreateSurface",
		"texture_id": id,
		"width":      width,
		"height":     height,
	}).Debug("Surface created")

	return id, unsafe.Pointer(surface), nil
}

// DestroySurface implements ITextureHost. The source forgets the texture
// before the surface goes away so late frames find no entry.
func (c *Compositor) DestroySurface(id interfaces.TextureID) error {
	c.mu.RLock()
	_, exists := c.surfaces[id]
	source := c.source
	c.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownSurface, id)
	}

	if lifecycle, ok := source.(interfaces.ITextureLifecycle); ok {
		lifecycle.RemoveTexture(id)
	}

	c.mu.Lock()
	delete(c.surfaces, id)
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":   "DestroySurface",
		"texture_id": id,
	}).Debug("Surface destroyed")

	return nil
}

// Surface returns the surface for id.
func (c *Compositor) Surface(id interfaces.TextureID) (*Surface, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.surfaces[id]
	return s, ok
}

// Paint runs one paint cycle for id and reports whether a new frame was
// presented.
func (c *Compositor) Paint(id interfaces.TextureID) (bool, error) {
	c.mu.RLock()
	source := c.source
	surface, exists := c.surfaces[id]
	onPresent := c.onPresent
	c.mu.RUnlock()

	if source == nil {
		return false, ErrNoFrameSource
	}
	if !exists {
		return false, fmt.Errorf("%w: %d", ErrUnknownSurface, id)
	}

	c.paints.Add(1)
	result := source.Pull(id)
	if !result.HasFrame() {
		return false, nil
	}

	if result.Refs.Texture != nil && result.Refs.Texture != unsafe.Pointer(surface) {
		return false, fmt.Errorf("%w: texture %d", ErrTextureMismatch, id)
	}
	if result.Refs.Frame == nil {
		return false, fmt.Errorf("%w: texture %d", ErrInvalidFrameRef, id)
	}

	frame := (*video.Frame)(result.Refs.Frame)
	img, err := video.PixelBuffer(frame, surface.Width, surface.Height)
	if err != nil {
		return false, fmt.Errorf("convert frame for texture %d: %w", id, err)
	}

	surface.present(img, result.Sequence)
	c.presented.Add(1)

	if onPresent != nil {
		onPresent(id, img, result.Sequence)
	}
	return true, nil
}

// PaintAll paints every surface in id order and returns how many presented
// a new frame. Failures are logged and counted, never returned.
func (c *Compositor) PaintAll() int {
	c.mu.RLock()
	ids := make([]interfaces.TextureID, 0, len(c.surfaces))
	for id := range c.surfaces {
		ids = append(ids, id)
	}
	c.mu.RUnlock()
	slices.Sort(ids)

	presented := 0
	for _, id := range ids {
		ok, err := c.Paint(id)
		if err != nil {
			c.failures.Add(1)
			logrus.WithFields(logrus.Fields{
				"function":   "PaintAll",
				"texture_id": id,
				"error":      err.Error(),
			}).Warn("Paint failed")
			continue
		}
		if ok {
			presented++
		}
	}
	return presented
}

// Start implements ITextureHost.
func (c *Compositor) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	interval := time.Second / time.Duration(c.config.RefreshRate)
	go c.paintLoop(loopCtx, interval, c.done)

	logrus.WithFields(logrus.Fields{
		"function": "Compositor.Start",
		"interval": interval,
	}).Info("Paint loop started")

	return nil
}

func (c *Compositor) paintLoop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.PaintAll()
		case <-c.wake:
			c.PaintAll()
		}
	}
}

// Stop implements ITextureHost.
func (c *Compositor) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return ErrNotRunning
	}
	c.running = false
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done

	logrus.WithFields(logrus.Fields{
		"function":  "Compositor.Stop",
		"presented": c.presented.Load(),
	}).Info("Paint loop stopped")

	return nil
}

// IsRunning reports whether the paint loop is active.
func (c *Compositor) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// Stats returns compositor counters.
func (c *Compositor) Stats() CompositorStats {
	c.mu.RLock()
	surfaces := len(c.surfaces)
	c.mu.RUnlock()

	return CompositorStats{
		Surfaces:      surfaces,
		Paints:        c.paints.Load(),
		Presented:     c.presented.Load(),
		Failures:      c.failures.Load(),
		Notifications: c.notifications.Load(),
	}
}
