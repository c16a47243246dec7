package testing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
	"unsafe"

	"github.com/opd-ai/texturerender/interfaces"
	"github.com/sirupsen/logrus"
)

// ErrUnknownSurface indicates a texture id the simulation never issued.
var ErrUnknownSurface = errors.New("unknown simulated surface")

var _ interfaces.ITextureHost = (*SimulatedRegistrar)(nil)

// SimulatedSurface is the texture object handed out by CreateSurface.
type SimulatedSurface struct {
	ID     interfaces.TextureID
	Width  int
	Height int
}

// PaintRecord is one PaintOnce call kept for test verification.
type PaintRecord struct {
	TextureID interfaces.TextureID
	Status    interfaces.PullStatus
	Sequence  uint64
	Timestamp int64
}

// RegistrarStats summarizes simulation activity.
type RegistrarStats struct {
	Surfaces      int
	AttachCalls   int
	Notifications int
	Paints        int
	FramesPainted int
	Running       bool
}

// SimulatedRegistrar is a deterministic host for tests. It never paints on
// its own; tests drive paint cycles with PaintOnce.
type SimulatedRegistrar struct {
	config *interfaces.HostConfig

	mu            sync.RWMutex
	abiVersion    uint32
	attachErr     error
	attachCalls   int
	source        interfaces.IFrameSource
	surfaces      map[interfaces.TextureID]*SimulatedSurface
	nextID        interfaces.TextureID
	notifications []interfaces.TextureID
	paintLog      []PaintRecord
	running       bool
}

// NewSimulatedRegistrar creates a simulated host for testing.
func NewSimulatedRegistrar(config *interfaces.HostConfig) *SimulatedRegistrar {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	logrus.WithFields(logrus.Fields{
		"function":     "NewSimulatedRegistrar",
		"refresh_rate": config.RefreshRate,
	}).Info("Creating simulated registrar for testing")

	cfg := *config
	return &SimulatedRegistrar{
		config:     &cfg,
		abiVersion: interfaces.BridgeABIVersion,
		surfaces:   make(map[interfaces.TextureID]*SimulatedSurface),
	}
}

// SetABIVersion overrides the version reported to the bridge.
func (s *SimulatedRegistrar) SetABIVersion(version uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abiVersion = version
}

// SetAttachError makes subsequent AttachFrameSource calls fail with err.
func (s *SimulatedRegistrar) SetAttachError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachErr = err
}

// ABIVersion implements IHostRegistrar.
func (s *SimulatedRegistrar) ABIVersion() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.abiVersion
}

// AttachFrameSource implements IHostRegistrar. Surfaces that already exist
// are announced to the source in id order.
func (s *SimulatedRegistrar) AttachFrameSource(source interfaces.IFrameSource) error {
	s.mu.Lock()
	s.attachCalls++
	if s.attachErr != nil {
		err := s.attachErr
		s.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"function": "SimulatedRegistrar.AttachFrameSource",
			"error":    err.Error(),
		}).Info("Simulating attach failure")
		return err
	}
	s.source = source
	existing := make([]interfaces.TextureID, 0, len(s.surfaces))
	for id := range s.surfaces {
		existing = append(existing, id)
	}
	s.mu.Unlock()

	lifecycle, ok := source.(interfaces.ITextureLifecycle)
	if !ok {
		return nil
	}
	slices.Sort(existing)
	for _, id := range existing {
		if err := lifecycle.AddTexture(id); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "SimulatedRegistrar.AttachFrameSource",
				"texture_id": id,
				"error":      err.Error(),
			}).Warn("Frame source refused existing surface")
		}
	}
	return nil
}

// MarkFrameAvailable implements IHostRegistrar by recording the id.
func (s *SimulatedRegistrar) MarkFrameAvailable(id interfaces.TextureID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, id)
}

// CreateSurface implements ITextureHost. Ids are issued sequentially from 1.
func (s *SimulatedRegistrar) CreateSurface(width, height int) (interfaces.TextureID, unsafe.Pointer, error) {
	if width == 0 && height == 0 {
		width, height = s.config.SurfaceWidth, s.config.SurfaceHeight
	}

	s.mu.Lock()
	s.nextID++
	surface := &SimulatedSurface{ID: s.nextID, Width: width, Height: height}
	s.surfaces[surface.ID] = surface
	source := s.source
	s.mu.Unlock()

	if lifecycle, ok := source.(interfaces.ITextureLifecycle); ok {
		if err := lifecycle.AddTexture(surface.ID); err != nil {
			s.mu.Lock()
			delete(s.surfaces, surface.ID)
			s.mu.Unlock()
			return 0, nil, fmt.Errorf("register simulated surface %d: %w", surface.ID, err)
		}
	}

	return surface.ID, unsafe.Pointer(surface), nil
}

// DestroySurface implements ITextureHost.
func (s *SimulatedRegistrar) DestroySurface(id interfaces.TextureID) error {
	s.mu.Lock()
	_, exists := s.surfaces[id]
	delete(s.surfaces, id)
	source := s.source
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownSurface, id)
	}
	if lifecycle, ok := source.(interfaces.ITextureLifecycle); ok {
		lifecycle.RemoveTexture(id)
	}
	return nil
}

// Start implements ITextureHost. The simulation has no paint loop.
func (s *SimulatedRegistrar) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	return nil
}

// Stop implements ITextureHost.
func (s *SimulatedRegistrar) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

// PaintOnce pulls id from the attached source and records the result. It
// reports PullUnregistered when no source is attached.
func (s *SimulatedRegistrar) PaintOnce(id interfaces.TextureID) interfaces.PullResult {
	s.mu.RLock()
	source := s.source
	s.mu.RUnlock()

	result := interfaces.PullResult{Status: interfaces.PullUnregistered}
	if source != nil {
		result = source.Pull(id)
	}

	s.mu.Lock()
	s.paintLog = append(s.paintLog, PaintRecord{
		TextureID: id,
		Status:    result.Status,
		Sequence:  result.Sequence,
		Timestamp: time.Now().UnixNano(),
	})
	s.mu.Unlock()

	return result
}

// Surface returns the simulated surface for id.
func (s *SimulatedRegistrar) Surface(id interfaces.TextureID) (*SimulatedSurface, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	surface, ok := s.surfaces[id]
	return surface, ok
}

// Notifications returns a copy of the recorded MarkFrameAvailable ids.
func (s *SimulatedRegistrar) Notifications() []interfaces.TextureID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]interfaces.TextureID, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// PaintLog returns a copy of the recorded paint cycles.
func (s *SimulatedRegistrar) PaintLog() []PaintRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PaintRecord, len(s.paintLog))
	copy(out, s.paintLog)
	return out
}

// ClearLogs drops recorded notifications and paint cycles.
func (s *SimulatedRegistrar) ClearLogs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
	s.paintLog = nil
}

// Stats returns counters for test verification.
func (s *SimulatedRegistrar) Stats() RegistrarStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	painted := 0
	for _, record := range s.paintLog {
		if record.Status == interfaces.PullFrameAvailable {
			painted++
		}
	}

	return RegistrarStats{
		Surfaces:      len(s.surfaces),
		AttachCalls:   s.attachCalls,
		Notifications: len(s.notifications),
		Paints:        len(s.paintLog),
		FramesPainted: painted,
		Running:       s.running,
	}
}
