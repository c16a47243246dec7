package texturerender

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/opd-ai/texturerender/interfaces"
	"github.com/sirupsen/logrus"
)

// TextureID is the host-issued handle of one presentable surface.
type TextureID = interfaces.TextureID

// FrameRefs is the non-owning (texture object, newest frame) pair.
type FrameRefs = interfaces.FrameRefs

// PullResult is returned by Pull and Peek.
type PullResult = interfaces.PullResult

// PullStatus classifies a pull.
type PullStatus = interfaces.PullStatus

// Pull outcomes, re-exported for callers that only import this package.
const (
	PullNoFrame        = interfaces.PullNoFrame
	PullNothingNew     = interfaces.PullNothingNew
	PullFrameAvailable = interfaces.PullFrameAvailable
	PullUnregistered   = interfaces.PullUnregistered
)

var (
	_ interfaces.IFrameSource      = (*Bridge)(nil)
	_ interfaces.ITextureLifecycle = (*Bridge)(nil)
)

// slotEntry is immutable once published so the two references are always
// observed together.
type slotEntry struct {
	refs FrameRefs
	seq  uint64
}

// textureSlot is the newest-frame slot of one texture.
//
// Thread-safety:
//   - latest is swapped with CompareAndSwap by producers
//   - pulled only moves forward, advanced by the compositor
//   - counters and timestamps are plain atomics
type textureSlot struct {
	id        TextureID
	createdAt time.Time

	latest  atomic.Pointer[slotEntry]
	pulled  atomic.Uint64 // sequence of the newest entry returned by Pull
	removed atomic.Bool

	updates    atomic.Uint64
	drops      atomic.Uint64 // entries overwritten before any pull saw them
	pulls      atomic.Uint64
	stalePulls atomic.Uint64

	lastUpdate atomic.Int64 // unix nanoseconds, 0 = never
	lastPull   atomic.Int64
}

func newTextureSlot(id TextureID, now time.Time) *textureSlot {
	return &textureSlot{id: id, createdAt: now}
}

// store replaces the newest entry and returns its sequence number.
func (s *textureSlot) store(refs FrameRefs, now time.Time) uint64 {
	for {
		prev := s.latest.Load()
		next := &slotEntry{refs: refs, seq: 1}
		if prev != nil {
			next.seq = prev.seq + 1
		}
		if !s.latest.CompareAndSwap(prev, next) {
			continue
		}

		s.updates.Add(1)
		s.lastUpdate.Store(now.UnixNano())
		if prev != nil && prev.seq > s.pulled.Load() {
			s.drops.Add(1)
		}
		return next.seq
	}
}

// pull returns the newest entry if no earlier pull returned it.
func (s *textureSlot) pull(now time.Time) PullResult {
	s.pulls.Add(1)
	s.lastPull.Store(now.UnixNano())

	for {
		entry := s.latest.Load()
		if entry == nil {
			s.stalePulls.Add(1)
			return PullResult{Status: PullNoFrame}
		}

		seen := s.pulled.Load()
		if entry.seq <= seen {
			s.stalePulls.Add(1)
			return PullResult{Status: PullNothingNew, Sequence: entry.seq}
		}
		if s.pulled.CompareAndSwap(seen, entry.seq) {
			return PullResult{Refs: entry.refs, Status: PullFrameAvailable, Sequence: entry.seq}
		}
	}
}

// peek returns the newest entry without marking it pulled.
func (s *textureSlot) peek() PullResult {
	entry := s.latest.Load()
	if entry == nil {
		return PullResult{Status: PullNoFrame}
	}
	return PullResult{Refs: entry.refs, Status: PullFrameAvailable, Sequence: entry.seq}
}

// Bridge maps texture ids to their newest frame and serves compositor pulls.
//
// The registry lock is held only for map lookups and mutations, never across
// decode or paint work. Frame slots are swapped atomically, so UpdateFrame and
// Pull never wait on each other.
type Bridge struct {
	options *Options

	mu          sync.RWMutex
	textures    map[TextureID]*textureSlot
	registrar   interfaces.IHostRegistrar
	registering bool
	closed      bool
	clock       TimeProvider

	orphanUpdates atomic.Uint64
	orphanPulls   atomic.Uint64
}

// New creates a bridge. A nil options uses NewOptions().
func New(options *Options) *Bridge {
	if options == nil {
		options = NewOptions()
	}

	logrus.WithFields(logrus.Fields{
		"function":     "New",
		"notify_host":  options.NotifyHost,
		"max_textures": options.MaxTextures,
	}).Debug("Creating texture bridge")

	return &Bridge{
		options:  options,
		textures: make(map[TextureID]*textureSlot),
		clock:    DefaultTimeProvider{},
	}
}

// SetTimeProvider replaces the clock used for statistics (primarily for testing).
func (b *Bridge) SetTimeProvider(tp TimeProvider) {
	if tp == nil {
		tp = DefaultTimeProvider{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clock = tp
}

// Register wires the bridge into the host so that paint-cycle pulls for every
// texture id route through Pull. It must be called once at plugin start-up.
//
// Any error means the host and the plugin cannot cooperate; callers at the
// C boundary treat it as fatal.
func (b *Bridge) Register(registrar interfaces.IHostRegistrar) error {
	if isNilRegistrar(registrar) {
		return ErrInvalidRegistrar
	}

	if version := registrar.ABIVersion(); version != interfaces.BridgeABIVersion {
		logrus.WithFields(logrus.Fields{
			"function":       "Register",
			"host_version":   version,
			"bridge_version": interfaces.BridgeABIVersion,
		}).Error("Host registrar ABI version mismatch")
		return fmt.Errorf("%w: host %d, bridge %d", ErrABIMismatch, version, interfaces.BridgeABIVersion)
	}

	b.mu.Lock()
	switch {
	case b.closed:
		b.mu.Unlock()
		return ErrBridgeClosed
	case b.registrar != nil || b.registering:
		b.mu.Unlock()
		return ErrAlreadyRegistered
	}
	b.registering = true
	b.mu.Unlock()

	// The host may create textures from inside AttachFrameSource, so the
	// registry lock must not be held here.
	err := registrar.AttachFrameSource(b)

	b.mu.Lock()
	b.registering = false
	closed := b.closed
	if err == nil && !closed {
		b.registrar = registrar
	}
	b.mu.Unlock()

	if err == nil && closed {
		logrus.WithFields(logrus.Fields{
			"function": "Register",
		}).Warn("Bridge closed while attaching to host")
		return ErrBridgeClosed
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Register",
			"error":    err.Error(),
		}).Error("Host refused frame source")
		return fmt.Errorf("%w: %v", ErrAttachFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Register",
		"abi_version": interfaces.BridgeABIVersion,
	}).Info("Texture bridge registered with host")

	return nil
}

// isNilRegistrar also catches a nil pointer wrapped in the interface.
func isNilRegistrar(registrar interfaces.IHostRegistrar) bool {
	if registrar == nil {
		return true
	}
	v := reflect.ValueOf(registrar)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// IsRegistered reports whether Register succeeded.
func (b *Bridge) IsRegistered() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.registrar != nil
}

// AddTexture starts tracking a surface the host created. The slot starts in
// the no-frame state.
func (b *Bridge) AddTexture(id TextureID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBridgeClosed
	}
	if _, exists := b.textures[id]; exists {
		return fmt.Errorf("%w: %d", ErrTextureExists, id)
	}
	if len(b.textures) >= b.options.MaxTextures {
		return fmt.Errorf("%w: limit %d", ErrTooManyTextures, b.options.MaxTextures)
	}

	b.textures[id] = newTextureSlot(id, b.clock.Now())

	logrus.WithFields(logrus.Fields{
		"function":   "AddTexture",
		"texture_id": id,
		"textures":   len(b.textures),
	}).Debug("Texture added")

	return nil
}

// RemoveTexture forgets a surface the host is tearing down. Frames delivered
// for id afterwards are dropped. It reports whether id was tracked.
func (b *Bridge) RemoveTexture(id TextureID) bool {
	b.mu.Lock()
	slot, exists := b.textures[id]
	if exists {
		delete(b.textures, id)
	}
	b.mu.Unlock()

	if !exists {
		return false
	}
	slot.removed.Store(true)

	logrus.WithFields(logrus.Fields{
		"function":   "RemoveTexture",
		"texture_id": id,
		"updates":    slot.updates.Load(),
		"dropped":    slot.drops.Load(),
	}).Debug("Texture removed")

	return true
}

// UpdateFrame publishes a new frame for id, replacing any frame the
// compositor has not pulled yet. texture and frame are non-owning references
// that must stay valid until superseded or consumed.
//
// Updates for unknown or torn-down ids are dropped silently: teardown racing
// in-flight frames is expected and must not disturb the producer.
func (b *Bridge) UpdateFrame(id TextureID, texture, frame unsafe.Pointer) {
	b.mu.RLock()
	slot := b.textures[id]
	registrar := b.registrar
	clock := b.clock
	b.mu.RUnlock()

	if slot == nil {
		b.orphanUpdates.Add(1)
		logrus.WithFields(logrus.Fields{
			"function":   "UpdateFrame",
			"texture_id": id,
		}).Trace("Dropping frame for unregistered texture")
		return
	}

	seq := slot.store(FrameRefs{Texture: texture, Frame: frame}, clock.Now())

	logrus.WithFields(logrus.Fields{
		"function":   "UpdateFrame",
		"texture_id": id,
		"sequence":   seq,
	}).Trace("Frame published")

	if b.options.NotifyHost && registrar != nil && !slot.removed.Load() {
		b.notifyHost(registrar, id)
	}
}

// notifyHost shields the producer from a misbehaving host.
func (b *Bridge) notifyHost(registrar interfaces.IHostRegistrar, id TextureID) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "notifyHost",
				"texture_id": id,
				"panic":      fmt.Sprint(r),
			}).Warn("Host panicked in MarkFrameAvailable")
		}
	}()
	registrar.MarkFrameAvailable(id)
}

// Pull returns the newest frame for id if no earlier pull returned it. It
// never blocks.
func (b *Bridge) Pull(id TextureID) PullResult {
	b.mu.RLock()
	slot := b.textures[id]
	clock := b.clock
	b.mu.RUnlock()

	if slot == nil {
		b.orphanPulls.Add(1)
		return PullResult{Status: PullUnregistered}
	}
	return slot.pull(clock.Now())
}

// Peek returns the newest frame for id without consuming it.
func (b *Bridge) Peek(id TextureID) PullResult {
	b.mu.RLock()
	slot := b.textures[id]
	b.mu.RUnlock()

	if slot == nil {
		return PullResult{Status: PullUnregistered}
	}
	return slot.peek()
}

// Textures returns the tracked texture ids in ascending order.
func (b *Bridge) Textures() []TextureID {
	b.mu.RLock()
	ids := make([]TextureID, 0, len(b.textures))
	for id := range b.textures {
		ids = append(ids, id)
	}
	b.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Close detaches the host and forgets every texture. It is idempotent.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.registrar = nil
	slots := b.textures
	b.textures = make(map[TextureID]*textureSlot)
	b.mu.Unlock()

	for _, slot := range slots {
		slot.removed.Store(true)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Close",
		"textures": len(slots),
	}).Info("Texture bridge closed")
}
