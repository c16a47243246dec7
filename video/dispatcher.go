package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/opd-ai/texturerender/interfaces"
	"github.com/sirupsen/logrus"
)

// FrameSink receives frames on the producer side. *texturerender.Bridge
// satisfies it.
type FrameSink interface {
	UpdateFrame(id interfaces.TextureID, texture, frame unsafe.Pointer)
}

// DispatchStats counts dispatcher outcomes.
type DispatchStats struct {
	Dispatched uint64
	Unrouted   uint64
}

// Dispatcher routes decoded frames to a sink, pairing each frame with the
// texture object the host issued for its texture id.
//
// The frame pointer handed to the sink is a *Frame. The sink keeps a
// reference until the frame is superseded, which also keeps it alive.
type Dispatcher struct {
	sink FrameSink

	mu       sync.RWMutex
	textures map[interfaces.TextureID]unsafe.Pointer

	dispatched atomic.Uint64
	unrouted   atomic.Uint64
}

// NewDispatcher creates a dispatcher feeding sink.
func NewDispatcher(sink FrameSink) *Dispatcher {
	return &Dispatcher{
		sink:     sink,
		textures: make(map[interfaces.TextureID]unsafe.Pointer),
	}
}

// AttachTexture records the texture object for id.
func (d *Dispatcher) AttachTexture(id interfaces.TextureID, texture unsafe.Pointer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.textures[id] = texture
}

// DetachTexture forgets id. Later frames for it are unrouted.
func (d *Dispatcher) DetachTexture(id interfaces.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.textures, id)
}

// Dispatch validates f and forwards it to the sink.
func (d *Dispatcher) Dispatch(f *Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}

	d.mu.RLock()
	texture, ok := d.textures[f.TextureID]
	d.mu.RUnlock()

	if !ok {
		d.unrouted.Add(1)
		return fmt.Errorf("%w: texture %d", ErrUnknownTexture, f.TextureID)
	}

	d.sink.UpdateFrame(f.TextureID, texture, unsafe.Pointer(f))
	d.dispatched.Add(1)
	return nil
}

// Stats returns the dispatch counters.
func (d *Dispatcher) Stats() DispatchStats {
	return DispatchStats{
		Dispatched: d.dispatched.Load(),
		Unrouted:   d.unrouted.Load(),
	}
}

// Run reads frame messages from r and dispatches them until r is exhausted or
// ctx is cancelled. A positive interval paces dispatch to one frame per
// interval. Frames for unattached textures are skipped. It returns the number
// of frames dispatched.
func (d *Dispatcher) Run(ctx context.Context, r io.Reader, interval time.Duration) (int, error) {
	var ticker *time.Ticker
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}

	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		f, err := ReadMessage(r)
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return count, ctx.Err()
			case <-ticker.C:
			}
		}

		if err := d.Dispatch(f); err != nil {
			if errors.Is(err, ErrUnknownTexture) {
				logrus.WithFields(logrus.Fields{
					"function":   "Dispatcher.Run",
					"texture_id": f.TextureID,
				}).Debug("Skipping frame for unattached texture")
				continue
			}
			return count, err
		}
		count++
	}
}
