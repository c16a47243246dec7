package texturerender

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/opd-ai/texturerender/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type framePair struct {
	texture int
	frame   int
}

// TestConcurrentUpdatePullNeverTears runs a producer and a compositor against
// the same texture and checks every pulled pair belongs to a single update.
func TestConcurrentUpdatePullNeverTears(t *testing.T) {
	const frames = 5000

	bridge := New(nil)
	require.NoError(t, bridge.AddTexture(1))

	pairs := make([]framePair, frames)
	index := make(map[unsafe.Pointer]int, 2*frames)
	for i := range pairs {
		index[unsafe.Pointer(&pairs[i].texture)] = i
		index[unsafe.Pointer(&pairs[i].frame)] = i
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range pairs {
			bridge.UpdateFrame(1, unsafe.Pointer(&pairs[i].texture), unsafe.Pointer(&pairs[i].frame))
		}
	}()

	var lastSeq uint64
	lastIndex := -1
	consume := func(result PullResult) {
		if !result.HasFrame() {
			return
		}
		texIdx, ok := index[result.Refs.Texture]
		require.True(t, ok)
		frameIdx, ok := index[result.Refs.Frame]
		require.True(t, ok)
		require.Equal(t, texIdx, frameIdx, "texture and frame references from different updates")
		require.Greater(t, result.Sequence, lastSeq)
		require.Greater(t, frameIdx, lastIndex)
		lastSeq = result.Sequence
		lastIndex = frameIdx
	}

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		consume(bridge.Pull(1))
	}
	consume(bridge.Pull(1))

	assert.Equal(t, frames-1, lastIndex, "final pull must observe the last update")

	stats, ok := bridge.TextureStats(1)
	require.True(t, ok)
	assert.Equal(t, uint64(frames), stats.Updates)
}

// TestConcurrentTeardown removes and re-adds a texture while producers keep
// delivering frames for it.
func TestConcurrentTeardown(t *testing.T) {
	bridge := New(nil)
	require.NoError(t, bridge.Register(newStubRegistrarSafe()))
	require.NoError(t, bridge.AddTexture(7))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			frame := new(int)
			for {
				select {
				case <-stop:
					return
				default:
					bridge.UpdateFrame(7, nil, unsafe.Pointer(frame))
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = bridge.Pull(7)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		bridge.RemoveTexture(7)
		assert.Equal(t, PullUnregistered, bridge.Pull(7).Status)
		require.NoError(t, bridge.AddTexture(7))
	}

	close(stop)
	wg.Wait()
}

// safeRegistrar is a concurrency-safe host stub.
type safeRegistrar struct {
	mu       sync.Mutex
	notified int
}

func newStubRegistrarSafe() *safeRegistrar { return &safeRegistrar{} }

func (s *safeRegistrar) ABIVersion() uint32 { return interfaces.BridgeABIVersion }

func (s *safeRegistrar) AttachFrameSource(interfaces.IFrameSource) error { return nil }

func (s *safeRegistrar) MarkFrameAvailable(TextureID) {
	s.mu.Lock()
	s.notified++
	s.mu.Unlock()
}
