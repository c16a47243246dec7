package real

import (
	"image"
	"sync"

	"github.com/opd-ai/texturerender/interfaces"
)

// Surface is the texture object the compositor presents frames on.
type Surface struct {
	ID     interfaces.TextureID
	Width  int
	Height int

	mu        sync.RWMutex
	image     *image.RGBA
	sequence  uint64
	presented uint64
}

func newSurface(id interfaces.TextureID, width, height int) *Surface {
	return &Surface{ID: id, Width: width, Height: height}
}

func (s *Surface) present(img *image.RGBA, sequence uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = img
	s.sequence = sequence
	s.presented++
}

// Image returns the last presented picture, nil before the first frame.
func (s *Surface) Image() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image
}

// Sequence returns the producer sequence of the last presented frame.
func (s *Surface) Sequence() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sequence
}

// Presented returns how many frames were presented on the surface.
func (s *Surface) Presented() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presented
}
