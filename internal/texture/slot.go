package texture

import "sync"

// Slot owns at most one texture. Swap hands back the previous owner so the
// caller can release it once the new texture is visible.
type Slot struct {
	mu  sync.Mutex
	cur Texture
}

// Swap installs t (which may be nil) and returns the texture it replaced.
func (s *Slot) Swap(t Texture) Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.cur
	s.cur = t
	return old
}

// Current returns the owned texture, or nil.
func (s *Slot) Current() Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}
