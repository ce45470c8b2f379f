package session

import (
	"fmt"
	"image"
	"sync"
)

// Assets holds decoded background and logo bitmaps by id.
type Assets struct {
	mu     sync.RWMutex
	images map[string]image.Image
	next   int
}

func NewAssets() *Assets {
	return &Assets{images: make(map[string]image.Image)}
}

// Add stores img under a new id and returns it.
func (a *Assets) Add(img image.Image) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	id := fmt.Sprintf("img-%d", a.next)
	a.images[id] = img
	return id
}

// Put stores img under id, replacing any previous image.
func (a *Assets) Put(id string, img image.Image) {
	a.mu.Lock()
	a.images[id] = img
	a.mu.Unlock()
}

func (a *Assets) Get(id string) (image.Image, bool) {
	if id == "" {
		return nil, false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	img, ok := a.images[id]
	return img, ok
}

func (a *Assets) Delete(id string) {
	a.mu.Lock()
	delete(a.images, id)
	a.mu.Unlock()
}

func (a *Assets) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.images)
}
