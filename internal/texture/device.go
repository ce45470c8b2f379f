package texture

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"screen-mockup/internal/fit"
)

// CPUDevice keeps texture pixels in memory. It is the device used by the
// software renderer and tracks every live texture so leaks are observable.
type CPUDevice struct {
	mu     sync.RWMutex
	live   map[uint64]*cpuTexture
	nextID atomic.Uint64
}

// NewCPUDevice creates an empty device.
func NewCPUDevice() *CPUDevice {
	return &CPUDevice{live: make(map[uint64]*cpuTexture)}
}

// Upload copies the raster pixels into a new texture.
func (d *CPUDevice) Upload(r *fit.Raster) (Texture, error) {
	if r == nil || r.Image == nil {
		return nil, fmt.Errorf("texture: upload: empty raster")
	}
	b := r.Image.Bounds()
	if b.Dx() != r.Size || b.Dy() != r.Size {
		return nil, fmt.Errorf("texture: upload: raster is %dx%d, want %dx%d", b.Dx(), b.Dy(), r.Size, r.Size)
	}

	pix := image.NewNRGBA(image.Rect(0, 0, r.Size, r.Size))
	copy(pix.Pix, r.Image.Pix)

	t := &cpuTexture{
		id:      d.nextID.Add(1),
		size:    r.Size,
		flipped: r.FlippedY,
		img:     pix,
		dev:     d,
	}

	d.mu.Lock()
	d.live[t.id] = t
	d.mu.Unlock()

	return t, nil
}

// Live returns the number of textures uploaded and not yet released.
func (d *CPUDevice) Live() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.live)
}

func (d *CPUDevice) forget(id uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.live[id]; !ok {
		return false
	}
	delete(d.live, id)
	return true
}

type cpuTexture struct {
	id      uint64
	size    int
	flipped bool
	dev     *CPUDevice

	mu  sync.RWMutex
	img *image.NRGBA
}

func (t *cpuTexture) ID() uint64     { return t.id }
func (t *cpuTexture) Size() int      { return t.size }
func (t *cpuTexture) FlippedY() bool { return t.flipped }

// Image returns the texel buffer, or nil once released.
func (t *cpuTexture) Image() *image.NRGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.img
}

func (t *cpuTexture) Release() error {
	t.mu.Lock()
	t.img = nil
	t.mu.Unlock()
	if !t.dev.forget(t.id) {
		return ErrReleased
	}
	return nil
}

// Pixels is implemented by textures whose texels live in host memory.
type Pixels interface {
	Image() *image.NRGBA
}
