package binder

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"screen-mockup/internal/fit"
	"screen-mockup/internal/logging"
	"screen-mockup/internal/material"
	"screen-mockup/internal/texture"
)

type countingNotifier struct{ n int }

func (c *countingNotifier) NotifyDirty() { c.n++ }

func raster(size int) *fit.Raster {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	return fit.Fit(src, size, true)
}

func TestBind_ThenClearRestoresChannels(t *testing.T) {
	dev := texture.NewCPUDevice()
	b := New(dev, nil)
	s := material.NewStandard("Screen", material.White)
	before := s.State()

	if err := b.Bind(s, raster(16), Options{BrightEmissive: true}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := b.Clear(s); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	after := s.State()
	if after.ColorMap != nil || after.EmissiveMap != nil {
		t.Errorf("maps after clear = %v/%v, want nil", after.ColorMap, after.EmissiveMap)
	}
	if after.Intensity != before.Intensity || after.Intensity != 0 {
		t.Errorf("intensity = %v, want 0", after.Intensity)
	}
	if dev.Live() != 0 {
		t.Errorf("live textures = %d, want 0", dev.Live())
	}
	if s.Slot().Current() != nil {
		t.Error("slot still owns a texture")
	}
}

func TestBind_TwiceReleasesFirst(t *testing.T) {
	dev := texture.NewCPUDevice()
	b := New(dev, nil)
	s := material.NewStandard("Screen", material.White)

	if err := b.Bind(s, raster(16), Options{BrightEmissive: true}); err != nil {
		t.Fatal(err)
	}
	first := s.State().ColorMap
	if err := b.Bind(s, raster(16), Options{BrightEmissive: true}); err != nil {
		t.Fatal(err)
	}
	second := s.State().ColorMap

	if dev.Live() != 1 {
		t.Errorf("live textures = %d, want 1", dev.Live())
	}
	if first.ID() == second.ID() {
		t.Fatal("second bind reused the first texture")
	}
	if px := first.(texture.Pixels).Image(); px != nil {
		t.Error("first texture still holds pixels")
	}
	if err := first.Release(); !errors.Is(err, texture.ErrReleased) {
		t.Errorf("releasing first again: err = %v, want ErrReleased", err)
	}
	if s.Slot().Current() != second {
		t.Error("slot does not own the second texture")
	}
}

func TestBind_EmissiveModes(t *testing.T) {
	tests := []struct {
		name      string
		bright    bool
		wantMap   bool
		wantTint  bool
		intensity float64
	}{
		{"bright", true, true, true, 1},
		{"dim", false, false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(texture.NewCPUDevice(), nil)
			s := material.NewStandard("Screen", material.Black)
			if err := b.Bind(s, raster(8), Options{BrightEmissive: tt.bright}); err != nil {
				t.Fatal(err)
			}
			st := s.State()
			if st.BaseColor != material.White {
				t.Errorf("base color = %v, want white", st.BaseColor)
			}
			if (st.EmissiveMap != nil) != tt.wantMap {
				t.Errorf("emissive map set = %v, want %v", st.EmissiveMap != nil, tt.wantMap)
			}
			if tt.wantMap && st.EmissiveMap != st.ColorMap {
				t.Error("emissive map should be the color texture")
			}
			if (st.EmissiveTint == material.White) != tt.wantTint {
				t.Errorf("emissive tint = %v", st.EmissiveTint)
			}
			if st.Intensity != tt.intensity {
				t.Errorf("intensity = %v, want %v", st.Intensity, tt.intensity)
			}
		})
	}
}

func TestBind_SurfaceWithoutEmissive(t *testing.T) {
	b := New(texture.NewCPUDevice(), nil)
	s := material.NewBasic("Body", material.Black)
	if err := b.Bind(s, raster(8), Options{BrightEmissive: true}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	st := s.State()
	if st.ColorMap == nil || st.Emissive {
		t.Errorf("state = %+v", st)
	}
}

func TestBind_Validation(t *testing.T) {
	b := New(texture.NewCPUDevice(), nil)
	if err := b.Bind(nil, raster(8), Options{}); !errors.Is(err, material.ErrSurfaceNotFound) {
		t.Errorf("nil surface: err = %v", err)
	}
	s := material.NewStandard("Screen", material.White)
	if err := b.Bind(s, nil, Options{}); !errors.Is(err, ErrNoRaster) {
		t.Errorf("nil raster: err = %v", err)
	}
	if s.State().Version != 0 {
		t.Error("failed bind marked the surface dirty")
	}
}

type failingDevice struct{}

func (failingDevice) Upload(*fit.Raster) (texture.Texture, error) {
	return nil, errors.New("out of memory")
}

func TestBind_UploadFailureLeavesStateUntouched(t *testing.T) {
	dev := texture.NewCPUDevice()
	s := material.NewStandard("Screen", material.White)
	if err := New(dev, nil).Bind(s, raster(8), Options{BrightEmissive: true}); err != nil {
		t.Fatal(err)
	}
	before := s.State()

	if err := New(failingDevice{}, nil).Bind(s, raster(8), Options{}); err == nil {
		t.Fatal("expected upload error")
	}
	if after := s.State(); after != before {
		t.Errorf("state changed after failed upload:\n got %+v\nwant %+v", after, before)
	}
}

type stickyTexture struct{ id uint64 }

func (s stickyTexture) ID() uint64     { return s.id }
func (s stickyTexture) Size() int      { return 8 }
func (s stickyTexture) FlippedY() bool { return true }
func (s stickyTexture) Release() error { return errors.New("device lost") }

type stickyDevice struct{ next uint64 }

func (d *stickyDevice) Upload(*fit.Raster) (texture.Texture, error) {
	d.next++
	return stickyTexture{id: d.next}, nil
}

func TestBind_DisposalFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer logging.SetLogger(nil)

	n := &countingNotifier{}
	b := New(&stickyDevice{}, n)
	s := material.NewStandard("Screen", material.White)
	for i := 0; i < 2; i++ {
		if err := b.Bind(s, raster(8), Options{}); err != nil {
			t.Fatalf("Bind #%d: %v", i, err)
		}
	}
	if got := s.State().ColorMap.ID(); got != 2 {
		t.Errorf("bound texture = %d, want 2", got)
	}
	if !strings.Contains(buf.String(), "texture release failed") {
		t.Errorf("log = %q, want disposal warning", buf.String())
	}
	if n.n != 2 {
		t.Errorf("notifications = %d, want 2", n.n)
	}
}

func TestClear_Unbound(t *testing.T) {
	n := &countingNotifier{}
	b := New(texture.NewCPUDevice(), n)
	if err := b.Clear(nil); err != nil {
		t.Errorf("Clear(nil) = %v", err)
	}
	if err := b.Clear(material.NewStandard("Screen", material.White)); err != nil {
		t.Errorf("Clear(unbound) = %v", err)
	}
	if n.n != 0 {
		t.Errorf("notifications = %d, want 0", n.n)
	}
}

// channelSpy records every channel update a binder makes.
type channelSpy struct {
	*material.StandardMaterial
	updates []material.Channels
}

func (c *channelSpy) SetChannels(ch material.Channels) {
	c.updates = append(c.updates, ch)
	c.StandardMaterial.SetChannels(ch)
}

func TestBindAndClear_UpdateChannelsOnce(t *testing.T) {
	b := New(texture.NewCPUDevice(), nil)
	s := &channelSpy{StandardMaterial: material.NewStandard("Screen", material.White)}

	if err := b.Bind(s, raster(8), Options{BrightEmissive: true}); err != nil {
		t.Fatal(err)
	}
	if err := b.Clear(s); err != nil {
		t.Fatal(err)
	}
	if len(s.updates) != 2 {
		t.Fatalf("channel updates = %d, want one per bind and clear", len(s.updates))
	}
	bound, cleared := s.updates[0], s.updates[1]
	if bound.ColorMap == nil || bound.EmissiveMap != bound.ColorMap || bound.Intensity != 1 {
		t.Errorf("bind update = %+v", bound)
	}
	if cleared.ColorMap != nil || cleared.EmissiveMap != nil || cleared.Intensity != 0 {
		t.Errorf("clear update = %+v", cleared)
	}
	if cleared.BaseColor != material.White {
		t.Errorf("clear changed base tint to %v", cleared.BaseColor)
	}
}

func TestBindAndClear_ReadersSeeWholeStates(t *testing.T) {
	b := New(texture.NewCPUDevice(), nil)
	s := material.NewStandard("Screen", material.White)

	var stop atomic.Bool
	var torn atomic.Int64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for !stop.Load() {
			st := s.State()
			bound := st.ColorMap != nil
			lit := st.EmissiveMap != nil || st.Intensity != 0
			if bound != lit || (bound && st.EmissiveMap != st.ColorMap) {
				torn.Add(1)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		if err := b.Bind(s, raster(4), Options{BrightEmissive: true}); err != nil {
			t.Fatal(err)
		}
		if err := b.Clear(s); err != nil {
			t.Fatal(err)
		}
	}
	stop.Store(true)
	wg.Wait()

	if n := torn.Load(); n != 0 {
		t.Errorf("%d reads saw color and emissive channels out of step", n)
	}
}

// watchedTexture snapshots its surface when it is released.
type watchedTexture struct {
	id       uint64
	surf     material.Surface
	released *[]releaseSnapshot
}

type releaseSnapshot struct {
	tex      texture.Texture
	colorMap texture.Texture
	current  texture.Texture
}

func (w *watchedTexture) ID() uint64     { return w.id }
func (w *watchedTexture) Size() int      { return 8 }
func (w *watchedTexture) FlippedY() bool { return true }
func (w *watchedTexture) Release() error {
	*w.released = append(*w.released, releaseSnapshot{
		tex:      w,
		colorMap: w.surf.State().ColorMap,
		current:  w.surf.Slot().Current(),
	})
	return nil
}

type watchingDevice struct {
	surf     material.Surface
	uploaded []texture.Texture
	released []releaseSnapshot
}

func (d *watchingDevice) Upload(*fit.Raster) (texture.Texture, error) {
	t := &watchedTexture{id: uint64(len(d.uploaded) + 1), surf: d.surf, released: &d.released}
	d.uploaded = append(d.uploaded, t)
	return t, nil
}

func TestBind_ReleasesOnlyAfterSwap(t *testing.T) {
	s := material.NewStandard("Screen", material.White)
	dev := &watchingDevice{surf: s}
	b := New(dev, nil)

	for i := 0; i < 2; i++ {
		if err := b.Bind(s, raster(8), Options{BrightEmissive: true}); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.Clear(s); err != nil {
		t.Fatal(err)
	}

	if len(dev.released) != 2 {
		t.Fatalf("releases = %d, want 2", len(dev.released))
	}
	first, second := dev.uploaded[0], dev.uploaded[1]
	tests := []struct {
		name string
		snap releaseSnapshot
		tex  texture.Texture
		want texture.Texture // what the surface must already hold
	}{
		{"rebind", dev.released[0], first, second},
		{"clear", dev.released[1], second, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.snap.tex != tt.tex {
				t.Fatalf("released texture %d, want %d", tt.snap.tex.ID(), tt.tex.ID())
			}
			if tt.snap.colorMap != tt.want {
				t.Errorf("color map at release = %v, want %v", tt.snap.colorMap, tt.want)
			}
			if tt.snap.current != tt.want {
				t.Errorf("slot at release = %v, want %v", tt.snap.current, tt.want)
			}
		})
	}
}
