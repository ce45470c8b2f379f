// Package raster is a small software renderer used as the reference
// real-time renderer: it draws the device scene with the surfaces' current
// channel state and hands out the latest frame.
package raster

import (
	"image"
	"math"
	"slices"
	"sync"
	"time"

	"screen-mockup/internal/logging"
	"screen-mockup/internal/material"
	"screen-mockup/internal/mathutil"
	"screen-mockup/internal/postprocess"
	"screen-mockup/internal/texture"
)

// Options controls framing and quality.
type Options struct {
	Size        int // output edge in pixels
	Supersample int
	YawDeg      float64
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 720
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	return o
}

// Render draws scene to a transparent Size×Size image.
func Render(scene *Scene, opts Options) *image.NRGBA {
	opts = opts.withDefaults()
	renderSize := opts.Size * opts.Supersample
	if scene == nil || len(scene.Meshes) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	}

	R := mathutil.ViewMatrix(opts.YawDeg)

	// Compute bounding box of all transformed vertices
	allMin := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, m := range scene.Meshes {
		for _, v := range m.Verts {
			tv := R.MulVec3(v)
			for k := 0; k < 3; k++ {
				allMin[k] = math.Min(allMin[k], tv[k])
				allMax[k] = math.Max(allMax[k], tv[k])
			}
		}
	}

	center := [3]float64{
		(allMin[0] + allMax[0]) / 2,
		(allMin[1] + allMax[1]) / 2,
		(allMin[2] + allMax[2]) / 2,
	}
	span := math.Max(math.Max(allMax[0]-allMin[0], allMax[1]-allMin[1]), 0.001)

	margin := opts.Size / 12 * opts.Supersample
	scale := float64(renderSize-2*margin) / span

	fb := NewFrameBuffer(renderSize, renderSize)
	rig := StudioRig()

	for _, mesh := range scene.Meshes {
		if len(mesh.Verts) == 0 || mesh.Surface == nil {
			continue
		}
		px, py, pz := project(mesh.Verts, R, center, scale, renderSize)
		sh := shaderFor(mesh.Surface.State())

		for _, q := range mesh.Quads {
			RasterizeTriangle(fb, px, py, pz, mesh.UVs, [3]int{q[0], q[1], q[2]}, &sh, &rig)
			RasterizeTriangle(fb, px, py, pz, mesh.UVs, [3]int{q[0], q[2], q[3]}, &sh, &rig)
		}
	}

	return postprocess.Downsample(fb.Image(), opts.Size, opts.Size)
}

// project maps model vertices to screen pixels: x right, y down, z toward
// the camera.
func project(verts []mathutil.Vec3, R mathutil.Mat3, center [3]float64, scale float64, size int) (px, py, pz []float64) {
	px = make([]float64, len(verts))
	py = make([]float64, len(verts))
	pz = make([]float64, len(verts))
	half := float64(size) / 2
	for i, v := range verts {
		tv := R.MulVec3(v)
		px[i] = (tv[0]-center[0])*scale + half
		py[i] = half - (tv[1]-center[1])*scale
		pz[i] = (tv[2] - center[2]) * scale
	}
	return px, py, pz
}

func shaderFor(st material.State) Shader {
	sh := Shader{
		Tex:  pixels(st.ColorMap),
		Base: linear(st.BaseColor.R, st.BaseColor.G, st.BaseColor.B),
	}
	if st.Emissive {
		sh.Emissive = pixels(st.EmissiveMap)
		sh.EmTint = linear(st.EmissiveTint.R, st.EmissiveTint.G, st.EmissiveTint.B)
		sh.Intensity = st.Intensity
	}
	return sh
}

func pixels(t texture.Texture) *image.NRGBA {
	if p, ok := t.(texture.Pixels); ok {
		return p.Image()
	}
	return nil
}

func linear(r, g, b uint8) [3]float64 {
	return [3]float64{srgbToLinear[r], srgbToLinear[g], srgbToLinear[b]}
}

// Renderer keeps the latest frame of a scene and re-renders it lazily
// after a surface change.
type Renderer struct {
	scene *Scene

	mu       sync.Mutex
	opts     Options
	frame    *image.NRGBA
	dirty    bool
	versions []uint64
	renders  int
}

// NewRenderer creates a renderer for scene.
func NewRenderer(scene *Scene, opts Options) *Renderer {
	return &Renderer{scene: scene, opts: opts.withDefaults(), dirty: true}
}

// NotifyDirty requests a re-render before the next frame is handed out.
func (r *Renderer) NotifyDirty() {
	r.mu.Lock()
	r.dirty = true
	r.mu.Unlock()
}

// SetYaw spins the model and invalidates the frame.
func (r *Renderer) SetYaw(deg float64) {
	r.mu.Lock()
	r.opts.YawDeg = mathutil.NormalizeDeg(deg)
	r.dirty = true
	r.mu.Unlock()
}

// CurrentFrame returns the latest frame, rendering it first if any surface
// changed. Callers must not modify the returned image.
func (r *Renderer) CurrentFrame() *image.NRGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	versions := r.surfaceVersions()
	if r.frame != nil && !r.dirty && slices.Equal(versions, r.versions) {
		return r.frame
	}

	start := time.Now()
	r.frame = Render(r.scene, r.opts)
	r.versions = versions
	r.dirty = false
	r.renders++
	logging.Logger().Debug("frame rendered",
		"size", r.opts.Size, "supersample", r.opts.Supersample,
		"yaw", r.opts.YawDeg, "elapsed", time.Since(start))
	return r.frame
}

// Renders reports how many frames have been rendered.
func (r *Renderer) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

func (r *Renderer) surfaceVersions() []uint64 {
	if r.scene == nil {
		return nil
	}
	v := make([]uint64, len(r.scene.Meshes))
	for i, m := range r.scene.Meshes {
		if m.Surface != nil {
			v[i] = m.Surface.State().Version
		}
	}
	return v
}
