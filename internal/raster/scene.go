package raster

import (
	"image/color"

	"screen-mockup/internal/material"
	"screen-mockup/internal/mathutil"
)

// Mesh is a set of quads sharing one surface. Verts and UVs are indexed
// together.
type Mesh struct {
	Name    string
	Verts   []mathutil.Vec3
	UVs     [][2]float32
	Quads   [][4]int
	Surface material.Surface
}

// Scene is the model drawn by the reference renderer.
type Scene struct {
	Meshes []Mesh
}

// Quad builds a single quad from corners in bottom-left, bottom-right,
// top-right, top-left order. UV v grows upward: the bottom edge is v=0.
func Quad(name string, corners [4]mathutil.Vec3, s material.Surface) Mesh {
	return Mesh{
		Name:    name,
		Verts:   corners[:],
		UVs:     [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Quads:   [][4]int{{0, 1, 2, 3}},
		Surface: s,
	}
}

// Box builds an axis-aligned box between lo and hi, one quad per face.
func Box(name string, lo, hi mathutil.Vec3, s material.Surface) Mesh {
	x0, y0, z0 := lo[0], lo[1], lo[2]
	x1, y1, z1 := hi[0], hi[1], hi[2]
	faces := [6][4]mathutil.Vec3{
		{{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1}}, // front
		{{x1, y0, z0}, {x0, y0, z0}, {x0, y1, z0}, {x1, y1, z0}}, // back
		{{x0, y0, z0}, {x0, y0, z1}, {x0, y1, z1}, {x0, y1, z0}}, // left
		{{x1, y0, z1}, {x1, y0, z0}, {x1, y1, z0}, {x1, y1, z1}}, // right
		{{x0, y1, z1}, {x1, y1, z1}, {x1, y1, z0}, {x0, y1, z0}}, // top
		{{x0, y0, z0}, {x1, y0, z0}, {x1, y0, z1}, {x0, y0, z1}}, // bottom
	}
	m := Mesh{Name: name, Surface: s}
	for _, f := range faces {
		base := len(m.Verts)
		m.Verts = append(m.Verts, f[:]...)
		m.UVs = append(m.UVs, [2]float32{0, 0}, [2]float32{1, 0}, [2]float32{1, 1}, [2]float32{0, 1})
		m.Quads = append(m.Quads, [4]int{base, base + 1, base + 2, base + 3})
	}
	return m
}

// Device dimensions in model units (y up, front face toward +z).
const (
	deviceWidth  = 0.72
	deviceHeight = 1.48
	deviceDepth  = 0.08
	bezel        = 0.035
)

// DeviceScene builds a phone-like slab with a color-only "Body" and an
// emissive-capable "Screen" on its front face, and registers both surfaces.
// Surfaces already registered under those names are reused.
func DeviceScene(reg *material.Registry) *Scene {
	reg.Register(material.NewBasic("Body", color.NRGBA{R: 0x2b, G: 0x2d, B: 0x31, A: 0xff}))
	reg.Register(material.NewStandard("Screen", color.NRGBA{R: 0x0b, G: 0x0c, B: 0x0e, A: 0xff}))
	body, _ := reg.Resolve("Body")
	screen, _ := reg.Resolve("Screen")

	hw, hh, hd := deviceWidth/2, deviceHeight/2, deviceDepth/2
	sx, sy, sz := hw-bezel, hh-bezel, hd+0.002

	return &Scene{Meshes: []Mesh{
		Box("body", mathutil.Vec3{-hw, -hh, -hd}, mathutil.Vec3{hw, hh, hd}, body),
		Quad("screen", [4]mathutil.Vec3{
			{-sx, -sy, sz}, {sx, -sy, sz}, {sx, sy, sz}, {-sx, sy, sz},
		}, screen),
	}}
}
