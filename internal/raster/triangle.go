package raster

import (
	"image"
	"math"

	"screen-mockup/internal/mathutil"
)

// Shader is a surface's channel state resolved for one frame. Tints are
// linear RGB.
type Shader struct {
	Tex       *image.NRGBA
	Base      [3]float64
	Emissive  *image.NRGBA
	EmTint    [3]float64
	Intensity float64
}

// RasterizeTriangle rasterizes a single triangle with texture mapping, z-buffer,
// sRGB color space, lighting, emissive add and ACES tone mapping. vi indexes
// both the projected vertices and uvs.
//
// Lighting is flat-shaded (per-face, not per-pixel) and the inner loop does
// not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs [][2]float32,
	vi [3]int,
	sh *Shader,
	rig *Rig,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	hasUV := len(uvs) == nv
	var u0, v0uv, u1, v1uv, u2, v2uv float64
	if hasUV {
		u0, v0uv = float64(uvs[vi[0]][0]), float64(uvs[vi[0]][1])
		u1, v1uv = float64(uvs[vi[1]][0]), float64(uvs[vi[1]][1])
		u2, v2uv = float64(uvs[vi[2]][0]), float64(uvs[vi[2]][1])
	}

	// Face normal for flat shading
	n := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}.Cross(mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0})
	if n.Len() < 1e-8 {
		return
	}
	shade := rig.Shade(n.Normalize())

	// Bounding box
	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, fb.Width-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, fb.Height-1)
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	useTex := sh.Tex != nil && hasUV
	useEm := sh.Intensity > 0
	emTex := sh.Emissive != nil && hasUV

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var u, v float64
			if hasUV {
				u = w0*u0 + w1*u1 + w2*u2
				v = w0*v0uv + w1*v1uv + w2*v2uv
			}

			var cr, cg, cb, ca uint8 = 255, 255, 255, 255
			if useTex {
				cr, cg, cb, ca = SampleTexture(sh.Tex, u, v)
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			// sRGB decode → linear, tint, shade
			sr := srgbToLinear[cr] * sh.Base[0] * shade
			sg := srgbToLinear[cg] * sh.Base[1] * shade
			sb := srgbToLinear[cb] * sh.Base[2] * shade

			if useEm {
				var er, eg, eb uint8 = 255, 255, 255
				if emTex {
					er, eg, eb, _ = SampleTexture(sh.Emissive, u, v)
				}
				sr += srgbToLinear[er] * sh.EmTint[0] * sh.Intensity
				sg += srgbToLinear[eg] * sh.EmTint[1] * sh.Intensity
				sb += srgbToLinear[eb] * sh.EmTint[2] * sh.Intensity
			}

			// ACES, then linear → sRGB encode
			fr := math.Pow(aces(sr), invGamma)
			fg := math.Pow(aces(sg), invGamma)
			ffb := math.Pow(aces(sb), invGamma)

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(fr * 255)
			fb.Color[pxIdx+1] = clamp255(fg * 255)
			fb.Color[pxIdx+2] = clamp255(ffb * 255)
			fb.Color[pxIdx+3] = ca
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
