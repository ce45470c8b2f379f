// Package ingest decodes user-supplied image files into bitmaps.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"

	"screen-mockup/internal/logging"
)

// DefaultMaxEdge bounds the long edge of decoded bitmaps.
const DefaultMaxEdge = 2048

// DecodeError reports an unreadable or unsupported input file.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "ingest: decode: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

var errEmpty = errors.New("empty input")

// Decode reads a PNG, JPEG, GIF, WebP, BMP, TIFF or TGA image and returns it
// as NRGBA. EXIF orientation is applied. If the long edge exceeds maxEdge the bitmap is
// downsampled proportionally; maxEdge <= 0 keeps the original size.
func Decode(r io.Reader, maxEdge int) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(data) == 0 {
		return nil, &DecodeError{Err: errEmpty}
	}

	img, name, err := decodeBytes(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, &DecodeError{Err: fmt.Errorf("zero-sized image %dx%d", b.Dx(), b.Dy())}
	}

	w, h, ok := Bounded(b.Dx(), b.Dy(), maxEdge)
	if !ok {
		return imaging.Clone(img), nil
	}
	logging.Logger().Debug("downsampling upload", "format", name, "from", b.Size(), "to", image.Pt(w, h))
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

// DecodeContext is Decode with cancellation checked around the decode.
func DecodeContext(ctx context.Context, r io.Reader, maxEdge int) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := Decode(r, maxEdge)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// Bounded returns the w×h that fits inside maxEdge while keeping the aspect
// ratio, rounding each edge to the nearest pixel. ok is false when no
// resize is needed.
func Bounded(w, h, maxEdge int) (bw, bh int, ok bool) {
	long := max(w, h)
	if maxEdge <= 0 || long <= maxEdge {
		return w, h, false
	}
	scale := float64(maxEdge) / float64(long)
	bw = max(1, int(math.Round(float64(w)*scale)))
	bh = max(1, int(math.Round(float64(h)*scale)))
	return bw, bh, true
}
