package compositor

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// Format is an export encoding.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
)

// ParseFormat accepts png and webp; anything else is PNG.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(WebP)) {
		return WebP
	}
	return PNG
}

// Filename is the download name of an export.
func (f Format) Filename() string {
	return fmt.Sprintf("mockup-%d.%s", Size, f)
}

// ContentType is the MIME type of an export.
func (f Format) ContentType() string {
	if f == WebP {
		return "image/webp"
	}
	return "image/png"
}

// Canvas is one finished export. It is never reused across exports.
type Canvas struct {
	Image *image.NRGBA
}

// Encode writes the canvas losslessly. Identical canvases encode to
// identical bytes.
func (c *Canvas) Encode(w io.Writer, f Format) error {
	switch f {
	case WebP:
		if err := nativewebp.Encode(w, c.Image, nil); err != nil {
			return fmt.Errorf("compositor: encode webp: %w", err)
		}
	default:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := enc.Encode(w, c.Image); err != nil {
			return fmt.Errorf("compositor: encode png: %w", err)
		}
	}
	return nil
}
