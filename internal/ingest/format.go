package ingest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// The tga package registers itself with an empty magic string, which makes
// image.Decode hand every input to it. Formats are therefore picked here by
// signature and TGA, which has none, is the fallback.
type format struct {
	name   string
	magic  []string
	decode func(io.Reader) (image.Image, error)
}

var formats = []format{
	{"png", []string{"\x89PNG\r\n\x1a\n"}, png.Decode},
	{"jpeg", []string{"\xff\xd8"}, jpeg.Decode},
	{"gif", []string{"GIF87a", "GIF89a"}, gif.Decode},
	{"webp", []string{"RIFF????WEBP"}, nativewebp.DecodeIgnoreAlphaFlag},
	{"bmp", []string{"BM"}, bmp.Decode},
	{"tiff", []string{"II*\x00", "MM\x00*"}, tiff.Decode},
}

func match(magic string, data []byte) bool {
	if len(data) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != '?' && magic[i] != data[i] {
			return false
		}
	}
	return true
}

// sniff returns the format data starts with, or the TGA fallback.
func sniff(data []byte) format {
	for _, f := range formats {
		for _, m := range f.magic {
			if match(m, data) {
				return f
			}
		}
	}
	return format{name: "tga", decode: tga.Decode}
}

// decodeBytes decodes data and applies the EXIF orientation of JPEGs.
func decodeBytes(data []byte) (image.Image, string, error) {
	f := sniff(data)
	img, err := f.decode(bytes.NewReader(data))
	if err != nil {
		return nil, f.name, fmt.Errorf("%s: %w", f.name, err)
	}
	if f.name == "jpeg" {
		img = orient(img, exifOrientation(data))
	}
	return img, f.name, nil
}

// orient applies the transform for an EXIF orientation value (1..8).
func orient(img image.Image, o int) image.Image {
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

// exifOrientation reads the orientation tag from the first APP1 Exif block
// of a JPEG. Anything unexpected yields 0.
func exifOrientation(data []byte) int {
	if len(data) < 4 || data[0] != 0xff || data[1] != 0xd8 {
		return 0
	}
	p := 2
	for p+4 <= len(data) {
		if data[p] != 0xff {
			return 0
		}
		marker := data[p+1]
		size := int(binary.BigEndian.Uint16(data[p+2:]))
		if size < 2 || p+2+size > len(data) {
			return 0
		}
		seg := data[p+4 : p+2+size]
		if marker == 0xe1 && len(seg) >= 6 && string(seg[:6]) == "Exif\x00\x00" {
			return tiffOrientation(seg[6:])
		}
		if marker == 0xda { // start of scan: no metadata follows
			return 0
		}
		p += 2 + size
	}
	return 0
}

func tiffOrientation(t []byte) int {
	if len(t) < 8 {
		return 0
	}
	var bo binary.ByteOrder
	switch string(t[:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return 0
	}
	ifd := int(bo.Uint32(t[4:]))
	if ifd < 8 || ifd+2 > len(t) {
		return 0
	}
	n := int(bo.Uint16(t[ifd:]))
	for i := 0; i < n; i++ {
		e := ifd + 2 + 12*i
		if e+12 > len(t) {
			return 0
		}
		if bo.Uint16(t[e:]) == 0x0112 {
			if v := int(bo.Uint16(t[e+8:])); v >= 1 && v <= 8 {
				return v
			}
			return 0
		}
	}
	return 0
}
