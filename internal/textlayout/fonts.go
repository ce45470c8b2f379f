package textlayout

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// builtin maps lower-cased family names to embedded Go fonts.
var builtin = map[string][]byte{
	"go":         goregular.TTF,
	"go regular": goregular.TTF,
	"inter":      goregular.TTF,
	"system-ui":  goregular.TTF,
	"sans-serif": goregular.TTF,
	"arial":      goregular.TTF,
	"helvetica":  goregular.TTF,
	"serif":      goregular.TTF,
	"go bold":    gobold.TTF,
	"bold":       gobold.TTF,
	"go italic":  goitalic.TTF,
	"italic":     goitalic.TTF,
	"go mono":    gomono.TTF,
	"monospace":  gomono.TTF,
	"mono":       gomono.TTF,
	"courier":    gomono.TTF,
}

// Fonts resolves CSS-style family lists to parsed fonts. Parsed fonts are
// cached; faces are created per call because a face is not safe for
// concurrent use.
type Fonts struct {
	mu     sync.RWMutex
	custom map[string][]byte
	parsed map[string]*opentype.Font
}

// NewFonts creates a resolver that knows only the embedded Go fonts.
func NewFonts() *Fonts {
	return &Fonts{
		custom: make(map[string][]byte),
		parsed: make(map[string]*opentype.Font),
	}
}

// Register makes ttf available under name. Custom fonts shadow builtins.
func (f *Fonts) Register(name string, ttf []byte) error {
	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("textlayout: parse font %q: %w", name, err)
	}
	key := normalize(name)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.custom[key] = ttf
	f.parsed[key] = fnt
	return nil
}

// LoadFile registers the TTF/OTF file at path under name.
func (f *Fonts) LoadFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("textlayout: read font %s: %w", path, err)
	}
	return f.Register(name, data)
}

// Resolve returns the first family in the list that is known, falling back
// to Go Regular.
func (f *Fonts) Resolve(families string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, fam := range strings.Split(families, ",") {
		key := normalize(fam)
		if _, ok := f.custom[key]; ok {
			return key
		}
		if _, ok := builtin[key]; ok {
			return key
		}
	}
	return "go regular"
}

// Face returns a new face for the resolved family at size pixels.
func (f *Fonts) Face(families string, size float64) (font.Face, error) {
	key := f.Resolve(families)
	fnt, err := f.font(key)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("textlayout: face %q at %.1fpx: %w", key, size, err)
	}
	return face, nil
}

func (f *Fonts) font(key string) (*opentype.Font, error) {
	f.mu.RLock()
	fnt, ok := f.parsed[key]
	f.mu.RUnlock()
	if ok {
		return fnt, nil
	}

	fnt, err := opentype.Parse(builtin[key])
	if err != nil {
		return nil, fmt.Errorf("textlayout: parse builtin %q: %w", key, err)
	}
	f.mu.Lock()
	f.parsed[key] = fnt
	f.mu.Unlock()
	return fnt, nil
}

func normalize(family string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(family), `"' `))
}
