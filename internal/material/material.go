// Package material describes the renderable surfaces an image can be painted
// onto. Surfaces come in several material kinds; the emissive channel is an
// optional capability discovered with a type assertion.
package material

import (
	"errors"
	"image/color"
	"sync"

	"screen-mockup/internal/texture"
)

// ErrSurfaceNotFound is returned when a named surface does not exist in the scene.
var ErrSurfaceNotFound = errors.New("surface not found")

var (
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.NRGBA{A: 255}
)

// Channels is the complete channel state of a surface. A bind or clear
// installs all of it at once, so readers never see a half-updated surface.
type Channels struct {
	ColorMap     texture.Texture
	BaseColor    color.NRGBA
	EmissiveMap  texture.Texture
	EmissiveTint color.NRGBA
	Intensity    float64
}

// Surface is a named slot in the render graph with a color channel.
type Surface interface {
	Name() string
	// SetChannels replaces every channel the material has under one lock and
	// bumps its version. Materials without an emissive channel ignore the
	// emissive fields.
	SetChannels(c Channels)
	// Slot is the texture ownership slot; only the binder swaps it.
	Slot() *texture.Slot
	State() State
}

// EmissiveSurface is a Surface whose material also has an emissive channel.
type EmissiveSurface interface {
	Surface
	EmissiveChannel() (t texture.Texture, tint color.NRGBA, intensity float64)
}

// State is a read-only snapshot of a surface's channels.
type State struct {
	ColorMap     texture.Texture
	BaseColor    color.NRGBA
	Emissive     bool // material has an emissive channel
	EmissiveMap  texture.Texture
	EmissiveTint color.NRGBA
	Intensity    float64
	Version      uint64
}

// BasicMaterial is an unlit-style material with a color channel only.
type BasicMaterial struct {
	name string
	slot texture.Slot

	mu      sync.RWMutex
	colMap  texture.Texture
	base    color.NRGBA
	version uint64
}

// NewBasic creates a color-only surface with the given base tint.
func NewBasic(name string, base color.NRGBA) *BasicMaterial {
	return &BasicMaterial{name: name, base: base}
}

func (m *BasicMaterial) Name() string        { return m.name }
func (m *BasicMaterial) Slot() *texture.Slot { return &m.slot }

func (m *BasicMaterial) SetChannels(c Channels) {
	m.mu.Lock()
	m.colMap = c.ColorMap
	m.base = c.BaseColor
	m.version++
	m.mu.Unlock()
}

func (m *BasicMaterial) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{ColorMap: m.colMap, BaseColor: m.base, Version: m.version}
}

// StandardMaterial is a lit material with color and emissive channels.
type StandardMaterial struct {
	BasicMaterial

	emMap     texture.Texture
	emTint    color.NRGBA
	intensity float64
}

// NewStandard creates an emissive-capable surface. The emissive channel
// starts empty: black tint, intensity 0.
func NewStandard(name string, base color.NRGBA) *StandardMaterial {
	return &StandardMaterial{
		BasicMaterial: BasicMaterial{name: name, base: base},
		emTint:        Black,
	}
}

func (m *StandardMaterial) SetChannels(c Channels) {
	m.mu.Lock()
	m.colMap = c.ColorMap
	m.base = c.BaseColor
	m.emMap = c.EmissiveMap
	m.emTint = c.EmissiveTint
	m.intensity = c.Intensity
	m.version++
	m.mu.Unlock()
}

func (m *StandardMaterial) EmissiveChannel() (texture.Texture, color.NRGBA, float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.emMap, m.emTint, m.intensity
}

func (m *StandardMaterial) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{
		ColorMap:     m.colMap,
		BaseColor:    m.base,
		Emissive:     true,
		EmissiveMap:  m.emMap,
		EmissiveTint: m.emTint,
		Intensity:    m.intensity,
		Version:      m.version,
	}
}
