// Package binder paints fitted rasters onto material surfaces and owns the
// lifecycle of the textures it creates.
package binder

import (
	"errors"
	"fmt"
	"sync"

	"screen-mockup/internal/fit"
	"screen-mockup/internal/logging"
	"screen-mockup/internal/material"
	"screen-mockup/internal/texture"
)

// ErrNoRaster is returned by Bind when no fitted raster is supplied.
var ErrNoRaster = errors.New("binder: no raster")

// Notifier is told when a surface needs to be re-rendered.
type Notifier interface {
	NotifyDirty()
}

// Options controls how a raster is bound.
type Options struct {
	// BrightEmissive reuses the texture as the emissive map at full
	// intensity so the surface looks self-lit.
	BrightEmissive bool
}

// Binder is the only writer of surface channels.
type Binder struct {
	dev    texture.Device
	notify Notifier

	mu sync.Mutex
}

// New creates a Binder uploading to dev. notify may be nil.
func New(dev texture.Device, notify Notifier) *Binder {
	return &Binder{dev: dev, notify: notify}
}

// Bind uploads r and installs it on the color channel of s, and on the
// emissive channel when opts.BrightEmissive is set and s supports it.
// The previous texture is released after the swap.
func (b *Binder) Bind(s material.Surface, r *fit.Raster, opts Options) error {
	if s == nil {
		return material.ErrSurfaceNotFound
	}
	if r == nil {
		return ErrNoRaster
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.dev.Upload(r)
	if err != nil {
		return fmt.Errorf("binder: upload for %q: %w", s.Name(), err)
	}

	ch := material.Channels{ColorMap: tex, BaseColor: material.White, EmissiveTint: material.Black}
	if _, ok := s.(material.EmissiveSurface); ok && opts.BrightEmissive {
		ch.EmissiveMap, ch.EmissiveTint, ch.Intensity = tex, material.White, 1.0
	}
	old := b.commit(s, ch, tex)

	logging.Logger().Debug("texture bound",
		"surface", s.Name(), "texture", tex.ID(), "size", tex.Size(),
		"flippedY", tex.FlippedY(), "bright", opts.BrightEmissive)

	b.release(s, old)
	return nil
}

// Clear empties the color and emissive channels of s and releases its
// texture. Clearing an unbound or nil surface does nothing.
func (b *Binder) Clear(s material.Surface) error {
	if s == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if s.Slot().Current() == nil {
		return nil
	}

	// The base tint stays as the last bind left it.
	old := b.commit(s, material.Channels{BaseColor: s.State().BaseColor, EmissiveTint: material.Black}, nil)

	logging.Logger().Debug("surface cleared", "surface", s.Name())

	b.release(s, old)
	return nil
}

// commit installs ch in one step, hands tex to the slot and notifies the
// renderer. It returns the texture the slot owned before.
func (b *Binder) commit(s material.Surface, ch material.Channels, tex texture.Texture) texture.Texture {
	s.SetChannels(ch)
	old := s.Slot().Swap(tex)
	if b.notify != nil {
		b.notify.NotifyDirty()
	}
	return old
}

// release logs disposal failures; a failed release never blocks a bind.
func (b *Binder) release(s material.Surface, t texture.Texture) {
	if err := texture.Release(t); err != nil {
		logging.Logger().Warn("texture release failed", "surface", s.Name(), "err", err)
	}
}
