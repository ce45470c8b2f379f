// Package session is the command interface front ends drive: apply an image
// to the screen surface, clear it, and export a composited still.
//
// Applies are ordered by issue: every ClearSurface, and every ApplyImage whose
// surface resolves, takes a request id. An apply whose decode finishes after a
// newer request was issued is discarded with ErrSuperseded.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"sync/atomic"

	"screen-mockup/internal/binder"
	"screen-mockup/internal/compositor"
	"screen-mockup/internal/fit"
	"screen-mockup/internal/ingest"
	"screen-mockup/internal/logging"
	"screen-mockup/internal/material"
	"screen-mockup/internal/texture"
)

var (
	// ErrSuperseded is returned by ApplyImage when a newer apply or clear
	// was issued while it was decoding.
	ErrSuperseded = errors.New("session: superseded by a newer request")
	// ErrFrameSize is returned by ExportImage when the renderer breaks the
	// 720x720 frame precondition.
	ErrFrameSize = compositor.ErrFrameSize
)

// Renderer is the real-time renderer the session feeds.
type Renderer interface {
	// CurrentFrame returns the latest Size×Size frame.
	CurrentFrame() *image.NRGBA
	NotifyDirty()
}

// Options configures a Session.
type Options struct {
	Surface     string // material name painted by ApplyImage
	TextureSize int
	MaxEdge     int
	FlipY       bool
}

func (o Options) withDefaults() Options {
	if o.Surface == "" {
		o.Surface = "Screen"
	}
	if o.TextureSize <= 0 {
		o.TextureSize = 2048
	}
	if o.MaxEdge == 0 {
		o.MaxEdge = ingest.DefaultMaxEdge
	}
	return o
}

// ApplyOptions are per-apply settings.
type ApplyOptions struct {
	Bright bool
}

// Session owns one surface binding and its export configuration.
type Session struct {
	opts     Options
	resolver material.Resolver
	renderer Renderer
	binder   *binder.Binder
	comp     *compositor.Compositor
	assets   *Assets

	seq atomic.Uint64
	mu  sync.Mutex // serializes the stale check with the bind
}

// New creates a session. renderer may be nil, in which case exports have
// no frame layer.
func New(resolver material.Resolver, dev texture.Device, renderer Renderer, comp *compositor.Compositor, assets *Assets, opts Options) *Session {
	var notify binder.Notifier
	if renderer != nil {
		notify = renderer
	}
	if comp == nil {
		comp = compositor.New(nil)
	}
	if assets == nil {
		assets = NewAssets()
	}
	return &Session{
		opts:     opts.withDefaults(),
		resolver: resolver,
		renderer: renderer,
		binder:   binder.New(dev, notify),
		comp:     comp,
		assets:   assets,
	}
}

// Assets returns the image store exports resolve ids against.
func (s *Session) Assets() *Assets { return s.assets }

// Options returns the effective options.
func (s *Session) Options() Options { return s.opts }

// Surface resolves the configured surface.
func (s *Session) Surface() (material.Surface, bool) {
	return s.resolver.Resolve(s.opts.Surface)
}

// ApplyImage decodes r, fits it to the texture size and binds it to the
// configured surface. On any error the surface keeps its previous state.
func (s *Session) ApplyImage(ctx context.Context, r io.Reader, opts ApplyOptions) error {
	// A request that cannot bind takes no id, so it never supersedes one that can.
	surf, ok := s.Surface()
	if !ok {
		return fmt.Errorf("session: apply %q: %w", s.opts.Surface, material.ErrSurfaceNotFound)
	}
	id := s.seq.Add(1)

	img, err := ingest.DecodeContext(ctx, r, s.opts.MaxEdge)
	if err != nil {
		return err
	}
	raster := fit.Fit(img, s.opts.TextureSize, s.opts.FlipY)

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.seq.Load(); cur != id {
		logging.Logger().Warn("discarding stale apply", "request", id, "latest", cur)
		return ErrSuperseded
	}
	return s.binder.Bind(surf, raster, binder.Options{BrightEmissive: opts.Bright})
}

// ClearSurface removes the image from the surface. It always succeeds and
// invalidates any apply still decoding.
func (s *Session) ClearSurface() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq.Add(1)

	surf, ok := s.Surface()
	if !ok {
		return nil
	}
	return s.binder.Clear(surf)
}

// ExportImage composites the current frame with the configured background
// and overlays.
func (s *Session) ExportImage(ctx context.Context, req ExportRequest) (*compositor.Canvas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layers := req.Layers(s.assets)
	if s.renderer != nil {
		if f := s.renderer.CurrentFrame(); f != nil {
			layers.Frame = f
		}
	}
	return s.comp.Compose(layers)
}
