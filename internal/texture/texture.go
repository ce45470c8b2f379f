// Package texture models GPU-backed raster resources: how they are created
// from fitted rasters, who owns them, and how they are released.
package texture

import (
	"errors"
	"fmt"

	"screen-mockup/internal/fit"
)

// ErrReleased is returned when a texture is released twice or used after release.
var ErrReleased = errors.New("texture already released")

// Texture is an uploaded raster. It must be released explicitly.
type Texture interface {
	ID() uint64
	Size() int
	FlippedY() bool
	Release() error
}

// Device creates textures from fitted rasters.
type Device interface {
	Upload(r *fit.Raster) (Texture, error)
}

// DisposalError reports a failed release. It is logged by callers, never fatal.
type DisposalError struct {
	ID  uint64
	Err error
}

func (e *DisposalError) Error() string {
	return fmt.Sprintf("texture: release %d: %v", e.ID, e.Err)
}

func (e *DisposalError) Unwrap() error { return e.Err }

// Release releases t and wraps any failure in a DisposalError.
// A nil texture is a no-op.
func Release(t Texture) error {
	if t == nil {
		return nil
	}
	if err := t.Release(); err != nil {
		return &DisposalError{ID: t.ID(), Err: err}
	}
	return nil
}
