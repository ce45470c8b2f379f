package session

import (
	"context"
	"errors"

	"screen-mockup/internal/ingest"
	"screen-mockup/internal/material"
)

// Op names a command for user-facing messages.
type Op int

const (
	OpApply Op = iota
	OpClear
	OpExport
)

// Message turns an error from op into text for the user. A nil error gives "".
func Message(op Op, err error) string {
	if err == nil {
		return ""
	}
	var de *ingest.DecodeError
	switch {
	case errors.Is(err, material.ErrSurfaceNotFound):
		return "Screen material not found in model."
	case errors.As(err, &de):
		return "Could not read that image. Try another file."
	case errors.Is(err, ErrSuperseded):
		return "A newer image replaced this one."
	case errors.Is(err, ErrFrameSize):
		return "Export failed: the rendered frame is not 720×720."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was canceled."
	}
	switch op {
	case OpClear:
		return "Failed to clear texture."
	case OpExport:
		return "Export failed."
	default:
		return "Failed to apply image. Try another file / refresh."
	}
}
