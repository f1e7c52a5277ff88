package ggthread

import (
	"errors"
	"fmt"
)

// Errors returned by the renderer.
var (
	// ErrClosed is returned when the renderer has been closed.
	ErrClosed = errors.New("ggthread: renderer is closed")

	// ErrInvalidDimensions is returned for a non-positive or oversized
	// canvas.
	ErrInvalidDimensions = errors.New("ggthread: invalid dimensions")

	// ErrWorkerPanic is carried by payloads whose frame panicked on the
	// worker goroutine.
	ErrWorkerPanic = errors.New("ggthread: worker panicked")

	// ErrEncode is carried by payloads the codec could not encode.
	ErrEncode = errors.New("ggthread: encode failed")
)

// contractViolation reports a caller bug. These are not runtime conditions
// and are never returned as errors.
func contractViolation(op, reason string) {
	msg := fmt.Sprintf("ggthread: %s: %s", op, reason)
	Logger().Error(msg)
	panic(msg)
}
