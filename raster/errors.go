package raster

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Canvas creation and Rasterize.
var (
	// ErrInvalidDimensions is returned when width or height is out of range.
	ErrInvalidDimensions = errors.New("raster: invalid dimensions")

	// ErrUnsupportedFormat is returned for a Format outside the supported set.
	ErrUnsupportedFormat = errors.New("raster: unsupported pixel format")

	// ErrCanvasMismatch is returned when a DisplayList was recorded for a
	// canvas of a different shape.
	ErrCanvasMismatch = errors.New("raster: display list does not match canvas")

	// ErrNilCanvas is returned when Rasterize receives a nil canvas or list.
	ErrNilCanvas = errors.New("raster: nil canvas or display list")
)

// ErrorFlags accumulates the problems a Context met while recording or
// rasterizing. Flags are informational; drawing continues past them.
type ErrorFlags uint32

const (
	// ErrorInvalidValue marks a bad argument, such as a negative line width.
	ErrorInvalidValue ErrorFlags = 1 << iota

	// ErrorInvalidState marks a call made in the wrong state, such as
	// drawing on a finished Context or popping an empty state stack.
	ErrorInvalidState

	// ErrorInvalidGeometry marks non-finite coordinates.
	ErrorInvalidGeometry

	// ErrorInvalidGlyph marks a rune the current face cannot render.
	ErrorInvalidGlyph

	// ErrorInvalidFont marks a missing font face.
	ErrorInvalidFont

	// ErrorThreadPoolExhausted marks a flush that could not use the worker
	// pool and fell back to a single goroutine.
	ErrorThreadPoolExhausted

	// ErrorOutOfMemory marks a command dropped because the recording is full.
	ErrorOutOfMemory

	// ErrorUnknown marks a failure with no dedicated flag.
	ErrorUnknown
)

var errorFlagNames = [...]struct {
	flag ErrorFlags
	name string
}{
	{ErrorInvalidValue, "INVALID_VALUE"},
	{ErrorInvalidState, "INVALID_STATE"},
	{ErrorInvalidGeometry, "INVALID_GEOMETRY"},
	{ErrorInvalidGlyph, "INVALID_GLYPH"},
	{ErrorInvalidFont, "INVALID_FONT"},
	{ErrorThreadPoolExhausted, "THREAD_POOL_EXHAUSTED"},
	{ErrorOutOfMemory, "OUT_OF_MEMORY"},
	{ErrorUnknown, "UNKNOWN_ERROR"},
}

// Has reports whether every flag in g is set in f.
func (f ErrorFlags) Has(g ErrorFlags) bool {
	return f&g == g
}

// String summarizes the flags for logs, for example
// "Context_Error_Flags=5 (INVALID_VALUE, INVALID_GEOMETRY)".
func (f ErrorFlags) String() string {
	names := make([]string, 0, len(errorFlagNames))
	for _, e := range errorFlagNames {
		if f&e.flag != 0 {
			names = append(names, e.name)
		}
	}
	return fmt.Sprintf("Context_Error_Flags=%d (%s)", uint32(f), strings.Join(names, ", "))
}
