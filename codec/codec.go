// Package codec moves finished canvases across goroutines.
//
// The worker encodes a canvas into a Payload, which owns its bytes and never
// aliases canvas memory, so the canvas can be recycled while the payload is
// still in flight. The consumer decodes the payload into Pixels ready for
// upload. Save writes a canvas image to disk by file extension.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/ggthread/raster"
)

// Errors returned by codecs.
var (
	// ErrUnknownCodec is returned by Lookup for an unregistered name.
	ErrUnknownCodec = errors.New("codec: unknown codec")

	// ErrShortPayload is returned when payload data is smaller than its
	// declared shape requires.
	ErrShortPayload = errors.New("codec: payload data too short")

	// ErrCorruptPayload is returned when payload data cannot be decoded or
	// decodes to a different shape.
	ErrCorruptPayload = errors.New("codec: corrupt payload")

	// ErrUnsupportedFormat is returned for a raster format the codec cannot
	// handle.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrUnknownExtension is returned by Save for an unrecognized file
	// extension.
	ErrUnknownExtension = errors.New("codec: unknown file extension")
)

// Codec converts canvases to payloads and back.
//
// Implementations must be safe for concurrent use: Encode runs on the
// worker goroutine while Decode runs on the caller's.
type Codec interface {
	// Name returns the registry name of the codec.
	Name() string

	// Encode captures the current contents of c. The payload does not
	// share memory with c.
	Encode(c *raster.Canvas, frame uint64) (*Payload, error)

	// Decode converts p back into pixels of p.Format.
	Decode(p *Payload) (*Pixels, error)
}

var registry = map[string]Codec{
	"raw": Raw{},
	"bmp": BMP{},
}

// Lookup returns the codec registered under name. Names are case
// insensitive; the empty name selects raw.
func Lookup(name string) (Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "raw"
	}
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownCodec, name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names returns the registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func checkCanvas(c *raster.Canvas) error {
	if c == nil {
		return raster.ErrNilCanvas
	}
	if !c.Format().Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.Format())
	}
	return nil
}
