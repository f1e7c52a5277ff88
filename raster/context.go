package raster

import (
	"image"
	"image/color"
	"math"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// MaxCommands bounds the number of commands a single recording holds.
// Commands past the limit are dropped and raise ErrorOutOfMemory.
const MaxCommands = 1 << 20

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

type segOp uint8

const (
	segMove segOp = iota
	segLine
	segQuad
	segCube
	segClose
)

// segment is one path operation in canvas space.
type segment struct {
	op  segOp
	pts [3]Point
}

type cmdKind uint8

const (
	cmdPaint cmdKind = iota // whole-canvas fill
	cmdFill                 // path fill
	cmdText                 // glyph run
)

type command struct {
	kind    cmdKind
	color   color.RGBA
	src     bool // cmdPaint: replace instead of composite
	aliased bool
	path    []segment
	bounds  image.Rectangle
	text    string
	face    font.Face
	dot     Point
}

// DisplayList is a sealed recording produced by Context.Finish.
// It is immutable and safe to hand to another goroutine.
type DisplayList struct {
	width    int
	height   int
	format   Format
	commands []command
	flags    ErrorFlags
}

// Len returns the number of recorded commands.
func (l *DisplayList) Len() int { return len(l.commands) }

// Flags returns the error flags raised while recording.
func (l *DisplayList) Flags() ErrorFlags { return l.flags }

// Size returns the canvas size the list was recorded for.
func (l *DisplayList) Size() (width, height int) { return l.width, l.height }

type drawState struct {
	color     color.RGBA
	lineWidth float64
	matrix    Matrix
	quality   Quality
	face      font.Face
}

// Context is a mutable drawing context bound to one Canvas.
//
// It mirrors the usual immediate-mode API (paths, fills, strokes, text,
// transforms) but only records: pixels are produced later by Rasterize,
// typically on another goroutine. Coordinates are transformed into canvas
// space at record time.
//
// A Context is not safe for concurrent use.
type Context struct {
	width  int
	height int
	format Format

	st    drawState
	stack []drawState

	path       []segment
	start      Point
	current    Point
	hasCurrent bool

	commands []command
	flags    ErrorFlags
	finished bool
}

// NewContext opens a drawing context for c. The context starts with opaque
// black, 1px lines, antialiased edges, the 7x13 bitmap face and the
// identity transform.
func NewContext(c *Canvas) *Context {
	return &Context{
		width:  c.width,
		height: c.height,
		format: c.format,
		st: drawState{
			color:     color.RGBA{A: 0xff},
			lineWidth: 1,
			matrix:    Identity(),
			face:      basicfont.Face7x13,
		},
		commands: make([]command, 0, 64),
	}
}

// Width returns the canvas width.
func (dc *Context) Width() int { return dc.width }

// Height returns the canvas height.
func (dc *Context) Height() int { return dc.height }

// Format returns the canvas format.
func (dc *Context) Format() Format { return dc.format }

// ErrorFlags returns the flags raised so far.
func (dc *Context) ErrorFlags() ErrorFlags { return dc.flags }

// Finished reports whether Finish has been called.
func (dc *Context) Finished() bool { return dc.finished }

func (dc *Context) raise(f ErrorFlags) { dc.flags |= f }

// usable raises ErrorInvalidState once the context is sealed.
func (dc *Context) usable() bool {
	if dc.finished {
		dc.raise(ErrorInvalidState)
		return false
	}
	return true
}

func (dc *Context) record(cmd command) {
	if len(dc.commands) >= MaxCommands {
		dc.raise(ErrorOutOfMemory)
		return
	}
	dc.commands = append(dc.commands, cmd)
}

// Finish seals the recording. The returned list owns every recorded
// command; the context keeps nothing that the list references. Calls made
// on the context afterwards are ignored and raise ErrorInvalidState.
func (dc *Context) Finish() *DisplayList {
	if !dc.usable() {
		return nil
	}
	list := &DisplayList{
		width:    dc.width,
		height:   dc.height,
		format:   dc.format,
		commands: dc.commands,
		flags:    dc.flags,
	}
	dc.finished = true
	dc.commands = nil
	dc.path = nil
	dc.stack = nil
	return list
}

// Clear resets the whole canvas to transparent (black for XRGB32).
func (dc *Context) Clear() {
	if !dc.usable() {
		return
	}
	dc.record(command{kind: cmdPaint, src: true})
}

// FillAll composites c over the whole canvas.
func (dc *Context) FillAll(c color.Color) {
	if !dc.usable() {
		return
	}
	dc.record(command{kind: cmdPaint, color: toRGBA(c)})
}

// SetColor sets the fill and stroke color.
func (dc *Context) SetColor(c color.Color) {
	if !dc.usable() {
		return
	}
	if c == nil {
		dc.raise(ErrorInvalidValue)
		return
	}
	dc.st.color = toRGBA(c)
}

// SetRGB sets an opaque color from components in [0, 1].
func (dc *Context) SetRGB(r, g, b float64) {
	dc.SetRGBA(r, g, b, 1)
}

// SetRGBA sets a color from non-premultiplied components in [0, 1].
func (dc *Context) SetRGBA(r, g, b, a float64) {
	if !finite(r, g, b, a) {
		if dc.usable() {
			dc.raise(ErrorInvalidValue)
		}
		return
	}
	dc.SetColor(color.NRGBA{R: unit8(r), G: unit8(g), B: unit8(b), A: unit8(a)})
}

// SetLineWidth sets the stroke width in user space units.
func (dc *Context) SetLineWidth(w float64) {
	if !dc.usable() {
		return
	}
	if w < 0 || !finite(w) {
		dc.raise(ErrorInvalidValue)
		return
	}
	dc.st.lineWidth = w
}

// SetQuality selects the edge quality for subsequent fills and strokes.
func (dc *Context) SetQuality(q Quality) {
	if !dc.usable() {
		return
	}
	if !q.Valid() {
		dc.raise(ErrorInvalidValue)
		return
	}
	dc.st.quality = q
}

// SetFontFace sets the face used by DrawString. The face is read from the
// rasterizer's band goroutines, so it must be safe for concurrent use;
// basicfont faces are.
func (dc *Context) SetFontFace(f font.Face) {
	if !dc.usable() {
		return
	}
	if f == nil {
		dc.raise(ErrorInvalidFont)
		return
	}
	dc.st.face = f
}

// Push saves the current state (color, line width, transform, quality,
// face).
func (dc *Context) Push() {
	if !dc.usable() {
		return
	}
	dc.stack = append(dc.stack, dc.st)
}

// Pop restores the state saved by the matching Push.
func (dc *Context) Pop() {
	if !dc.usable() {
		return
	}
	if len(dc.stack) == 0 {
		dc.raise(ErrorInvalidState)
		return
	}
	dc.st = dc.stack[len(dc.stack)-1]
	dc.stack = dc.stack[:len(dc.stack)-1]
}

// Identity resets the transform.
func (dc *Context) Identity() {
	if dc.usable() {
		dc.st.matrix = Identity()
	}
}

// Translate moves the origin by (x, y).
func (dc *Context) Translate(x, y float64) { dc.transform(Translate(x, y)) }

// Scale scales subsequent drawing by (sx, sy).
func (dc *Context) Scale(sx, sy float64) { dc.transform(Scale(sx, sy)) }

// Rotate rotates subsequent drawing by angle radians.
func (dc *Context) Rotate(angle float64) { dc.transform(Rotate(angle)) }

func (dc *Context) transform(m Matrix) {
	if !dc.usable() {
		return
	}
	if !finite(m.A, m.B, m.C, m.D, m.E, m.F) {
		dc.raise(ErrorInvalidValue)
		return
	}
	dc.st.matrix = dc.st.matrix.Multiply(m)
}

// MoveTo starts a new subpath at (x, y).
func (dc *Context) MoveTo(x, y float64) {
	if !dc.usable() {
		return
	}
	if !finite(x, y) {
		dc.raise(ErrorInvalidGeometry)
		return
	}
	p := dc.st.matrix.Apply(x, y)
	dc.path = append(dc.path, segment{op: segMove, pts: [3]Point{p}})
	dc.start, dc.current, dc.hasCurrent = p, p, true
}

// LineTo adds a line to (x, y). Without a current point it acts as MoveTo.
func (dc *Context) LineTo(x, y float64) {
	if !dc.usable() {
		return
	}
	if !finite(x, y) {
		dc.raise(ErrorInvalidGeometry)
		return
	}
	if !dc.hasCurrent {
		dc.MoveTo(x, y)
		return
	}
	p := dc.st.matrix.Apply(x, y)
	dc.path = append(dc.path, segment{op: segLine, pts: [3]Point{p}})
	dc.current = p
}

// QuadraticTo adds a quadratic Bézier curve with control point (cx, cy).
func (dc *Context) QuadraticTo(cx, cy, x, y float64) {
	if !dc.usable() {
		return
	}
	if !finite(cx, cy, x, y) {
		dc.raise(ErrorInvalidGeometry)
		return
	}
	if !dc.hasCurrent {
		dc.MoveTo(cx, cy)
	}
	m := dc.st.matrix
	p := m.Apply(x, y)
	dc.path = append(dc.path, segment{op: segQuad, pts: [3]Point{m.Apply(cx, cy), p}})
	dc.current = p
}

// CubicTo adds a cubic Bézier curve with control points (c1x, c1y) and
// (c2x, c2y).
func (dc *Context) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !dc.usable() {
		return
	}
	if !finite(c1x, c1y, c2x, c2y, x, y) {
		dc.raise(ErrorInvalidGeometry)
		return
	}
	if !dc.hasCurrent {
		dc.MoveTo(c1x, c1y)
	}
	m := dc.st.matrix
	p := m.Apply(x, y)
	dc.path = append(dc.path, segment{op: segCube, pts: [3]Point{m.Apply(c1x, c1y), m.Apply(c2x, c2y), p}})
	dc.current = p
}

// ClosePath closes the current subpath.
func (dc *Context) ClosePath() {
	if !dc.usable() || !dc.hasCurrent {
		return
	}
	dc.path = append(dc.path, segment{op: segClose})
	dc.current = dc.start
}

// ClearPath discards the current path.
func (dc *Context) ClearPath() {
	if !dc.usable() {
		return
	}
	dc.path = dc.path[:0]
	dc.hasCurrent = false
}

// DrawRectangle adds a closed rectangle subpath.
func (dc *Context) DrawRectangle(x, y, w, h float64) {
	dc.MoveTo(x, y)
	dc.LineTo(x+w, y)
	dc.LineTo(x+w, y+h)
	dc.LineTo(x, y+h)
	dc.ClosePath()
}

// DrawEllipse adds a closed ellipse subpath centered on (x, y).
func (dc *Context) DrawEllipse(x, y, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	dc.MoveTo(x+rx, y)
	dc.CubicTo(x+rx, y+ky, x+kx, y+ry, x, y+ry)
	dc.CubicTo(x-kx, y+ry, x-rx, y+ky, x-rx, y)
	dc.CubicTo(x-rx, y-ky, x-kx, y-ry, x, y-ry)
	dc.CubicTo(x+kx, y-ry, x+rx, y-ky, x+rx, y)
	dc.ClosePath()
}

// DrawCircle adds a closed circle subpath.
func (dc *Context) DrawCircle(x, y, r float64) {
	dc.DrawEllipse(x, y, r, r)
}

// DrawLine adds an open line subpath; use Stroke to render it.
func (dc *Context) DrawLine(x1, y1, x2, y2 float64) {
	dc.MoveTo(x1, y1)
	dc.LineTo(x2, y2)
}

// Fill fills the current path with the current color and clears it.
func (dc *Context) Fill() {
	dc.FillPreserve()
	dc.ClearPath()
}

// FillPreserve fills the current path and keeps it.
func (dc *Context) FillPreserve() {
	if !dc.usable() || len(dc.path) == 0 {
		return
	}
	path := make([]segment, len(dc.path))
	copy(path, dc.path)
	dc.recordFill(path)
}

// Stroke strokes the current path with the current line width and clears
// it.
func (dc *Context) Stroke() {
	dc.StrokePreserve()
	dc.ClearPath()
}

// StrokePreserve strokes the current path and keeps it. Joins are round,
// caps are butt.
func (dc *Context) StrokePreserve() {
	if !dc.usable() || len(dc.path) == 0 {
		return
	}
	width := dc.st.lineWidth * dc.st.matrix.scaleFactor()
	if width <= 0 {
		return
	}
	if outline := strokeOutline(dc.path, width); len(outline) > 0 {
		dc.recordFill(outline)
	}
}

// FillRectangle fills an axis-aligned rectangle without touching the
// current path.
func (dc *Context) FillRectangle(x, y, w, h float64) {
	if !dc.usable() {
		return
	}
	if !finite(x, y, w, h) {
		dc.raise(ErrorInvalidGeometry)
		return
	}
	m := dc.st.matrix
	dc.recordFill([]segment{
		{op: segMove, pts: [3]Point{m.Apply(x, y)}},
		{op: segLine, pts: [3]Point{m.Apply(x+w, y)}},
		{op: segLine, pts: [3]Point{m.Apply(x+w, y+h)}},
		{op: segLine, pts: [3]Point{m.Apply(x, y+h)}},
		{op: segClose},
	})
}

func (dc *Context) recordFill(path []segment) {
	b := pathBounds(path)
	if b.Empty() || !b.Overlaps(image.Rect(0, 0, dc.width, dc.height)) {
		return
	}
	dc.record(command{
		kind:    cmdFill,
		color:   dc.st.color,
		aliased: dc.st.quality == QualityAliased,
		path:    path,
		bounds:  b,
	})
}

// DrawString draws s with its baseline origin at (x, y). Only the origin
// is transformed; glyphs keep the face's pixel size.
func (dc *Context) DrawString(s string, x, y float64) {
	if !dc.usable() || s == "" {
		return
	}
	if !finite(x, y) {
		dc.raise(ErrorInvalidGeometry)
		return
	}
	for _, r := range s {
		if r == utf8.RuneError || unicode.IsControl(r) {
			dc.raise(ErrorInvalidGlyph)
			break
		}
		if _, ok := dc.st.face.GlyphAdvance(r); !ok {
			dc.raise(ErrorInvalidGlyph)
			break
		}
	}
	dc.record(command{
		kind:  cmdText,
		color: dc.st.color,
		text:  s,
		face:  dc.st.face,
		dot:   dc.st.matrix.Apply(x, y),
	})
}

// pathBounds returns a conservative integer bounding box of the path,
// control points included.
func pathBounds(path []segment) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range path {
		n := 0
		switch s.op {
		case segMove, segLine:
			n = 1
		case segQuad:
			n = 2
		case segCube:
			n = 3
		}
		for _, p := range s.pts[:n] {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
