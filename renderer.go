package ggthread

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/ggthread/codec"
	"github.com/gogpu/ggthread/internal/channel"
	"github.com/gogpu/ggthread/internal/parallel"
	"github.com/gogpu/ggthread/raster"
)

// State is the session state of a Renderer.
type State uint8

const (
	// StateIdle means no session is open and no output is waiting.
	StateIdle State = iota

	// StateSubmitting means a session is open between Begin and End.
	StateSubmitting

	// StatePending means at least one ended session has not been consumed
	// by Update.
	StatePending
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSubmitting:
		return "Submitting"
	case StatePending:
		return "Pending"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// maxSpare bounds the recycled canvases kept beyond the in-flight limit.
const maxSpare = 2

// Renderer drives drawing sessions through a background worker.
//
// The caller draws into the context returned by Begin, hands it off with
// End, and picks up finished frames with Update. Rasterization and
// encoding run on the worker goroutine; the caller never waits for them
// unless it asks to.
//
// All methods must be called from one goroutine. Textures returned by
// Texture are immutable and may be shared freely.
type Renderer struct {
	cfg config

	width  int
	height int
	format PixelFormat

	state   State
	pending int
	canvas  *raster.Canvas
	ctx     *raster.Context
	spare   []*raster.Canvas

	submit  *channel.Chan[workItem]
	results *channel.Chan[result]
	pool    *parallel.Pool
	wg      sync.WaitGroup

	texture    *Texture
	generation uint64
	rendered   uint64
	flags      raster.ErrorFlags
	stats      statsRecorder
	closed     bool
}

// New creates a renderer for width x height canvases and starts its worker.
func New(width, height int, opts ...Option) (*Renderer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if !cfg.quality.Valid() {
		Logger().Warn("ggthread: unknown quality, using antialias", "quality", cfg.quality.String())
		cfg.quality = raster.QualityAntialias
	}

	r := &Renderer{
		cfg:     cfg,
		submit:  channel.New[workItem](cfg.maxInFlight),
		results: channel.New[result](cfg.maxInFlight),
		stats:   statsRecorder{enabled: cfg.instrument},
	}
	r.allocate(width, height, resolveFormat(cfg.format, FormatDefault))

	w := &worker{
		submit:  r.submit,
		results: r.results,
		codec:   cfg.codec,
	}
	if cfg.threads > 1 {
		r.pool = parallel.NewPool(cfg.threads)
		w.runner = r.pool
	}
	r.wg.Add(1)
	go w.run(&r.wg)

	Logger().Info("ggthread: renderer started",
		"width", width,
		"height", height,
		"format", r.format.String(),
		"threads", cfg.threads,
		"codec", cfg.codec.Name(),
		"maxInFlight", cfg.maxInFlight,
	)
	return r, nil
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > raster.MaxSize || height > raster.MaxSize {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// Begin opens a drawing session. It returns false without changing state
// while the in-flight limit is reached (the previous output has not been
// consumed yet), after Close, or if no canvas could be created; the caller
// may simply try again on its next frame.
//
// Calling Begin while a session is open is a programming error and panics.
func (r *Renderer) Begin() bool {
	if r.state == StateSubmitting {
		contractViolation("Begin", "a session is already open")
	}
	if r.closed {
		Logger().Error("ggthread: Begin failed", "err", ErrClosed)
		return false
	}
	if r.pending >= r.cfg.maxInFlight {
		r.stats.skipped++
		Logger().Debug("ggthread: skipping frame", "pending", r.pending)
		return false
	}

	c, err := r.acquireCanvas()
	if err != nil {
		Logger().Error("ggthread: cannot create canvas", "err", err)
		return false
	}

	ctx := raster.NewContext(c)
	ctx.SetQuality(r.cfg.quality)
	ctx.Clear()
	if r.cfg.background != nil {
		ctx.FillAll(r.cfg.background)
	}

	r.canvas, r.ctx = c, ctx
	r.state = StateSubmitting
	return true
}

// Context returns the drawing context of the open session. It panics when
// no session is open.
func (r *Renderer) Context() *raster.Context {
	if r.state != StateSubmitting {
		contractViolation("Context", "no open session")
	}
	return r.ctx
}

// End closes the session and hands it to the worker. If savePath is not
// empty the worker also writes the frame there, choosing the file format
// from the extension. End never blocks. It returns false if the frame could
// not be handed off because the renderer was closed.
//
// The context returned by Context is sealed: drawing on it afterwards has
// no effect. Calling End with no open session panics.
func (r *Renderer) End(frame uint64, savePath string) bool {
	if r.state != StateSubmitting {
		contractViolation("End", "no open session")
	}

	item := workItem{
		canvas:   r.canvas,
		list:     r.ctx.Finish(),
		frame:    frame,
		savePath: savePath,
	}
	r.canvas, r.ctx = nil, nil

	if !r.submit.Send(item) {
		Logger().Error("ggthread: dropping frame", "frame", frame, "err", ErrClosed)
		r.recycle(item.canvas)
		r.settle()
		return false
	}
	r.pending++
	r.state = StatePending
	Logger().Debug("ggthread: frame submitted", "frame", frame, "pending", r.pending)
	return true
}

// Update consumes finished frames and publishes the newest one as the
// current texture. It returns true when a new texture was published.
//
// With dropOlderFrames false at most one frame is consumed: Update blocks
// for it if waitForWorker is set, otherwise it only polls. With
// dropOlderFrames true every available frame is consumed and only the
// newest is published; with waitForWorker it first waits for every pending
// session, so the last submitted frame wins.
//
// Frames the worker failed to produce are logged and count as consumed.
// Update returns false immediately when nothing is pending, so calling it
// every frame is cheap. Calling Update with an open session panics.
func (r *Renderer) Update(waitForWorker, dropOlderFrames bool) bool {
	if r.state == StateSubmitting {
		contractViolation("Update", "a session is open")
	}
	if r.pending == 0 {
		return false
	}

	var newest *codec.Payload
	take := func(res result, ok bool) bool {
		if !ok {
			return false
		}
		r.pending--
		r.recycle(res.canvas)
		p := res.payload
		r.flags = p.Flags
		if p.Failed() {
			r.stats.failures++
			Logger().Warn("ggthread: frame not delivered", "frame", p.Frame, "err", p.Err)
			return true
		}
		if newest != nil {
			r.stats.dropped++
			Logger().Debug("ggthread: dropping older frame", "frame", newest.Frame)
		}
		newest = p
		return true
	}

	switch {
	case !dropOlderFrames && waitForWorker:
		take(r.results.Receive())
	case !dropOlderFrames:
		take(r.results.TryReceive(0))
	case waitForWorker:
		for r.pending > 0 && take(r.results.Receive()) {
		}
	default:
		for r.pending > 0 && take(r.results.TryReceive(0)) {
		}
	}

	if r.closed && r.results.Len() == 0 && r.submit.Len() == 0 {
		// The worker has exited; nothing else can arrive.
		r.pending = 0
	}
	r.settle()

	if newest == nil {
		return false
	}
	return r.publish(newest)
}

// publish decodes p and makes it the current texture.
func (r *Renderer) publish(p *codec.Payload) bool {
	start := time.Now()

	px, err := r.cfg.codec.Decode(p)
	if err != nil {
		r.stats.failures++
		Logger().Warn("ggthread: decode failed", "frame", p.Frame, "codec", p.Codec, "err", err)
		return false
	}
	if px.Width != r.width || px.Height != r.height || pixelFormatOf(px.Format) != r.format {
		Logger().Warn("ggthread: frame does not match canvas, publishing at its own size",
			"frame", p.Frame,
			"frameSize", fmt.Sprintf("%dx%d %s", px.Width, px.Height, px.Format),
			"canvasSize", fmt.Sprintf("%dx%d %s", r.width, r.height, r.format),
		)
	}
	if p.Flags != 0 {
		Logger().Warn("ggthread: drawing context errors", "frame", p.Frame, "flags", p.Flags.String())
	}

	r.generation++
	tex := newTexture(px, p.Frame, r.generation)
	r.texture = tex
	r.rendered++

	if u := r.cfg.uploader; u != nil {
		if err := u.UpdateData(tex.Packed()); err != nil {
			Logger().Warn("ggthread: texture upload failed", "frame", p.Frame, "err", err)
		}
	}

	now := time.Now()
	r.stats.published(now, now.Sub(start))
	return true
}

// HasNewFrame reports whether Update would find a finished frame without
// blocking.
func (r *Renderer) HasNewFrame() bool {
	return r.pending > 0 && r.results.Len() > 0
}

// Texture returns the current texture. Before the first frame is published
// it is a transparent texture of the configured size.
func (r *Renderer) Texture() *Texture {
	return r.texture
}

// Allocate changes the canvas size and format for subsequent sessions and
// resets the current texture to a transparent one of the new shape.
// FormatDefault keeps the current format; an unsupported format falls back
// to FormatRGBA with a warning. Frames already submitted are still
// published, at their own size. Allocate returns ErrClosed after Close.
//
// Calling Allocate with an open session panics.
func (r *Renderer) Allocate(width, height int, format PixelFormat) error {
	if r.state == StateSubmitting {
		contractViolation("Allocate", "a session is open")
	}
	if r.closed {
		return ErrClosed
	}
	if err := checkDimensions(width, height); err != nil {
		return err
	}
	r.allocate(width, height, resolveFormat(format, r.format))
	return nil
}

func (r *Renderer) allocate(width, height int, format PixelFormat) {
	r.width, r.height, r.format = width, height, format
	r.spare = r.spare[:0]
	r.generation++
	r.texture = blankTexture(width, height, format, r.generation)
	Logger().Debug("ggthread: canvas allocated", "width", width, "height", height, "format", format.String())
}

func (r *Renderer) acquireCanvas() (*raster.Canvas, error) {
	if n := len(r.spare); n > 0 {
		c := r.spare[n-1]
		r.spare = r.spare[:n-1]
		return c, nil
	}
	return raster.NewCanvas(r.width, r.height, r.format.Raster())
}

// recycle keeps c for a later session if it still has the configured shape.
func (r *Renderer) recycle(c *raster.Canvas) {
	if c == nil || !c.Matches(r.width, r.height, r.format.Raster()) {
		return
	}
	if len(r.spare) < maxSpare {
		r.spare = append(r.spare, c)
	}
}

// settle derives the resting state from the in-flight count.
func (r *Renderer) settle() {
	if r.pending > 0 {
		r.state = StatePending
	} else {
		r.state = StateIdle
	}
}

// Size returns the configured canvas size.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Format returns the configured pixel format.
func (r *Renderer) Format() PixelFormat { return r.format }

// State returns the session state.
func (r *Renderer) State() State { return r.state }

// Pending returns the number of ended sessions not yet consumed.
func (r *Renderer) Pending() int { return r.pending }

// RenderedFrames returns the number of published frames.
func (r *Renderer) RenderedFrames() uint64 { return r.rendered }

// Stats returns a snapshot of the renderer counters.
func (r *Renderer) Stats() Stats { return r.stats.snapshot(r.rendered) }

// ErrorFlags returns the drawing context errors of the last consumed frame.
func (r *Renderer) ErrorFlags() raster.ErrorFlags { return r.flags }

// ContextErrors formats ErrorFlags, for example
// "Context_Error_Flags=1 (INVALID_VALUE)".
func (r *Renderer) ContextErrors() string { return r.flags.String() }

// Close stops the worker after it finishes the sessions already handed to
// it and releases the rasterizer goroutines. Frames finished before Close
// can still be collected with Update. An open session is discarded.
// Close is idempotent and always returns nil.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	if r.state == StateSubmitting {
		Logger().Warn("ggthread: closing with an open session, discarding it")
		r.ctx.Finish()
		r.canvas, r.ctx = nil, nil
		r.settle()
	}

	r.submit.Close()
	r.wg.Wait()
	r.results.Close()
	if r.pool != nil {
		r.pool.Close()
	}

	Logger().Info("ggthread: renderer closed", "rendered", r.rendered, "pending", r.pending)
	return nil
}
