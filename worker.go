package ggthread

import (
	"fmt"
	"sync"

	"github.com/gogpu/ggthread/codec"
	"github.com/gogpu/ggthread/internal/channel"
	"github.com/gogpu/ggthread/raster"
)

// workItem is one finished session travelling to the worker. The worker
// owns canvas and list from the moment the item is sent.
type workItem struct {
	canvas   *raster.Canvas
	list     *raster.DisplayList
	frame    uint64
	savePath string
}

// result carries the encoded frame back, together with the canvas so the
// caller can reuse it.
type result struct {
	payload *codec.Payload
	canvas  *raster.Canvas
}

// worker rasterizes and encodes sessions. It touches nothing the caller
// goroutine uses; everything it needs arrives through submit.
type worker struct {
	submit  *channel.Chan[workItem]
	results *channel.Chan[result]
	codec   codec.Codec
	runner  raster.Runner
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		item, ok := w.submit.Receive()
		if !ok {
			return
		}
		res := w.process(item)
		if !w.results.Send(res) {
			Logger().Error("ggthread: result channel closed, dropping frame", "frame", item.frame)
			return
		}
		Logger().Debug("ggthread: frame ready", "frame", item.frame, "failed", res.payload.Failed())
	}
}

// process handles one session. It always returns a payload: failures are
// reported inside it so the caller's in-flight count always drops.
func (w *worker) process(item workItem) (res result) {
	res.canvas = item.canvas
	var flags raster.ErrorFlags
	if item.list != nil {
		flags = item.list.Flags()
	}

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("%w: %v", ErrWorkerPanic, p)
			Logger().Error("ggthread: frame failed", "frame", item.frame, "err", err)
			res.payload = w.failed(item, flags|raster.ErrorUnknown, err)
		}
	}()

	flags, err := raster.Rasterize(item.canvas, item.list, w.runner)
	if err != nil {
		Logger().Error("ggthread: rasterize failed", "frame", item.frame, "err", err)
		return result{canvas: item.canvas, payload: w.failed(item, flags, err)}
	}

	p, err := w.codec.Encode(item.canvas, item.frame)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrEncode, w.codec.Name(), err)
		Logger().Error("ggthread: encode failed", "frame", item.frame, "err", err)
		return result{canvas: item.canvas, payload: w.failed(item, flags, err)}
	}
	p.Flags = flags

	if item.savePath != "" {
		if err := codec.Save(item.canvas.Image(), item.savePath); err != nil {
			Logger().Warn("ggthread: save failed", "frame", item.frame, "path", item.savePath, "err", err)
		} else {
			Logger().Debug("ggthread: frame saved", "frame", item.frame, "path", item.savePath)
		}
	}

	return result{canvas: item.canvas, payload: p}
}

func (w *worker) failed(item workItem, flags raster.ErrorFlags, err error) *codec.Payload {
	p := &codec.Payload{
		Frame: item.frame,
		Codec: w.codec.Name(),
		Flags: flags,
		Err:   err,
	}
	if c := item.canvas; c != nil {
		p.Width, p.Height, p.Stride, p.Format = c.Width(), c.Height(), c.Stride(), c.Format()
	}
	return p
}
