// Command ggthreaddemo drives a ggthread renderer from a simulated UI loop.
//
// Every UI tick it collects finished frames, opens a new session if the
// worker is free, draws an animated scene and hands it off. Selected frames
// are written to disk by the worker.
//
// Settings come from flags, optionally on top of a TOML file:
//
//	ggthreaddemo -config demo.toml -frames 300 -save-every 60
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/ggthread"
	"github.com/gogpu/ggthread/raster"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ggthreaddemo", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML settings file")
	var fl Config
	registerFlags(fs, &fl)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return err
		}
	}
	applyFlags(fs, &cfg, fl)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	ggthread.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	r, err := ggthread.New(cfg.Width, cfg.Height, cfg.Options()...)
	if err != nil {
		return err
	}
	defer r.Close()

	start := time.Now()
	loop(r, cfg)
	elapsed := time.Since(start)

	printSummary(out, cfg, r, elapsed)
	return nil
}

// loop simulates a UI thread: it never waits for the worker except once at
// the end to collect the last frame.
func loop(r *ggthread.Renderer, cfg Config) {
	tick := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer tick.Stop()

	for frame := uint64(1); frame <= uint64(cfg.Frames); frame++ {
		r.Update(false, true)

		if r.Begin() {
			w, h := r.Size()
			drawScene(r.Context(), w, h, frame)
			r.End(frame, savePath(cfg, frame))
		}

		<-tick.C
	}
	r.Update(true, true)
}

func savePath(cfg Config, frame uint64) string {
	if cfg.SaveEvery == 0 || frame%uint64(cfg.SaveEvery) != 0 {
		return ""
	}
	return filepath.Join(cfg.OutputDir, fmt.Sprintf("frame-%05d.png", frame))
}

func printSummary(out io.Writer, cfg Config, r *ggthread.Renderer, elapsed time.Duration) {
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	st := r.Stats()

	p.Fprintf(out, "UI frames:        %d in %v\n", cfg.Frames, elapsed.Round(time.Millisecond))
	p.Fprintf(out, "rendered frames:  %d\n", st.RenderedFrames)
	p.Fprintf(out, "skipped begins:   %d\n", st.SkippedBegins)
	p.Fprintf(out, "dropped frames:   %d\n", st.DroppedPayloads)
	p.Fprintf(out, "worker failures:  %d\n", st.WorkerFailures)
	p.Fprintf(out, "publish rate:     %.1f fps\n", st.FPS)
	p.Fprintf(out, "last sync:        %v\n", st.LastSync)
	p.Fprintf(out, "context errors:   %s\n", r.ContextErrors())
}

// drawScene renders one animation frame.
func drawScene(dc *raster.Context, w, h int, frame uint64) {
	t := float64(frame) / 60

	drawGradientBackground(dc, w, h)
	drawShapes(dc, t)
	drawSpinner(dc, float64(w)*0.75, float64(h)*0.25, t)
	drawWave(dc, float64(w), float64(h)*0.7, t)

	dc.SetRGB(1, 1, 1)
	dc.DrawString(fmt.Sprintf("frame %d", frame), 10, float64(h)-10)
}

func drawGradientBackground(dc *raster.Context, w, h int) {
	const steps = 64
	for i := range steps {
		t := float64(i) / steps
		dc.SetRGB(0.1+t*0.4, 0.2+t*0.3, 0.4+t*0.2)
		y := float64(h) * t
		dc.FillRectangle(0, y, float64(w), float64(h)/steps+1)
	}
}

func drawShapes(dc *raster.Context, t float64) {
	dx := 40 * math.Sin(t*2)

	dc.SetRGBA(1, 0.3, 0.3, 0.8)
	dc.DrawCircle(150+dx, 150, 60)
	dc.Fill()

	dc.SetRGBA(0.3, 1, 0.3, 0.8)
	dc.DrawCircle(200, 150+dx, 60)
	dc.Fill()

	dc.SetRGBA(0.3, 0.3, 1, 0.8)
	dc.DrawCircle(175-dx, 200, 60)
	dc.Fill()

	dc.SetRGB(1, 0.8, 0)
	dc.DrawRectangle(350, 100, 120, 80)
	dc.FillPreserve()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(4)
	dc.Stroke()
}

func drawSpinner(dc *raster.Context, cx, cy, t float64) {
	for i := range 8 {
		angle := float64(i)*math.Pi/4 + t
		dc.Push()
		dc.Translate(cx, cy)
		dc.Rotate(angle)
		r, g, b := hsl(float64(i)*45, 0.8, 0.6)
		dc.SetRGB(r, g, b)
		dc.DrawRectangle(40, -15, 30, 30)
		dc.Fill()
		dc.Pop()
	}
}

func drawWave(dc *raster.Context, w, y, t float64) {
	dc.SetRGB(1, 0.5, 0)
	dc.SetLineWidth(6)
	dc.MoveTo(0, y)
	for x := 0.0; x <= w; x += 50 {
		phase := x/80 + t*3
		dc.QuadraticTo(x+25, y+40*math.Sin(phase), x+50, y)
	}
	dc.Stroke()
}

// hsl converts hue in degrees, saturation and lightness in [0, 1] to RGB.
func hsl(h, s, l float64) (r, g, b float64) {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return r + m, g + m, b + m
}
