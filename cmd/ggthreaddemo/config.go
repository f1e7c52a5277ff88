package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ggthread"
	"github.com/gogpu/ggthread/codec"
	"github.com/gogpu/ggthread/raster"
)

// Config holds the demo settings. It can be read from a TOML file; command
// line flags override the file.
type Config struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Format      string `toml:"format"`
	Threads     int    `toml:"threads"`
	Codec       string `toml:"codec"`
	MaxInFlight int    `toml:"max_in_flight"`
	Aliased     bool   `toml:"aliased"`

	Frames    int    `toml:"frames"`
	FPS       int    `toml:"fps"`
	SaveEvery int    `toml:"save_every"`
	OutputDir string `toml:"output_dir"`

	Verbose  bool   `toml:"verbose"`
	Language string `toml:"language"`
}

// DefaultConfig returns the settings used when neither a file nor flags
// say otherwise.
func DefaultConfig() Config {
	return Config{
		Width:       800,
		Height:      600,
		Format:      "rgba",
		Threads:     4,
		Codec:       "raw",
		MaxInFlight: 1,
		Frames:      120,
		FPS:         60,
		OutputDir:   ".",
		Language:    "en",
	}
}

// LoadConfig reads path on top of the defaults. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// registerFlags binds flags to fl, using DefaultConfig for defaults.
func registerFlags(fs *flag.FlagSet, fl *Config) {
	d := DefaultConfig()
	fs.IntVar(&fl.Width, "width", d.Width, "canvas width")
	fs.IntVar(&fl.Height, "height", d.Height, "canvas height")
	fs.StringVar(&fl.Format, "format", d.Format, "pixel format: rgb, rgba or alpha")
	fs.IntVar(&fl.Threads, "threads", d.Threads, "rasterizer goroutines")
	fs.StringVar(&fl.Codec, "codec", d.Codec, "frame codec: raw or bmp")
	fs.IntVar(&fl.MaxInFlight, "max-in-flight", d.MaxInFlight, "frames allowed in flight")
	fs.BoolVar(&fl.Aliased, "aliased", d.Aliased, "disable antialiasing")
	fs.IntVar(&fl.Frames, "frames", d.Frames, "number of UI frames to simulate")
	fs.IntVar(&fl.FPS, "fps", d.FPS, "UI frame rate")
	fs.IntVar(&fl.SaveEvery, "save-every", d.SaveEvery, "save every Nth frame (0 disables)")
	fs.StringVar(&fl.OutputDir, "output", d.OutputDir, "directory for saved frames")
	fs.BoolVar(&fl.Verbose, "v", d.Verbose, "debug logging")
	fs.StringVar(&fl.Language, "lang", d.Language, "language tag for the summary")
}

// applyFlags copies the flags that were set explicitly from fl into cfg.
func applyFlags(fs *flag.FlagSet, cfg *Config, fl Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = fl.Width
		case "height":
			cfg.Height = fl.Height
		case "format":
			cfg.Format = fl.Format
		case "threads":
			cfg.Threads = fl.Threads
		case "codec":
			cfg.Codec = fl.Codec
		case "max-in-flight":
			cfg.MaxInFlight = fl.MaxInFlight
		case "aliased":
			cfg.Aliased = fl.Aliased
		case "frames":
			cfg.Frames = fl.Frames
		case "fps":
			cfg.FPS = fl.FPS
		case "save-every":
			cfg.SaveEvery = fl.SaveEvery
		case "output":
			cfg.OutputDir = fl.OutputDir
		case "v":
			cfg.Verbose = fl.Verbose
		case "lang":
			cfg.Language = fl.Language
		}
	})
}

// Validate checks settings the renderer would otherwise reject or
// silently adjust.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", c.Width, c.Height))
	}
	if _, ok := ggthread.ParsePixelFormat(c.Format); !ok {
		errs = append(errs, fmt.Errorf("unknown format %q", c.Format))
	}
	if _, err := codec.Lookup(c.Codec); err != nil {
		errs = append(errs, err)
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("negative frame count %d", c.Frames))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.SaveEvery < 0 {
		errs = append(errs, fmt.Errorf("negative save interval %d", c.SaveEvery))
	}
	return errors.Join(errs...)
}

// Options converts the settings to renderer options. Call Validate first.
func (c Config) Options() []ggthread.Option {
	format, _ := ggthread.ParsePixelFormat(c.Format)
	cd, err := codec.Lookup(c.Codec)
	if err != nil {
		cd = codec.Raw{}
	}
	quality := raster.QualityAntialias
	if c.Aliased {
		quality = raster.QualityAliased
	}
	return []ggthread.Option{
		ggthread.WithFormat(format),
		ggthread.WithThreads(c.Threads),
		ggthread.WithCodec(cd),
		ggthread.WithMaxInFlight(c.MaxInFlight),
		ggthread.WithQuality(quality),
		ggthread.WithInstrumentation(true),
	}
}
