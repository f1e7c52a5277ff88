package codec

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/ggthread/raster"
)

// patternCanvas fills the visible bytes of every row with a deterministic
// pattern, leaving padding zero. XRGB32 pixels get opaque alpha.
func patternCanvas(t *testing.T, w, h int, f raster.Format) *raster.Canvas {
	t.Helper()
	c, err := raster.NewCanvas(w, h, f)
	if err != nil {
		t.Fatalf("NewCanvas() error = %v", err)
	}
	for y := range h {
		row := c.Row(y)
		for i := range row {
			row[i] = byte(y*31 + i*7)
		}
		if f == raster.FormatXRGB32 {
			for i := 3; i < len(row); i += 4 {
				row[i] = 0xff
			}
		}
	}
	return c
}

func TestRaw_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		format raster.Format
	}{
		{"xrgb", 7, 5, raster.FormatXRGB32},
		{"prgb", 4, 4, raster.FormatPRGB32},
		{"a8 padded", 5, 3, raster.FormatA8},
		{"a8 single", 1, 1, raster.FormatA8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := patternCanvas(t, tt.w, tt.h, tt.format)
			p, err := Raw{}.Encode(c, 42)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if p.Frame != 42 || p.Codec != "raw" || p.Stride != c.Stride() {
				t.Errorf("payload header = frame %d codec %q stride %d", p.Frame, p.Codec, p.Stride)
			}

			// The payload must not alias the canvas.
			c.Pix()[0] ^= 0xff
			if p.Data[0] == c.Pix()[0] {
				t.Error("payload shares memory with the canvas")
			}
			c.Pix()[0] ^= 0xff

			px, err := Raw{}.Decode(p)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if px.Width != tt.w || px.Height != tt.h || px.Format != tt.format {
				t.Errorf("Decode() shape = %dx%d %s", px.Width, px.Height, px.Format)
			}
			if diff := cmp.Diff(c.Pix(), px.Pix); diff != "" {
				t.Errorf("round trip mismatch (-canvas +decoded):\n%s", diff)
			}
		})
	}
}

func TestRaw_DecodeErrors(t *testing.T) {
	c := patternCanvas(t, 4, 4, raster.FormatPRGB32)
	good, err := Raw{}.Encode(c, 1)
	if err != nil {
		t.Fatal(err)
	}

	short := *good
	short.Data = short.Data[:len(short.Data)-1]

	badFormat := *good
	badFormat.Format = raster.FormatNone

	badStride := *good
	badStride.Stride = 3

	tests := []struct {
		name    string
		p       *Payload
		wantErr error
	}{
		{"short", &short, ErrShortPayload},
		{"format", &badFormat, ErrUnsupportedFormat},
		{"stride", &badStride, ErrCorruptPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (Raw{}).Decode(tt.p); !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBMP_OpaqueRoundTrip(t *testing.T) {
	c := patternCanvas(t, 9, 6, raster.FormatXRGB32)
	p, err := BMP{}.Encode(c, 3)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if p.Codec != "bmp" || len(p.Data) < 2 || string(p.Data[:2]) != "BM" {
		t.Fatalf("payload is not a bitmap stream: codec %q", p.Codec)
	}

	px, err := BMP{}.Decode(p)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(c.Pix(), px.Pix); diff != "" {
		t.Errorf("round trip mismatch (-canvas +decoded):\n%s", diff)
	}
}

func TestBMP_DecodeKeepsDeclaredShape(t *testing.T) {
	for _, f := range []raster.Format{raster.FormatPRGB32, raster.FormatA8} {
		t.Run(f.String(), func(t *testing.T) {
			c := patternCanvas(t, 6, 4, f)
			p, err := BMP{}.Encode(c, 0)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			px, err := BMP{}.Decode(p)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if px.Format != f || px.Width != 6 || px.Height != 4 {
				t.Errorf("Decode() = %dx%d %s, want 6x4 %s", px.Width, px.Height, px.Format, f)
			}
			if px.Stride != raster.StrideFor(6, f) || len(px.Pix) != px.Stride*4 {
				t.Errorf("Decode() stride %d, len %d", px.Stride, len(px.Pix))
			}
		})
	}
}

func TestBMP_DecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		p       *Payload
		wantErr error
	}{
		{"empty", &Payload{Width: 1, Height: 1, Format: raster.FormatXRGB32}, ErrShortPayload},
		{"garbage", &Payload{Width: 1, Height: 1, Format: raster.FormatXRGB32, Data: []byte("nope")}, ErrCorruptPayload},
		{"format", &Payload{Width: 1, Height: 1, Data: []byte("BM")}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (BMP{}).Decode(tt.p); !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	c := patternCanvas(t, 4, 4, raster.FormatXRGB32)
	p, err := BMP{}.Encode(c, 0)
	if err != nil {
		t.Fatal(err)
	}
	p.Width = 8
	if _, err := (BMP{}).Decode(p); !errors.Is(err, ErrCorruptPayload) {
		t.Errorf("Decode() with wrong width error = %v, want ErrCorruptPayload", err)
	}
}

func TestEncode_NilCanvas(t *testing.T) {
	for _, c := range []Codec{Raw{}, BMP{}} {
		if _, err := c.Encode(nil, 0); !errors.Is(err, raster.ErrNilCanvas) {
			t.Errorf("%s.Encode(nil) error = %v, want ErrNilCanvas", c.Name(), err)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"raw", "raw", false},
		{"BMP", "bmp", false},
		{"", "raw", false},
		{"png", "", true},
	}
	for _, tt := range tests {
		c, err := Lookup(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownCodec) {
				t.Errorf("Lookup(%q) error = %v, want ErrUnknownCodec", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Lookup(%q) error = %v", tt.name, err)
			continue
		}
		if c.Name() != tt.want {
			t.Errorf("Lookup(%q).Name() = %q, want %q", tt.name, c.Name(), tt.want)
		}
	}

	if diff := cmp.Diff([]string{"bmp", "raw"}, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := []struct {
		ext     string
		want    FileFormat
		wantErr bool
	}{
		{".png", FilePNG, false},
		{"PNG", FilePNG, false},
		{".bmp", FileBMP, false},
		{".tif", FileTIFF, false},
		{".tiff", FileTIFF, false},
		{".jpg", FileJPEG, false},
		{".jpeg", FileJPEG, false},
		{".gif", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := FormatFromExt(tt.ext)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownExtension) {
				t.Errorf("FormatFromExt(%q) error = %v, want ErrUnknownExtension", tt.ext, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("FormatFromExt(%q) = %v, %v; want %v", tt.ext, got, err, tt.want)
		}
	}
}

func TestSave(t *testing.T) {
	c := patternCanvas(t, 8, 6, raster.FormatXRGB32)
	dir := t.TempDir()

	for _, name := range []string{"frame.png", "frame.bmp", "frame.tiff", "frame.jpg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(c.Image(), path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("Stat() error = %v", err)
			}
			if info.Size() == 0 {
				t.Error("Save() wrote an empty file")
			}
		})
	}

	f, err := os.Open(filepath.Join(dir, "frame.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Errorf("saved bounds = %v, want 8x6", img.Bounds())
	}

	if err := Save(c.Image(), filepath.Join(dir, "frame.gif")); !errors.Is(err, ErrUnknownExtension) {
		t.Errorf("Save(.gif) error = %v, want ErrUnknownExtension", err)
	}
}
