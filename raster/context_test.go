package raster

import (
	"image/color"
	"math"
	"testing"
)

func newTestContext(t *testing.T, w, h int, f Format) (*Canvas, *Context) {
	t.Helper()
	c, err := NewCanvas(w, h, f)
	if err != nil {
		t.Fatalf("NewCanvas(%d, %d, %s) error = %v", w, h, f, err)
	}
	return c, NewContext(c)
}

func TestContext_ErrorFlags(t *testing.T) {
	tests := []struct {
		name string
		draw func(dc *Context)
		want ErrorFlags
	}{
		{"clean", func(dc *Context) { dc.FillRectangle(0, 0, 4, 4) }, 0},
		{"negative line width", func(dc *Context) { dc.SetLineWidth(-1) }, ErrorInvalidValue},
		{"nan color", func(dc *Context) { dc.SetRGBA(math.NaN(), 0, 0, 1) }, ErrorInvalidValue},
		{"nil color", func(dc *Context) { dc.SetColor(nil) }, ErrorInvalidValue},
		{"bad quality", func(dc *Context) { dc.SetQuality(Quality(9)) }, ErrorInvalidValue},
		{"infinite scale", func(dc *Context) { dc.Scale(math.Inf(1), 1) }, ErrorInvalidValue},
		{"nan move", func(dc *Context) { dc.MoveTo(math.NaN(), 0) }, ErrorInvalidGeometry},
		{"inf rect", func(dc *Context) { dc.FillRectangle(0, 0, math.Inf(1), 1) }, ErrorInvalidGeometry},
		{"pop empty", func(dc *Context) { dc.Pop() }, ErrorInvalidState},
		{"nil face", func(dc *Context) { dc.SetFontFace(nil) }, ErrorInvalidFont},
		{"invalid utf8", func(dc *Context) { dc.DrawString("a\xffb", 1, 10) }, ErrorInvalidGlyph},
		{"control rune", func(dc *Context) { dc.DrawString("a\tb", 1, 10) }, ErrorInvalidGlyph},
		{
			"accumulates",
			func(dc *Context) {
				dc.SetLineWidth(-1)
				dc.LineTo(math.Inf(-1), 0)
			},
			ErrorInvalidValue | ErrorInvalidGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, dc := newTestContext(t, 16, 16, FormatPRGB32)
			tt.draw(dc)
			if got := dc.ErrorFlags(); got != tt.want {
				t.Errorf("ErrorFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContext_Finish(t *testing.T) {
	_, dc := newTestContext(t, 16, 8, FormatA8)
	dc.Clear()
	dc.FillRectangle(1, 1, 2, 2)
	dc.SetLineWidth(-1)

	list := dc.Finish()
	if list == nil {
		t.Fatal("Finish() = nil")
	}
	if list.Len() != 2 {
		t.Errorf("Len() = %d, want 2", list.Len())
	}
	if w, h := list.Size(); w != 16 || h != 8 {
		t.Errorf("Size() = %dx%d, want 16x8", w, h)
	}
	if list.Flags() != ErrorInvalidValue {
		t.Errorf("Flags() = %v, want INVALID_VALUE", list.Flags())
	}
	if !dc.Finished() {
		t.Error("Finished() = false after Finish")
	}

	// A sealed context ignores drawing and flags the misuse.
	dc.FillRectangle(0, 0, 16, 8)
	if list.Len() != 2 {
		t.Errorf("list grew to %d commands after Finish", list.Len())
	}
	if !dc.ErrorFlags().Has(ErrorInvalidState) {
		t.Errorf("ErrorFlags() = %v, want INVALID_STATE set", dc.ErrorFlags())
	}
	if again := dc.Finish(); again != nil {
		t.Error("second Finish() returned a list")
	}
}

func TestContext_OffCanvasFillIsCulled(t *testing.T) {
	_, dc := newTestContext(t, 16, 16, FormatPRGB32)
	dc.FillRectangle(100, 100, 10, 10)
	dc.FillRectangle(-50, -50, 10, 10)
	if n := dc.Finish().Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestContext_PushPop(t *testing.T) {
	_, dc := newTestContext(t, 16, 16, FormatPRGB32)
	dc.SetColor(color.RGBA{R: 0xff, A: 0xff})
	dc.Push()
	dc.SetColor(color.RGBA{B: 0xff, A: 0xff})
	dc.Translate(5, 5)
	dc.Pop()

	if dc.st.color != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("color after Pop = %v, want red", dc.st.color)
	}
	if dc.st.matrix != Identity() {
		t.Errorf("matrix after Pop = %+v, want identity", dc.st.matrix)
	}
	if dc.ErrorFlags() != 0 {
		t.Errorf("ErrorFlags() = %v, want 0", dc.ErrorFlags())
	}
}

func TestErrorFlags_String(t *testing.T) {
	tests := []struct {
		flags ErrorFlags
		want  string
	}{
		{0, "Context_Error_Flags=0 ()"},
		{ErrorInvalidValue, "Context_Error_Flags=1 (INVALID_VALUE)"},
		{ErrorInvalidValue | ErrorInvalidGeometry, "Context_Error_Flags=5 (INVALID_VALUE, INVALID_GEOMETRY)"},
		{ErrorThreadPoolExhausted, "Context_Error_Flags=32 (THREAD_POOL_EXHAUSTED)"},
	}

	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("ErrorFlags(%d).String() = %q, want %q", uint32(tt.flags), got, tt.want)
		}
	}
}

func TestMatrix(t *testing.T) {
	m := Translate(10, 20).Multiply(Scale(2, 3))
	if got := m.Apply(1, 1); got != (Point{12, 23}) {
		t.Errorf("Apply(1, 1) = %v, want {12 23}", got)
	}

	r := Rotate(math.Pi / 2).Apply(1, 0)
	if math.Abs(r.X) > 1e-9 || math.Abs(r.Y-1) > 1e-9 {
		t.Errorf("Rotate(pi/2).Apply(1, 0) = %v, want {0 1}", r)
	}

	if got := Scale(2, 8).scaleFactor(); got != 4 {
		t.Errorf("scaleFactor() = %v, want 4", got)
	}
}
