package ggthread

import (
	"testing"
	"time"
)

func TestStatsRecorder_Disabled(t *testing.T) {
	var s statsRecorder
	s.published(time.Now(), time.Millisecond)
	s.published(time.Now().Add(time.Second), time.Millisecond)

	st := s.snapshot(2)
	if st.RenderedFrames != 2 {
		t.Errorf("RenderedFrames = %d, want 2", st.RenderedFrames)
	}
	if st.FPSHistory != nil || st.LastSync != 0 {
		t.Errorf("disabled recorder kept timings: %+v", st)
	}
}

func TestStatsRecorder_History(t *testing.T) {
	s := statsRecorder{enabled: true}
	start := time.Unix(1000, 0)

	// First publication only sets the reference time.
	s.published(start, 3*time.Millisecond)
	if st := s.snapshot(1); len(st.FPSHistory) != 0 || st.LastSync != 3*time.Millisecond {
		t.Fatalf("after one publication: %+v", st)
	}

	// 10 fps then 20 fps.
	s.published(start.Add(100*time.Millisecond), time.Millisecond)
	s.published(start.Add(150*time.Millisecond), time.Millisecond)
	st := s.snapshot(3)
	if len(st.FPSHistory) != 2 {
		t.Fatalf("len(FPSHistory) = %d, want 2", len(st.FPSHistory))
	}
	if !approx(st.FPSHistory[0], 10) || !approx(st.FPSHistory[1], 20) {
		t.Errorf("FPSHistory = %v, want [10 20]", st.FPSHistory)
	}
	if !approx(st.FPS, 15) {
		t.Errorf("FPS = %v, want 15", st.FPS)
	}
}

func TestStatsRecorder_HistoryWraps(t *testing.T) {
	s := statsRecorder{enabled: true}
	now := time.Unix(0, 0)
	s.published(now, 0)
	for i := range fpsHistoryLen + 10 {
		// Period grows so the newest sample is the slowest.
		now = now.Add(time.Duration(i+1) * time.Millisecond)
		s.published(now, 0)
	}

	st := s.snapshot(0)
	if len(st.FPSHistory) != fpsHistoryLen {
		t.Fatalf("len(FPSHistory) = %d, want %d", len(st.FPSHistory), fpsHistoryLen)
	}
	for i := 1; i < len(st.FPSHistory); i++ {
		if st.FPSHistory[i] >= st.FPSHistory[i-1] {
			t.Fatalf("history not ordered oldest first at %d: %v >= %v", i, st.FPSHistory[i], st.FPSHistory[i-1])
		}
	}
	if want := 1 / 0.130; !approx(st.FPSHistory[len(st.FPSHistory)-1], want) {
		t.Errorf("newest sample = %v, want %v", st.FPSHistory[len(st.FPSHistory)-1], want)
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
