package ggthread

import "time"

// fpsHistoryLen is the number of publications kept in the FPS history.
const fpsHistoryLen = 120

// Stats is a snapshot of renderer counters.
//
// Counters are always maintained. FPS and sync timings are only recorded
// with WithInstrumentation(true).
type Stats struct {
	RenderedFrames  uint64
	SkippedBegins   uint64
	DroppedPayloads uint64
	WorkerFailures  uint64

	// LastSync is how long the last Update spent decoding and publishing.
	LastSync time.Duration

	// FPS is the mean publication rate over FPSHistory.
	FPS float64

	// FPSHistory holds the rate between consecutive publications, oldest
	// first.
	FPSHistory []float64
}

type statsRecorder struct {
	enabled bool

	skipped  uint64
	dropped  uint64
	failures uint64

	lastSync    time.Duration
	lastPublish time.Time
	history     [fpsHistoryLen]float64
	count       int
	next        int
}

func (s *statsRecorder) published(now time.Time, sync time.Duration) {
	if !s.enabled {
		return
	}
	s.lastSync = sync
	if !s.lastPublish.IsZero() {
		if dt := now.Sub(s.lastPublish).Seconds(); dt > 0 {
			s.history[s.next] = 1 / dt
			s.next = (s.next + 1) % fpsHistoryLen
			s.count = min(s.count+1, fpsHistoryLen)
		}
	}
	s.lastPublish = now
}

func (s *statsRecorder) snapshot(rendered uint64) Stats {
	st := Stats{
		RenderedFrames:  rendered,
		SkippedBegins:   s.skipped,
		DroppedPayloads: s.dropped,
		WorkerFailures:  s.failures,
		LastSync:        s.lastSync,
	}
	if s.count == 0 {
		return st
	}
	st.FPSHistory = make([]float64, s.count)
	start := (s.next - s.count + fpsHistoryLen) % fpsHistoryLen
	sum := 0.0
	for i := range s.count {
		v := s.history[(start+i)%fpsHistoryLen]
		st.FPSHistory[i] = v
		sum += v
	}
	st.FPS = sum / float64(s.count)
	return st
}
