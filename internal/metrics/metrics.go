package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Recorder tracks request latencies per route in HDR histograms.
// Handlers run concurrently, so access is serialized with a mutex.
type Recorder struct {
	mu         sync.Mutex
	histograms map[string]*hdrhistogram.Histogram
}

func NewRecorder() *Recorder {
	return &Recorder{histograms: make(map[string]*hdrhistogram.Histogram)}
}

func (r *Recorder) Record(route string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.histograms[route]
	if !ok {
		// 1us to 60s, 3 significant figures.
		h = hdrhistogram.New(1, 60_000_000, 3)
		r.histograms[route] = h
	}
	_ = h.RecordValue(d.Microseconds())
}

// RouteStats summarizes one route's latency distribution in microseconds.
type RouteStats struct {
	Route string  `json:"route"`
	Count int64   `json:"count"`
	P50   int64   `json:"p50Micros"`
	P95   int64   `json:"p95Micros"`
	P99   int64   `json:"p99Micros"`
	Max   int64   `json:"maxMicros"`
	Mean  float64 `json:"meanMicros"`
}

func (r *Recorder) Snapshot() []RouteStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RouteStats, 0, len(r.histograms))
	for route, h := range r.histograms {
		out = append(out, RouteStats{
			Route: route,
			Count: h.TotalCount(),
			P50:   h.ValueAtQuantile(50),
			P95:   h.ValueAtQuantile(95),
			P99:   h.ValueAtQuantile(99),
			Max:   h.Max(),
			Mean:  h.Mean(),
		})
	}
	return out
}
