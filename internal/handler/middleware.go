package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// LatencyRecorder keeps an HDR histogram of request latencies in
// microseconds, from 1µs up to one minute.
type LatencyRecorder struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
}

func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{histogram: hdrhistogram.New(1, int64(time.Minute/time.Microsecond), 3)}
}

func (l *LatencyRecorder) Record(d time.Duration) {
	us := max(d.Microseconds(), 1)
	l.mu.Lock()
	// values above the highest trackable value are dropped
	_ = l.histogram.RecordValue(us)
	l.mu.Unlock()
}

func (l *LatencyRecorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Record(time.Since(start))
	})
}

type LatencySnapshot struct {
	Count  int64   `json:"count"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
	MaxMs  float64 `json:"max_ms"`
	MeanMs float64 `json:"mean_ms"`
}

func (l *LatencyRecorder) Snapshot() LatencySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	toMs := func(us int64) float64 { return float64(us) / 1000 }
	return LatencySnapshot{
		Count:  l.histogram.TotalCount(),
		P50Ms:  toMs(l.histogram.ValueAtQuantile(50)),
		P95Ms:  toMs(l.histogram.ValueAtQuantile(95)),
		P99Ms:  toMs(l.histogram.ValueAtQuantile(99)),
		MaxMs:  toMs(l.histogram.Max()),
		MeanMs: l.histogram.Mean() / 1000,
	}
}
