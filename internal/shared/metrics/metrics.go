package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	httpRequests        = newCounterVec("method", "status")
	generationRequests  = newCounterVec("provider", "task")
	generationFailures  = newCounterVec("provider", "task")
	chaptersReconciled  = newCounterVec("op")
	resumeFeedbackFalls atomic.Uint64

	generationDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncHTTPRequest counts a completed HTTP request.
func IncHTTPRequest(method string, status int) {
	httpRequests.Inc(method, strconv.Itoa(status))
}

// IncGeneration counts one oracle call.
func IncGeneration(provider, task string) {
	generationRequests.Inc(provider, task)
}

// IncGenerationFailure counts one failed oracle call or unparsable response.
func IncGenerationFailure(provider, task string) {
	generationFailures.Inc(provider, task)
}

// ObserveGenerationMs records oracle latency in milliseconds.
func ObserveGenerationMs(value float64) {
	if value < 0 {
		value = 0
	}
	generationDuration.Observe(value)
}

// AddChaptersReconciled counts chapters written by reconciliation. op is
// "created" or "updated".
func AddChaptersReconciled(op string, n int) {
	if n <= 0 {
		return
	}
	chaptersReconciled.Add(uint64(n), op)
}

// IncResumeFeedbackFallback counts resume saves that used the default feedback.
func IncResumeFeedbackFallback() {
	resumeFeedbackFalls.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounterVec(&buf, "http_requests_total", "Total HTTP requests", httpRequests)
	writeCounterVec(&buf, "generation_requests_total", "Total oracle calls", generationRequests)
	writeCounterVec(&buf, "generation_failures_total", "Total failed generations", generationFailures)
	writeHistogram(&buf, "generation_duration_ms", "Oracle latency in milliseconds", generationDuration.Snapshot())
	writeCounterVec(&buf, "chapters_reconciled_total", "Chapters written by reconciliation", chaptersReconciled)
	writeCounter(&buf, "resume_feedback_fallback_total", "Resume saves that used default feedback", resumeFeedbackFalls.Load())
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	labels []string
	values map[string]uint64
}

func newCounterVec(labels ...string) *counterVec {
	return &counterVec{labels: labels, values: map[string]uint64{}}
}

func (v *counterVec) Inc(labelValues ...string) {
	v.Add(1, labelValues...)
}

func (v *counterVec) Add(n uint64, labelValues ...string) {
	key := v.key(labelValues)
	v.mu.Lock()
	v.values[key] += n
	v.mu.Unlock()
}

func (v *counterVec) key(labelValues []string) string {
	parts := make([]string, len(v.labels))
	for i, name := range v.labels {
		val := ""
		if i < len(labelValues) {
			val = labelValues[i]
		}
		parts[i] = fmt.Sprintf("%s=%q", name, val)
	}
	return strings.Join(parts, ",")
}

func (v *counterVec) snapshot() ([]string, map[string]uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := make([]string, 0, len(v.values))
	out := make(map[string]uint64, len(v.values))
	for k, val := range v.values {
		keys = append(keys, k)
		out[k] = val
	}
	sort.Strings(keys)
	return keys, out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeCounterVec(buf *bytes.Buffer, name, help string, v *counterVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys, values := v.snapshot()
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s} %d\n", name, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
