package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 2048

// EntryKind distinguishes backend calls from credential storage operations.
type EntryKind uint8

const (
	KindCall EntryKind = iota
	KindStorage
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Op         string // façade operation name or "credential.<method>"
	StatusCode int    // HTTP status, 0 when no response was received
	Failed     bool   // transport failure or non-2xx status
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing entries.
// Writes are non-blocking; when full, oldest entries are overwritten.
// Aggregation happens only on read (Snapshot).
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64 // total entries ever written
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// PRE: e is a valid Entry
// POST: Entry stored; if buffer full, oldest entry overwritten
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated call data computed on read.
type Snapshot struct {
	TotalRecorded     int64
	Calls             int
	FailedCalls       int
	CallP50Ms         float64
	CallP95Ms         float64
	CallP99Ms         float64
	SlowestOps        []OpStat
	SlowestStorageOps []OpStat
}

// OpStat aggregates timing for a single operation.
type OpStat struct {
	Op       string
	AvgMs    float64
	MaxMs    float64
	Count    int
	Failures int
	TotalMs  float64
}

// FailureRate returns failures / count, or 0 when nothing was recorded.
func (s OpStat) FailureRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Count)
}

// Snapshot computes aggregated stats from the ring buffer.
// PRE: topN > 0
// POST: Returns a Snapshot with percentiles and top-N lists for entries at or after since
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	var callDurations []float64
	callStats := make(map[string]*OpStat)
	storageStats := make(map[string]*OpStat)
	failed := 0

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		stats := storageStats
		if e.Kind == KindCall {
			stats = callStats
			callDurations = append(callDurations, e.DurationMs)
			if e.Failed {
				failed++
			}
		}
		s, ok := stats[e.Op]
		if !ok {
			s = &OpStat{Op: e.Op}
			stats[e.Op] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		if e.DurationMs > s.MaxMs {
			s.MaxMs = e.DurationMs
		}
		if e.Failed {
			s.Failures++
		}
	}

	snap := Snapshot{
		TotalRecorded:     c.TotalRecorded(),
		Calls:             len(callDurations),
		FailedCalls:       failed,
		SlowestOps:        topByAvg(callStats, topN),
		SlowestStorageOps: topByAvg(storageStats, topN),
	}

	if len(callDurations) > 0 {
		sort.Float64s(callDurations)
		snap.CallP50Ms = percentile(callDurations, 50)
		snap.CallP95Ms = percentile(callDurations, 95)
		snap.CallP99Ms = percentile(callDurations, 99)
	}

	return snap
}

// percentile returns the p-th percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top N operations sorted by average duration (descending).
func topByAvg(stats map[string]*OpStat, n int) []OpStat {
	list := make([]OpStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Op < list[j].Op
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
