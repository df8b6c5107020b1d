package animation

import (
	"sync"
	"time"
)

const traceSamplesDefault = 240

// TickSample records one tick.
type TickSample struct {
	// Timestamp is the animation clock at the start of the tick, in Unix ms.
	Timestamp int64   `json:"ts"`
	TickMs    float64 `json:"tickMs"`
	Tasks     int     `json:"tasks"`
	Completed int     `json:"completed"`
	Halted    int     `json:"halted"`
	Failed    int     `json:"failed"`
}

// count folds one task outcome into the sample and returns the error to
// propagate, if any.
func (s *TickSample) count(out outcome) error {
	if !out.finished {
		return out.err
	}
	switch {
	case out.state == StateCompleted:
		s.Completed++
	case out.reason == ReasonWriteFailed:
		s.Halted++
		s.Failed++
	default:
		s.Halted++
	}
	return out.err
}

// TickTimeline is a chronological copy of recent samples.
type TickTimeline struct {
	Samples     []TickSample `json:"samples"`
	SlowTicks   int          `json:"slowTicks"`
	ThresholdMs float64      `json:"thresholdMs"`
}

// TickTrace stores recent tick samples in a ring buffer.
type TickTrace struct {
	mu        sync.RWMutex
	samples   []TickSample
	index     int
	count     int
	slow      int
	threshold time.Duration
}

// NewTickTrace creates a trace holding capacity samples. Ticks longer than
// threshold are counted as slow.
func NewTickTrace(capacity int, threshold time.Duration) *TickTrace {
	if capacity <= 0 {
		capacity = traceSamplesDefault
	}
	if threshold <= 0 {
		threshold = DefaultInterval
	}
	return &TickTrace{
		samples:   make([]TickSample, capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *TickTrace) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// SetThreshold updates the slow tick threshold.
func (b *TickTrace) SetThreshold(threshold time.Duration) {
	if threshold <= 0 {
		threshold = DefaultInterval
	}
	b.mu.Lock()
	b.threshold = threshold
	b.mu.Unlock()
}

// Threshold returns the slow tick threshold.
func (b *TickTrace) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Add records a sample that took d.
func (b *TickTrace) Add(sample TickSample, d time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if d > b.threshold {
		b.slow++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of samples and stats.
func (b *TickTrace) Snapshot() TickTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return TickTimeline{ThresholdMs: durationToMillis(b.threshold)}
	}

	result := make([]TickSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return TickTimeline{
		Samples:     result,
		SlowTicks:   b.slow,
		ThresholdMs: durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
