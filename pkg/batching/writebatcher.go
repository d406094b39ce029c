// Package batching implements the write batcher: a target-next-batch-
// size oracle driven by a moving average of observed per-mutation
// commit latency.
package batching

import "github.com/nucleus/hkv-connector/pkg/estimator"

const (
	startSize       = 50
	minBatchSize    = 5
	maxBatchSize    = 500
	targetLatencyMs = 6000
)

// WriteBatcher owns a moving average of milliseconds-per-mutation and
// derives a target next-batch-size from it.
type WriteBatcher struct {
	msPerMutation *estimator.MovingAverage
}

// NewWriteBatcher builds a write batcher using the default moving
// average window (120s in 10s buckets).
func NewWriteBatcher() *WriteBatcher {
	return &WriteBatcher{msPerMutation: estimator.NewDefault()}
}

// AddRequestLatency records one commit's latency, normalized to
// milliseconds per mutation.
func (w *WriteBatcher) AddRequestLatency(t int64, totalLatencyMs int64, numMutations int) {
	if numMutations <= 0 {
		return
	}
	w.msPerMutation.Add(t, float64(totalLatencyMs)/float64(numMutations))
}

// NextBatchSize returns the target size for the next commit batch,
// clamped to [5, 500]. With no latency data yet it returns the start
// size of 50.
func (w *WriteBatcher) NextBatchSize(t int64) int {
	if !w.msPerMutation.HasValue(t) {
		return startSize
	}
	l := w.msPerMutation.Get(t)
	if l < 1 {
		l = 1
	}
	target := int(float64(targetLatencyMs) / l)
	if target < minBatchSize {
		return minBatchSize
	}
	if target > maxBatchSize {
		return maxBatchSize
	}
	return target
}
