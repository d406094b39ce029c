// Package estimator implements a time-windowed rolling mean of a
// scalar signal, used by the adaptive throttler (requests/successes)
// and the write batcher (milliseconds per mutation). Modeled on the
// same bucketed-window style used elsewhere in this module's
// time-bucketed stats, adapted to a fixed-bucket ring buffer.
package estimator

// MovingAverage maintains a rolling mean of value(t) over a sample
// period subdivided into fixed-width sample intervals.
type MovingAverage struct {
	intervalMs            int64
	numBuckets            int64
	numSignificantSamples int64
	numSignificantBuckets int64

	sums    []float64
	counts  []int64
	bucketT []int64 // wall-clock ms of the last write to each bucket, for staleness checks
}

// New creates a MovingAverage with the given sample period and sample
// interval (both in milliseconds), and the minimum-data thresholds
// hasValue checks against.
func New(samplePeriodMs, sampleIntervalMs, numSignificantSamples, numSignificantBuckets int64) *MovingAverage {
	if sampleIntervalMs <= 0 {
		sampleIntervalMs = 1
	}
	n := samplePeriodMs / sampleIntervalMs
	if n <= 0 {
		n = 1
	}
	if numSignificantSamples <= 0 {
		numSignificantSamples = 1
	}
	if numSignificantBuckets <= 0 {
		numSignificantBuckets = 1
	}
	return &MovingAverage{
		intervalMs:            sampleIntervalMs,
		numBuckets:            n,
		numSignificantSamples: numSignificantSamples,
		numSignificantBuckets: numSignificantBuckets,
		sums:                  make([]float64, n),
		counts:                make([]int64, n),
		bucketT:               make([]int64, n),
	}
}

// NewDefault builds the default moving average: a 120s period
// subdivided into 10s buckets, requiring at least one sample in at
// least one bucket.
func NewDefault() *MovingAverage {
	return New(120_000, 10_000, 1, 1)
}

func (m *MovingAverage) bucketIndex(t int64) int64 {
	idx := t / m.intervalMs % m.numBuckets
	if idx < 0 {
		idx += m.numBuckets
	}
	return idx
}

// Add records v at time t (epoch milliseconds), resetting the bucket
// first if t has advanced past the bucket's last-written interval.
func (m *MovingAverage) Add(t int64, v float64) {
	idx := m.bucketIndex(t)
	bucketStart := (t / m.intervalMs) * m.intervalMs
	if m.bucketT[idx] != bucketStart {
		m.sums[idx] = 0
		m.counts[idx] = 0
		m.bucketT[idx] = bucketStart
	}
	m.sums[idx] += v
	m.counts[idx]++
}

// validBuckets returns, for time t, the sum/count pairs of every
// bucket that still falls within the current sample period (i.e. its
// recorded interval start is not stale).
func (m *MovingAverage) validBuckets(t int64) (sum float64, count int64, significantBuckets int64) {
	now := (t / m.intervalMs) * m.intervalMs
	periodStart := now - m.intervalMs*(m.numBuckets-1)
	for i := int64(0); i < m.numBuckets; i++ {
		if m.counts[i] == 0 {
			continue
		}
		if m.bucketT[i] < periodStart || m.bucketT[i] > now {
			continue
		}
		sum += m.sums[i]
		count += m.counts[i]
		if m.counts[i] >= m.numSignificantSamples {
			significantBuckets++
		}
	}
	return sum, count, significantBuckets
}

// HasValue reports whether there is enough data at time t to trust Get.
func (m *MovingAverage) HasValue(t int64) bool {
	_, _, significantBuckets := m.validBuckets(t)
	return significantBuckets >= m.numSignificantBuckets
}

// Get returns the arithmetic mean over all valid buckets at time t.
// Callers must check HasValue first; Get returns 0 when there is no data.
func (m *MovingAverage) Get(t int64) float64 {
	sum, count, _ := m.validBuckets(t)
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Sum returns the raw sum over all valid buckets at time t, useful for
// signals (like request/success counts) where the window total matters
// more than the per-sample mean.
func (m *MovingAverage) Sum(t int64) float64 {
	sum, _, _ := m.validBuckets(t)
	return sum
}
