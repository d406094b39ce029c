package batching

import "testing"

func TestNextBatchSizeDefaultsToStartSize(t *testing.T) {
	w := NewWriteBatcher()
	if got := w.NextBatchSize(0); got != startSize {
		t.Fatalf("NextBatchSize() = %d, want %d with no samples", got, startSize)
	}
}

func TestNextBatchSizeClampsHighOnCheapLatency(t *testing.T) {
	w := NewWriteBatcher()
	w.AddRequestLatency(0, 1, 1) // 1ms/mutation
	if got := w.NextBatchSize(0); got != maxBatchSize {
		t.Fatalf("NextBatchSize() = %d, want %d clamp at 1ms/mutation", got, maxBatchSize)
	}
}

func TestNextBatchSizeClampsLowOnExpensiveLatency(t *testing.T) {
	w := NewWriteBatcher()
	w.AddRequestLatency(0, 10_000, 1) // 10000ms/mutation
	if got := w.NextBatchSize(0); got != minBatchSize {
		t.Fatalf("NextBatchSize() = %d, want %d clamp at 10000ms/mutation", got, minBatchSize)
	}
}

func TestAddRequestLatencyNormalizesPerMutation(t *testing.T) {
	w := NewWriteBatcher()
	w.AddRequestLatency(0, 600, 100) // 6ms/mutation -> target = 1000, clamp to 500
	if got := w.NextBatchSize(0); got != 500 {
		t.Fatalf("NextBatchSize() = %d, want 500", got)
	}
}
