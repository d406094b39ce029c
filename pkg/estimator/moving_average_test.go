package estimator

import "testing"

func TestHasValueRequiresSamples(t *testing.T) {
	m := NewDefault()
	if m.HasValue(0) {
		t.Fatal("expected no value before any sample is added")
	}
	m.Add(0, 10)
	if !m.HasValue(0) {
		t.Fatal("expected a value once a sample has been added")
	}
}

func TestGetReturnsMeanAcrossBuckets(t *testing.T) {
	m := New(30_000, 10_000, 1, 1)
	m.Add(0, 10)
	m.Add(10_000, 20)
	m.Add(20_000, 30)
	got := m.Get(20_000)
	if got != 20 {
		t.Fatalf("Get() = %v, want 20", got)
	}
}

func TestBucketResetsWhenTimeAdvances(t *testing.T) {
	m := New(10_000, 10_000, 1, 1) // single bucket
	m.Add(0, 100)
	m.Add(10_000, 5) // advances past the bucket boundary, should reset
	if got := m.Get(10_000); got != 5 {
		t.Fatalf("Get() = %v, want 5 after bucket reset", got)
	}
}

func TestStaleBucketsExcludedFromMean(t *testing.T) {
	m := New(20_000, 10_000, 1, 1)
	m.Add(0, 1000)
	// Advance far beyond the sample period; the old bucket should no
	// longer contribute.
	if m.HasValue(1_000_000) {
		t.Fatal("expected stale bucket to be excluded from hasValue")
	}
}

func TestNumSignificantSamplesThreshold(t *testing.T) {
	m := New(30_000, 10_000, 3, 1)
	m.Add(0, 1)
	m.Add(0, 1)
	if m.HasValue(0) {
		t.Fatal("expected insufficient samples in the only bucket")
	}
	m.Add(0, 1)
	if !m.HasValue(0) {
		t.Fatal("expected hasValue once the bucket reaches the significance threshold")
	}
}
