package planner

import (
	"context"
	"testing"
)

func TestChooseSplitCountUserOverride(t *testing.T) {
	n := ChooseSplitCount(context.Background(), 7, notCalled(t))
	if n != 7 {
		t.Fatalf("expected the user override verbatim, got %d", n)
	}
}

func TestChooseSplitCountUserOverrideCappedAt50000(t *testing.T) {
	n := ChooseSplitCount(context.Background(), 1_000_000, notCalled(t))
	if n != maxSplitCount {
		t.Fatalf("expected the override capped at %d, got %d", maxSplitCount, n)
	}
}

func TestChooseSplitCountStatisticsUnavailableFallsBackToMinimum(t *testing.T) {
	n := ChooseSplitCount(context.Background(), 0, func(ctx context.Context) (int64, error) {
		return 0, ErrStatisticsUnavailable
	})
	if n != minSplitCount {
		t.Fatalf("expected the statistics-unavailable fallback of %d, got %d", minSplitCount, n)
	}
}

func TestChooseSplitCountClampedUpFromOne(t *testing.T) {
	n := ChooseSplitCount(context.Background(), 0, func(ctx context.Context) (int64, error) {
		return 64 * 1024 * 1024, nil // 1 split worth, clamped up to the minimum
	})
	if n != minSplitCount {
		t.Fatalf("expected 64MiB to clamp up to %d, got %d", minSplitCount, n)
	}
}

func TestChooseSplitCountClampedDownAtTenTiB(t *testing.T) {
	n := ChooseSplitCount(context.Background(), 0, func(ctx context.Context) (int64, error) {
		return 10 * 1024 * 1024 * 1024 * 1024, nil // 10 TiB
	})
	if n != maxSplitCount {
		t.Fatalf("expected 10TiB to clamp down to %d, got %d", maxSplitCount, n)
	}
}

func TestChooseSplitCountFromEstimate(t *testing.T) {
	n := ChooseSplitCount(context.Background(), 0, func(ctx context.Context) (int64, error) {
		return 1280 * 1024 * 1024, nil // 1280 MiB / 64 MiB == 20, above the floor of 12
	})
	if n != 20 {
		t.Fatalf("expected 1280MiB to request 20 splits, got %d", n)
	}
}

func notCalled(t *testing.T) func(context.Context) (int64, error) {
	return func(context.Context) (int64, error) {
		t.Fatal("estimate should not be called when a user override is supplied")
		return 0, nil
	}
}
