package planner

import "context"

const (
	minSplitCount = 12
	maxSplitCount = 50_000
	bytesPerSplit = 64 * 1024 * 1024 // 64 MiB
)

// ChooseSplitCount picks the split count a query should be divided
// into. userSplits is the caller's numQuerySplits override (0 means
// unset). estimate is called
// lazily: it is only invoked when no override is supplied, and any
// error from it (including ErrStatisticsUnavailable) falls back to the
// statistics-unavailable minimum rather than propagating.
func ChooseSplitCount(ctx context.Context, userSplits int, estimate func(ctx context.Context) (int64, error)) int {
	if userSplits > 0 {
		if userSplits > maxSplitCount {
			return maxSplitCount
		}
		return userSplits
	}

	sizeBytes, err := estimate(ctx)
	if err != nil {
		return minSplitCount
	}

	n := int(roundDiv(sizeBytes, bytesPerSplit))
	if n < minSplitCount {
		return minSplitCount
	}
	if n > maxSplitCount {
		return maxSplitCount
	}
	return n
}

// roundDiv rounds a/b to the nearest integer (round-half-up).
func roundDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
