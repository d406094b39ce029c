// Package throttle implements the two load-shaping mechanisms the
// mutation writer drives: an adaptive, probabilistic client-side
// throttle keyed on recent server error rate, and a ramp-up ceiling
// that caps per-worker request rate during pipeline warm-up.
package throttle

import (
	"math/rand"

	"github.com/nucleus/hkv-connector/pkg/estimator"
)

const defaultOverloadFactor = 1.25

// Adaptive implements client-side load shedding driven by the ratio of
// failed to successful requests over a recent window. It is
// constructed once per worker and injected into the mutation writer
// explicitly, rather than lazily created as a per-instance field, so
// its state is never implicitly shared across workers.
type Adaptive struct {
	requests       *estimator.MovingAverage // total decision points (R)
	successes      *estimator.MovingAverage // successful commits (S)
	overloadFactor float64
	rand           func() float64
}

// NewAdaptive builds the default adaptive throttler: a 120s window in
// 10s buckets and an overload factor K=1.25.
func NewAdaptive() *Adaptive {
	return &Adaptive{
		requests:       estimator.New(120_000, 10_000, 1, 1),
		successes:      estimator.New(120_000, 10_000, 1, 1),
		overloadFactor: defaultOverloadFactor,
		rand:           rand.Float64,
	}
}

// ThrottleRequest decides, at time t (epoch ms), whether the caller
// must skip this attempt. R is incremented at every decision point
// (success or failure), so sustained failures drive p toward 1 and
// sustained successes pull it back to 0.
func (a *Adaptive) ThrottleRequest(t int64) bool {
	r := a.requests.Sum(t)
	s := a.successes.Sum(t)
	p := (r - a.overloadFactor*s) / (r + 1)
	if p < 0 {
		p = 0
	}
	a.requests.Add(t, 1)
	return a.rand() < p
}

// SuccessfulRequest must be called after every commit that returned OK.
func (a *Adaptive) SuccessfulRequest(t int64) {
	a.successes.Add(t, 1)
}
