package throttle

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	rampupBase        = 500
	rampupDoublingSec = 300
)

// Rampup caps the global request rate during pipeline warm-up. The
// pipeline-start reference is an explicit constructor parameter rather
// than a broadcast side value, which also makes it trivial to unit
// test with a fixed start.
type Rampup struct {
	start          time.Time
	hintNumWorkers int

	mu         sync.Mutex
	limiter    *rate.Limiter
	lastBudget int
}

// NewRampup builds a ramp-up throttle anchored at start, dividing the
// schedule by hintNumWorkers (default 500 if <= 0). The ceiling is
// enforced with a token-bucket limiter whose rate and burst are
// re-tuned to Budget(now) on every Admit call.
func NewRampup(start time.Time, hintNumWorkers int) *Rampup {
	if hintNumWorkers <= 0 {
		hintNumWorkers = 500
	}
	r := &Rampup{start: start, hintNumWorkers: hintNumWorkers}
	r.lastBudget = r.Budget(start)
	r.limiter = rate.NewLimiter(rate.Limit(r.lastBudget), r.lastBudget)
	return r
}

// Budget returns the number of requests this worker may admit during
// the wall-clock second containing now: a monotone non-decreasing,
// per-worker-divided ceiling that grows by a factor of 1.5 every 5
// minutes and never drops below 1.
func (r *Rampup) Budget(now time.Time) int {
	s := now.Sub(r.start).Seconds()
	if s < 0 {
		s = 0
	}
	scaled := float64(rampupBase) * math.Pow(1.5, s/rampupDoublingSec)
	budget := int(math.Floor(scaled / float64(r.hintNumWorkers)))
	if budget < 1 {
		budget = 1
	}
	return budget
}

// Admit blocks the caller until a slot is available under the current
// wall-clock second's budget, then reserves one slot and returns.
// Context cancellation unblocks Admit immediately.
func (r *Rampup) Admit(ctx context.Context, now func() time.Time) error {
	budget := r.Budget(now())

	r.mu.Lock()
	if budget != r.lastBudget {
		r.lastBudget = budget
		r.limiter.SetLimit(rate.Limit(budget))
		r.limiter.SetBurst(budget)
	}
	limiter := r.limiter
	r.mu.Unlock()

	return limiter.Wait(ctx)
}
