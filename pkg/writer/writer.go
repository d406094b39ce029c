package writer

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nucleus/hkv-connector/pkg/batching"
	"github.com/nucleus/hkv-connector/pkg/hkverrors"
	"github.com/nucleus/hkv-connector/pkg/hkvclient"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
	"github.com/nucleus/hkv-connector/pkg/metrics"
	"github.com/nucleus/hkv-connector/pkg/throttle"
)

const (
	maxBytesBeforeFlush = 9_000_000
	maxRetries          = 5
	initialBackoff      = 5 * time.Second
	targetLatencyMs     = 6000
)

// Writer is the mutation engine: one engine, driven by a pluggable
// stream of TaggedMutation values, behind which
// Upsert/DeleteByEntity/DeleteByKey in pkg/connector are
// thin configurations rather than separate classes.
type Writer[W any] struct {
	RPC        hkvclient.RPC
	ProjectID  string
	DatabaseID string

	Batcher   *batching.WriteBatcher
	Throttler *throttle.Adaptive
	Metrics   *metrics.WriterMetrics

	// Now and Sleep are overridable for deterministic tests; production
	// callers leave them nil and get time.Now/time.Sleep behavior.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error

	Emit func(WriteSuccessSummary[W])

	state *batchState[W]
}

// NewWriter constructs a Writer with production-default clock/sleep
// behavior. Batcher and Throttler are explicit dependencies, not
// implicit per-instance state: callers own their lifecycle
// (pkg/connector builds one of each per engine and reuses them across
// bundles).
func NewWriter[W any](rpc hkvclient.RPC, projectID, databaseID string, batcher *batching.WriteBatcher, throttler *throttle.Adaptive, m *metrics.WriterMetrics, emit func(WriteSuccessSummary[W])) *Writer[W] {
	return &Writer[W]{
		RPC:        rpc,
		ProjectID:  projectID,
		DatabaseID: databaseID,
		Batcher:    batcher,
		Throttler:  throttler,
		Metrics:    m,
		Emit:       emit,
		state:      newBatchState[W](),
	}
}

func (w *Writer[W]) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *Writer[W]) nowMs() int64 { return w.now().UnixMilli() }

func (w *Writer[W]) sleep(ctx context.Context, d time.Duration) error {
	if w.Sleep != nil {
		return w.Sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// ProcessElement runs the batching state machine for one incoming
// mutation: dedup flush, then byte flush, then append, then count
// flush.
func (w *Writer[W]) ProcessElement(ctx context.Context, tm TaggedMutation[W]) error {
	if err := keys.RequireComplete(tm.Key); err != nil {
		return err
	}
	encKey := tm.Key.Encode()
	size := approxSize(tm.Mutation)

	if _, dup := w.state.keys[encKey]; dup {
		if err := w.flush(ctx); err != nil {
			return err
		}
	}

	if !w.state.empty() && w.state.size+size >= maxBytesBeforeFlush {
		if err := w.flush(ctx); err != nil {
			return err
		}
	}

	w.state.pending = append(w.state.pending, tm)
	w.state.size += size
	w.state.keys[encKey] = struct{}{}

	if len(w.state.pending) >= w.Batcher.NextBatchSize(w.nowMs()) {
		if err := w.flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// FinishBundle flushes any pending batch: no mutation may be left
// pending after a bundle completes.
func (w *Writer[W]) FinishBundle(ctx context.Context) error {
	if w.state.empty() {
		return nil
	}
	return w.flush(ctx)
}

// flush consults the adaptive throttler until it admits the batch, then
// commits with retry. The retry attempts inside commitWithRetry do not
// consult the throttler again.
func (w *Writer[W]) flush(ctx context.Context) error {
	if w.state.empty() {
		return nil
	}
	for {
		if w.Throttler.ThrottleRequest(w.nowMs()) {
			w.Metrics.ThrottlingMsecs.Inc(targetLatencyMs)
			if err := w.sleep(ctx, targetLatencyMs*time.Millisecond); err != nil {
				return err
			}
			continue
		}
		break
	}
	return w.commitWithRetry(ctx)
}

func (w *Writer[W]) commitWithRetry(ctx context.Context) error {
	mutations := make([]*hkvpb.Mutation, len(w.state.pending))
	for i, tm := range w.state.pending {
		mutations[i] = tm.Mutation
	}
	req := &hkvpb.CommitRequest{
		ProjectId:  w.ProjectID,
		DatabaseId: w.DatabaseID,
		Mode:       hkvpb.NonTransactional,
		Mutations:  mutations,
	}

	for attempt := 0; ; attempt++ {
		start := w.now()
		_, err := w.RPC.Commit(ctx, req)
		end := w.now()

		if err == nil {
			w.onCommitSuccess(end.Sub(start).Milliseconds(), end)
			return nil
		}

		code := status.Code(err)
		w.Metrics.RPCErrors.Inc(1)

		if hkverrors.IsNonRetryable(code) {
			return hkverrors.Wrap(code, err)
		}

		if code == codes.DeadlineExceeded {
			w.Batcher.AddRequestLatency(w.nowMs(), end.Sub(start).Milliseconds(), len(w.state.pending))
		}

		if attempt >= maxRetries {
			return hkverrors.Wrap(code, err)
		}

		if serr := w.sleep(ctx, initialBackoff<<uint(attempt)); serr != nil {
			return serr
		}
	}
}

func (w *Writer[W]) onCommitSuccess(latencyMs int64, completedAt time.Time) {
	n := len(w.state.pending)
	w.Batcher.AddRequestLatency(w.nowMs(), latencyMs, n)
	w.Throttler.SuccessfulRequest(w.nowMs())

	w.Metrics.RPCSuccesses.Inc(1)
	w.Metrics.EntitiesMutated.Inc(int64(n))
	w.Metrics.BatchSize.Update(int64(n))
	if n > 0 {
		w.Metrics.LatencyMsPerMutation.Update(latencyMs / int64(n))
	}

	summary := WriteSuccessSummary[W]{
		NumWrites: n,
		NumBytes:  w.state.size,
		Timestamp: completedAt,
		Window:    w.state.pending[n-1].Window,
	}
	w.state.reset()
	w.Emit(summary)
}
