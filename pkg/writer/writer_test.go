package writer

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nucleus/hkv-connector/pkg/batching"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
	"github.com/nucleus/hkv-connector/pkg/metrics"
	"github.com/nucleus/hkv-connector/pkg/throttle"
)

type fakeRPC struct {
	commits  []*hkvpb.CommitRequest
	commitFn func(n int) (*hkvpb.CommitResponse, error)
}

func (f *fakeRPC) RunQuery(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRPC) Commit(ctx context.Context, req *hkvpb.CommitRequest) (*hkvpb.CommitResponse, error) {
	f.commits = append(f.commits, req)
	return f.commitFn(len(f.commits))
}

func (f *fakeRPC) SplitQuery(ctx context.Context, req *hkvpb.SplitQueryRequest) (*hkvpb.SplitQueryResponse, error) {
	return nil, errors.New("not implemented")
}

func upsertOf(kind, name string, blob []byte) TaggedMutation[string] {
	k := keys.Key{
		Partition: keys.Partition{ProjectID: "proj", DatabaseID: "(default)"},
		Path:      []keys.PathElement{{Kind: kind, Name: name}},
	}
	pbKey := &hkvpb.Key{
		PartitionId: &hkvpb.PartitionId{ProjectId: "proj", DatabaseId: "(default)"},
		Path:        []*hkvpb.PathElement{{Kind: kind, Name: name}},
	}
	props := map[string]*hkvpb.Value{}
	if blob != nil {
		props["payload"] = &hkvpb.Value{BlobValue: blob}
	}
	return TaggedMutation[string]{
		Key: k,
		Mutation: &hkvpb.Mutation{
			Op:     hkvpb.MutationUpsert,
			Entity: &hkvpb.Entity{Key: pbKey, Properties: props},
		},
		Window: "w0",
	}
}

func newTestWriter(rpc *fakeRPC) (*Writer[string], *[]time.Duration) {
	var sleeps []time.Duration
	w := NewWriter[string](rpc, "proj", "(default)", batching.NewWriteBatcher(), throttle.NewAdaptive(), metrics.NewWriterMetrics(), func(WriteSuccessSummary[string]) {})
	now := time.UnixMilli(0)
	w.Now = func() time.Time { return now }
	w.Sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return w, &sleeps
}

func TestProcessElementDedupFlushesBeforeAppending(t *testing.T) {
	var commitSizes []int
	rpc := &fakeRPC{commitFn: func(n int) (*hkvpb.CommitResponse, error) { return &hkvpb.CommitResponse{}, nil }}
	w, _ := newTestWriter(rpc)

	ctx := context.Background()
	a := upsertOf("Task", "A", nil)
	b := upsertOf("Task", "B", nil)
	aAgain := upsertOf("Task", "A", nil)

	for _, tm := range []TaggedMutation[string]{a, b, aAgain} {
		if err := w.ProcessElement(ctx, tm); err != nil {
			t.Fatalf("ProcessElement: %v", err)
		}
	}
	if err := w.FinishBundle(ctx); err != nil {
		t.Fatalf("FinishBundle: %v", err)
	}

	for _, req := range rpc.commits {
		commitSizes = append(commitSizes, len(req.Mutations))
	}
	if len(rpc.commits) != 2 {
		t.Fatalf("expected two commits from [A,B,A], got %d (%v)", len(rpc.commits), commitSizes)
	}
	if len(rpc.commits[0].Mutations) != 2 {
		t.Fatalf("first commit should carry [A,B], got %d mutations", len(rpc.commits[0].Mutations))
	}
	if len(rpc.commits[1].Mutations) != 1 {
		t.Fatalf("second commit should carry the repeated A, got %d mutations", len(rpc.commits[1].Mutations))
	}
}

func TestProcessElementByteLimitFlush(t *testing.T) {
	rpc := &fakeRPC{commitFn: func(n int) (*hkvpb.CommitResponse, error) { return &hkvpb.CommitResponse{}, nil }}
	w, _ := newTestWriter(rpc)
	ctx := context.Background()

	oneMiB := make([]byte, 1<<20)
	for i := 0; i < 10; i++ {
		tm := upsertOf("Blob", string(rune('a'+i)), oneMiB)
		if err := w.ProcessElement(ctx, tm); err != nil {
			t.Fatalf("ProcessElement %d: %v", i, err)
		}
	}
	if err := w.FinishBundle(ctx); err != nil {
		t.Fatalf("FinishBundle: %v", err)
	}

	if len(rpc.commits) != 2 {
		t.Fatalf("expected a byte-limit flush to split 10x1MiB entities into two commits, got %d", len(rpc.commits))
	}
	if len(rpc.commits[0].Mutations) != 8 {
		t.Fatalf("expected first commit to carry 8 entities before the 9th would cross the byte ceiling, got %d", len(rpc.commits[0].Mutations))
	}
	if len(rpc.commits[1].Mutations) != 2 {
		t.Fatalf("expected the remaining two entities in the second commit, got %d", len(rpc.commits[1].Mutations))
	}
}

func TestCommitRetriesOnUnavailableThenSucceeds(t *testing.T) {
	rpc := &fakeRPC{}
	rpc.commitFn = func(n int) (*hkvpb.CommitResponse, error) {
		if n == 1 {
			return nil, status.Error(codes.Unavailable, "try again")
		}
		return &hkvpb.CommitResponse{}, nil
	}
	w, sleeps := newTestWriter(rpc)

	var summaries []WriteSuccessSummary[string]
	w.Emit = func(s WriteSuccessSummary[string]) { summaries = append(summaries, s) }

	ctx := context.Background()
	if err := w.ProcessElement(ctx, upsertOf("Task", "A", nil)); err != nil {
		t.Fatalf("ProcessElement: %v", err)
	}
	if err := w.FinishBundle(ctx); err != nil {
		t.Fatalf("FinishBundle: %v", err)
	}

	if len(rpc.commits) != 2 {
		t.Fatalf("expected exactly one retry (two Commit calls), got %d", len(rpc.commits))
	}
	if len(*sleeps) != 1 {
		t.Fatalf("expected exactly one backoff sleep, got %d", len(*sleeps))
	}
	if (*sleeps)[0] != initialBackoff {
		t.Fatalf("expected the first retry to back off by %v, got %v", initialBackoff, (*sleeps)[0])
	}
	if len(summaries) != 1 {
		t.Fatalf("expected exactly one success summary, got %d", len(summaries))
	}
	if summaries[0].NumWrites != 1 {
		t.Fatalf("expected summary to report 1 write, got %d", summaries[0].NumWrites)
	}
}

func TestCommitAbortsImmediatelyOnNonRetryable(t *testing.T) {
	rpc := &fakeRPC{}
	rpc.commitFn = func(n int) (*hkvpb.CommitResponse, error) {
		return nil, status.Error(codes.PermissionDenied, "no access")
	}
	w, sleeps := newTestWriter(rpc)

	var summaries []WriteSuccessSummary[string]
	w.Emit = func(s WriteSuccessSummary[string]) { summaries = append(summaries, s) }

	ctx := context.Background()
	if err := w.ProcessElement(ctx, upsertOf("Task", "A", nil)); err != nil {
		t.Fatalf("ProcessElement: %v", err)
	}
	err := w.FinishBundle(ctx)
	if err == nil {
		t.Fatal("expected FinishBundle to return the non-retryable error")
	}
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied to surface unchanged, got %v", err)
	}
	if len(rpc.commits) != 1 {
		t.Fatalf("expected no retries for a non-retryable failure, got %d commit attempts", len(rpc.commits))
	}
	if len(*sleeps) != 0 {
		t.Fatalf("expected no backoff sleeps for a non-retryable failure, got %d", len(*sleeps))
	}
	if len(summaries) != 0 {
		t.Fatal("expected no success summary to be emitted on failure")
	}
}

func TestFinishBundleIsNoOpWhenEmpty(t *testing.T) {
	rpc := &fakeRPC{commitFn: func(n int) (*hkvpb.CommitResponse, error) { return &hkvpb.CommitResponse{}, nil }}
	w, _ := newTestWriter(rpc)
	if err := w.FinishBundle(context.Background()); err != nil {
		t.Fatalf("FinishBundle on empty batch: %v", err)
	}
	if len(rpc.commits) != 0 {
		t.Fatalf("expected no commit for an empty batch, got %d", len(rpc.commits))
	}
}

func TestProcessElementRejectsIncompleteKey(t *testing.T) {
	rpc := &fakeRPC{commitFn: func(n int) (*hkvpb.CommitResponse, error) { return &hkvpb.CommitResponse{}, nil }}
	w, _ := newTestWriter(rpc)

	incomplete := TaggedMutation[string]{
		Key: keys.Key{Partition: keys.Partition{ProjectID: "proj"}, Path: []keys.PathElement{{Kind: "Task"}}},
		Mutation: &hkvpb.Mutation{
			Op:     hkvpb.MutationUpsert,
			Entity: &hkvpb.Entity{},
		},
	}
	if err := w.ProcessElement(context.Background(), incomplete); err == nil {
		t.Fatal("expected an incomplete key to be rejected before ever touching the batch")
	}
	if len(rpc.commits) != 0 {
		t.Fatal("expected the rejected mutation to never reach a commit")
	}
}

func TestWriteSuccessSummaryCommitTimestampRoundTrips(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	summary := WriteSuccessSummary[string]{NumWrites: 1, Timestamp: at}
	ts := summary.CommitTimestamp()
	if got := ts.AsTime(); !got.Equal(at) {
		t.Fatalf("CommitTimestamp round trip: got %v, want %v", got, at)
	}
}
