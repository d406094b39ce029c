// Package writer implements the mutation writer: batch assembly with
// dedup/byte/count flush policy, commit-with-retry, and the
// instrumentation the three public write/delete transforms share.
package writer

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
)

// TaggedMutation pairs a wire-level Mutation with the window it
// originated in (the pipeline runtime's unit of attribution) and its
// decoded key, so the batching state machine never has to re-inspect
// the oneof-shaped wire message to dedup.
type TaggedMutation[W any] struct {
	Mutation *hkvpb.Mutation
	Key      keys.Key
	Window   W
}

// WriteSuccessSummary is emitted once per successful commit RPC,
// timestamped with commit completion and attributed to the window of
// the batch's last mutation.
type WriteSuccessSummary[W any] struct {
	NumWrites int
	NumBytes  int
	Timestamp time.Time
	Window    W
}

// CommitTimestamp converts Timestamp to the wire representation
// embedders forward into their own structured telemetry, so downstream
// consumers never have to special-case a bare time.Time.
func (s WriteSuccessSummary[W]) CommitTimestamp() *timestamppb.Timestamp {
	return timestamppb.New(s.Timestamp)
}

// batchState is the per-bundle accumulator: ordered pending mutations,
// running serialized size, and a dedup set of mutation keys.
type batchState[W any] struct {
	pending []TaggedMutation[W]
	size    int
	keys    map[string]struct{}
}

func newBatchState[W any]() *batchState[W] {
	return &batchState[W]{keys: make(map[string]struct{})}
}

func (b *batchState[W]) reset() {
	b.pending = nil
	b.size = 0
	b.keys = make(map[string]struct{})
}

func (b *batchState[W]) empty() bool { return len(b.pending) == 0 }
