package planner

import (
	"context"

	"github.com/nucleus/hkv-connector/pkg/hkvclient"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

// Request is the caller-supplied description of a read: either a
// structured Query or a GQL string (exactly one of the two, enforced by
// pkg/connector before a Request ever reaches the planner), an explicit
// numQuerySplits override (0 means "let the planner decide"), and an
// optional read snapshot.
type Request struct {
	ProjectID     string
	DatabaseID    string
	Partition     *hkvpb.PartitionId
	Query         *hkvpb.Query
	GQL           string
	NumSplits     int
	ReadOptions   *hkvpb.ReadOptions
	ShuffleSplits func([]*hkvpb.Query)
}

// Run executes a full read end to end against req: GQL translation if
// needed, size estimation and split-count selection for a splittable
// query, the splitting policy, and a paginated retrying read of every
// resulting split, in split order, calling emit for every entity.
func Run(ctx context.Context, rpc hkvclient.RPC, req Request, emit func(*hkvpb.Entity) error) error {
	q := req.Query
	if q == nil {
		translated, err := Translate(ctx, rpc, req.Partition, req.ProjectID, req.DatabaseID, req.GQL, req.ReadOptions)
		if err != nil {
			return err
		}
		q = translated
	}

	numSplits := ChooseSplitCount(ctx, req.NumSplits, func(ctx context.Context) (int64, error) {
		if Unsplittable(q) || len(q.Kind) != 1 {
			return 0, ErrStatisticsUnavailable
		}
		return EstimateSizeBytes(ctx, rpc, req.ProjectID, req.DatabaseID, req.Partition, q.Kind[0].Name)
	})

	splits := Split(ctx, rpc, req.ProjectID, req.DatabaseID, req.Partition, q, numSplits, req.ShuffleSplits)

	for _, split := range splits {
		if err := ReadSplit(ctx, rpc, req.ProjectID, req.DatabaseID, req.Partition, req.ReadOptions, split, emit); err != nil {
			return err
		}
	}
	return nil
}
