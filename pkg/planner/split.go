package planner

import (
	"context"
	"math/rand"

	"github.com/nucleus/hkv-connector/pkg/hkvclient"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

// Unsplittable reports whether q must be read by a single consumer due
// to a user-set limit. A query restricted by an inequality filter is
// also unsplittable, since its results depend on sorted-key order
// rather than key range, but that case is caught server-side: the
// Store rejects a SplitQuery call for such a query, and Split's
// single-split fallback below turns that rejection into the same
// single-sub-query result a locally-detected limit would produce.
func Unsplittable(q *hkvpb.Query) bool {
	return q != nil && q.Limit != nil
}

// Split partitions q across up to numSplits sub-queries: a query with
// a user limit is never split; otherwise the server-provided splitter
// is asked for numSplits sub-queries, falling back to a single split on
// any splitter failure (including a rejection of an inequality-filtered
// query). The returned splits are randomly reshuffled to defeat
// split-ordering worker skew.
func Split(ctx context.Context, rpc hkvclient.RPC, projectID, databaseID string, partition *hkvpb.PartitionId, q *hkvpb.Query, numSplits int, shuffle func([]*hkvpb.Query)) []*hkvpb.Query {
	if Unsplittable(q) {
		return []*hkvpb.Query{q}
	}

	resp, err := rpc.SplitQuery(ctx, &hkvpb.SplitQueryRequest{
		ProjectId:   projectID,
		DatabaseId:  databaseID,
		PartitionId: partition,
		Query:       q,
		NumSplits:   int32(numSplits),
	})
	if err != nil || len(resp.Splits) == 0 {
		return []*hkvpb.Query{q}
	}

	splits := resp.Splits
	if shuffle != nil {
		shuffle(splits)
	} else {
		defaultShuffle(splits)
	}
	return splits
}

func defaultShuffle(splits []*hkvpb.Query) {
	rand.Shuffle(len(splits), func(i, j int) { splits[i], splits[j] = splits[j], splits[i] })
}
