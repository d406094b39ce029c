package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/nucleus/hkv-connector/pkg/hkvclient"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

// ErrStatisticsUnavailable is reported when the statistics kinds the
// Store maintains have no rows yet.
var ErrStatisticsUnavailable = errors.New("planner: statistics unavailable")

const statsTimestampMicrosPerSecond = 1_000_000

// EstimateSizeBytes estimates the on-disk size of a structured query's
// single kind. It queries the totals statistics kind for the most
// recent stats snapshot timestamp, then the per-kind statistics kind for
// that snapshot's entity_bytes figure.
func EstimateSizeBytes(ctx context.Context, rpc hkvclient.RPC, projectID, databaseID string, partition *hkvpb.PartitionId, kind string) (int64, error) {
	totalsKind := "__Stat_Total__"
	kindKind := "__Stat_Kind__"
	if partition != nil && partition.NamespaceId != nil && *partition.NamespaceId != "" {
		totalsKind = "__Stat_Ns_Total__"
		kindKind = "__Stat_Ns_Kind__"
	}

	ts, err := latestStatsTimestamp(ctx, rpc, projectID, databaseID, partition, totalsKind)
	if err != nil {
		return 0, err
	}

	bytes, err := kindEntityBytes(ctx, rpc, projectID, databaseID, partition, kindKind, kind, ts)
	if err != nil {
		return 0, err
	}
	return bytes, nil
}

func latestStatsTimestamp(ctx context.Context, rpc hkvclient.RPC, projectID, databaseID string, partition *hkvpb.PartitionId, statsKind string) (int64, error) {
	limit := int32(1)
	resp, err := rpc.RunQuery(ctx, &hkvpb.RunQueryRequest{
		ProjectId:   projectID,
		DatabaseId:  databaseID,
		PartitionId: partition,
		Query: &hkvpb.Query{
			Kind:  []*hkvpb.KindExpression{{Name: statsKind}},
			Order: []*hkvpb.PropertyOrder{{Property: &hkvpb.PropertyReference{Name: "timestamp"}, Direction: hkvpb.Descending}},
			Limit: &limit,
		},
	})
	if err != nil {
		return 0, err
	}
	if resp.Batch == nil || len(resp.Batch.EntityResults) == 0 {
		return 0, ErrStatisticsUnavailable
	}
	v := resp.Batch.EntityResults[0].Entity.Properties["timestamp"]
	if v == nil || v.IntegerValue == nil {
		return 0, ErrStatisticsUnavailable
	}
	return *v.IntegerValue * statsTimestampMicrosPerSecond, nil
}

func kindEntityBytes(ctx context.Context, rpc hkvclient.RPC, projectID, databaseID string, partition *hkvpb.PartitionId, statsKind, kind string, timestampMicros int64) (int64, error) {
	resp, err := rpc.RunQuery(ctx, &hkvpb.RunQueryRequest{
		ProjectId:   projectID,
		DatabaseId:  databaseID,
		PartitionId: partition,
		Query: &hkvpb.Query{
			Kind: []*hkvpb.KindExpression{{Name: statsKind}},
			Filter: &hkvpb.Filter{CompositeFilter: &hkvpb.CompositeFilter{Filters: []*hkvpb.PropertyFilter{
				{Property: &hkvpb.PropertyReference{Name: "kind_name"}, Op: hkvpb.OpEqual, Value: &hkvpb.Value{StringValue: &kind}},
				{Property: &hkvpb.PropertyReference{Name: "timestamp"}, Op: hkvpb.OpEqual, Value: &hkvpb.Value{IntegerValue: &timestampMicros}},
			}}},
		},
	})
	if err != nil {
		return 0, err
	}
	if resp.Batch == nil || len(resp.Batch.EntityResults) == 0 {
		return 0, fmt.Errorf("planner: no %s row for kind %q at timestamp %d", statsKind, kind, timestampMicros)
	}
	v := resp.Batch.EntityResults[0].Entity.Properties["entity_bytes"]
	if v == nil || v.IntegerValue == nil {
		return 0, fmt.Errorf("planner: %s row for kind %q has no entity_bytes", statsKind, kind)
	}
	return *v.IntegerValue, nil
}
