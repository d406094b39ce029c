// Package planner implements the query planner: GQL translation,
// statistics-based size estimation, split-count selection, the
// splitting policy, and the paginated, retrying read loop. Modeled on
// a JDBC-style connector's own retry/backoff posture against a
// structured query engine.
package planner

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nucleus/hkv-connector/pkg/hkvclient"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

// Translate resolves a caller-supplied GQL string to the structured
// query the server would actually run. It probes with an appended
// "LIMIT 0" first; a server that rejects the probe with
// INVALID_ARGUMENT is interpreted as "the query already carries a
// limit", and the probe is retried once without the suffix. Any other
// error code propagates unchanged.
func Translate(ctx context.Context, rpc hkvclient.RPC, partition *hkvpb.PartitionId, projectID, databaseID, gql string, readOptions *hkvpb.ReadOptions) (*hkvpb.Query, error) {
	probe := gql + " LIMIT 0"
	q, err := runGQL(ctx, rpc, partition, projectID, databaseID, probe, readOptions)
	if err == nil {
		return q, nil
	}
	if status.Code(err) != codes.InvalidArgument {
		return nil, err
	}
	return runGQL(ctx, rpc, partition, projectID, databaseID, gql, readOptions)
}

func runGQL(ctx context.Context, rpc hkvclient.RPC, partition *hkvpb.PartitionId, projectID, databaseID, gql string, readOptions *hkvpb.ReadOptions) (*hkvpb.Query, error) {
	resp, err := rpc.RunQuery(ctx, &hkvpb.RunQueryRequest{
		ProjectId:   projectID,
		DatabaseId:  databaseID,
		PartitionId: partition,
		GqlQuery:    &gql,
		ReadOptions: readOptions,
	})
	if err != nil {
		return nil, err
	}
	return resp.Query, nil
}
