package planner

import (
	"context"
	"testing"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

func statEntity(props map[string]*hkvpb.Value) *hkvpb.EntityResult {
	return &hkvpb.EntityResult{Entity: &hkvpb.Entity{Properties: props}}
}

func intVal(v int64) *hkvpb.Value { return &hkvpb.Value{IntegerValue: &v} }

func TestEstimateSizeBytesHappyPath(t *testing.T) {
	call := 0
	rpc := &fakeRPC{runQuery: func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
		call++
		if call == 1 {
			if req.Query.Kind[0].Name != "__Stat_Total__" {
				t.Fatalf("expected the default-namespace totals kind, got %s", req.Query.Kind[0].Name)
			}
			return &hkvpb.RunQueryResponse{Batch: &hkvpb.QueryResultBatch{
				EntityResults: []*hkvpb.EntityResult{statEntity(map[string]*hkvpb.Value{"timestamp": intVal(1000)})},
			}}, nil
		}
		if req.Query.Kind[0].Name != "__Stat_Kind__" {
			t.Fatalf("expected the per-kind stats kind, got %s", req.Query.Kind[0].Name)
		}
		return &hkvpb.RunQueryResponse{Batch: &hkvpb.QueryResultBatch{
			EntityResults: []*hkvpb.EntityResult{statEntity(map[string]*hkvpb.Value{"entity_bytes": intVal(268435456)})},
		}}, nil
	}}

	got, err := EstimateSizeBytes(context.Background(), rpc, "proj", "(default)", nil, "Task")
	if err != nil {
		t.Fatalf("EstimateSizeBytes: %v", err)
	}
	if got != 268435456 {
		t.Fatalf("expected the entity_bytes figure of the matching stats row, got %d", got)
	}
}

func TestEstimateSizeBytesUsesNamespacedStatsKinds(t *testing.T) {
	ns := "tenant-a"
	rpc := &fakeRPC{runQuery: func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
		if req.Query.Kind[0].Name != "__Stat_Ns_Total__" && req.Query.Kind[0].Name != "__Stat_Ns_Kind__" {
			t.Fatalf("expected a namespaced stats kind, got %s", req.Query.Kind[0].Name)
		}
		return &hkvpb.RunQueryResponse{Batch: &hkvpb.QueryResultBatch{
			EntityResults: []*hkvpb.EntityResult{statEntity(map[string]*hkvpb.Value{
				"timestamp":    intVal(1000),
				"entity_bytes": intVal(42),
			})},
		}}, nil
	}}

	_, err := EstimateSizeBytes(context.Background(), rpc, "proj", "(default)", &hkvpb.PartitionId{NamespaceId: &ns}, "Task")
	if err != nil {
		t.Fatalf("EstimateSizeBytes: %v", err)
	}
}

func TestEstimateSizeBytesStatisticsUnavailable(t *testing.T) {
	rpc := &fakeRPC{runQuery: func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
		return &hkvpb.RunQueryResponse{Batch: &hkvpb.QueryResultBatch{}}, nil
	}}

	_, err := EstimateSizeBytes(context.Background(), rpc, "proj", "(default)", nil, "Task")
	if err != ErrStatisticsUnavailable {
		t.Fatalf("expected ErrStatisticsUnavailable, got %v", err)
	}
}
