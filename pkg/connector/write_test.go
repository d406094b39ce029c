package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/nucleus/hkv-connector/pkg/config"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/writer"
)

type fakeRPC struct {
	commits []*hkvpb.CommitRequest
}

func (f *fakeRPC) RunQuery(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRPC) Commit(ctx context.Context, req *hkvpb.CommitRequest) (*hkvpb.CommitResponse, error) {
	f.commits = append(f.commits, req)
	return &hkvpb.CommitResponse{}, nil
}

func (f *fakeRPC) SplitQuery(ctx context.Context, req *hkvpb.SplitQueryRequest) (*hkvpb.SplitQueryResponse, error) {
	return nil, errors.New("not implemented")
}

func testConfig(t *testing.T) *config.Config {
	c, err := config.New("proj", config.WithThrottleRampup(false))
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	return c
}

func entityFor(name string) *hkvpb.Entity {
	return &hkvpb.Entity{
		Key: &hkvpb.Key{
			PartitionId: &hkvpb.PartitionId{ProjectId: "proj"},
			Path:        []*hkvpb.PathElement{{Kind: "Task", Name: name}},
		},
	}
}

func TestUpsertProducesUpsertMutation(t *testing.T) {
	rpc := &fakeRPC{}
	var summaries []writer.WriteSuccessSummary[string]
	engine := Upsert[string, string](rpc, testConfig(t), func(s writer.WriteSuccessSummary[string]) { summaries = append(summaries, s) }, func(name string) (*hkvpb.Entity, error) {
		return entityFor(name), nil
	})

	if err := engine.ProcessElement(context.Background(), "a", "w0"); err != nil {
		t.Fatalf("ProcessElement: %v", err)
	}
	if err := engine.FinishBundle(context.Background()); err != nil {
		t.Fatalf("FinishBundle: %v", err)
	}

	if len(rpc.commits) != 1 || len(rpc.commits[0].Mutations) != 1 {
		t.Fatalf("expected exactly one commit with one mutation, got %+v", rpc.commits)
	}
	if rpc.commits[0].Mutations[0].Op != hkvpb.MutationUpsert {
		t.Fatal("expected an upsert mutation")
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one success summary, got %d", len(summaries))
	}
}

func TestDeleteByEntityProducesDeleteOfItsKey(t *testing.T) {
	rpc := &fakeRPC{}
	engine := DeleteByEntity[string, string](rpc, testConfig(t), func(writer.WriteSuccessSummary[string]) {}, func(name string) (*hkvpb.Entity, error) {
		return entityFor(name), nil
	})

	if err := engine.ProcessElement(context.Background(), "a", "w0"); err != nil {
		t.Fatalf("ProcessElement: %v", err)
	}
	if err := engine.FinishBundle(context.Background()); err != nil {
		t.Fatalf("FinishBundle: %v", err)
	}

	m := rpc.commits[0].Mutations[0]
	if m.Op != hkvpb.MutationDelete || m.Entity != nil || m.Key == nil {
		t.Fatalf("expected a key-only delete mutation, got %+v", m)
	}
}

func TestDeleteByKeyRejectsIncompleteKey(t *testing.T) {
	rpc := &fakeRPC{}
	engine := DeleteByKey[string, string](rpc, testConfig(t), func(writer.WriteSuccessSummary[string]) {}, func(name string) (*hkvpb.Key, error) {
		return &hkvpb.Key{Path: []*hkvpb.PathElement{{Kind: "Task"}}}, nil
	})

	if err := engine.ProcessElement(context.Background(), "a", "w0"); err == nil {
		t.Fatal("expected an incomplete key to be rejected as a configuration error before any RPC")
	}
	if len(rpc.commits) != 0 {
		t.Fatal("expected no commit for a rejected mutation")
	}
}
