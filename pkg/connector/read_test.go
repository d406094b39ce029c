package connector

import (
	"context"
	"testing"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

type fakeReadRPC struct {
	fakeRPC
	runQuery func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error)
}

func (f *fakeReadRPC) RunQuery(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
	return f.runQuery(ctx, req)
}

func TestReaderQueryEmitsEveryEntity(t *testing.T) {
	limit := int32(2)
	rpc := &fakeReadRPC{runQuery: func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
		return &hkvpb.RunQueryResponse{Batch: &hkvpb.QueryResultBatch{
			EntityResults: []*hkvpb.EntityResult{
				{Entity: entityFor("a")},
				{Entity: entityFor("b")},
			},
			MoreResults: hkvpb.NoMoreResults,
		}}, nil
	}}

	r := NewReader(rpc, testConfig(t))
	var got []string
	err := r.Query(context.Background(), &hkvpb.Query{Limit: &limit, Kind: []*hkvpb.KindExpression{{Name: "Task"}}}, func(e *hkvpb.Entity) error {
		got = append(got, e.Key.Path[0].Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(got))
	}
}

func TestReaderGQLRejectsEmptyString(t *testing.T) {
	rpc := &fakeReadRPC{runQuery: func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
		t.Fatal("RunQuery must not be called for an empty gqlQuery")
		return nil, nil
	}}

	r := NewReader(rpc, testConfig(t))
	err := r.GQL(context.Background(), "", func(e *hkvpb.Entity) error { return nil })
	if err == nil {
		t.Fatal("expected an empty gqlQuery to be rejected")
	}
}

func TestReaderQueryAndGQLAreMutuallyExclusive(t *testing.T) {
	rpc := &fakeReadRPC{runQuery: func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
		t.Fatal("RunQuery must not be called when both query and gqlQuery are set")
		return nil, nil
	}}

	r := NewReader(rpc, testConfig(t))
	err := r.run(context.Background(), &hkvpb.Query{}, "SELECT * FROM Task", func(e *hkvpb.Entity) error { return nil })
	if err == nil {
		t.Fatal("expected setting both query and gqlQuery to be rejected")
	}
}
