package planner

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

type fakeRPC struct {
	runQuery   func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error)
	splitQuery func(ctx context.Context, req *hkvpb.SplitQueryRequest) (*hkvpb.SplitQueryResponse, error)
	runCalls   []*hkvpb.RunQueryRequest
}

func (f *fakeRPC) RunQuery(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
	f.runCalls = append(f.runCalls, req)
	return f.runQuery(ctx, req)
}

func (f *fakeRPC) Commit(ctx context.Context, req *hkvpb.CommitRequest) (*hkvpb.CommitResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRPC) SplitQuery(ctx context.Context, req *hkvpb.SplitQueryRequest) (*hkvpb.SplitQueryResponse, error) {
	if f.splitQuery != nil {
		return f.splitQuery(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func TestTranslateProbeSucceeds(t *testing.T) {
	want := &hkvpb.Query{Kind: []*hkvpb.KindExpression{{Name: "Task"}}}
	rpc := &fakeRPC{runQuery: func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
		if req.GqlQuery == nil || *req.GqlQuery != "SELECT * FROM Task LIMIT 0" {
			t.Fatalf("expected a LIMIT 0 probe, got %v", req.GqlQuery)
		}
		return &hkvpb.RunQueryResponse{Query: want}, nil
	}}

	got, err := Translate(context.Background(), rpc, nil, "proj", "(default)", "SELECT * FROM Task", nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != want {
		t.Fatal("expected the probe's echoed query back")
	}
	if len(rpc.runCalls) != 1 {
		t.Fatalf("expected exactly one RunQuery call, got %d", len(rpc.runCalls))
	}
}

func TestTranslateRetriesWithoutSuffixOnInvalidArgument(t *testing.T) {
	want := &hkvpb.Query{Kind: []*hkvpb.KindExpression{{Name: "Task"}}}
	calls := 0
	rpc := &fakeRPC{runQuery: func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
		calls++
		if calls == 1 {
			return nil, status.Error(codes.InvalidArgument, "already has a limit")
		}
		if *req.GqlQuery != "SELECT * FROM Task WHERE x LIMIT 10" {
			t.Fatalf("expected the retry to use the original gql unmodified, got %q", *req.GqlQuery)
		}
		return &hkvpb.RunQueryResponse{Query: want}, nil
	}}

	got, err := Translate(context.Background(), rpc, nil, "proj", "(default)", "SELECT * FROM Task WHERE x LIMIT 10", nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != want {
		t.Fatal("expected the second response's query back")
	}
	if len(rpc.runCalls) != 2 {
		t.Fatalf("expected exactly one retry (two calls total), got %d", len(rpc.runCalls))
	}
}

func TestTranslatePropagatesOtherErrors(t *testing.T) {
	rpc := &fakeRPC{runQuery: func(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
		return nil, status.Error(codes.Unavailable, "down")
	}}
	_, err := Translate(context.Background(), rpc, nil, "proj", "(default)", "SELECT * FROM Task", nil)
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable to propagate without a retry, got %v", err)
	}
	if len(rpc.runCalls) != 1 {
		t.Fatalf("expected no retry for a non-INVALID_ARGUMENT error, got %d calls", len(rpc.runCalls))
	}
}
