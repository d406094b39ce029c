// Package hkvclient wraps a gRPC connection to the Store in the thin
// client the query planner and mutation writer both depend on: a
// wrapper-over-a-repository shape generalized here to wrap a live gRPC
// connection instead of an in-process repository.
package hkvclient

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

// Client wraps a StoreServiceClient over a single gRPC connection. The
// connection is opened at bundle start and closed at bundle end;
// callers own that lifecycle via Close.
type Client struct {
	conn *grpc.ClientConn
	rpc  hkvpb.StoreServiceClient
}

// Dial opens a connection to target (host:port). If creds is nil, an
// insecure transport is used, matching how a local emulator
// (cmd/hkv-emulator) is typically reached in development.
func Dial(ctx context.Context, target string, creds credentials.TransportCredentials) (*Client, error) {
	opts := []grpc.DialOption{}
	if creds != nil {
		opts = append(opts, grpc.WithTransportCredentials(creds))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("hkvclient: dial %s: %w", target, err)
	}
	return &Client{conn: conn, rpc: hkvpb.NewStoreServiceClient(conn)}, nil
}

// NewFromConn wraps an already-established connection (e.g. one built
// with test-only in-process transport credentials).
func NewFromConn(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn, rpc: hkvpb.NewStoreServiceClient(conn)}
}

// RunQuery proxies to the underlying StoreServiceClient.
func (c *Client) RunQuery(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
	return c.rpc.RunQuery(ctx, req)
}

// Commit proxies to the underlying StoreServiceClient.
func (c *Client) Commit(ctx context.Context, req *hkvpb.CommitRequest) (*hkvpb.CommitResponse, error) {
	return c.rpc.Commit(ctx, req)
}

// SplitQuery proxies to the underlying StoreServiceClient.
func (c *Client) SplitQuery(ctx context.Context, req *hkvpb.SplitQueryRequest) (*hkvpb.SplitQueryResponse, error) {
	return c.rpc.SplitQuery(ctx, req)
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// RPC is the interface pkg/planner and pkg/writer depend on, so tests
// can substitute a fake without dialing a real connection.
type RPC interface {
	RunQuery(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error)
	Commit(ctx context.Context, req *hkvpb.CommitRequest) (*hkvpb.CommitResponse, error)
	SplitQuery(ctx context.Context, req *hkvpb.SplitQueryRequest) (*hkvpb.SplitQueryResponse, error)
}

var _ RPC = (*Client)(nil)

// DefaultTimeout is a 60-second per-RPC deadline value. Neither Client
// nor its callers in this module apply it: each RPC runs under whatever
// deadline the caller's context carries.
const DefaultTimeout = 60 * time.Second
