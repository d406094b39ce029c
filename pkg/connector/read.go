package connector

import (
	"context"

	"github.com/nucleus/hkv-connector/pkg/config"
	"github.com/nucleus/hkv-connector/pkg/hkverrors"
	"github.com/nucleus/hkv-connector/pkg/hkvclient"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/planner"
)

// Reader drives the query planner against a configured Store
// endpoint, for a caller who wants a structured Query or a GQL string
// read to completion, entity by entity.
type Reader struct {
	rpc hkvclient.RPC
	cfg *config.Config
}

// NewReader builds a Reader over rpc using cfg's project/database/
// namespace addressing, read snapshot, and split-count override.
func NewReader(rpc hkvclient.RPC, cfg *config.Config) *Reader {
	return &Reader{rpc: rpc, cfg: cfg}
}

// Query runs a structured query to completion, calling emit for every
// entity in split-read order.
func (r *Reader) Query(ctx context.Context, q *hkvpb.Query, emit func(*hkvpb.Entity) error) error {
	return r.run(ctx, q, "", emit)
}

// GQL translates and runs a textual query to completion.
func (r *Reader) GQL(ctx context.Context, gql string, emit func(*hkvpb.Entity) error) error {
	if gql == "" {
		return hkverrors.ConfigError{Reason: "gqlQuery must not be empty"}
	}
	return r.run(ctx, nil, gql, emit)
}

func (r *Reader) run(ctx context.Context, q *hkvpb.Query, gql string, emit func(*hkvpb.Entity) error) error {
	if q != nil && gql != "" {
		return hkverrors.ConfigError{Reason: "exactly one of query or gqlQuery must be set"}
	}
	return planner.Run(ctx, r.rpc, planner.Request{
		ProjectID:   r.cfg.ProjectID,
		DatabaseID:  r.cfg.DatabaseID,
		Partition:   partitionID(r.cfg.ProjectID, r.cfg.DatabaseID, r.cfg.Namespace),
		Query:       q,
		GQL:         gql,
		NumSplits:   r.cfg.NumQuerySplits,
		ReadOptions: readOptions(r.cfg),
	}, emit)
}

func readOptions(cfg *config.Config) *hkvpb.ReadOptions {
	if cfg.ReadTimeMs == nil {
		return nil
	}
	return &hkvpb.ReadOptions{ReadTimeMs: cfg.ReadTimeMs}
}
