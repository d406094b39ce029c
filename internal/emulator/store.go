// Package emulator implements a local, in-process Store backend: a
// gRPC StoreServiceServer (RunQuery, Commit, SplitQuery) good enough
// to develop and test connector pipelines against without a production
// Store endpoint. Entities persist to Postgres when KV_DATABASE_URL (or
// DATABASE_URL/METADATA_DATABASE_URL) is set, falling back to an
// in-memory store otherwise, following a repo-backed-with-in-memory-
// fallback service shape.
package emulator

import (
	"context"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
)

// scopeKey identifies one (project, database, namespace, kind) scope
// that entities are scanned within. The Store never mixes kinds or
// namespaces in a single scan, matching how RunQuery is always
// constrained to a single KindExpression.
type scopeKey struct {
	ProjectID  string
	DatabaseID string
	Namespace  string
	Kind       string
}

// EntityStore persists entities addressed by their encoded key, scoped
// by kind for scanning. Implementations need not support transactions;
// the connector only ever issues NonTransactional commits.
type EntityStore interface {
	Put(ctx context.Context, key keys.Key, entity *hkvpb.Entity) error
	Delete(ctx context.Context, key keys.Key) error
	Scan(ctx context.Context, scope scopeKey) ([]*hkvpb.Entity, error)
	Close() error
}

func scopeOf(k keys.Key) scopeKey {
	return scopeKey{
		ProjectID:  k.Partition.ProjectID,
		DatabaseID: k.Partition.DatabaseID,
		Namespace:  k.Partition.Namespace,
		Kind:       k.Kind(),
	}
}

func decodeKey(k *hkvpb.Key) keys.Key {
	if k == nil {
		return keys.Key{}
	}
	out := keys.Key{Path: make([]keys.PathElement, len(k.Path))}
	if k.PartitionId != nil {
		out.Partition.ProjectID = k.PartitionId.ProjectId
		out.Partition.DatabaseID = k.PartitionId.DatabaseId
		if k.PartitionId.NamespaceId != nil {
			out.Partition.Namespace = *k.PartitionId.NamespaceId
		}
	}
	for i, e := range k.Path {
		out.Path[i] = keys.PathElement{Kind: e.Kind, ID: e.Id, Name: e.Name}
	}
	return out
}

func encodeWireKey(k keys.Key) *hkvpb.Key {
	wire := &hkvpb.Key{
		PartitionId: &hkvpb.PartitionId{ProjectId: k.Partition.ProjectID, DatabaseId: k.Partition.DatabaseID},
		Path:        make([]*hkvpb.PathElement, len(k.Path)),
	}
	if k.Partition.Namespace != "" {
		ns := k.Partition.Namespace
		wire.PartitionId.NamespaceId = &ns
	}
	for i, e := range k.Path {
		wire.Path[i] = &hkvpb.PathElement{Kind: e.Kind, Id: e.ID, Name: e.Name}
	}
	return wire
}
