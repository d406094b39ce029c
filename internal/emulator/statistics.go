package emulator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
)

// recomputeStatistics rewrites the statistics kinds for scope after a
// commit touches it: one __Stat_Kind__/__Stat_Ns_Kind__
// row per known kind plus one __Stat_Total__/__Stat_Ns_Total__ row
// summing across them, all stamped with the same snapshot.
//
// __Stat_Total__.timestamp is seconds since epoch; the per-kind rows
// store the same instant in microseconds, matching the join
// pkg/planner.EstimateSizeBytes performs between the two kinds.
func (s *Service) recomputeStatistics(ctx context.Context, scope partitionScope) error {
	kinds := s.knownKinds(scope)

	totalKind, kindKind := "__Stat_Total__", "__Stat_Kind__"
	if scope.Namespace != "" {
		totalKind, kindKind = "__Stat_Ns_Total__", "__Stat_Ns_Kind__"
	}

	secs := time.Now().Unix()
	// The per-kind rows' timestamp must equal secs*1e6 exactly, since
	// pkg/planner.EstimateSizeBytes joins the totals row's seconds
	// timestamp against the per-kind rows' microsecond timestamp by
	// multiplying by 1e6 rather than truncating sub-second precision.
	micros := secs * 1_000_000

	var totalBytes int64
	for _, kind := range kinds {
		entities, err := s.store.Scan(ctx, scopeKey{ProjectID: scope.ProjectID, DatabaseID: scope.DatabaseID, Namespace: scope.Namespace, Kind: kind})
		if err != nil {
			return err
		}
		var kindBytes int64
		for _, e := range entities {
			kindBytes += int64(entityBytes(e))
		}
		totalBytes += kindBytes

		if err := s.putStatRow(ctx, scope, kindKind, map[string]*hkvpb.Value{
			"kind_name":    stringValue(kind),
			"entity_bytes": intValue(kindBytes),
			"count":        intValue(int64(len(entities))),
			"timestamp":    intValue(micros),
		}); err != nil {
			return err
		}
	}

	return s.putStatRow(ctx, scope, totalKind, map[string]*hkvpb.Value{
		"entity_bytes": intValue(totalBytes),
		"timestamp":    intValue(secs),
	})
}

func (s *Service) putStatRow(ctx context.Context, scope partitionScope, statsKind string, props map[string]*hkvpb.Value) error {
	key := keys.Key{
		Partition: keys.Partition{ProjectID: scope.ProjectID, DatabaseID: scope.DatabaseID, Namespace: scope.Namespace},
		Path:      []keys.PathElement{{Kind: statsKind, Name: uuid.NewString()}},
	}
	entity := &hkvpb.Entity{Key: encodeWireKey(key), Properties: props}
	return s.store.Put(ctx, key, entity)
}

func stringValue(v string) *hkvpb.Value { return &hkvpb.Value{StringValue: &v} }
func intValue(v int64) *hkvpb.Value     { return &hkvpb.Value{IntegerValue: &v} }

// entityBytes approximates an entity's serialized size, mirroring
// pkg/writer's approxSize until pkg/hkvpb carries a real proto
// marshaler (see its header comment).
func entityBytes(e *hkvpb.Entity) int {
	if e == nil {
		return 0
	}
	n := 8
	if e.Key != nil {
		n += keyBytes(e.Key)
	}
	for name, v := range e.Properties {
		n += len(name) + 8 + valueBytes(v)
	}
	return n
}

func keyBytes(k *hkvpb.Key) int {
	n := 8
	if k.PartitionId != nil {
		n += len(k.PartitionId.ProjectId) + len(k.PartitionId.DatabaseId)
		if k.PartitionId.NamespaceId != nil {
			n += len(*k.PartitionId.NamespaceId)
		}
	}
	for _, e := range k.Path {
		n += len(e.Kind) + len(e.Name) + 8
	}
	return n
}

func valueBytes(v *hkvpb.Value) int {
	if v == nil {
		return 0
	}
	switch {
	case v.StringValue != nil:
		return len(*v.StringValue)
	case v.BlobValue != nil:
		return len(v.BlobValue)
	case v.KeyValue != nil:
		return keyBytes(v.KeyValue)
	default:
		return 8
	}
}
