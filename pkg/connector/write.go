package connector

import (
	"context"
	"time"

	"github.com/nucleus/hkv-connector/pkg/batching"
	"github.com/nucleus/hkv-connector/pkg/config"
	"github.com/nucleus/hkv-connector/pkg/hkvclient"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
	"github.com/nucleus/hkv-connector/pkg/metrics"
	"github.com/nucleus/hkv-connector/pkg/throttle"
	"github.com/nucleus/hkv-connector/pkg/writer"
)

// MutationEngine is the one engine behind Upsert, DeleteByEntity, and
// DeleteByKey: a Writer[W] fed by a per-element builder that turns a T
// into a wire Mutation. W is the window type the host pipeline
// attributes elements to.
type MutationEngine[T, W any] struct {
	w     *writer.Writer[W]
	ramp  *throttle.Rampup
	build func(T) (*hkvpb.Mutation, keys.Key, error)
}

// Metrics exposes the underlying writer's counters/distributions.
func (e *MutationEngine[T, W]) Metrics() *metrics.WriterMetrics { return e.w.Metrics }

// ProcessElement converts elem to a mutation via the engine's builder
// and feeds it through the batching state machine, first respecting
// the ramp-up ceiling if one was configured.
func (e *MutationEngine[T, W]) ProcessElement(ctx context.Context, elem T, window W) error {
	if e.ramp != nil {
		if err := e.ramp.Admit(ctx, time.Now); err != nil {
			return err
		}
	}
	m, k, err := e.build(elem)
	if err != nil {
		return err
	}
	return e.w.ProcessElement(ctx, writer.TaggedMutation[W]{Mutation: m, Key: k, Window: window})
}

// FinishBundle flushes any pending batch.
func (e *MutationEngine[T, W]) FinishBundle(ctx context.Context) error {
	return e.w.FinishBundle(ctx)
}

func newEngine[T, W any](rpc hkvclient.RPC, cfg *config.Config, emit func(writer.WriteSuccessSummary[W]), build func(T) (*hkvpb.Mutation, keys.Key, error)) *MutationEngine[T, W] {
	var ramp *throttle.Rampup
	if cfg.ThrottleRampup {
		ramp = throttle.NewRampup(time.Now(), cfg.HintNumWorkers)
	}
	w := writer.NewWriter[W](rpc, cfg.ProjectID, cfg.DatabaseID, batching.NewWriteBatcher(), throttle.NewAdaptive(), metrics.NewWriterMetrics(), emit)
	return &MutationEngine[T, W]{w: w, ramp: ramp, build: build}
}

// Upsert builds a MutationEngine that upserts the entity toEntity
// produces for each input element.
func Upsert[T, W any](rpc hkvclient.RPC, cfg *config.Config, emit func(writer.WriteSuccessSummary[W]), toEntity func(T) (*hkvpb.Entity, error)) *MutationEngine[T, W] {
	return newEngine(rpc, cfg, emit, func(elem T) (*hkvpb.Mutation, keys.Key, error) {
		entity, err := toEntity(elem)
		if err != nil {
			return nil, keys.Key{}, err
		}
		k := decodeKey(entity.Key)
		if err := keys.RequireComplete(k); err != nil {
			return nil, keys.Key{}, err
		}
		return &hkvpb.Mutation{Op: hkvpb.MutationUpsert, Entity: entity}, k, nil
	})
}

// DeleteByEntity builds a MutationEngine that deletes the key of the
// entity toEntity produces for each input element.
func DeleteByEntity[T, W any](rpc hkvclient.RPC, cfg *config.Config, emit func(writer.WriteSuccessSummary[W]), toEntity func(T) (*hkvpb.Entity, error)) *MutationEngine[T, W] {
	return newEngine(rpc, cfg, emit, func(elem T) (*hkvpb.Mutation, keys.Key, error) {
		entity, err := toEntity(elem)
		if err != nil {
			return nil, keys.Key{}, err
		}
		return deleteMutation(entity.Key)
	})
}

// DeleteByKey builds a MutationEngine that deletes the key toKey
// produces for each input element.
func DeleteByKey[T, W any](rpc hkvclient.RPC, cfg *config.Config, emit func(writer.WriteSuccessSummary[W]), toKey func(T) (*hkvpb.Key, error)) *MutationEngine[T, W] {
	return newEngine(rpc, cfg, emit, func(elem T) (*hkvpb.Mutation, keys.Key, error) {
		key, err := toKey(elem)
		if err != nil {
			return nil, keys.Key{}, err
		}
		return deleteMutation(key)
	})
}

func deleteMutation(key *hkvpb.Key) (*hkvpb.Mutation, keys.Key, error) {
	k := decodeKey(key)
	if err := keys.RequireComplete(k); err != nil {
		return nil, keys.Key{}, err
	}
	return &hkvpb.Mutation{Op: hkvpb.MutationDelete, Key: key}, k, nil
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
