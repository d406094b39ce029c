package writer

import "github.com/nucleus/hkv-connector/pkg/hkvpb"

// approxSize estimates a mutation's contribution to a commit's
// serialized byte size. The production Store RPC would report exact
// wire sizes via the generated proto marshaler; until pkg/hkvpb is
// replaced by protoc-generated code (see its header comment) this
// walks the message by hand. It only needs to be a reasonable
// approximation: the byte-limit check in the batching state machine is
// a safety margin under the server's hard 9MB ceiling, not an exact
// accounting.
func approxSize(m *hkvpb.Mutation) int {
	if m == nil {
		return 0
	}
	n := 16 // op tag + framing overhead
	if m.Key != nil {
		n += keySize(m.Key)
	}
	if m.Entity != nil {
		n += entitySize(m.Entity)
	}
	return n
}

func keySize(k *hkvpb.Key) int {
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

func entitySize(e *hkvpb.Entity) int {
	n := keySize(e.Key)
	for name, v := range e.Properties {
		n += len(name) + 8 + valueSize(v)
	}
	return n
}

func valueSize(v *hkvpb.Value) int {
	if v == nil {
		return 0
	}
	switch {
	case v.StringValue != nil:
		return len(*v.StringValue)
	case v.BlobValue != nil:
		return len(v.BlobValue)
	case v.KeyValue != nil:
		return keySize(v.KeyValue)
	default:
		return 8
	}
}
