package emulator

import (
	"bytes"
	"sort"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

// matches reports whether entity satisfies filter. A nil filter matches
// everything. CompositeFilter is always an AND, mirroring the only form
// a namespace/kind-scoped statistics query ever issues.
func matches(entity *hkvpb.Entity, filter *hkvpb.Filter) bool {
	if filter == nil {
		return true
	}
	if filter.PropertyFilter != nil {
		return matchesProperty(entity, filter.PropertyFilter)
	}
	if filter.CompositeFilter != nil {
		for _, pf := range filter.CompositeFilter.Filters {
			if !matchesProperty(entity, pf) {
				return false
			}
		}
		return true
	}
	return true
}

func matchesProperty(entity *hkvpb.Entity, pf *hkvpb.PropertyFilter) bool {
	if pf == nil || pf.Property == nil {
		return true
	}
	actual, ok := entity.Properties[pf.Property.Name]
	if !ok {
		return false
	}
	cmp, ok := compareValues(actual, pf.Value)
	if !ok {
		return false
	}
	switch pf.Op {
	case hkvpb.OpEqual:
		return cmp == 0
	case hkvpb.OpLessThan:
		return cmp < 0
	case hkvpb.OpGreaterThan:
		return cmp > 0
	default:
		return false
	}
}

// hasInequalityFilter reports whether filter contains a LessThan or
// GreaterThan comparison anywhere in its (possibly composite) filters.
// A query restricted this way can only be read in sorted-key order, so
// it cannot be key-range split.
func hasInequalityFilter(filter *hkvpb.Filter) bool {
	if filter == nil {
		return false
	}
	if pf := filter.PropertyFilter; pf != nil && isInequalityOp(pf.Op) {
		return true
	}
	if filter.CompositeFilter != nil {
		for _, pf := range filter.CompositeFilter.Filters {
			if isInequalityOp(pf.Op) {
				return true
			}
		}
	}
	return false
}

func isInequalityOp(op hkvpb.PropertyFilterOp) bool {
	return op == hkvpb.OpLessThan || op == hkvpb.OpGreaterThan
}

// compareValues compares two same-typed Values, returning ok=false if
// either is nil or their set variants differ.
func compareValues(a, b *hkvpb.Value) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	switch {
	case a.StringValue != nil && b.StringValue != nil:
		return compareStrings(*a.StringValue, *b.StringValue), true
	case a.IntegerValue != nil && b.IntegerValue != nil:
		return compareInt64(*a.IntegerValue, *b.IntegerValue), true
	case a.DoubleValue != nil && b.DoubleValue != nil:
		return compareFloat64(*a.DoubleValue, *b.DoubleValue), true
	case a.TimestampValue != nil && b.TimestampValue != nil:
		return compareInt64(*a.TimestampValue, *b.TimestampValue), true
	case a.BooleanValue != nil && b.BooleanValue != nil:
		return compareBool(*a.BooleanValue, *b.BooleanValue), true
	case a.BlobValue != nil && b.BlobValue != nil:
		return bytes.Compare(a.BlobValue, b.BlobValue), true
	default:
		return 0, false
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

// sortEntities orders entities by order (property comparisons, in
// sequence), falling back to key order for ties or when order is empty.
// Key order is also what an unordered query's split ranges partition.
func sortEntities(entities []*hkvpb.Entity, order []*hkvpb.PropertyOrder) {
	sort.SliceStable(entities, func(i, j int) bool {
		for _, o := range order {
			if o == nil || o.Property == nil {
				continue
			}
			av, aok := entities[i].Properties[o.Property.Name]
			bv, bok := entities[j].Properties[o.Property.Name]
			if !aok || !bok {
				continue
			}
			cmp, ok := compareValues(av, bv)
			if !ok || cmp == 0 {
				continue
			}
			if o.Direction == hkvpb.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return decodeKey(entities[i].Key).Encode() < decodeKey(entities[j].Key).Encode()
	})
}

// keyOrderedCopy returns entities sorted by key order, used to give
// SplitQuery and unfiltered/unordered RunQuery a stable key-range
// partitioning independent of any filter.
func keyOrderedCopy(entities []*hkvpb.Entity) []*hkvpb.Entity {
	out := make([]*hkvpb.Entity, len(entities))
	copy(out, entities)
	sort.SliceStable(out, func(i, j int) bool {
		return decodeKey(out[i].Key).Encode() < decodeKey(out[j].Key).Encode()
	})
	return out
}
