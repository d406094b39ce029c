package emulator

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
)

// serverPageSize bounds a single RunQuery response regardless of the
// caller's limit, so pkg/planner's pagination loop (NotFinished vs
// NoMoreResults) exercises against a real backend and not only a fake.
const serverPageSize = 300

// partitionScope identifies a (project, database, namespace) triple,
// one level coarser than scopeKey (which also pins a kind); it is what
// statistics recomputation iterates kinds within.
type partitionScope struct {
	ProjectID  string
	DatabaseID string
	Namespace  string
}

// Service implements hkvpb.StoreServiceServer against an EntityStore,
// following a repo-backed-service-with-in-memory-fallback shape: a
// Postgres-backed repository wired alongside a memory store for
// environments with no database configured.
type Service struct {
	hkvpb.UnimplementedStoreServiceServer

	store EntityStore

	mu           sync.Mutex
	kindsByScope map[partitionScope]map[string]struct{}
}

// New builds a Service backed by Postgres if a DSN is configured via
// KV_DATABASE_URL/DATABASE_URL/METADATA_DATABASE_URL, and by an
// in-memory store otherwise.
func New() (*Service, error) {
	pg, err := newPostgresStore()
	if err != nil {
		return nil, err
	}
	var store EntityStore
	if pg != nil {
		store = pg
	} else {
		fmt.Println(errNoDatabaseConfigured)
		store = newMemoryStore()
	}
	return &Service{store: store, kindsByScope: make(map[partitionScope]map[string]struct{})}, nil
}

// Close releases the underlying store.
func (s *Service) Close() error { return s.store.Close() }

func (s *Service) recordKind(scope partitionScope, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.kindsByScope[scope]
	if set == nil {
		set = make(map[string]struct{})
		s.kindsByScope[scope] = set
	}
	set[kind] = struct{}{}
}

func (s *Service) knownKinds(scope partitionScope) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.kindsByScope[scope]))
	for k := range s.kindsByScope[scope] {
		if isStatsKind(k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func isStatsKind(kind string) bool {
	switch kind {
	case "__Stat_Total__", "__Stat_Ns_Total__", "__Stat_Kind__", "__Stat_Ns_Kind__":
		return true
	default:
		return false
	}
}

func partitionScopeOf(projectID, databaseID string, partition *hkvpb.PartitionId) partitionScope {
	scope := partitionScope{ProjectID: projectID, DatabaseID: databaseID}
	if partition != nil {
		if partition.ProjectId != "" {
			scope.ProjectID = partition.ProjectId
		}
		if partition.DatabaseId != "" {
			scope.DatabaseID = partition.DatabaseId
		}
		if partition.NamespaceId != nil {
			scope.Namespace = *partition.NamespaceId
		}
	}
	return scope
}

// RunQuery executes a structured or GQL query to one page of results.
func (s *Service) RunQuery(ctx context.Context, req *hkvpb.RunQueryRequest) (*hkvpb.RunQueryResponse, error) {
	q := req.Query
	if q == nil {
		if req.GqlQuery == nil || *req.GqlQuery == "" {
			return nil, status.Error(codes.InvalidArgument, "exactly one of query or gql_query must be set")
		}
		parsed, err := parseGQL(*req.GqlQuery)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		q = parsed
	}
	if len(q.Kind) != 1 {
		return nil, status.Error(codes.InvalidArgument, "query must name exactly one kind")
	}

	scope := partitionScopeOf(req.ProjectId, req.DatabaseId, req.PartitionId)
	entities, err := s.store.Scan(ctx, scopeKey{ProjectID: scope.ProjectID, DatabaseID: scope.DatabaseID, Namespace: scope.Namespace, Kind: q.Kind[0].Name})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	var filtered []*hkvpb.Entity
	for _, e := range entities {
		if matches(e, q.Filter) {
			filtered = append(filtered, e)
		}
	}
	if len(q.Order) > 0 {
		sortEntities(filtered, q.Order)
	} else {
		filtered = keyOrderedCopy(filtered)
	}

	start := decodeOffset(q.StartCursor, 0)
	end := len(filtered)
	if len(q.EndCursor) > 0 {
		end = decodeOffset(q.EndCursor, end)
	}
	if start > end {
		start = end
	}
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	avail := end - start
	n := avail
	if n > serverPageSize {
		n = serverPageSize
	}
	limited := false
	if q.Limit != nil && int(*q.Limit) < n {
		n = int(*q.Limit)
		limited = true
	} else if q.Limit != nil && int(*q.Limit) == n && n < avail {
		limited = true
	}

	page := filtered[start : start+n]
	newStart := start + n

	results := make([]*hkvpb.EntityResult, len(page))
	for i, e := range page {
		results[i] = &hkvpb.EntityResult{Entity: e, Cursor: encodeOffset(start + i + 1)}
	}

	more := hkvpb.NoMoreResults
	switch {
	case limited && newStart < end:
		more = hkvpb.MoreResultsAfterLimit
	case newStart < end:
		more = hkvpb.NotFinished
	}

	return &hkvpb.RunQueryResponse{
		Batch: &hkvpb.QueryResultBatch{
			EntityResults: results,
			EndCursor:     encodeOffset(newStart),
			MoreResults:   more,
		},
		Query: q,
	}, nil
}

// Commit applies a batch of mutations and refreshes the affected
// scopes' statistics rows.
func (s *Service) Commit(ctx context.Context, req *hkvpb.CommitRequest) (*hkvpb.CommitResponse, error) {
	touched := map[partitionScope]struct{}{}
	results := make([]*hkvpb.MutationResult, 0, len(req.Mutations))

	for _, m := range req.Mutations {
		var wireKey *hkvpb.Key
		switch m.Op {
		case hkvpb.MutationUpsert, hkvpb.MutationInsert, hkvpb.MutationUpdate:
			if m.Entity == nil || m.Entity.Key == nil {
				return nil, status.Error(codes.InvalidArgument, "mutation entity must carry a key")
			}
			wireKey = m.Entity.Key
			k := decodeKey(wireKey)
			if err := keys.RequireComplete(k); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			if err := s.store.Put(ctx, k, m.Entity); err != nil {
				return nil, status.Error(codes.Internal, err.Error())
			}
			scope := partitionScopeOf(req.ProjectId, req.DatabaseId, wireKey.PartitionId)
			s.recordKind(scope, k.Kind())
			touched[scope] = struct{}{}
		case hkvpb.MutationDelete:
			if m.Key == nil {
				return nil, status.Error(codes.InvalidArgument, "delete mutation must carry a key")
			}
			wireKey = m.Key
			k := decodeKey(wireKey)
			if err := keys.RequireComplete(k); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			if err := s.store.Delete(ctx, k); err != nil {
				return nil, status.Error(codes.Internal, err.Error())
			}
			scope := partitionScopeOf(req.ProjectId, req.DatabaseId, wireKey.PartitionId)
			touched[scope] = struct{}{}
		default:
			return nil, status.Errorf(codes.InvalidArgument, "unsupported mutation op %v", m.Op)
		}
		results = append(results, &hkvpb.MutationResult{Key: wireKey})
	}

	for scope := range touched {
		if err := s.recomputeStatistics(ctx, scope); err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
	}

	return &hkvpb.CommitResponse{MutationResults: results}, nil
}

// SplitQuery partitions q's key range into up to NumSplits contiguous
// sub-queries, returning fewer when the scope holds fewer entities.
func (s *Service) SplitQuery(ctx context.Context, req *hkvpb.SplitQueryRequest) (*hkvpb.SplitQueryResponse, error) {
	q := req.Query
	if q == nil || len(q.Kind) != 1 {
		return nil, status.Error(codes.InvalidArgument, "split query must name exactly one kind")
	}
	if q.Limit != nil {
		return &hkvpb.SplitQueryResponse{Splits: []*hkvpb.Query{q}}, nil
	}
	if hasInequalityFilter(q.Filter) {
		return nil, status.Error(codes.InvalidArgument, "cannot split a query with an inequality filter")
	}

	scope := partitionScopeOf(req.ProjectId, req.DatabaseId, req.PartitionId)
	entities, err := s.store.Scan(ctx, scopeKey{ProjectID: scope.ProjectID, DatabaseID: scope.DatabaseID, Namespace: scope.Namespace, Kind: q.Kind[0].Name})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	total := len(entities)
	numSplits := int(req.NumSplits)
	if numSplits < 1 {
		numSplits = 1
	}
	if numSplits > total {
		numSplits = total
	}
	if numSplits < 1 {
		return &hkvpb.SplitQueryResponse{Splits: []*hkvpb.Query{q}}, nil
	}

	splits := make([]*hkvpb.Query, 0, numSplits)
	for i := 0; i < numSplits; i++ {
		start := total * i / numSplits
		end := total * (i + 1) / numSplits
		clone := *q
		clone.StartCursor = encodeOffset(start)
		if i < numSplits-1 {
			clone.EndCursor = encodeOffset(end)
		} else {
			clone.EndCursor = nil
		}
		splits = append(splits, &clone)
	}
	return &hkvpb.SplitQueryResponse{Splits: splits}, nil
}
