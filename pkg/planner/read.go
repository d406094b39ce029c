package planner

import (
	"context"
	"fmt"
	"math"
	"time"

	"google.golang.org/grpc/status"

	"github.com/nucleus/hkv-connector/internal/backoff"
	"github.com/nucleus/hkv-connector/pkg/hkverrors"
	"github.com/nucleus/hkv-connector/pkg/hkvclient"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

const maxPageSize = 500

// ReadPolicy is the shared retry budget for RunQuery attempts: initial
// 5s backoff, up to 5 retries, non-retryable codes abort immediately.
var ReadPolicy = backoff.Policy{Initial: 5 * time.Second, MaxRetries: 5}

// ReadSplit drives the paginated read loop for one split query, calling
// emit for every returned entity in order. A nil split.Limit means
// unbounded.
func ReadSplit(ctx context.Context, rpc hkvclient.RPC, projectID, databaseID string, partition *hkvpb.PartitionId, readOptions *hkvpb.ReadOptions, split *hkvpb.Query, emit func(*hkvpb.Entity) error) error {
	bounded := split.Limit != nil
	remaining := int64(math.MaxInt64)
	if bounded {
		remaining = int64(*split.Limit)
	}

	cursor := split.StartCursor
	first := true

	for {
		pageLimit := int64(maxPageSize)
		if bounded && remaining < pageLimit {
			pageLimit = remaining
		}
		limit32 := int32(pageLimit)

		q := cloneQueryForPage(split, limit32, cursor, first)
		var resp *hkvpb.RunQueryResponse
		err := backoff.Retry(ctx, ReadPolicy, isRetryable, func() error {
			r, rerr := rpc.RunQuery(ctx, &hkvpb.RunQueryRequest{
				ProjectId:   projectID,
				DatabaseId:  databaseID,
				PartitionId: partition,
				Query:       q,
				ReadOptions: readOptions,
			})
			if rerr != nil {
				return rerr
			}
			resp = r
			return nil
		})
		if err != nil {
			return hkverrors.Wrap(status.Code(err), err)
		}

		batch := resp.Batch
		var returned int64
		if batch != nil {
			for _, er := range batch.EntityResults {
				if err := emit(er.Entity); err != nil {
					return err
				}
				returned++
			}
		}

		if bounded && returned > remaining {
			return fmt.Errorf("planner: store returned %d entities, exceeding the remaining user limit of %d", returned, remaining)
		}

		first = false
		if batch == nil {
			return nil
		}
		cursor = batch.EndCursor
		remaining -= returned

		hitPage := returned == int64(maxPageSize)
		more := batch.MoreResults == hkvpb.NotFinished

		if bounded && remaining <= 0 {
			return nil
		}
		if !hitPage && !more {
			return nil
		}
	}
}

func cloneQueryForPage(base *hkvpb.Query, limit int32, cursor []byte, first bool) *hkvpb.Query {
	q := &hkvpb.Query{
		Kind:      base.Kind,
		Filter:    base.Filter,
		Order:     base.Order,
		Limit:     &limit,
		EndCursor: base.EndCursor,
	}
	if first {
		q.StartCursor = base.StartCursor
	} else {
		q.StartCursor = cursor
	}
	return q
}

func isRetryable(err error) bool {
	return !hkverrors.IsNonRetryable(status.Code(err))
}
