package emulator

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

// gqlPattern covers the two GQL shapes the connector ever issues: a
// plain "SELECT * FROM Kind" and the same suffixed with a LIMIT clause
// (pkg/planner.Translate always probes with "<gql> LIMIT 0" first).
var gqlPattern = regexp.MustCompile(`(?i)^\s*SELECT\s+\*\s+FROM\s+([A-Za-z_][A-Za-z0-9_]*)\s*(?:LIMIT\s+(\d+)\s*)?$`)

// parseGQL translates gql into a structured Query, or returns an error
// the caller should surface as INVALID_ARGUMENT. A query that already
// carries a LIMIT and gets a second "LIMIT 0" suffix appended (the
// planner's probe request) deliberately fails to match here, so the
// planner's retry-without-suffix path gets exercised against a real
// backend instead of only against a fake in tests.
func parseGQL(gql string) (*hkvpb.Query, error) {
	m := gqlPattern.FindStringSubmatch(gql)
	if m == nil {
		return nil, fmt.Errorf("hkv-emulator: cannot parse gql query %q", gql)
	}
	q := &hkvpb.Query{Kind: []*hkvpb.KindExpression{{Name: m[1]}}}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("hkv-emulator: invalid limit in %q: %w", gql, err)
		}
		limit := int32(n)
		q.Limit = &limit
	}
	return q, nil
}
