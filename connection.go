package cursorable

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// PageInfo contains pagination metadata for one page of a connection,
// following the Relay cursor-connection pattern.
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// Edge is one node of a connection together with its cursor, so clients can
// resume pagination from any item rather than only from page boundaries.
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// Connection is a page of nodes plus pagination metadata. Nodes are always
// in the caller's requested logical order: backward pages are reversed out
// of query order before the connection is built.
type Connection[T any] struct {
	Nodes      []T       `json:"nodes"`
	Edges      []Edge[T] `json:"edges"`
	PageInfo   PageInfo  `json:"pageInfo"`
	TotalCount *int64    `json:"totalCount,omitempty"`
}

// buildConnection turns the raw over-fetched rows, still in query order,
// into a connection:
//
//  1. Trim the sentinel row from the tail when the over-fetch brought one
//     back, recording "more pages exist" on the corresponding flag.
//  2. A present after-cursor proves rows precede the page; a present
//     before-cursor proves rows follow it.
//  3. Backward pages are reversed into display order.
//  4. Cursors are encoded from the post-reversal first and last nodes.
func buildConnection[T any](plan *queryPlan, rows []T, getters Getters[T]) (*Connection[T], error) {
	hasMore := plan.lookahead && len(rows) > plan.limit
	if hasMore {
		rows = rows[:plan.limit]
	}

	info := PageInfo{}
	if plan.backward {
		info.HasPreviousPage = hasMore
		info.HasNextPage = plan.hasBefore
	} else {
		info.HasNextPage = hasMore
		info.HasPreviousPage = plan.hasAfter
	}

	if plan.backward {
		slices.Reverse(rows)
	}

	edges := make([]Edge[T], 0, len(rows))
	for _, node := range rows {
		token, err := encodeNodeCursor(node, plan.key, getters)
		if err != nil {
			return nil, fmt.Errorf("cannot build connection: %w", err)
		}

		edges = append(edges, Edge[T]{Cursor: token, Node: node})
	}

	if len(edges) > 0 {
		info.StartCursor = lo.ToPtr(edges[0].Cursor)
		info.EndCursor = lo.ToPtr(edges[len(edges)-1].Cursor)
	}

	return &Connection[T]{
		Nodes:    rows,
		Edges:    edges,
		PageInfo: info,
	}, nil
}
