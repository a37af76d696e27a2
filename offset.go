package cursorable

import (
	"context"
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// OffsetCursor presents the same opaque-cursor API over plain LIMIT/OFFSET
// pagination. It is the fallback for datasets with no stable keyset: the
// page is addressed by position, so concurrent writes can shift it.
type OffsetCursor struct {
	offset int
}

func NewOffsetCursor(offset int) *OffsetCursor {
	return &OffsetCursor{
		offset: offset,
	}
}

// DecodeOffsetCursor attempts to parse a base64-encoded token into
// *OffsetCursor. An empty token decodes to nil (start of the dataset).
func DecodeOffsetCursor(token string) (*OffsetCursor, error) {
	if len(token) == 0 {
		return nil, nil
	}

	offsetBytes, err := _encoder.DecodeString(token)
	if err != nil {
		return nil, &InvalidCursorError{Reason: "malformed base64", Err: err}
	}

	offset, err := strconv.Atoi(string(offsetBytes))
	if err != nil {
		return nil, &InvalidCursorError{Reason: "malformed offset value", Err: err}
	}

	return &OffsetCursor{
		offset: offset,
	}, nil
}

// String - implements fmt.Stringer.
func (c *OffsetCursor) String() string {
	if c == nil || c.offset == 0 {
		return ""
	}

	return _encoder.EncodeToString([]byte(strconv.Itoa(c.offset)))
}

// GetOffset returns the numeric offset value.
func (c *OffsetCursor) GetOffset() int {
	if c != nil {
		return c.offset
	}

	return 0
}

var _ fmt.Stringer = (*OffsetCursor)(nil)

// OffsetRequest describes one offset-addressed page. Only forward
// pagination is supported; a page's position is its cursor.
type OffsetRequest struct {
	// First is the page size. Defaults to the engine's default limit.
	First *int
	// After is the offset cursor to continue from.
	After *string
	// SortKey names a registered sort key used for deterministic ordering.
	SortKey string
	// Where is an optional caller filter.
	Where Predicate
	// WithTotal requests a second, unpaginated count query.
	WithTotal bool
}

// PaginateOffset executes one offset-addressed page request and returns a
// connection in the same shape Paginate produces: edge cursors encode the
// position after each node, hasNextPage comes from a one-row over-fetch and
// hasPreviousPage from a non-zero starting offset.
func (e *Engine[T]) PaginateOffset(ctx context.Context, db *gorm.DB, req OffsetRequest) (*Connection[T], error) {
	if e == nil {
		return nil, fmt.Errorf("pagination engine is nil")
	}
	if e.setupErr != nil {
		return nil, fmt.Errorf("cannot paginate: %w", e.setupErr)
	}

	key, err := e.registry.Resolve(req.SortKey)
	if err != nil {
		return nil, err
	}

	requested := lo.FromPtr(req.First)
	maxLimit := lo.Ternary(e.cfg.maxLimit > 0, e.cfg.maxLimit, MaxLimit)
	if e.cfg.strictLimit && requested > maxLimit {
		return nil, &LimitExceededError{Requested: requested, Max: maxLimit}
	}
	limit := normalizeLimitDefault(requested, maxLimit, e.cfg.defaultLimit)

	cursor, err := DecodeOffsetCursor(lo.FromPtr(req.After))
	if err != nil {
		return nil, err
	}
	offset := cursor.GetOffset()

	base := db.WithContext(ctx)

	tx := base.Session(&gorm.Session{})
	if req.Where != nil {
		tx = req.Where(tx)
	}
	tx = key.Apply(tx).Limit(limit + 1)
	if offset > 0 {
		tx = tx.Offset(offset)
	}

	rows := make([]T, 0, limit+1)
	if err = tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cannot execute page query: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	edges := make([]Edge[T], 0, len(rows))
	for i, node := range rows {
		edges = append(edges, Edge[T]{
			Cursor: NewOffsetCursor(offset + i + 1).String(),
			Node:   node,
		})
	}

	info := PageInfo{
		HasNextPage:     hasMore,
		HasPreviousPage: offset > 0,
	}
	if len(edges) > 0 {
		info.StartCursor = lo.ToPtr(edges[0].Cursor)
		info.EndCursor = lo.ToPtr(edges[len(edges)-1].Cursor)
	}

	conn := &Connection[T]{
		Nodes:    rows,
		Edges:    edges,
		PageInfo: info,
	}

	if req.WithTotal {
		total, err := e.total(base, req.Where)
		if err != nil {
			return nil, err
		}

		conn.TotalCount = &total
	}

	return conn, nil
}
