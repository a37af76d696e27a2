package cursorable

import (
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Predicate is a narrow query combinator: a function from query to query.
// Callers use it to conjoin their own filters with the position filter
// without the engine leaking its query-building internals.
//
// Example:
//
//	req.Where = func(db *gorm.DB) *gorm.DB {
//		return db.Where("status = ?", "completed")
//	}
type Predicate func(*gorm.DB) *gorm.DB

// PageRequest describes one page of a connection.
//
// The request is a tagged union: forward pagination sets First/After,
// backward pagination sets Last/Before. When a malformed caller populates
// both sides, field presence on the forward side wins.
type PageRequest struct {
	// First is the forward page size. Defaults to the engine's default limit.
	First *int
	// After is the cursor to continue forward from, exclusive.
	After *string
	// Last is the backward page size.
	Last *int
	// Before is the cursor to continue backward from, exclusive.
	Before *string

	// SortKey names a registered sort key. Empty means the default key.
	SortKey string
	// Where is an optional caller filter, applied alongside (never instead
	// of) the position filter.
	Where Predicate
	// WithTotal requests a second, unpaginated count query over the caller
	// filter. The two queries see independent snapshots unless the caller
	// runs them inside one transaction.
	WithTotal bool
	// NoLookahead disables the one-row over-fetch. Without it hasNextPage
	// (forward) and hasPreviousPage (backward) are always false.
	NoLookahead bool
}

// Backward reports whether the request paginates backward. Forward field
// presence takes precedence.
func (r PageRequest) Backward() bool {
	if r.First != nil || r.After != nil {
		return false
	}

	return r.Last != nil || r.Before != nil
}

func (r PageRequest) requestedCount() int {
	if r.Backward() {
		return lo.FromPtr(r.Last)
	}

	return lo.FromPtr(r.First)
}

func (r PageRequest) cursorToken() string {
	if r.Backward() {
		return lo.FromPtr(r.Before)
	}

	return lo.FromPtr(r.After)
}

// RawPageRequest is intended for API payloads. For proper code generation,
// inline it:
//
//	type MyFilter struct {
//	    Paging RawPageRequest `json:",inline"`
//	}
type RawPageRequest struct {
	First   *int    `json:"first,omitempty"`
	After   *string `json:"after,omitempty"`
	Last    *int    `json:"last,omitempty"`
	Before  *string `json:"before,omitempty"`
	SortKey string  `json:"sortKey,omitempty"`
}

// Decode converts RawPageRequest into a PageRequest. Limit normalization and
// cursor validation happen later, in Engine.Paginate.
func (r RawPageRequest) Decode() PageRequest {
	return PageRequest{
		First:   r.First,
		After:   r.After,
		Last:    r.Last,
		Before:  r.Before,
		SortKey: r.SortKey,
	}
}

// queryPlan is the computed shape of one page query: resolved sort key,
// effective per-column directions, decoded cursor payload and the dataset
// limit. Plans are built per request and hold no shared state.
type queryPlan struct {
	key       SortKey
	effective SortKey
	payload   CursorPayload
	backward  bool
	limit     int
	lookahead bool
	hasAfter  bool
	hasBefore bool
	where     Predicate
}

type planConfig struct {
	defaultLimit int
	maxLimit     int
	strictLimit  bool
}

// buildQueryPlan resolves the request against a sort key: pagination
// direction, effective directions, normalized limit and the decoded cursor.
func buildQueryPlan(req PageRequest, key SortKey, cfg planConfig) (*queryPlan, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}

	backward := req.Backward()

	requested := req.requestedCount()
	maxLimit := lo.Ternary(cfg.maxLimit > 0, cfg.maxLimit, MaxLimit)
	if cfg.strictLimit && requested > maxLimit {
		return nil, &LimitExceededError{Requested: requested, Max: maxLimit}
	}
	limit := normalizeLimitDefault(requested, maxLimit, cfg.defaultLimit)

	payload, err := DecodeCursor(key, req.cursorToken())
	if err != nil {
		return nil, err
	}

	return &queryPlan{
		key:       key,
		effective: key.Effective(backward),
		payload:   payload,
		backward:  backward,
		limit:     limit,
		lookahead: !req.NoLookahead,
		hasAfter:  req.After != nil && *req.After != "",
		hasBefore: req.Before != nil && *req.Before != "",
		where:     req.Where,
	}, nil
}

// apply builds the page query: caller filter, position filter, effective
// ordering, then the dataset limit.
func (p *queryPlan) apply(db *gorm.DB) *gorm.DB {
	if p.where != nil {
		db = p.where(db)
	}

	db = p.payload.apply(db, p.effective)
	db = p.effective.Apply(db)

	return db.Limit(p.datasetLimit())
}

// datasetLimit returns the limit adjusted for the over-fetch sentinel:
//   - with lookahead → limit + 1
//   - without lookahead → limit
func (p *queryPlan) datasetLimit() int {
	return lo.Ternary(p.lookahead, p.limit+1, p.limit)
}
