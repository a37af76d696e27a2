package cursorable

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Engine paginates a model through its registered sort keys. Configure it
// once at model setup:
//
//	engine := cursorable.NewEngine(cursorable.Getters[Order]{
//		"created_at": func(o Order) any { return o.CreatedAt },
//		"id":         func(o Order) any { return o.ID },
//	}).
//		WithSortKey("newest",
//			cursorable.ColumnSort{Column: "created_at", Direction: cursorable.DirectionDESC, Reversible: true, Timestamp: true},
//			cursorable.ColumnSort{Column: "id", Direction: cursorable.DirectionDESC, Reversible: true},
//		).
//		WithDefaultLimit(20)
//
// A configured engine is read-only: every Paginate call is independent and
// stateless, so arbitrarily many may run concurrently.
type Engine[T any] struct {
	registry *SortKeyRegistry
	getters  Getters[T]
	cfg      planConfig
	setupErr error
}

func NewEngine[T any](getters Getters[T]) *Engine[T] {
	return &Engine[T]{
		registry: NewSortKeyRegistry(),
		getters:  getters,
	}
}

// WithSortKey registers a named sort key. The first registered key is the
// default unless WithDefaultSortKey says otherwise. Registration problems
// are deferred and surface on the first Paginate call.
func (e *Engine[T]) WithSortKey(name string, columns ...ColumnSort) *Engine[T] {
	if err := e.registry.Register(name, columns...); err != nil && e.setupErr == nil {
		e.setupErr = err
	}

	return e
}

// WithDefaultSortKey picks the key resolved for requests that name none.
func (e *Engine[T]) WithDefaultSortKey(name string) *Engine[T] {
	if err := e.registry.SetDefault(name); err != nil && e.setupErr == nil {
		e.setupErr = err
	}

	return e
}

// WithDefaultLimit sets the page size used when a request carries none.
func (e *Engine[T]) WithDefaultLimit(limit int) *Engine[T] {
	if limit > 0 {
		e.cfg.defaultLimit = limit
	}

	return e
}

// WithMaxLimit caps the page size. Requests above the cap are clamped, or
// rejected when WithStrictLimit is set.
func (e *Engine[T]) WithMaxLimit(limit int) *Engine[T] {
	if limit > 0 {
		e.cfg.maxLimit = limit
	}

	return e
}

// WithStrictLimit rejects over-limit requests with LimitExceededError
// instead of silently clamping them.
func (e *Engine[T]) WithStrictLimit() *Engine[T] {
	e.cfg.strictLimit = true

	return e
}

// Registry exposes the engine's sort key registry for introspection.
func (e *Engine[T]) Registry() *SortKeyRegistry {
	if e == nil {
		return nil
	}

	return e.registry
}

// Paginate executes one page request against db and returns the connection.
//
// db must carry the model or table (db.Model(&Order{}), db.Table("orders"))
// plus any joins; the engine adds the caller filter, position filter,
// ordering and limit on top. Cancellation and timeouts flow in through ctx
// and out through gorm unchanged; the engine performs no retries and opens
// no transactions. When req.WithTotal is set a second count query runs; for
// a mutually consistent snapshot, run both inside one caller-managed
// transaction.
func (e *Engine[T]) Paginate(ctx context.Context, db *gorm.DB, req PageRequest) (*Connection[T], error) {
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

	plan, err := buildQueryPlan(req, key, e.cfg)
	if err != nil {
		return nil, err
	}

	base := db.WithContext(ctx)

	rows := make([]T, 0, plan.datasetLimit())
	if err = plan.apply(base.Session(&gorm.Session{})).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cannot execute page query: %w", err)
	}

	conn, err := buildConnection(plan, rows, e.getters)
	if err != nil {
		return nil, err
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

// total counts all rows matching the caller filter, without the position
// filter or limit, so the count is independent of cursor position.
func (e *Engine[T]) total(db *gorm.DB, where Predicate) (int64, error) {
	tx := db.Session(&gorm.Session{})
	if where != nil {
		tx = where(tx)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("cannot execute count query: %w", err)
	}

	return total, nil
}
