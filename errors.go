package cursorable

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. The concrete error values carry detail and
// match these via their Is methods.
var (
	ErrInvalidCursor  = errors.New("invalid cursor")
	ErrUnknownSortKey = errors.New("unknown sort key")
	ErrLimitExceeded  = errors.New("limit exceeded")
)

// InvalidCursorError is returned when a cursor token cannot be decoded or
// does not match the active sort key. A bad cursor is never treated as "no
// cursor": silently dropping it would return unfiltered results.
type InvalidCursorError struct {
	Reason string
	Err    error
}

func (e *InvalidCursorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid cursor: %s: %v", e.Reason, e.Err)
	}

	return fmt.Sprintf("invalid cursor: %s", e.Reason)
}

func (e *InvalidCursorError) Unwrap() error { return e.Err }

func (e *InvalidCursorError) Is(target error) bool { return target == ErrInvalidCursor }

// UnknownSortKeyError is returned when an explicitly named sort key is not
// registered. Closest holds the registered name with the smallest edit
// distance to help callers spot typos.
type UnknownSortKeyError struct {
	Name    string
	Closest string
}

func (e *UnknownSortKeyError) Error() string {
	if e.Closest != "" {
		return fmt.Sprintf("unknown sort key '%s'. closest: '%s'", e.Name, e.Closest)
	}

	return fmt.Sprintf("unknown sort key '%s'", e.Name)
}

func (e *UnknownSortKeyError) Is(target error) bool { return target == ErrUnknownSortKey }

// LimitExceededError is returned instead of silent clamping when the engine
// is configured with WithStrictLimit.
type LimitExceededError struct {
	Requested int
	Max       int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("requested page size %d exceeds maximum allowed page size of %d", e.Requested, e.Max)
}

func (e *LimitExceededError) Is(target error) bool { return target == ErrLimitExceeded }
