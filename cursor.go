package cursorable

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
)

var _encoder = base64.RawURLEncoding

// PayloadField is one decoded cursor value together with the sort column it
// is positionally aligned with.
type PayloadField struct {
	Sort  ColumnSort
	Value any
}

// CursorPayload is the decoded form of a cursor: an ordered tuple of values
// aligned 1:1 with the active sort key's columns. Payloads are created per
// page request and discarded after use.
type CursorPayload []PayloadField

// EncodeCursor serializes sort key values into an opaque token: a compact
// JSON array wrapped in base64. Array length and element order follow the
// sort key's column list, so changing a sort key's columns invalidates
// previously issued cursors for that key.
func EncodeCursor(values []any) string {
	if len(values) == 0 {
		return ""
	}

	jsonData, err := json.Marshal(values)
	if err != nil {
		panic(fmt.Errorf("cannot marshal cursor values: %w", err))
	}

	return _encoder.EncodeToString(jsonData)
}

// DecodeCursor parses a token back into a CursorPayload aligned with the
// given sort key. An empty token means the start of the dataset and decodes
// to a nil payload. Any malformed token (bad base64, bad JSON, or an arity
// mismatch against the sort key) yields an InvalidCursorError.
func DecodeCursor(key SortKey, token string) (CursorPayload, error) {
	if len(token) == 0 {
		return nil, nil
	}

	jsonData, err := _encoder.DecodeString(token)
	if err != nil {
		return nil, &InvalidCursorError{Reason: "malformed base64", Err: err}
	}

	var values []any
	if err = json.Unmarshal(jsonData, &values); err != nil {
		return nil, &InvalidCursorError{Reason: "malformed json", Err: err}
	}

	if len(values) != len(key) {
		return nil, &InvalidCursorError{
			Reason: fmt.Sprintf("expected %d values for sort key, got %d", len(key), len(values)),
		}
	}

	payload := make(CursorPayload, 0, len(key))
	for i, c := range key {
		payload = append(payload, PayloadField{
			Sort:  c,
			Value: coerceCursorValue(c, values[i]),
		})
	}

	return payload, nil
}

func (p CursorPayload) IsEmpty() bool {
	return len(p) == 0
}

// Values returns the payload values in sort key order.
func (p CursorPayload) Values() []any {
	return lo.Map(p, func(f PayloadField, _ int) any { return f.Value })
}

// coerceCursorValue undoes JSON's own type normalization for timestamp
// columns: RFC 3339 strings round-tripped through a cursor come back as
// time.Time so drivers compare them as timestamps, not text.
func coerceCursorValue(c ColumnSort, v any) any {
	if !c.Timestamp {
		return v
	}

	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}

// Getters maps sort key columns to value extractors for a model. Every
// column of every registered sort key needs a getter so boundary rows can be
// encoded into cursors.
//
// Example:
//
//	cursorable.Getters[Order]{
//		"created_at": func(o Order) any { return o.CreatedAt },
//		"id":         func(o Order) any { return o.ID },
//	}
type Getters[T any] map[string]func(T) any

// encodeNodeCursor extracts the sort key's values from a node and encodes
// them into a token.
func encodeNodeCursor[T any](node T, key SortKey, getters Getters[T]) (string, error) {
	values := make([]any, 0, len(key))
	for _, c := range key {
		getter, ok := getters[c.Column]
		if !ok {
			return "", fmt.Errorf("cannot find getter for column '%s' met in sort key", c.Column)
		}

		values = append(values, getter(node))
	}

	return EncodeCursor(values), nil
}
