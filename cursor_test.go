package cursorable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Cursor_RoundTrip(t *testing.T) {
	key := SortKey{
		{Column: "created_at", Direction: DirectionDESC, Reversible: true, Timestamp: true},
		{Column: "name", Direction: DirectionASC, Reversible: true},
		{Column: "id", Direction: DirectionDESC, Reversible: true},
	}

	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 600700800, time.UTC)
	token := EncodeCursor([]any{createdAt, "abc", 42})
	require.NotEmpty(t, token)

	payload, err := DecodeCursor(key, token)
	require.NoError(t, err)
	require.Len(t, payload, len(key))

	// Timestamp columns come back as time.Time, not text.
	gotTime, ok := payload[0].Value.(time.Time)
	require.True(t, ok, "expected time.Time, got %T", payload[0].Value)
	require.True(t, gotTime.Equal(createdAt))

	require.Equal(t, "abc", payload[1].Value)

	// Numbers pass through JSON's own normalization.
	require.Equal(t, float64(42), payload[2].Value)

	require.Equal(t, []any{gotTime, "abc", float64(42)}, payload.Values())
}

func Test_Cursor_EmptyToken(t *testing.T) {
	key := SortKey{{Column: "id", Direction: DirectionASC}}

	payload, err := DecodeCursor(key, "")
	require.NoError(t, err)
	require.True(t, payload.IsEmpty())

	require.Equal(t, "", EncodeCursor(nil))
	require.Equal(t, "", EncodeCursor([]any{}))
}

func Test_Cursor_Decode_Invalid(t *testing.T) {
	key := SortKey{
		{Column: "created_at", Direction: DirectionDESC, Reversible: true},
		{Column: "id", Direction: DirectionDESC, Reversible: true},
	}

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"base64 of non-json", _encoder.EncodeToString([]byte("{"))},
		{"base64 of json object", _encoder.EncodeToString([]byte(`{"id":1}`))},
		{"arity mismatch: too short", EncodeCursor([]any{1})},
		{"arity mismatch: too long", EncodeCursor([]any{1, 2, 3})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(key, tt.token)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidCursor)

			var invalidErr *InvalidCursorError
			require.ErrorAs(t, err, &invalidErr)
		})
	}
}

func Test_Cursor_TamperedToken(t *testing.T) {
	key := SortKey{
		{Column: "created_at", Direction: DirectionDESC, Reversible: true},
		{Column: "id", Direction: DirectionDESC, Reversible: true},
	}

	token := EncodeCursor([]any{"2024-01-02T03:04:05Z", 16})

	// Corrupting the leading array bracket breaks JSON parsing; truncating
	// the token breaks either the encoding or the arity. A tampered token is
	// never silently accepted as a different position.
	tampered := []string{
		"A" + token[1:],
		token[:len(token)-4],
		_encoder.EncodeToString([]byte(`["2024-01-02T03:04:05Z"]`)),
	}
	for _, tok := range tampered {
		if _, err := DecodeCursor(key, tok); err == nil {
			t.Errorf("tampered token %q decoded without error", tok)
		}
	}
}

func Test_encodeNodeCursor(t *testing.T) {
	type item struct {
		ID        int
		CreatedAt string
	}

	key := SortKey{
		{Column: "created_at", Direction: DirectionASC},
		{Column: "id", Direction: DirectionASC},
	}

	getters := Getters[item]{
		"id":         func(i item) any { return i.ID },
		"created_at": func(i item) any { return i.CreatedAt },
	}

	token, err := encodeNodeCursor(item{ID: 7, CreatedAt: "2024-01-01T00:00:00Z"}, key, getters)
	require.NoError(t, err)

	payload, err := DecodeCursor(key, token)
	require.NoError(t, err)
	require.Equal(t, []any{"2024-01-01T00:00:00Z", float64(7)}, payload.Values())

	_, err = encodeNodeCursor(item{}, SortKey{{Column: "missing", Direction: DirectionASC}}, getters)
	require.Error(t, err)
}
