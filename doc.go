// Package cursorable provides Relay-style cursor pagination for GORM.
//
// # Overview
//
// cursorable turns a sorted GORM query into a Relay connection: a page of
// nodes plus pageInfo metadata (hasNextPage, hasPreviousPage, start and end
// cursors) navigable in both directions through opaque cursors.
//
// Key concepts
//   - Engine: holds the registered sort keys and per-column getters for a
//     model. Paginate executes one page request end to end.
//   - SortKey: a named, ordered list of column sorts defining a composite
//     total order over rows. Cursors are only meaningful relative to the
//     sort key they were issued under.
//   - Cursor: base64 wrapping a JSON array of the sort key's column values
//     extracted from a boundary row. The position filter built from a cursor
//     is a genuine lexicographic tuple comparison, so pages never skip or
//     duplicate rows when leading sort columns tie.
//   - Over-fetch: page queries fetch one extra row to detect further pages
//     without a separate existence query.
//
// See README and the examples directory for usage details.
package cursorable
