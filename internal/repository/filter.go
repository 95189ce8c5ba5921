package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSortField indicates an order_by entry that is not a Note column.
// Composition fails instead of silently ignoring the field.
var ErrInvalidSortField = errors.New("invalid sort field")

// NoteFilter defines filters for the joined note listing.
// Zero values mean "no constraint".
type NoteFilter struct {
	// Title matches notes whose title contains the substring.
	Title string
	// OwnerName matches notes whose owner's display name contains the substring.
	OwnerName string
	// Search matches the term as a substring of title OR content.
	Search string
	// OrderBy is an ordered list of sort keys, each a Note column name
	// optionally prefixed with '+' (ascending) or '-' (descending).
	OrderBy []string
}

// defaultOrderBy is applied when no sort keys are supplied:
// newest first, title as the secondary key.
var defaultOrderBy = []string{"-created_at", "+title"}

// noteSortColumns maps client-facing sort field names to SQL columns.
// Only real Note attributes are sortable.
var noteSortColumns = map[string]string{
	"id":         "n.id",
	"title":      "n.title",
	"content":    "n.content",
	"user_id":    "n.user_id",
	"owner_id":   "n.user_id",
	"created_at": "n.created_at",
	"updated_at": "n.updated_at",
}

// noteColumns is the column list shared by all note queries.
const noteColumns = "n.id, n.user_id, n.title, n.content, n.created_at, n.updated_at"

// buildListQuery composes the filtered, sorted, paginated listing query,
// joined with users so the owner name comes back in the same round trip.
func buildListQuery(filter NoteFilter, limit, page int) (string, []any, error) {
	var b strings.Builder
	var args []any

	// arg registers a query argument and returns its placeholder.
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	b.WriteString("SELECT ")
	b.WriteString(noteColumns)
	b.WriteString(", u.user_name\nFROM notes n\nJOIN users u ON u.id = n.user_id")

	var clauses []string

	if filter.Title != "" {
		clauses = append(clauses, fmt.Sprintf("n.title ILIKE '%%' || %s || '%%'", arg(filter.Title)))
	}

	if filter.OwnerName != "" {
		clauses = append(clauses, fmt.Sprintf("u.user_name ILIKE '%%' || %s || '%%'", arg(filter.OwnerName)))
	}

	if filter.Search != "" {
		placeholder := arg(filter.Search)
		clauses = append(clauses, fmt.Sprintf(
			"(n.title ILIKE '%%' || %s || '%%' OR n.content ILIKE '%%' || %s || '%%')",
			placeholder, placeholder,
		))
	}

	if len(clauses) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(clauses, "\n  AND "))
	}

	orderBy, err := buildOrderBy(filter.OrderBy)
	if err != nil {
		return "", nil, err
	}
	b.WriteString("\nORDER BY ")
	b.WriteString(orderBy)

	b.WriteString(fmt.Sprintf("\nLIMIT %s OFFSET %s", arg(limit), arg((page-1)*limit)))

	return b.String(), args, nil
}

// buildOrderBy translates +field/-field sort keys into an ORDER BY clause.
// A bare field name sorts ascending. The note id is always appended as the
// final key so tied rows keep a deterministic order across pages.
func buildOrderBy(fields []string) (string, error) {
	if len(fields) == 0 {
		fields = defaultOrderBy
	}

	keys := make([]string, 0, len(fields)+1)
	for _, field := range fields {
		field = strings.TrimSpace(field)

		direction := "ASC"
		switch {
		case strings.HasPrefix(field, "+"):
			field = field[1:]
		case strings.HasPrefix(field, "-"):
			direction = "DESC"
			field = field[1:]
		}

		column, ok := noteSortColumns[field]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrInvalidSortField, field)
		}

		keys = append(keys, column+" "+direction)
	}

	keys = append(keys, "n.id ASC")
	return strings.Join(keys, ", "), nil
}
