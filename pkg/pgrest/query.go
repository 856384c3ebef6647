package pgrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query builds a single-table request. Filter methods mirror the operators
// the protocol supports; anything richer (joins, aggregates) has to be
// reconstructed client-side by the caller.
type Query struct {
	client *Client
	table  string
	params url.Values
}

func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, "eq."+fmt.Sprint(value))
	return q
}

// ILike applies a case-insensitive pattern match. Use Pattern to build a
// contains-pattern from raw user input.
func (q *Query) ILike(column, pattern string) *Query {
	q.params.Add(column, "ilike."+pattern)
	return q
}

func (q *Query) Neq(column string, value any) *Query {
	q.params.Add(column, "neq."+fmt.Sprint(value))
	return q
}

func (q *Query) In(column string, values []string) *Query {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, quoteReserved(v))
	}
	q.params.Add(column, "in.("+strings.Join(quoted, ",")+")")
	return q
}

// OrILike matches the pattern against any of the given columns.
func (q *Query) OrILike(pattern string, columns ...string) *Query {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, col+".ilike."+quoteReserved(pattern))
	}
	q.params.Add("or", "("+strings.Join(parts, ",")+")")
	return q
}

func (q *Query) OrderBy(column string, descending bool) *Query {
	direction := ".asc"
	if descending {
		direction = ".desc"
	}
	if existing := q.params.Get("order"); existing != "" {
		q.params.Set("order", existing+","+column+direction)
	} else {
		q.params.Set("order", column+direction)
	}
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Get reads matching rows into dst (a pointer to a slice of row structs).
func (q *Query) Get(ctx context.Context, dst any) error {
	return q.client.do(ctx, http.MethodGet, q.table, q.params, nil, dst, "")
}

// Insert writes a new row. The store echoes the created representation into
// dst when it supports returning; callers must not rely on store-generated
// columns being present and should re-read by identifier.
func (q *Query) Insert(ctx context.Context, body, dst any) error {
	return q.client.do(ctx, http.MethodPost, q.table, q.params, body, dst, "return=representation")
}

// Patch updates every row matching the current filters.
func (q *Query) Patch(ctx context.Context, body, dst any) error {
	return q.client.do(ctx, http.MethodPatch, q.table, q.params, body, dst, "return=representation")
}

// Delete removes every row matching the current filters.
func (q *Query) Delete(ctx context.Context) error {
	return q.client.do(ctx, http.MethodDelete, q.table, q.params, nil, nil, "")
}

// Pattern builds a contains-pattern from raw user input, neutralizing the
// protocol's wildcard characters so the term matches literally.
func Pattern(term string) string {
	return "*" + escapeWildcards(term) + "*"
}

// ExactPattern builds a whole-value pattern for case-insensitive equality
// checks through ilike.
func ExactPattern(term string) string {
	return escapeWildcards(term)
}

func escapeWildcards(term string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
		`*`, `\*`,
	)
	return replacer.Replace(term)
}

// quoteReserved shields values that would otherwise be split by the
// protocol's list and logic-tree syntax.
func quoteReserved(v string) string {
	if strings.ContainsAny(v, `,.:() "`) {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}
