package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Query is one immutable catalog view: search term, filters, sort and page.
// Zero-value filter fields mean "unset". Mutation goes through the With*
// methods, which return a copy and apply the page-reset rules.
type Query struct {
	SearchTerm     string
	AuthorID       string
	GenreID        string
	SortDescending *bool
	Page           int
	PageSize       int
}

// NewQuery returns a first-page query with the given page size.
func NewQuery(pageSize int) Query {
	if pageSize < 1 {
		pageSize = 1
	}
	return Query{Page: 1, PageSize: pageSize}
}

// WithSearch sets the free-text search term. A non-empty term enters a
// distinct query context: author, genre and sort are cleared. Either way the
// page resets to 1.
func (q Query) WithSearch(term string) Query {
	term = strings.TrimSpace(term)
	q.SearchTerm = term
	if term != "" {
		q.AuthorID = ""
		q.GenreID = ""
		q.SortDescending = nil
	}
	q.Page = 1
	return q
}

// WithAuthor sets the author filter and resets the page. Empty clears it.
func (q Query) WithAuthor(authorID string) Query {
	q.AuthorID = strings.TrimSpace(authorID)
	q.Page = 1
	return q
}

// WithGenre sets the genre filter and resets the page. Empty clears it.
func (q Query) WithGenre(genreID string) Query {
	q.GenreID = strings.TrimSpace(genreID)
	q.Page = 1
	return q
}

// WithSort sets the sort direction and resets the page.
func (q Query) WithSort(descending bool) Query {
	q.SortDescending = &descending
	q.Page = 1
	return q
}

// WithoutSort clears the sort direction and resets the page.
func (q Query) WithoutSort() Query {
	q.SortDescending = nil
	q.Page = 1
	return q
}

// WithPage moves to page n without touching any other field.
// Values below 1 clamp to 1.
func (q Query) WithPage(n int) Query {
	if n < 1 {
		n = 1
	}
	q.Page = n
	return q
}

// Encode serializes the query as a shareable query string. Only set,
// non-default fields are emitted, in the fixed key order q, author, genre,
// sort, page, so structurally equal queries always encode identically.
func (q Query) Encode() string {
	var sb strings.Builder
	add := func(key, value string) {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(value))
	}
	if q.SearchTerm != "" {
		add("q", q.SearchTerm)
	}
	if q.AuthorID != "" {
		add("author", q.AuthorID)
	}
	if q.GenreID != "" {
		add("genre", q.GenreID)
	}
	if q.SortDescending != nil {
		if *q.SortDescending {
			add("sort", "desc")
		} else {
			add("sort", "asc")
		}
	}
	if q.Page > 1 {
		add("page", strconv.Itoa(q.Page))
	}
	return sb.String()
}

// ParseQuery reconstructs a Query from a query string. Unknown keys are
// ignored. An absent or non-numeric page defaults to 1; the page size comes
// from the caller since it is never part of shareable URLs.
func ParseQuery(raw string, defaultPageSize int) Query {
	q := NewQuery(defaultPageSize)
	values, err := url.ParseQuery(raw)
	if err != nil {
		return q
	}
	q.SearchTerm = strings.TrimSpace(values.Get("q"))
	q.AuthorID = strings.TrimSpace(values.Get("author"))
	q.GenreID = strings.TrimSpace(values.Get("genre"))
	switch values.Get("sort") {
	case "asc":
		asc := false
		q.SortDescending = &asc
	case "desc":
		desc := true
		q.SortDescending = &desc
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		q.Page = page
	}
	return q
}

// Values produces the catalog service's request parameters for this query.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.SearchTerm != "" {
		values.Set("SearchTerm", q.SearchTerm)
	}
	if q.AuthorID != "" {
		values.Set("AuthorId", q.AuthorID)
	}
	if q.GenreID != "" {
		values.Set("GenreId", q.GenreID)
	}
	if q.SortDescending != nil {
		values.Set("SortDescending", strconv.FormatBool(*q.SortDescending))
	}
	values.Set("PageNumber", strconv.Itoa(q.Page))
	values.Set("PageSize", strconv.Itoa(q.PageSize))
	return values
}

// Equal reports structural equality of two queries, treating sort as a
// three-valued field (unset, asc, desc).
func (q Query) Equal(other Query) bool {
	if q.SearchTerm != other.SearchTerm ||
		q.AuthorID != other.AuthorID ||
		q.GenreID != other.GenreID ||
		q.Page != other.Page ||
		q.PageSize != other.PageSize {
		return false
	}
	if (q.SortDescending == nil) != (other.SortDescending == nil) {
		return false
	}
	if q.SortDescending != nil && *q.SortDescending != *other.SortDescending {
		return false
	}
	return true
}
