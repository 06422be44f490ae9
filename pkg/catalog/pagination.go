package catalog

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// PaginationHeader is the response header carrying list paging metadata.
const PaginationHeader = "Libraryapi-Pagination"

// ErrPaginationDecode signals an absent or malformed pagination header.
// Non-fatal: callers fall back to DefaultPagination.
var ErrPaginationDecode = errors.New("pagination header decode failed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Pagination describes one list response's paging context.
// TotalPages is trusted verbatim for navigation bounds even when it does not
// match ceil(TotalCount/PageSize); the server owns that invariant.
type Pagination struct {
	PageNumber int `json:"PageNumber"`
	PageSize   int `json:"PageSize"`
	TotalPages int `json:"TotalPages"`
	TotalCount int `json:"TotalCount"`
}

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool {
	return p.PageNumber < p.TotalPages
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool {
	return p.PageNumber > 1
}

// DefaultPagination is the single-page fallback used when decoding fails.
func DefaultPagination() Pagination {
	return Pagination{PageNumber: 1, TotalPages: 1}
}

// DecodePagination parses the raw pagination header value.
func DecodePagination(raw string) (Pagination, error) {
	if raw == "" {
		return Pagination{}, fmt.Errorf("%w: header absent", ErrPaginationDecode)
	}
	var p Pagination
	if err := json.UnmarshalFromString(raw, &p); err != nil {
		return Pagination{}, fmt.Errorf("%w: %v", ErrPaginationDecode, err)
	}
	if p.PageNumber < 1 || p.PageSize < 1 || p.TotalPages < 0 || p.TotalCount < 0 {
		return Pagination{}, fmt.Errorf("%w: out-of-range fields", ErrPaginationDecode)
	}
	return p, nil
}
