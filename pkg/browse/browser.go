package browse

import (
	"context"
	"errors"
	"sync"

	"libris/pkg/catalog"
	"libris/pkg/domain"
)

// ErrSuperseded means a newer query was issued while this one was in
// flight; its response was discarded and visible state is untouched.
var ErrSuperseded = errors.New("query superseded by a newer one")

// Fetcher is the remote surface the browser reads from.
type Fetcher interface {
	ListBooks(ctx context.Context, q catalog.Query) ([]domain.Book, catalog.Pagination, error)
	GetGenre(ctx context.Context, slug string, page, pageSize int) (domain.Genre, catalog.Pagination, error)
}

// Result is one applied catalog view. Err marks a transport failure that
// rendered as an empty list; the state stays re-enterable.
type Result struct {
	Query      catalog.Query
	Genre      *domain.Genre
	Books      []domain.Book
	Pagination catalog.Pagination
	Err        error
}

// Browser issues catalog queries with a last-request-wins rule: only the
// response matching the most recently issued query is ever applied. Earlier
// in-flight responses are silently dropped, not queued.
type Browser struct {
	fetcher  Fetcher
	cache    Cache
	pageSize int

	mu      sync.Mutex
	gen     uint64
	loading bool
	current Result
}

// New builds a browser. cache may be nil.
func New(fetcher Fetcher, cache Cache, pageSize int) *Browser {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Browser{fetcher: fetcher, cache: cache, pageSize: pageSize}
}

// Run issues the query and applies its result unless a newer Run supersedes
// it first, in which case it returns ErrSuperseded. Transport failures apply
// an empty result carrying the error marker and also return the error.
func (b *Browser) Run(ctx context.Context, q catalog.Query) (Result, error) {
	myGen := b.begin()

	key := q.Encode()
	if page, ok := b.cacheGet(ctx, key); ok {
		res := Result{Query: q, Books: page.Books, Pagination: page.Pagination}
		return b.apply(myGen, res, nil)
	}

	books, pagination, err := b.fetcher.ListBooks(ctx, q)
	if err != nil {
		res := Result{Query: q, Err: err, Pagination: catalog.DefaultPagination()}
		return b.apply(myGen, res, err)
	}

	res := Result{Query: q, Books: books, Pagination: pagination}
	applied, applyErr := b.apply(myGen, res, nil)
	if applyErr == nil {
		// Only the winning generation writes to the cache.
		b.cacheSet(ctx, key, CachedPage{Books: books, Pagination: pagination})
	}
	return applied, applyErr
}

// RunGenre browses one genre page by slug with the same supersession rule.
// An unknown slug applies an empty result, not an error.
func (b *Browser) RunGenre(ctx context.Context, slug string, page int) (Result, error) {
	myGen := b.begin()

	genre, pagination, err := b.fetcher.GetGenre(ctx, slug, page, b.pageSize)
	if err != nil {
		if errors.Is(err, catalog.ErrGenreNotFound) {
			res := Result{Pagination: catalog.DefaultPagination()}
			return b.apply(myGen, res, nil)
		}
		res := Result{Err: err, Pagination: catalog.DefaultPagination()}
		return b.apply(myGen, res, err)
	}

	res := Result{Genre: &genre, Books: genre.Books, Pagination: pagination}
	return b.apply(myGen, res, nil)
}

// Loading is true exactly while a request for the current query is
// outstanding.
func (b *Browser) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Current returns the last applied result.
func (b *Browser) Current() Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Browser) begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.loading = true
	return b.gen
}

// apply installs res only if gen is still the newest issued query. A stale
// generation leaves both the current result and the loading flag alone,
// since they now belong to the newer query.
func (b *Browser) apply(gen uint64, res Result, err error) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return Result{}, ErrSuperseded
	}
	b.current = res
	b.loading = false
	return res, err
}
