package browse

import (
	"context"

	"golang.org/x/sync/errgroup"

	"libris/pkg/catalog"
	"libris/pkg/domain"
)

// filterOptionsPageSize is the listing size for filter option fetches.
const filterOptionsPageSize = 50

// OptionLister fetches the listings the filter sidebar is built from.
type OptionLister interface {
	ListGenres(ctx context.Context, pageSize int) ([]domain.Genre, error)
	ListAuthors(ctx context.Context, pageSize int) ([]domain.Author, error)
}

// FilterOptions holds the selectable author and genre filters.
type FilterOptions struct {
	Genres  *catalog.GenreSet
	Authors []domain.Author
}

// LoadFilterOptions fetches the genre and author listings concurrently and
// validates the genre hierarchy. A failure on either fetch fails the load.
func LoadFilterOptions(ctx context.Context, lister OptionLister) (FilterOptions, error) {
	var (
		genres  []domain.Genre
		authors []domain.Author
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		genres, err = lister.ListGenres(ctx, filterOptionsPageSize)
		return err
	})
	g.Go(func() error {
		var err error
		authors, err = lister.ListAuthors(ctx, filterOptionsPageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return FilterOptions{}, err
	}
	set, err := catalog.NewGenreSet(genres)
	if err != nil {
		return FilterOptions{}, err
	}
	return FilterOptions{Genres: set, Authors: authors}, nil
}
