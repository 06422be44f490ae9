package browse

import (
	"context"
	"errors"
	"sync"
	"testing"

	"libris/pkg/catalog"
	"libris/pkg/domain"
)

type fakeOptionLister struct {
	mu         sync.Mutex
	genres     []domain.Genre
	authors    []domain.Author
	genreErr   error
	authorErr  error
	genreCalls int
}

func (f *fakeOptionLister) ListGenres(_ context.Context, pageSize int) ([]domain.Genre, error) {
	f.mu.Lock()
	f.genreCalls++
	f.mu.Unlock()
	if pageSize != filterOptionsPageSize {
		return nil, errors.New("unexpected page size")
	}
	return f.genres, f.genreErr
}

func (f *fakeOptionLister) ListAuthors(_ context.Context, pageSize int) ([]domain.Author, error) {
	if pageSize != filterOptionsPageSize {
		return nil, errors.New("unexpected page size")
	}
	return f.authors, f.authorErr
}

func TestLoadFilterOptions(t *testing.T) {
	lister := &fakeOptionLister{
		genres: []domain.Genre{
			{ID: "g1", Name: "Fiction", Slug: "fiction"},
			{ID: "g2", Name: "Fantasy", Slug: "fantasy", ParentGenreID: "g1"},
		},
		authors: []domain.Author{{ID: "a1", FirstName: "Frank", LastName: "Herbert"}},
	}
	opts, err := LoadFilterOptions(context.Background(), lister)
	if err != nil {
		t.Fatalf("load filter options: %v", err)
	}
	if len(opts.Authors) != 1 || opts.Authors[0].ID != "a1" {
		t.Fatalf("authors = %+v", opts.Authors)
	}
	if _, err := opts.Genres.BySlug("fantasy"); err != nil {
		t.Fatalf("genre set should resolve fetched slugs: %v", err)
	}
	if lister.genreCalls != 1 {
		t.Fatalf("genre listing fetched %d times", lister.genreCalls)
	}
}

func TestLoadFilterOptionsFailsOnEitherFetch(t *testing.T) {
	wantErr := errors.New("authors unavailable")
	lister := &fakeOptionLister{
		genres:    []domain.Genre{{ID: "g1", Name: "Fiction", Slug: "fiction"}},
		authorErr: wantErr,
	}
	if _, err := LoadFilterOptions(context.Background(), lister); !errors.Is(err, wantErr) {
		t.Fatalf("author fetch failure should fail the load, got %v", err)
	}
}

func TestLoadFilterOptionsRejectsBadHierarchy(t *testing.T) {
	lister := &fakeOptionLister{
		genres: []domain.Genre{{ID: "g1", Name: "Loop", Slug: "loop", ParentGenreID: "g1"}},
	}
	if _, err := LoadFilterOptions(context.Background(), lister); !errors.Is(err, catalog.ErrInvalidHierarchy) {
		t.Fatalf("invalid hierarchy should fail the load, got %v", err)
	}
}
