package catalog

import (
	"errors"
	"fmt"

	"libris/pkg/domain"
)

var (
	// ErrGenreNotFound means a slug matched no known genre. Callers treat
	// this as an empty result set, not a fatal error.
	ErrGenreNotFound = errors.New("genre not found")

	// ErrInvalidHierarchy means a genre's parent is itself a subgenre,
	// unknown, or the genre itself. The tree is a forest of depth two.
	ErrInvalidHierarchy = errors.New("invalid genre hierarchy")
)

// GenreSet indexes a full genre listing for slug lookup and child traversal.
type GenreSet struct {
	genres []domain.Genre
	bySlug map[string]int
	byID   map[string]int
}

// NewGenreSet validates the two-level forest invariant and builds the index.
func NewGenreSet(genres []domain.Genre) (*GenreSet, error) {
	s := &GenreSet{
		genres: genres,
		bySlug: make(map[string]int, len(genres)),
		byID:   make(map[string]int, len(genres)),
	}
	for i, g := range genres {
		if _, dup := s.byID[g.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate genre id %q", ErrInvalidHierarchy, g.ID)
		}
		if _, dup := s.bySlug[g.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate genre slug %q", ErrInvalidHierarchy, g.Slug)
		}
		s.byID[g.ID] = i
		s.bySlug[g.Slug] = i
	}
	for _, g := range genres {
		if g.ParentGenreID == "" {
			continue
		}
		if g.ParentGenreID == g.ID {
			return nil, fmt.Errorf("%w: genre %q is its own parent", ErrInvalidHierarchy, g.ID)
		}
		pi, ok := s.byID[g.ParentGenreID]
		if !ok {
			return nil, fmt.Errorf("%w: genre %q has unknown parent %q", ErrInvalidHierarchy, g.ID, g.ParentGenreID)
		}
		if genres[pi].ParentGenreID != "" {
			return nil, fmt.Errorf("%w: parent of %q is itself a subgenre", ErrInvalidHierarchy, g.ID)
		}
	}
	return s, nil
}

// BySlug resolves a genre by its URL slug.
func (s *GenreSet) BySlug(slug string) (domain.Genre, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return domain.Genre{}, fmt.Errorf("%w: %q", ErrGenreNotFound, slug)
	}
	return s.genres[i], nil
}

// Children returns the subgenres of a genre in insertion order.
func (s *GenreSet) Children(genreID string) []domain.Genre {
	var out []domain.Genre
	for _, g := range s.genres {
		if g.ParentGenreID == genreID {
			out = append(out, g)
		}
	}
	return out
}

// TopLevel returns the parentless genres in insertion order.
func (s *GenreSet) TopLevel() []domain.Genre {
	var out []domain.Genre
	for _, g := range s.genres {
		if IsTopLevel(g) {
			out = append(out, g)
		}
	}
	return out
}

// IsTopLevel reports whether the genre has no parent.
func IsTopLevel(g domain.Genre) bool {
	return g.ParentGenreID == ""
}
