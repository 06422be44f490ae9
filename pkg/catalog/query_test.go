package catalog

import "testing"

func TestQueryRoundTrip(t *testing.T) {
	desc := true
	cases := []Query{
		{Page: 1, PageSize: 6},
		{SearchTerm: "dune", Page: 1, PageSize: 6},
		{AuthorID: "a1", GenreID: "g2", SortDescending: &desc, Page: 3, PageSize: 6},
		{SearchTerm: "war & peace", Page: 2, PageSize: 6},
	}
	for _, q := range cases {
		got := ParseQuery(q.Encode(), q.PageSize)
		if !got.Equal(q) {
			t.Fatalf("round trip changed query: %+v -> %q -> %+v", q, q.Encode(), got)
		}
	}
}

func TestEncodeStableKeyOrder(t *testing.T) {
	asc := false
	q := Query{SearchTerm: "", AuthorID: "a1", GenreID: "g1", SortDescending: &asc, Page: 2, PageSize: 6}
	want := "author=a1&genre=g1&sort=asc&page=2"
	if got := q.Encode(); got != want {
		t.Fatalf("encode = %q, want %q", got, want)
	}
}

func TestEncodeOmitsDefaults(t *testing.T) {
	q := NewQuery(6)
	if got := q.Encode(); got != "" {
		t.Fatalf("default query should encode empty, got %q", got)
	}
}

func TestParseIgnoresUnknownKeysAndBadPage(t *testing.T) {
	q := ParseQuery("q=dune&utm_source=mail&page=banana", 6)
	if q.SearchTerm != "dune" {
		t.Fatalf("search term = %q", q.SearchTerm)
	}
	if q.Page != 1 {
		t.Fatalf("non-numeric page should default to 1, got %d", q.Page)
	}
	if q.PageSize != 6 {
		t.Fatalf("page size = %d, want caller default 6", q.PageSize)
	}
}

func TestParseIgnoresBogusSort(t *testing.T) {
	q := ParseQuery("sort=sideways", 6)
	if q.SortDescending != nil {
		t.Fatalf("bogus sort value should stay unset")
	}
}

func TestSearchEntersDistinctContext(t *testing.T) {
	q := NewQuery(6).WithAuthor("a1").WithGenre("g1").WithSort(true).WithPage(4)
	q = q.WithSearch("dune")
	if q.AuthorID != "" || q.GenreID != "" || q.SortDescending != nil {
		t.Fatalf("search should clear author/genre/sort, got %+v", q)
	}
	if q.Page != 1 {
		t.Fatalf("search should reset page, got %d", q.Page)
	}
}

func TestFilterChangeResetsPageOnly(t *testing.T) {
	q := NewQuery(6).WithPage(5)
	q = q.WithGenre("g1")
	if q.Page != 1 {
		t.Fatalf("genre change should reset page, got %d", q.Page)
	}
	q = q.WithPage(3)
	if q.GenreID != "g1" {
		t.Fatalf("page change must not touch filters, got %+v", q)
	}
	if q.Page != 3 {
		t.Fatalf("page = %d, want 3", q.Page)
	}
}

func TestWithPageClampsToOne(t *testing.T) {
	if q := NewQuery(6).WithPage(0); q.Page != 1 {
		t.Fatalf("page 0 should clamp to 1, got %d", q.Page)
	}
	if q := NewQuery(6).WithPage(-3); q.Page != 1 {
		t.Fatalf("negative page should clamp to 1, got %d", q.Page)
	}
}

func TestValuesUsesServiceParameterNames(t *testing.T) {
	desc := true
	q := Query{SearchTerm: "dune", AuthorID: "a1", GenreID: "g1", SortDescending: &desc, Page: 2, PageSize: 6}
	values := q.Values()
	for key, want := range map[string]string{
		"SearchTerm":     "dune",
		"AuthorId":       "a1",
		"GenreId":        "g1",
		"SortDescending": "true",
		"PageNumber":     "2",
		"PageSize":       "6",
	} {
		if got := values.Get(key); got != want {
			t.Fatalf("values[%s] = %q, want %q", key, got, want)
		}
	}
}
