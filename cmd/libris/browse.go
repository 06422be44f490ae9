package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"libris/pkg/browse"
	"libris/pkg/catalog"
)

func newBrowseCmd(a **app) *cobra.Command {
	var (
		search    string
		authorID  string
		genreID   string
		genreSlug string
		sort      string
		page      int
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the book catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if genreSlug != "" {
				result, err := (*a).browser.RunGenre(cmd.Context(), genreSlug, page)
				if err != nil {
					return err
				}
				if result.Genre != nil {
					fmt.Printf("Genre: %s\n", result.Genre.Name)
				}
				printResult(result)
				return nil
			}

			q := catalog.NewQuery((*a).cfg.PageSize)
			if search != "" {
				q = q.WithSearch(search)
			}
			if authorID != "" {
				q = q.WithAuthor(authorID)
			}
			if genreID != "" {
				q = q.WithGenre(genreID)
			}
			switch sort {
			case "asc":
				q = q.WithSort(false)
			case "desc":
				q = q.WithSort(true)
			case "":
			default:
				return fmt.Errorf("--sort must be asc or desc")
			}
			if page > 1 {
				q = q.WithPage(page)
			}

			result, err := (*a).browser.Run(cmd.Context(), q)
			if err != nil {
				return err
			}
			printResult(result)
			if enc := q.Encode(); enc != "" {
				fmt.Printf("Share: ?%s\n", enc)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "free-text search term")
	cmd.Flags().StringVar(&authorID, "author", "", "author id filter")
	cmd.Flags().StringVar(&genreID, "genre", "", "genre id filter")
	cmd.Flags().StringVar(&genreSlug, "genre-slug", "", "browse a genre by slug")
	cmd.Flags().StringVar(&sort, "sort", "", "title sort: asc or desc")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func printResult(result browse.Result) {
	if len(result.Books) == 0 {
		fmt.Println("No books found.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tYEAR\tCOPIES")
	for _, b := range result.Books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", b.ID, b.Title, b.AuthorName, b.PublishYear, b.Quantity)
	}
	w.Flush()

	p := result.Pagination
	nav := ""
	if p.HasPrev() {
		nav += " <prev"
	}
	if p.HasNext() {
		nav += " next>"
	}
	fmt.Printf("Page %d/%d (%d books)%s\n", p.PageNumber, p.TotalPages, p.TotalCount, nav)
}

func newFiltersCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the available author and genre filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := browse.LoadFilterOptions(cmd.Context(), (*a).client)
			if err != nil {
				return err
			}
			fmt.Println("Sort: asc, desc")
			fmt.Println("Authors:")
			for _, author := range opts.Authors {
				fmt.Printf("  %s\t%s\n", author.ID, author.FullName())
			}
			fmt.Println("Genres:")
			for _, top := range opts.Genres.TopLevel() {
				fmt.Printf("  %s\t%s\n", top.ID, top.Name)
				for _, child := range opts.Genres.Children(top.ID) {
					fmt.Printf("    %s\t%s\n", child.ID, child.Name)
				}
			}
			return nil
		},
	}
}

func newGenresCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List genres as a two-level tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			genres, err := (*a).client.ListGenres(cmd.Context(), 50)
			if err != nil {
				return err
			}
			set, err := catalog.NewGenreSet(genres)
			if err != nil {
				return err
			}
			for _, top := range set.TopLevel() {
				fmt.Printf("%s (%s)\n", top.Name, top.Slug)
				for _, child := range set.Children(top.ID) {
					fmt.Printf("  %s (%s)\n", child.Name, child.Slug)
				}
			}
			return nil
		},
	}
}
