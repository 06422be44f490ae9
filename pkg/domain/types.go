package domain

import "time"

type Role string

const (
	RolePatron    Role = "Patron"
	RoleLibrarian Role = "Librarian"
	RoleAdmin     Role = "Admin"
)

type Book struct {
	ID          string `json:"bookId"`
	Title       string `json:"title"`
	AuthorName  string `json:"authorName"`
	AuthorID    string `json:"authorId"`
	GenreName   string `json:"genreName,omitempty"`
	GenreID     string `json:"genreId,omitempty"`
	PublishYear int    `json:"publishYear"`
	PageCount   int    `json:"pageCount"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Borrowable reports whether the book has any copies owned at all.
// Actual availability also depends on outstanding loans, see AvailableCopies.
func (b Book) Borrowable() bool {
	return b.Quantity > 0
}

type Author struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DateOfBirth time.Time  `json:"dateOfBirth"`
	DateOfDeath *time.Time `json:"dateOfDeath,omitempty"`
}

func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Genre struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	ParentGenreID   string `json:"parentGenreId,omitempty"`
	ParentGenreName string `json:"parentGenreName,omitempty"`
	Books           []Book `json:"books,omitempty"`
}

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Roles     []Role `json:"roles"`
}

func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Loan is one borrowed-copy record. The wire format flattens book and
// borrower display fields onto the record, matching the catalog service.
type Loan struct {
	ID            string     `json:"id"`
	BookID        string     `json:"bookId"`
	BookTitle     string     `json:"title"`
	AuthorName    string     `json:"authorName"`
	BorrowerID    string     `json:"borrowerId"`
	BorrowerName  string     `json:"borrowerName"`
	BorrowingDate time.Time  `json:"borrowingDate"`
	DueDate       time.Time  `json:"dueDate"`
	IsReturned    bool       `json:"isReturned"`
	ReturningDate *time.Time `json:"returningDate,omitempty"`
	PenaltyPrice  float64    `json:"penaltyPrice,omitempty"`
}

// Active reports whether the loan has not been returned yet.
func (l Loan) Active() bool {
	return !l.IsReturned
}

// OverdueAt reports the derived overdue condition: active and past due.
func (l Loan) OverdueAt(now time.Time) bool {
	return l.Active() && now.After(l.DueDate)
}

// AvailableCopies derives how many copies of a book can still be borrowed:
// owned quantity minus active loans against it. Availability is never stored.
func AvailableCopies(book Book, loans []Loan) int {
	active := 0
	for _, l := range loans {
		if l.BookID == book.ID && l.Active() {
			active++
		}
	}
	n := book.Quantity - active
	if n < 0 {
		return 0
	}
	return n
}
