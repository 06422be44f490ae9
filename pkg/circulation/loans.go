package circulation

import (
	"context"
	"fmt"
	"time"

	"libris/pkg/domain"
)

// MaxBorrowAhead caps how far in the future a due date may be set.
const MaxBorrowAhead = 2 // months

// LoanUpdate is the privileged edit payload for a loan record.
type LoanUpdate struct {
	DueDate      time.Time  `json:"dueDate"`
	IsReturned   bool       `json:"isReturned"`
	ReturnedDate *time.Time `json:"returnedDate,omitempty"`
}

// LoanAPI is the remote surface the lifecycle manager drives. All
// transitions round-trip; there is no optimistic local mutation.
type LoanAPI interface {
	GetBook(ctx context.Context, bookID string) (domain.Book, error)
	BorrowBook(ctx context.Context, userID, bookID string, dueDate time.Time) (domain.Loan, error)
	ReturnBook(ctx context.Context, userID, bookID string) error
	GetBorrowedBook(ctx context.Context, userID, bookID string) (domain.Loan, bool, error)
	ListBorrowedBooks(ctx context.Context, userID string) ([]domain.Loan, error)
	UpdateBorrowedBook(ctx context.Context, loanID string, update LoanUpdate) (domain.Loan, error)
	DeleteBorrowedBook(ctx context.Context, loanID string) error
}

// Penalty computes the late fee for a loan returned at returnedAt.
// Whole days late, rounded down; on-time or early returns owe nothing.
func Penalty(dueDate, returnedAt time.Time, dailyRate float64) float64 {
	if !returnedAt.After(dueDate) {
		return 0
	}
	days := int(returnedAt.Sub(dueDate).Hours() / 24)
	return float64(days) * dailyRate
}

// Service enforces the loan lifecycle for one session user. Preconditions
// are checked locally before any request; the server remains authoritative
// and concurrent losers still receive the matching precondition error.
type Service struct {
	api       LoanAPI
	user      domain.User
	dailyRate float64
	now       func() time.Time
}

// NewService builds a lifecycle manager bound to the session user.
func NewService(api LoanAPI, user domain.User, dailyRate float64) *Service {
	return &Service{
		api:       api,
		user:      user,
		dailyRate: dailyRate,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Borrow creates a loan for the session user. Fails with ErrInvalidDueDate
// before any request when the due date is not in the future or beyond the
// borrowing horizon, with ErrAlreadyBorrowed when the user already holds an
// active loan for the book, and with ErrNotAvailable when no copy is free.
func (s *Service) Borrow(ctx context.Context, bookID string, dueDate time.Time) (domain.Loan, error) {
	now := s.now()
	if !dueDate.After(now) {
		return domain.Loan{}, fmt.Errorf("%w: due date must be in the future", ErrInvalidDueDate)
	}
	if dueDate.After(now.AddDate(0, MaxBorrowAhead, 0)) {
		return domain.Loan{}, fmt.Errorf("%w: due date beyond %d month horizon", ErrInvalidDueDate, MaxBorrowAhead)
	}

	existing, ok, err := s.api.GetBorrowedBook(ctx, s.user.ID, bookID)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("check existing loan: %w", err)
	}
	if ok && existing.Active() {
		return domain.Loan{}, ErrAlreadyBorrowed
	}

	book, err := s.api.GetBook(ctx, bookID)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("fetch book: %w", err)
	}
	if !book.Borrowable() {
		return domain.Loan{}, ErrNotAvailable
	}

	loan, err := s.api.BorrowBook(ctx, s.user.ID, bookID, dueDate)
	if err != nil {
		return domain.Loan{}, err
	}
	return loan, nil
}

// Return ends the session user's active loan for the book. A second call
// fails with ErrAlreadyReturned.
func (s *Service) Return(ctx context.Context, bookID string) error {
	loan, ok, err := s.api.GetBorrowedBook(ctx, s.user.ID, bookID)
	if err != nil {
		return fmt.Errorf("fetch loan: %w", err)
	}
	if !ok {
		return ErrLoanNotFound
	}
	if loan.IsReturned {
		return ErrAlreadyReturned
	}
	return s.api.ReturnBook(ctx, s.user.ID, bookID)
}

// Status reports whether the session user currently holds the book.
// A missing record means "not borrowed", not an error.
func (s *Service) Status(ctx context.Context, bookID string) (domain.Loan, bool, error) {
	return s.api.GetBorrowedBook(ctx, s.user.ID, bookID)
}

// Loans lists the session user's loan history.
func (s *Service) Loans(ctx context.Context) ([]domain.Loan, error) {
	return s.api.ListBorrowedBooks(ctx, s.user.ID)
}

// ProjectedPenalty estimates the fee accruing on an active overdue loan at
// the configured rate. Returned loans keep the server's figure; this is a
// preview, not the bill.
func (s *Service) ProjectedPenalty(loan domain.Loan) float64 {
	if loan.IsReturned {
		return loan.PenaltyPrice
	}
	return Penalty(loan.DueDate, s.now(), s.dailyRate)
}

// EditDueDate is the administrative due-date change, allowed only while the
// loan is active. It does not change state.
func (s *Service) EditDueDate(ctx context.Context, loan domain.Loan, newDueDate time.Time) (domain.Loan, error) {
	if err := s.requireLibrarian(); err != nil {
		return domain.Loan{}, err
	}
	if loan.IsReturned {
		return domain.Loan{}, ErrLoanNotActive
	}
	if !newDueDate.After(s.now()) {
		return domain.Loan{}, fmt.Errorf("%w: due date must be in the future", ErrInvalidDueDate)
	}
	return s.api.UpdateBorrowedBook(ctx, loan.ID, LoanUpdate{
		DueDate:    newDueDate,
		IsReturned: false,
	})
}

// MarkReturned is the librarian-driven return via the privileged edit path.
// The response carries the authoritative penalty; a zero from the server
// means the fee was waived, not that it is missing.
func (s *Service) MarkReturned(ctx context.Context, loan domain.Loan, returnedAt time.Time) (domain.Loan, error) {
	if err := s.requireLibrarian(); err != nil {
		return domain.Loan{}, err
	}
	if loan.IsReturned {
		return domain.Loan{}, ErrAlreadyReturned
	}
	updated, err := s.api.UpdateBorrowedBook(ctx, loan.ID, LoanUpdate{
		DueDate:      loan.DueDate,
		IsReturned:   true,
		ReturnedDate: &returnedAt,
	})
	if err != nil {
		return domain.Loan{}, err
	}
	return updated, nil
}

// AdminDelete removes a loan record outright. This is the privileged bypass
// path: it performs no state-machine checks and is not a lifecycle
// transition.
func (s *Service) AdminDelete(ctx context.Context, loanID string) error {
	if !s.user.HasRole(domain.RoleAdmin) {
		return ErrForbidden
	}
	return s.api.DeleteBorrowedBook(ctx, loanID)
}

func (s *Service) requireLibrarian() error {
	if s.user.HasRole(domain.RoleLibrarian) || s.user.HasRole(domain.RoleAdmin) {
		return nil
	}
	return ErrForbidden
}
