package circulation

import "errors"

var (
	// ErrNotAvailable indicates no copy of the book is free to borrow.
	ErrNotAvailable = errors.New("book not available")
	// ErrAlreadyBorrowed indicates the borrower already holds an active
	// loan for this book.
	ErrAlreadyBorrowed = errors.New("book already borrowed")
	// ErrAlreadyReturned indicates a return was attempted on a loan that
	// is no longer active. A repeated return is an error, not a no-op.
	ErrAlreadyReturned = errors.New("loan already returned")
	// ErrInvalidDueDate indicates the requested due date is in the past
	// or beyond the borrowing horizon. No request is issued.
	ErrInvalidDueDate = errors.New("invalid due date")
	// ErrLoanNotActive indicates an administrative edit was attempted on
	// a returned loan.
	ErrLoanNotActive = errors.New("loan is not active")
	// ErrLoanNotFound indicates no loan exists for the given book.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrForbidden indicates the session user lacks the role a privileged
	// operation requires. No request is issued.
	ErrForbidden = errors.New("operation requires librarian role")
)
