package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"libris/internal/util"
	"libris/pkg/catalog"
	"libris/pkg/circulation"
	"libris/pkg/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client calls the library catalog service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError represents a catalog service error response.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewClient constructs a catalog service client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &util.LoggingTransport{},
		},
	}
}

// SetToken attaches a session token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ClearToken drops the session token.
func (c *Client) ClearToken() {
	c.token = ""
}

// ListBooks fetches one catalog page. The pagination header is decoded on
// every list response; a malformed header logs and falls back to a single
// page rather than failing the call.
func (c *Client) ListBooks(ctx context.Context, q catalog.Query) ([]domain.Book, catalog.Pagination, error) {
	path := c.baseURL + "/books?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, catalog.Pagination{}, err
	}

	var books []domain.Book
	header, err := c.doWithHeader(req, &books)
	if err != nil {
		return nil, catalog.Pagination{}, err
	}
	return books, c.decodePagination(header), nil
}

// GetBook fetches a single book.
func (c *Client) GetBook(ctx context.Context, id string) (domain.Book, error) {
	path := fmt.Sprintf("%s/books/%s", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.Book{}, err
	}
	var book domain.Book
	if err := c.do(req, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// ListGenres fetches the full genre listing used to build filter options
// and the hierarchy resolver.
func (c *Client) ListGenres(ctx context.Context, pageSize int) ([]domain.Genre, error) {
	path := c.baseURL + "/genres?PageSize=" + strconv.Itoa(pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var genres []domain.Genre
	if err := c.do(req, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// GetGenre fetches a genre by slug with its nested book page.
func (c *Client) GetGenre(ctx context.Context, slug string, page, pageSize int) (domain.Genre, catalog.Pagination, error) {
	values := url.Values{}
	values.Set("PageNumber", strconv.Itoa(page))
	values.Set("PageSize", strconv.Itoa(pageSize))
	path := fmt.Sprintf("%s/genres/%s?%s", c.baseURL, url.PathEscape(slug), values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.Genre{}, catalog.Pagination{}, err
	}
	var genre domain.Genre
	header, err := c.doWithHeader(req, &genre)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return domain.Genre{}, catalog.Pagination{}, fmt.Errorf("%w: %q", catalog.ErrGenreNotFound, slug)
		}
		return domain.Genre{}, catalog.Pagination{}, err
	}
	return genre, c.decodePagination(header), nil
}

// ListAuthors fetches the author listing used to build filter options.
func (c *Client) ListAuthors(ctx context.Context, pageSize int) ([]domain.Author, error) {
	path := c.baseURL + "/authors?PageSize=" + strconv.Itoa(pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var authors []domain.Author
	if err := c.do(req, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// BorrowBook creates a loan for the user. Precondition failures reported by
// the service map onto the circulation sentinels.
func (c *Client) BorrowBook(ctx context.Context, userID, bookID string, dueDate time.Time) (domain.Loan, error) {
	payload := struct {
		BookID  string `json:"bookId"`
		DueDate string `json:"dueDate"`
	}{BookID: bookID, DueDate: dueDate.UTC().Format(time.RFC3339)}

	path := fmt.Sprintf("%s/users/%s/borrowed-books", c.baseURL, url.PathEscape(userID))
	req, err := c.jsonRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return domain.Loan{}, err
	}
	var loan domain.Loan
	if err := c.do(req, &loan); err != nil {
		return domain.Loan{}, mapLifecycleError(err)
	}
	return loan, nil
}

// ReturnBook is the patron-initiated return, keyed by book.
func (c *Client) ReturnBook(ctx context.Context, userID, bookID string) error {
	path := fmt.Sprintf("%s/users/%s/borrowed-books/%s", c.baseURL, url.PathEscape(userID), url.PathEscape(bookID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return mapLifecycleError(err)
	}
	return nil
}

// GetBorrowedBook fetches the user's loan for a book. A 404 is the expected
// "not currently borrowed" answer, returned as ok=false with no error.
func (c *Client) GetBorrowedBook(ctx context.Context, userID, bookID string) (domain.Loan, bool, error) {
	path := fmt.Sprintf("%s/users/%s/borrowed-books/%s", c.baseURL, url.PathEscape(userID), url.PathEscape(bookID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.Loan{}, false, err
	}
	var loan domain.Loan
	if err := c.do(req, &loan); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return domain.Loan{}, false, nil
		}
		return domain.Loan{}, false, err
	}
	return loan, true, nil
}

// ListBorrowedBooks fetches the user's loan history.
func (c *Client) ListBorrowedBooks(ctx context.Context, userID string) ([]domain.Loan, error) {
	path := fmt.Sprintf("%s/users/%s/borrowed-books", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var loans []domain.Loan
	if err := c.do(req, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// GetBorrowedBookByID fetches a loan record by its own ID. A 404 is
// returned as ok=false with no error.
func (c *Client) GetBorrowedBookByID(ctx context.Context, loanID string) (domain.Loan, bool, error) {
	path := fmt.Sprintf("%s/borrowed-books/%s", c.baseURL, url.PathEscape(loanID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.Loan{}, false, err
	}
	var loan domain.Loan
	if err := c.do(req, &loan); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return domain.Loan{}, false, nil
		}
		return domain.Loan{}, false, err
	}
	return loan, true, nil
}

// UpdateBorrowedBook is the privileged edit path (due date change or
// librarian-driven return).
func (c *Client) UpdateBorrowedBook(ctx context.Context, loanID string, update circulation.LoanUpdate) (domain.Loan, error) {
	path := fmt.Sprintf("%s/borrowed-books/%s", c.baseURL, url.PathEscape(loanID))
	req, err := c.jsonRequest(ctx, http.MethodPut, path, update)
	if err != nil {
		return domain.Loan{}, err
	}
	var loan domain.Loan
	if err := c.do(req, &loan); err != nil {
		return domain.Loan{}, mapLifecycleError(err)
	}
	return loan, nil
}

// DeleteBorrowedBook is the administrative bypass delete.
func (c *Client) DeleteBorrowedBook(ctx context.Context, loanID string) error {
	path := fmt.Sprintf("%s/borrowed-books/%s", c.baseURL, url.PathEscape(loanID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}
	req, err := c.jsonRequest(ctx, http.MethodPost, c.baseURL+"/auth/login", payload)
	if err != nil {
		return "", err
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Signup registers a new patron account.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	payload := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Username: username, Email: email, Password: password}
	req, err := c.jsonRequest(ctx, http.MethodPost, c.baseURL+"/auth/signup", payload)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	_, err := c.doWithHeader(req, out)
	return err
}

func (c *Client) doWithHeader(req *http.Request, out any) (http.Header, error) {
	c.addAuthHeader(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg, Code: strings.TrimSpace(errResp.Code)}
	}
	if out == nil {
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, err
	}
	return resp.Header, nil
}

func (c *Client) addAuthHeader(req *http.Request) {
	if strings.TrimSpace(c.token) == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
}

func (c *Client) decodePagination(header http.Header) catalog.Pagination {
	pagination, err := catalog.DecodePagination(header.Get(catalog.PaginationHeader))
	if err != nil {
		slog.Warn("pagination header decode failed", "err", err)
		return catalog.DefaultPagination()
	}
	return pagination
}

// mapLifecycleError translates service precondition codes onto the
// circulation sentinels so callers can branch without string matching.
func mapLifecycleError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case "already_borrowed":
		return fmt.Errorf("%w: %s", circulation.ErrAlreadyBorrowed, apiErr.Message)
	case "not_available":
		return fmt.Errorf("%w: %s", circulation.ErrNotAvailable, apiErr.Message)
	case "already_returned":
		return fmt.Errorf("%w: %s", circulation.ErrAlreadyReturned, apiErr.Message)
	case "loan_not_active":
		return fmt.Errorf("%w: %s", circulation.ErrLoanNotActive, apiErr.Message)
	case "invalid_due_date":
		return fmt.Errorf("%w: %s", circulation.ErrInvalidDueDate, apiErr.Message)
	}
	return err
}
