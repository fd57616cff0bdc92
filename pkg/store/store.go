package store

import "booktures/pkg/domain"

// Store defines persistence operations for books, pages, and characters.
//
// Multi-row writes (book creation with its pages, page batches appended to
// an existing book) are transactional: either every row lands or none do.
type Store interface {
	// Ping reports database connectivity for the readiness probe.
	Ping() error

	// CreateBookWithPages creates a book and its pages in one transaction
	// and returns the book with its assigned ID.
	CreateBookWithPages(book domain.Book, pages []domain.Page) (domain.Book, error)

	// AddPages appends pages to an existing book in one transaction.
	// Returns domain.ErrNotFound when the book does not exist.
	AddPages(bookID uint, pages []domain.Page) error

	GetBook(id uint) (domain.Book, bool, error)

	// ListPagesByBook returns pages ordered by page number ascending.
	ListPagesByBook(bookID uint) ([]domain.Page, error)

	// DeleteBook removes the book and all owned pages and characters.
	// Returns domain.ErrNotFound when the book does not exist.
	DeleteBook(id uint) error
}
