package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"booktures/pkg/domain"
)

// MemoryStore keeps books and pages in-process. Tests use it in place of
// Postgres; it assigns autoincrement IDs the same way the DB would.
type MemoryStore struct {
	mu         sync.RWMutex
	books      map[uint]domain.Book
	pages      map[uint][]domain.Page // keyed by book ID
	nextBookID uint
	nextPageID uint

	// FailAddPages forces the next page write to fail, for testing the
	// rollback-and-cleanup path of ingestion.
	FailAddPages bool
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:      make(map[uint]domain.Book),
		pages:      make(map[uint][]domain.Page),
		nextBookID: 1,
		nextPageID: 1,
	}
}

func (m *MemoryStore) Ping() error { return nil }

func (m *MemoryStore) CreateBookWithPages(book domain.Book, pages []domain.Page) (domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAddPages {
		return domain.Book{}, fmt.Errorf("%w: forced failure", domain.ErrPersistence)
	}
	now := time.Now().UTC()
	book.ID = m.nextBookID
	m.nextBookID++
	book.CreatedAt = now
	book.UpdatedAt = now
	m.books[book.ID] = book
	m.appendPages(book.ID, pages, now)
	return book, nil
}

func (m *MemoryStore) AddPages(bookID uint, pages []domain.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[bookID]; !ok {
		return fmt.Errorf("%w: book %d", domain.ErrNotFound, bookID)
	}
	if m.FailAddPages {
		return fmt.Errorf("%w: forced failure", domain.ErrPersistence)
	}
	m.appendPages(bookID, pages, time.Now().UTC())
	return nil
}

func (m *MemoryStore) appendPages(bookID uint, pages []domain.Page, now time.Time) {
	for _, p := range pages {
		p.ID = m.nextPageID
		m.nextPageID++
		p.BookID = bookID
		p.CreatedAt = now
		p.UpdatedAt = now
		m.pages[bookID] = append(m.pages[bookID], p)
	}
}

func (m *MemoryStore) GetBook(id uint) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	book, ok := m.books[id]
	return book, ok, nil
}

func (m *MemoryStore) ListPagesByBook(bookID uint) ([]domain.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pages := make([]domain.Page, len(m.pages[bookID]))
	copy(pages, m.pages[bookID])
	sort.Slice(pages, func(i, j int) bool { return pages[i].PageNumber < pages[j].PageNumber })
	return pages, nil
}

func (m *MemoryStore) DeleteBook(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return fmt.Errorf("%w: book %d", domain.ErrNotFound, id)
	}
	delete(m.books, id)
	delete(m.pages, id)
	return nil
}
