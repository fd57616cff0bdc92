package store

import (
	"errors"
	"testing"

	"booktures/pkg/domain"
)

func TestMemoryStoreCreateBookWithPages(t *testing.T) {
	s := NewMemoryStore()

	book, err := s.CreateBookWithPages(domain.Book{Title: "T", Author: "A", TotalPages: 2}, []domain.Page{
		{PageNumber: 1, Text: "one", PDFPath: "p.pdf"},
		{PageNumber: 2, Text: "two", PDFPath: "p.pdf"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if book.ID == 0 {
		t.Fatal("expected assigned book ID")
	}

	got, ok, err := s.GetBook(book.ID)
	if err != nil || !ok {
		t.Fatalf("get book: ok=%v err=%v", ok, err)
	}
	if got.Title != "T" || got.TotalPages != 2 {
		t.Fatalf("unexpected book: %+v", got)
	}

	pages, err := s.ListPagesByBook(book.ID)
	if err != nil {
		t.Fatalf("list pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}
	for i, p := range pages {
		if p.PageNumber != i+1 {
			t.Fatalf("pages[%d].PageNumber = %d, want %d", i, p.PageNumber, i+1)
		}
		if p.BookID != book.ID {
			t.Fatalf("pages[%d].BookID = %d, want %d", i, p.BookID, book.ID)
		}
		if p.ID == 0 {
			t.Fatalf("pages[%d] missing assigned ID", i)
		}
	}
}

func TestMemoryStoreAddPagesToMissingBook(t *testing.T) {
	s := NewMemoryStore()

	err := s.AddPages(999, []domain.Page{{PageNumber: 1, Text: "x"}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestMemoryStoreListOrdersByPageNumber(t *testing.T) {
	s := NewMemoryStore()

	book, err := s.CreateBookWithPages(domain.Book{Title: "T", Author: "A"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.AddPages(book.ID, []domain.Page{
		{PageNumber: 3, Text: "three"},
		{PageNumber: 1, Text: "one"},
		{PageNumber: 2, Text: "two"},
	}); err != nil {
		t.Fatalf("add pages: %v", err)
	}

	pages, err := s.ListPagesByBook(book.ID)
	if err != nil {
		t.Fatalf("list pages: %v", err)
	}
	for i, p := range pages {
		if p.PageNumber != i+1 {
			t.Fatalf("pages[%d].PageNumber = %d, want %d", i, p.PageNumber, i+1)
		}
	}
}

func TestMemoryStoreDeleteBookCascades(t *testing.T) {
	s := NewMemoryStore()

	book, err := s.CreateBookWithPages(domain.Book{Title: "T", Author: "A"}, []domain.Page{
		{PageNumber: 1, Text: "one"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.DeleteBook(book.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.GetBook(book.ID); ok {
		t.Fatal("book still present after delete")
	}
	pages, _ := s.ListPagesByBook(book.ID)
	if len(pages) != 0 {
		t.Fatalf("pages still present after delete: %d", len(pages))
	}

	if err := s.DeleteBook(book.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got: %v", err)
	}
}
