package app

import (
	"fmt"
	"log/slog"
	"strings"

	"booktures/pkg/domain"
	"booktures/pkg/extract"
	"booktures/pkg/storage"
	"booktures/pkg/store"
)

// defaultAuthor is recorded when an upload creates a book without one.
const defaultAuthor = "Unknown"

// Config wires the orchestrator's collaborators.
type Config struct {
	Store     store.Store
	Files     *storage.FileStore
	Extractor *extract.Extractor
}

// App orchestrates PDF ingestion: store the file, extract page text, and
// reconcile the result with the relational store. A successful upload is
// all-or-nothing; any failure after the file is stored triggers a
// best-effort delete so stored files never outlive a failed ingestion.
type App struct {
	store     store.Store
	files     *storage.FileStore
	extractor *extract.Extractor
}

// New constructs the application core.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Files == nil {
		return nil, fmt.Errorf("file store is required")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	return &App{store: cfg.Store, files: cfg.Files, extractor: cfg.Extractor}, nil
}

// Ingest runs the upload pipeline for one PDF. bookID selects an existing
// book to append to; when nil a new book is created with title defaulting
// to the filename and author to "Unknown".
func (a *App) Ingest(data []byte, filename string, bookID *uint, title, author string) (domain.IngestionResult, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return domain.IngestionResult{}, fmt.Errorf("%w: only PDF files are allowed", domain.ErrValidation)
	}
	slog.Info("processing pdf upload", "filename", filename)

	pdfPath, err := a.files.Store(data, filename)
	if err != nil {
		return domain.IngestionResult{}, err
	}

	pageResults, err := a.extractor.Extract(pdfPath)
	if err != nil {
		a.files.Delete(pdfPath)
		return domain.IngestionResult{}, err
	}

	pages := make([]domain.Page, 0, len(pageResults))
	errored := 0
	for _, pr := range pageResults {
		pages = append(pages, domain.Page{
			PageNumber: pr.PageNumber,
			Text:       pr.Text,
			PDFPath:    pdfPath,
		})
		if pr.Error != "" {
			errored++
		}
	}

	var resolvedID uint
	if bookID == nil {
		book, err := a.store.CreateBookWithPages(domain.Book{
			Title:       orDefault(title, filename),
			Author:      orDefault(author, defaultAuthor),
			TotalPages:  len(pages),
			Description: fmt.Sprintf("Uploaded from %s", filename),
		}, pages)
		if err != nil {
			a.files.Delete(pdfPath)
			return domain.IngestionResult{}, err
		}
		resolvedID = book.ID
		slog.Info("created new book", "book_id", resolvedID)
	} else {
		resolvedID = *bookID
		if err := a.store.AddPages(resolvedID, pages); err != nil {
			a.files.Delete(pdfPath)
			return domain.IngestionResult{}, err
		}
	}
	slog.Info("saved pages", "book_id", resolvedID, "pages", len(pages))

	return domain.IngestionResult{
		Filename:        filename,
		BookID:          resolvedID,
		PDFPath:         pdfPath,
		TotalPages:      len(pages),
		PagesWithErrors: errored,
		Info:            a.files.Info(pdfPath),
		Message:         fmt.Sprintf("Successfully uploaded and extracted %d pages", len(pages)),
	}, nil
}

// GetBook returns a book with its pages ordered by page number.
func (a *App) GetBook(id uint) (domain.Book, []domain.Page, error) {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, nil, err
	}
	if !ok {
		return domain.Book{}, nil, fmt.Errorf("%w: PDF with ID %d", domain.ErrNotFound, id)
	}
	pages, err := a.store.ListPagesByBook(id)
	if err != nil {
		return domain.Book{}, nil, err
	}
	return book, pages, nil
}

// DeleteBook removes the stored files referenced by a book's pages
// (best-effort), then deletes the book and all owned rows transactionally.
// It returns the number of pages removed.
func (a *App) DeleteBook(id uint) (int, error) {
	_, ok, err := a.store.GetBook(id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: PDF with ID %d", domain.ErrNotFound, id)
	}
	pages, err := a.store.ListPagesByBook(id)
	if err != nil {
		return 0, err
	}
	for _, path := range distinctPaths(pages) {
		a.files.Delete(path)
	}
	if err := a.store.DeleteBook(id); err != nil {
		return 0, err
	}
	slog.Info("deleted book", "book_id", id, "pages", len(pages))
	return len(pages), nil
}

// Ping reports store connectivity for the readiness probe.
func (a *App) Ping() error {
	return a.store.Ping()
}

// distinctPaths collapses the per-row pdf_path back-references into the
// set of stored files owned by the book, preserving first-seen order.
func distinctPaths(pages []domain.Page) []string {
	seen := make(map[string]struct{}, 1)
	var paths []string
	for _, p := range pages {
		if p.PDFPath == "" {
			continue
		}
		if _, ok := seen[p.PDFPath]; ok {
			continue
		}
		seen[p.PDFPath] = struct{}{}
		paths = append(paths, p.PDFPath)
	}
	return paths
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
