package domain

import "time"

// Book groups pages extracted from one or more uploads.
type Book struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	TotalPages  int       `json:"totalPages"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Page is one extracted unit of text corresponding to a physical PDF page.
// PDFPath points back at the stored file shared by every page of one upload.
type Page struct {
	ID         uint      `json:"id"`
	BookID     uint      `json:"bookId"`
	PageNumber int       `json:"pageNumber"`
	Text       string    `json:"text"`
	PDFPath    string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Character is a schema placeholder for the visual-profile feature.
// No handlers operate on it yet.
type Character struct {
	ID             uint           `json:"id"`
	BookID         uint           `json:"bookId"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	VisualProfile  map[string]any `json:"visualProfile,omitempty"`
	ReferenceImage string         `json:"referenceImage,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// PageResult is the extraction-time record for one page. A failing page
// carries Error with empty text; it never aborts the rest of the document.
type PageResult struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	HasTables  bool   `json:"has_tables"`
	Error      string `json:"error,omitempty"`
}

// FileInfo is the structural metadata probe result for a stored PDF.
type FileInfo struct {
	PageCount int               `json:"page_count"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// IngestionResult summarizes one successful upload.
type IngestionResult struct {
	Filename        string    `json:"filename"`
	BookID          uint      `json:"book_id"`
	PDFPath         string    `json:"pdf_path"`
	TotalPages      int       `json:"total_pages"`
	PagesWithErrors int       `json:"pages_with_errors"`
	Info            *FileInfo `json:"metadata,omitempty"`
	Message         string    `json:"message"`
}
