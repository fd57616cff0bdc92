package store

import (
	"time"

	"gorm.io/datatypes"

	"booktures/pkg/domain"
)

// GORM models used for persistence.
type BookModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:255;not null;index"`
	Author      string    `gorm:"size:255;not null"`
	TotalPages  int       `gorm:"not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time

	Pages      []PageModel      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	Characters []CharacterModel `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
}

// PageModel rows carry the per-upload 1-based page number. There is no
// unique index on (book_id, page_number): concurrent uploads appending to
// the same book number their pages independently and may interleave.
type PageModel struct {
	ID         uint      `gorm:"primaryKey"`
	BookID     uint      `gorm:"not null;index"`
	PageNumber int       `gorm:"not null"`
	Text       string    `gorm:"type:text;not null"`
	PDFPath    string    `gorm:"size:500;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time
}

// CharacterModel is schema-only for now; no handler writes it.
type CharacterModel struct {
	ID             uint           `gorm:"primaryKey"`
	BookID         uint           `gorm:"not null;index"`
	Name           string         `gorm:"size:255;not null;index"`
	Description    string         `gorm:"type:text"`
	VisualProfile  datatypes.JSON `gorm:"type:jsonb"`
	ReferenceImage string         `gorm:"size:500"`
	CreatedAt      time.Time      `gorm:"not null"`
	UpdatedAt      time.Time
}

func (BookModel) TableName() string      { return "books" }
func (PageModel) TableName() string      { return "pages" }
func (CharacterModel) TableName() string { return "characters" }

func toBookModel(b domain.Book) BookModel {
	return BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		TotalPages:  b.TotalPages,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func fromBookModel(m BookModel) domain.Book {
	return domain.Book{
		ID:          m.ID,
		Title:       m.Title,
		Author:      m.Author,
		TotalPages:  m.TotalPages,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toPageModel(p domain.Page) PageModel {
	return PageModel{
		ID:         p.ID,
		BookID:     p.BookID,
		PageNumber: p.PageNumber,
		Text:       p.Text,
		PDFPath:    p.PDFPath,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func fromPageModel(m PageModel) domain.Page {
	return domain.Page{
		ID:         m.ID,
		BookID:     m.BookID,
		PageNumber: m.PageNumber,
		Text:       m.Text,
		PDFPath:    m.PDFPath,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
