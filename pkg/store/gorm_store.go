package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"booktures/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&BookModel{}, &PageModel{}, &CharacterModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Ping checks connectivity on the underlying connection pool.
func (s *GormStore) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// CreateBookWithPages stages the book and all its pages in one transaction.
func (s *GormStore) CreateBookWithPages(book domain.Book, pages []domain.Page) (domain.Book, error) {
	model := toBookModel(book)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		return createPages(tx, model.ID, pages)
	})
	if err != nil {
		return domain.Book{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return fromBookModel(model), nil
}

// AddPages appends pages to an existing book in one transaction.
func (s *GormStore) AddPages(bookID uint, pages []domain.Page) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var book BookModel
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("load book: %w", err)
		}
		return createPages(tx, bookID, pages)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: book %d", domain.ErrNotFound, bookID)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

func createPages(tx *gorm.DB, bookID uint, pages []domain.Page) error {
	if len(pages) == 0 {
		return nil
	}
	models := make([]PageModel, 0, len(pages))
	for _, p := range pages {
		p.BookID = bookID
		models = append(models, toPageModel(p))
	}
	if err := tx.Create(&models).Error; err != nil {
		return fmt.Errorf("create pages: %w", err)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *GormStore) GetBook(id uint) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return fromBookModel(model), true, nil
}

// ListPagesByBook returns pages ordered by page number ascending.
func (s *GormStore) ListPagesByBook(bookID uint) ([]domain.Page, error) {
	var models []PageModel
	if err := s.db.Where("book_id = ?", bookID).Order("page_number asc").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	pages := make([]domain.Page, 0, len(models))
	for _, m := range models {
		pages = append(pages, fromPageModel(m))
	}
	return pages, nil
}

// DeleteBook removes a book and its owned pages and characters in one
// transaction. Child rows are deleted explicitly so the count does not
// depend on the cascade constraint being present.
func (s *GormStore) DeleteBook(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&PageModel{}).Error; err != nil {
			return fmt.Errorf("delete pages: %w", err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&CharacterModel{}).Error; err != nil {
			return fmt.Errorf("delete characters: %w", err)
		}
		res := tx.Delete(&BookModel{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete book: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: book %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}
