// Package corpus provides the read-side database operations behind the
// browse API. Ingestion never goes through this package; it is the
// query surface over what a completed run left behind.
package corpus

import (
	"gorm.io/gorm"

	"github.com/ashapiro/talmud-corpus/internal/entities"
)

// Repository handles corpus read queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new corpus repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllBooks retrieves all books with their sections.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Section").Find(&books).Error
	return books, err
}

// GetBookByID retrieves a book with its section and chapters, chapters
// in chapter-number order.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Section").Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapter_number ASC")
	}).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetPagesForBook retrieves the pages of a book in insertion order,
// which is the folio-then-side order of the ingestion run.
func (r *Repository) GetPagesForBook(bookID uint) ([]entities.Page, error) {
	var pages []entities.Page
	err := r.db.Where("book_id = ?", bookID).Order("id ASC").Find(&pages).Error
	return pages, err
}

// GetPageWithPassages retrieves a page and its passages in passage
// order, each passage with its translations.
func (r *Repository) GetPageWithPassages(pageID uint) (*entities.Page, []entities.Passage, error) {
	var page entities.Page
	if err := r.db.First(&page, pageID).Error; err != nil {
		return nil, nil, err
	}

	var passages []entities.Passage
	err := r.db.Preload("Translations").
		Where("page_id = ?", pageID).
		Order("passage_number ASC").
		Find(&passages).Error
	if err != nil {
		return nil, nil, err
	}

	return &page, passages, nil
}

// CountPassagesForBook counts the passages a run inserted for a book.
func (r *Repository) CountPassagesForBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Passage{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}
