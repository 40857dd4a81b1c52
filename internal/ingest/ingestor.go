// Package ingest drives a single ingestion run: it fetches a book's
// index and page texts from the source API, normalizes them into the
// relational entity graph, and persists everything in one transaction.
//
// Failure handling is two-tier. Anything touching the section, book or
// chapter skeleton is fatal and rolls back the whole run, as is any
// database error. A page whose text fetch exhausts its retries is
// soft-skipped: the page row stays, with zero passages, and the run
// continues.
package ingest

import (
	"context"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ashapiro/talmud-corpus/internal/entities"
	"github.com/ashapiro/talmud-corpus/internal/sefaria"
)

// Source fetches book metadata and page texts. *sefaria.Client is the
// production implementation; tests substitute fakes.
type Source interface {
	FetchBookIndex(ctx context.Context, book string) (*sefaria.BookIndex, error)
	FetchPageText(ctx context.Context, book, page string, retries int) ([]string, error)
}

// Config holds the parameters of one ingestion run. Runs with distinct
// configs are independent; nothing here is process-wide state.
type Config struct {
	SectionName         string
	BookID              string
	StartFolio          int
	EndFolio            int
	TranslationTemplate string
	AuthorID            uint
	PageRetries         int
}

// PageResult is the outcome of processing one page. A skipped page
// kept its row but has no passages.
type PageResult struct {
	PageNumber string
	PageID     uint
	Passages   int
	Skipped    bool
	Reason     string
}

// RunSummary aggregates the per-page outcomes of a completed run.
type RunSummary struct {
	SectionID uint
	BookID    uint
	Pages     []PageResult
	Passages  int
}

// SkippedPages counts the pages whose text fetch was exhausted.
func (s *RunSummary) SkippedPages() int {
	n := 0
	for _, p := range s.Pages {
		if p.Skipped {
			n++
		}
	}
	return n
}

// Ingestor orchestrates ingestion runs.
type Ingestor struct {
	source Source
	db     *gorm.DB
	cfg    Config
}

func NewIngestor(source Source, db *gorm.DB, cfg Config) *Ingestor {
	return &Ingestor{source: source, db: db, cfg: cfg}
}

// Run executes one ingestion run inside a single transaction. On error
// the transaction is rolled back and no rows of the run survive.
func (ing *Ingestor) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{}

	err := ing.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ing.run(ctx, tx, summary)
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (ing *Ingestor) run(ctx context.Context, tx *gorm.DB, summary *RunSummary) error {
	section := entities.Section{Name: ing.cfg.SectionName}
	if err := tx.Create(&section).Error; err != nil {
		return fmt.Errorf("insert section: %w", err)
	}
	log.Printf("Inserted section %q with ID %d", section.Name, section.ID)

	idx, err := ing.source.FetchBookIndex(ctx, ing.cfg.BookID)
	if err != nil {
		return fmt.Errorf("fetch book index: %w", err)
	}

	info, err := NormalizeBookIndex(idx)
	if err != nil {
		return err
	}

	book := entities.Book{
		Name:             ing.cfg.BookID,
		SectionID:        section.ID,
		Categories:       datatypes.JSONSlice[string](info.Categories),
		Length:           info.Length,
		Titles:           info.Titles,
		Description:      info.Description,
		ShortDescription: info.ShortDescription,
		PublicationDate:  info.PublicationDate,
		NumberOfChapters: info.NumberOfChapters,
		ChapterTitles:    info.ChapterTitles,
	}
	if err := tx.Create(&book).Error; err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	log.Printf("Inserted book %q with ID %d", book.Name, book.ID)

	for _, ch := range info.Chapters {
		chapter := entities.Chapter{
			ChapterNumber: ch.Number,
			BookID:        book.ID,
			Titles:        ch.Titles,
			StartRef:      ch.StartRef,
			EndRef:        ch.EndRef,
		}
		if err := tx.Create(&chapter).Error; err != nil {
			return fmt.Errorf("insert chapter %d: %w", ch.Number, err)
		}
		log.Printf("Inserted chapter %d with ID %d", ch.Number, chapter.ID)
	}

	// Passage numbers run 0-based across the whole book, in fetch
	// order, with no gaps for skipped pages.
	passageNumber := 0

	for _, pageNumber := range GeneratePageRange(ing.cfg.StartFolio, ing.cfg.EndFolio) {
		page := entities.Page{PageNumber: pageNumber, BookID: book.ID}
		if err := tx.Create(&page).Error; err != nil {
			return fmt.Errorf("insert page %s: %w", pageNumber, err)
		}

		texts, err := ing.source.FetchPageText(ctx, ing.cfg.BookID, pageNumber, ing.cfg.PageRetries)
		if err != nil {
			log.Printf("No passages for page %s: %v", pageNumber, err)
			summary.Pages = append(summary.Pages, PageResult{
				PageNumber: pageNumber,
				PageID:     page.ID,
				Skipped:    true,
				Reason:     err.Error(),
			})
			continue
		}

		inserted := 0
		for _, text := range texts {
			passage := entities.Passage{
				HebrewText:    text,
				PassageNumber: passageNumber,
				PageID:        page.ID,
				BookID:        book.ID,
			}
			if err := tx.Create(&passage).Error; err != nil {
				return fmt.Errorf("insert passage %d on page %s: %w", passageNumber, pageNumber, err)
			}

			translation := entities.Translation{
				Text:        fmt.Sprintf("%s - %d", ing.cfg.TranslationTemplate, passage.ID),
				VersionName: "default",
				Status:      entities.TranslationStatusPublished,
				UserID:      ing.cfg.AuthorID,
				PassageID:   passage.ID,
			}
			if err := tx.Create(&translation).Error; err != nil {
				return fmt.Errorf("insert translation for passage %d: %w", passage.ID, err)
			}

			passageNumber++
			inserted++
		}
		log.Printf("Inserted %d passages for page %s", inserted, pageNumber)

		summary.Pages = append(summary.Pages, PageResult{
			PageNumber: pageNumber,
			PageID:     page.ID,
			Passages:   inserted,
		})
		summary.Passages += inserted
	}

	summary.SectionID = section.ID
	summary.BookID = book.ID
	return nil
}
