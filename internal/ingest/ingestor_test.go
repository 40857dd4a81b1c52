package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ashapiro/talmud-corpus/internal/entities"
	"github.com/ashapiro/talmud-corpus/internal/sefaria"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_ingest_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Section{},
		&entities.Book{},
		&entities.Chapter{},
		&entities.Page{},
		&entities.Passage{},
		&entities.Translation{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

// fakeSource serves canned index and page payloads. Pages listed in
// failPages always return an exhausted-retries error.
type fakeSource struct {
	idx       *sefaria.BookIndex
	idxErr    error
	pages     map[string][]string
	failPages map[string]bool
	calls     map[string]int
}

func (f *fakeSource) FetchBookIndex(ctx context.Context, book string) (*sefaria.BookIndex, error) {
	if f.idxErr != nil {
		return nil, f.idxErr
	}
	return f.idx, nil
}

func (f *fakeSource) FetchPageText(ctx context.Context, book, page string, retries int) ([]string, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[page]++
	if f.failPages[page] {
		return nil, &sefaria.ExhaustedError{URL: page, Attempts: retries, Err: errors.New("connection refused")}
	}
	return f.pages[page], nil
}

func testBookIndex() *sefaria.BookIndex {
	return &sefaria.BookIndex{
		Categories:       []string{"Commentary", "Talmud"},
		PageCount:        157,
		Titles:           json.RawMessage(`[{"text":"Rashi on Shabbat","lang":"en"}]`),
		Description:      "Rashi's commentary on tractate Shabbat.",
		ShortDescription: "Commentary on Shabbat.",
		PubDate:          "1523",
		Chapters: []sefaria.ChapterNode{
			{WholeRef: "Rashi on Shabbat 2a:1-20b:6", Titles: json.RawMessage(`[{"text":"Yetziot HaShabbat"}]`)},
			{WholeRef: "Rashi on Shabbat 20b:7-36a:5", Titles: json.RawMessage(`[{"text":"BaMeh Madlikin"}]`)},
		},
	}
}

func testConfig() Config {
	return Config{
		SectionName:         "Talmud",
		BookID:              "Rashi_on_Shabbat",
		StartFolio:          2,
		EndFolio:            3,
		TranslationTemplate: "sample translation for Rashi_on_Shabbat",
		AuthorID:            1,
		PageRetries:         3,
	}
}

func TestIngestor_Run(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	source := &fakeSource{
		idx: testBookIndex(),
		pages: map[string][]string{
			"2a": {"passage one", "passage two"},
			"2b": {"passage three"},
			"3a": {},
			"3b": {"passage four", "", "passage six"},
		},
	}

	summary, err := NewIngestor(source, db, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.NotZero(t, summary.SectionID)
	assert.NotZero(t, summary.BookID)
	assert.Len(t, summary.Pages, 4)
	assert.Equal(t, 6, summary.Passages)
	assert.Zero(t, summary.SkippedPages())

	var book entities.Book
	require.NoError(t, db.Preload("Section").First(&book, summary.BookID).Error)
	assert.Equal(t, "Rashi_on_Shabbat", book.Name)
	assert.Equal(t, "Talmud", book.Section.Name)
	assert.Equal(t, 157, book.Length)
	assert.Equal(t, 2, book.NumberOfChapters)
	assert.Equal(t, []string{"Commentary", "Talmud"}, []string(book.Categories))
	require.NotNil(t, book.PublicationDate)
	assert.Equal(t, "1523-01-01", book.PublicationDate.Format("2006-01-02"))

	// Whitespace-only and empty segments still count as passages.
	var passages []entities.Passage
	require.NoError(t, db.Where("book_id = ?", book.ID).Order("passage_number ASC").Find(&passages).Error)
	require.Len(t, passages, 6)
	for i, p := range passages {
		assert.Equal(t, i, p.PassageNumber)
	}
}

func TestIngestor_ChapterNumbersAreDense(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	source := &fakeSource{idx: testBookIndex(), pages: map[string][]string{}}

	summary, err := NewIngestor(source, db, testConfig()).Run(context.Background())
	require.NoError(t, err)

	var chapters []entities.Chapter
	require.NoError(t, db.Where("book_id = ?", summary.BookID).Order("chapter_number ASC").Find(&chapters).Error)
	require.Len(t, chapters, 2)
	for i, ch := range chapters {
		assert.Equal(t, i+1, ch.ChapterNumber)
	}
	assert.Equal(t, "Rashi on Shabbat 2a:1", chapters[0].StartRef)
	assert.Equal(t, "20b:6", chapters[0].EndRef)
}

func TestIngestor_MetadataFailureRollsBackEverything(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	source := &fakeSource{idxErr: &sefaria.StatusError{StatusCode: 502}}

	_, err := NewIngestor(source, db, testConfig()).Run(context.Background())
	require.Error(t, err)

	models := []interface{}{
		&entities.Section{},
		&entities.Book{},
		&entities.Chapter{},
		&entities.Page{},
		&entities.Passage{},
		&entities.Translation{},
	}
	for _, model := range models {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "expected no rows for %T after rollback", model)
	}
}

func TestIngestor_SkippedPageKeepsNumberingContiguous(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	source := &fakeSource{
		idx: testBookIndex(),
		pages: map[string][]string{
			"2a": {"a1", "a2"},
			"3a": {"c1"},
			"3b": {"d1", "d2"},
		},
		failPages: map[string]bool{"2b": true},
	}

	summary, err := NewIngestor(source, db, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SkippedPages())
	assert.Equal(t, 5, summary.Passages)

	// The skipped page keeps its row but has no passages.
	var page entities.Page
	require.NoError(t, db.Where("page_number = ? AND book_id = ?", "2b", summary.BookID).First(&page).Error)
	var count int64
	require.NoError(t, db.Model(&entities.Passage{}).Where("page_id = ?", page.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Passage numbers stay contiguous across the gap.
	var passages []entities.Passage
	require.NoError(t, db.Where("book_id = ?", summary.BookID).Order("passage_number ASC").Find(&passages).Error)
	require.Len(t, passages, 5)
	for i, p := range passages {
		assert.Equal(t, i, p.PassageNumber)
	}

	for _, result := range summary.Pages {
		if result.PageNumber == "2b" {
			assert.True(t, result.Skipped)
			assert.Contains(t, result.Reason, "connection refused")
		}
	}
}

func TestIngestor_EveryPassageGetsOnePublishedTranslation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	source := &fakeSource{
		idx: testBookIndex(),
		pages: map[string][]string{
			"2a": {"p1", "p2"},
			"2b": {"p3"},
		},
	}

	cfg := testConfig()
	cfg.EndFolio = 2
	summary, err := NewIngestor(source, db, cfg).Run(context.Background())
	require.NoError(t, err)

	var passages []entities.Passage
	require.NoError(t, db.Preload("Translations").Where("book_id = ?", summary.BookID).Find(&passages).Error)
	require.Len(t, passages, 3)

	for _, p := range passages {
		require.Len(t, p.Translations, 1)
		tr := p.Translations[0]
		assert.Equal(t, entities.TranslationStatusPublished, tr.Status)
		assert.Equal(t, "default", tr.VersionName)
		assert.Equal(t, uint(1), tr.UserID)
		assert.Equal(t, fmt.Sprintf("sample translation for Rashi_on_Shabbat - %d", p.ID), tr.Text)
	}
}
