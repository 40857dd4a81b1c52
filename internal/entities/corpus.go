package entities

import (
	"time"

	"gorm.io/datatypes"
)

type TranslationStatus string

const (
	TranslationStatusPublished TranslationStatus = "published"
	TranslationStatusProposed  TranslationStatus = "proposed"
	TranslationStatusRejected  TranslationStatus = "rejected"
	TranslationStatusApproved  TranslationStatus = "approved"
	TranslationStatusRedacted  TranslationStatus = "redacted"
)

type RatingStatus string

const (
	RatingStatusViewed    RatingStatus = "viewed"
	RatingStatusNotViewed RatingStatus = "not viewed"
	RatingStatusDismissed RatingStatus = "dismissed"
)

// Section is a top-level division of the corpus, e.g. "Talmud".
type Section struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// Book is the aggregation root of an ingestion run: every chapter, page,
// passage and translation created by a run hangs off a single book row.
type Book struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	Name             string                      `gorm:"size:255;not null;index" json:"name"`
	SectionID        uint                        `gorm:"index" json:"section_id"`
	Section          Section                     `gorm:"foreignKey:SectionID" json:"section,omitempty"`
	Categories       datatypes.JSONSlice[string] `json:"categories"`
	Length           int                         `json:"length"` // number of pages
	Titles           datatypes.JSON              `json:"titles"`
	Description      string                      `gorm:"type:text" json:"description"`
	ShortDescription string                      `gorm:"type:text" json:"short_description"`
	PublicationDate  *time.Time                  `json:"publication_date,omitempty"`
	NumberOfChapters int                         `json:"number_of_chapters"`
	ChapterTitles    datatypes.JSON              `json:"chapter_titles"`
	Chapters         []Chapter                   `gorm:"foreignKey:BookID" json:"chapters,omitempty"`
	Pages            []Page                      `gorm:"foreignKey:BookID" json:"pages,omitempty"`
}

// Chapter records a chapter boundary. ChapterNumber is the 1-based
// position in the source's chapter list; StartRef and EndRef come from
// splitting the source's whole-ref range token.
type Chapter struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ChapterNumber int            `gorm:"not null" json:"chapter_number"`
	BookID        uint           `gorm:"index" json:"book_id"`
	Titles        datatypes.JSON `json:"titles"`
	Length        int            `json:"length,omitempty"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	StartRef      string         `gorm:"size:50" json:"start_ref"`
	EndRef        string         `gorm:"size:50" json:"end_ref"`
}

// Page is one folio side, e.g. "2a". ChapterID stays null during
// ingestion; chapter linkage belongs to a later editorial flow.
type Page struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PageNumber string `gorm:"size:10;not null" json:"page_number"`
	BookID     uint   `gorm:"index" json:"book_id"`
	ChapterID  *uint  `gorm:"index" json:"chapter_id,omitempty"`
}

// Passage is a single source-language text segment. PassageNumber is
// 0-based and strictly increasing in fetch order across the whole book.
type Passage struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	HebrewText    string        `gorm:"type:text;not null" json:"hebrew_text"`
	PassageNumber int           `json:"passage_number"`
	PageID        uint          `gorm:"index" json:"page_id"`
	BookID        uint          `gorm:"index" json:"book_id"`
	Translations  []Translation `gorm:"foreignKey:PassageID" json:"translations,omitempty"`
}

type Translation struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Text         string            `gorm:"type:text;not null" json:"text"`
	VersionName  string            `gorm:"size:255" json:"version_name"`
	Status       TranslationStatus `gorm:"size:50" json:"status"`
	UserID       uint              `gorm:"index" json:"user_id"`
	PassageID    uint              `gorm:"index" json:"passage_id"`
	CreationDate time.Time         `gorm:"autoCreateTime" json:"creation_date"`
	Notes        string            `gorm:"type:text" json:"notes,omitempty"`
}

// Rating is reader feedback on a translation. The ingestion pipeline
// never writes ratings; the table is part of the schema contract.
type Rating struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UserID        uint         `gorm:"index" json:"user_id"`
	TranslationID uint         `gorm:"index" json:"translation_id"`
	Rating        int          `json:"rating"` // 1..5
	Feedback      string       `gorm:"type:text" json:"feedback,omitempty"`
	CreationDate  time.Time    `gorm:"autoCreateTime" json:"creation_date"`
	Status        RatingStatus `gorm:"size:50;default:'not viewed'" json:"status"`
}
