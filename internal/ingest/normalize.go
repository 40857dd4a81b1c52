package ingest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/ashapiro/talmud-corpus/internal/sefaria"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// BookInfo is the normalized form of a Sefaria book index, ready to be
// persisted as a book row plus its chapter rows.
type BookInfo struct {
	Categories       []string
	Length           int
	Titles           datatypes.JSON
	Description      string
	ShortDescription string
	PublicationDate  *time.Time
	NumberOfChapters int
	Chapters         []ChapterInfo
	ChapterTitles    datatypes.JSON
}

// ChapterInfo is one normalized chapter boundary. Number is the
// 1-based position in the source's chapter list; the source ordering
// is authoritative and never re-sorted.
type ChapterInfo struct {
	Number   int
	Titles   datatypes.JSON
	StartRef string
	EndRef   string
}

// NormalizeBookIndex maps a raw index payload into the relational
// shape. Pure transformation, no I/O.
func NormalizeBookIndex(idx *sefaria.BookIndex) (*BookInfo, error) {
	chapters := make([]ChapterInfo, 0, len(idx.Chapters))
	for i, node := range idx.Chapters {
		startRef, endRef := SplitRangeRef(node.WholeRef)
		chapters = append(chapters, ChapterInfo{
			Number:   i + 1,
			Titles:   datatypes.JSON(node.Titles),
			StartRef: startRef,
			EndRef:   endRef,
		})
	}

	chapterTitles, err := json.Marshal(idx.Chapters)
	if err != nil {
		return nil, fmt.Errorf("marshal chapter titles: %w", err)
	}

	return &BookInfo{
		Categories:       idx.Categories,
		Length:           idx.PageCount,
		Titles:           datatypes.JSON(idx.Titles),
		Description:      idx.Description,
		ShortDescription: idx.ShortDescription,
		PublicationDate:  NormalizePublicationDate(idx.PubDate),
		NumberOfChapters: len(idx.Chapters),
		Chapters:         chapters,
		ChapterTitles:    datatypes.JSON(chapterTitles),
	}, nil
}

// NormalizePublicationDate turns the source's free-form publication
// date into a calendar date or nothing. A bare 4-digit year becomes
// January 1st of that year, a full YYYY-MM-DD date passes through, and
// every other shape is dropped rather than persisted as garbage.
func NormalizePublicationDate(raw string) *time.Time {
	candidate := raw
	if len(raw) == 4 {
		candidate = raw + "-01-01"
	} else if !isoDatePattern.MatchString(raw) {
		return nil
	}

	parsed, err := time.Parse("2006-01-02", candidate)
	if err != nil {
		return nil
	}
	return &parsed
}

// SplitRangeRef splits a range token such as "Shabbat 2a-3b" into its
// start and end references. A token without a separator yields an
// empty end reference.
func SplitRangeRef(wholeRef string) (startRef, endRef string) {
	parts := strings.Split(wholeRef, "-")
	startRef = parts[0]
	if len(parts) > 1 {
		endRef = parts[1]
	}
	return startRef, endRef
}
