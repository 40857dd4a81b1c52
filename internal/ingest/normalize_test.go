package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashapiro/talmud-corpus/internal/sefaria"
)

func TestNormalizePublicationDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string // "" means absent
	}{
		{"1523", "1523-01-01"},
		{"1987-06-15", "1987-06-15"},
		{"circa 200", ""},
		{"", ""},
		{"15th century", ""},
		{"1987-13-40", ""}, // matches the shape but is not a calendar date
		{"523", ""},
		{"abcd", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizePublicationDate(tt.input)
			if tt.expected == "" {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, tt.expected, result.Format("2006-01-02"))
		})
	}
}

func TestSplitRangeRef(t *testing.T) {
	start, end := SplitRangeRef("Shabbat 2a-3b")

	assert.Equal(t, "Shabbat 2a", start)
	assert.Equal(t, "3b", end)
}

func TestSplitRangeRef_NoSeparator(t *testing.T) {
	start, end := SplitRangeRef("Shabbat 2a")

	assert.Equal(t, "Shabbat 2a", start)
	assert.Empty(t, end)
}

func TestNormalizeBookIndex(t *testing.T) {
	idx := &sefaria.BookIndex{
		Categories:       []string{"Commentary", "Talmud"},
		PageCount:        157,
		Titles:           json.RawMessage(`[{"text":"Rashi on Shabbat","lang":"en"}]`),
		Description:      "Rashi's commentary on tractate Shabbat.",
		ShortDescription: "Commentary on Shabbat.",
		PubDate:          "1523",
		Chapters: []sefaria.ChapterNode{
			{WholeRef: "Rashi on Shabbat 2a:1-20b:6", Titles: json.RawMessage(`[{"text":"Yetziot HaShabbat","lang":"en"}]`)},
			{WholeRef: "Rashi on Shabbat 20b:7-36a:5", Titles: json.RawMessage(`[{"text":"BaMeh Madlikin","lang":"en"}]`)},
			{WholeRef: "Rashi on Shabbat 36a:6-47b:10", Titles: json.RawMessage(`[{"text":"Kirah","lang":"en"}]`)},
		},
	}

	info, err := NormalizeBookIndex(idx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Commentary", "Talmud"}, info.Categories)
	assert.Equal(t, 157, info.Length)
	assert.Equal(t, 3, info.NumberOfChapters)
	require.NotNil(t, info.PublicationDate)
	assert.Equal(t, time.Date(1523, 1, 1, 0, 0, 0, 0, time.UTC), *info.PublicationDate)

	require.Len(t, info.Chapters, 3)
	for i, ch := range info.Chapters {
		assert.Equal(t, i+1, ch.Number)
	}
	assert.Equal(t, "Rashi on Shabbat 2a:1", info.Chapters[0].StartRef)
	assert.Equal(t, "20b:6", info.Chapters[0].EndRef)
	assert.Equal(t, "Rashi on Shabbat 36a:6", info.Chapters[2].StartRef)

	assert.NotEmpty(t, info.ChapterTitles)
	assert.True(t, json.Valid(info.ChapterTitles))
}
