// Package sefaria implements a client for the parts of the Sefaria API
// the ingestion pipeline consumes: the raw index of a book and the
// per-page text endpoint.
package sefaria

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://www.sefaria.org"
	defaultTimeout = 30 * time.Second
)

// Client interfaces with the Sefaria API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Sefaria API client with default settings.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client against a non-default host.
// Used by tests to point the client at a local fake server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// ChapterNode describes one chapter boundary from the index's
// alternate structure. WholeRef is a range token such as
// "Shabbat 2a-20b"; Titles is the raw language-tagged title list.
type ChapterNode struct {
	WholeRef string          `json:"wholeRef"`
	Titles   json.RawMessage `json:"titles"`
}

// BookIndex is the subset of the raw index payload the pipeline uses.
type BookIndex struct {
	Categories       []string
	PageCount        int
	Titles           json.RawMessage
	Description      string
	ShortDescription string
	PubDate          string
	Chapters         []ChapterNode
}

type rawIndexResponse struct {
	Categories []string `json:"categories"`
	Schema     *struct {
		Lengths []int           `json:"lengths"`
		Titles  json.RawMessage `json:"titles"`
	} `json:"schema"`
	EnDesc      string   `json:"enDesc"`
	EnShortDesc string   `json:"enShortDesc"`
	PubDate     []string `json:"pubDate"`
	AltStructs  map[string]struct {
		Nodes []ChapterNode `json:"nodes"`
	} `json:"alt_structs"`
}

type rawTextResponse struct {
	Versions []struct {
		Text [][]string `json:"text"`
	} `json:"versions"`
}

// FetchBookIndex fetches the raw index of a book. A single call, no
// retry: a failure here aborts the whole ingestion run.
func (c *Client) FetchBookIndex(ctx context.Context, book string) (*BookIndex, error) {
	url := fmt.Sprintf("%s/api/v2/raw/index/%s", c.baseURL, book)
	log.Printf("Fetching index: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var raw rawIndexResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode index response: %w", err)
	}

	if raw.Schema == nil || len(raw.Schema.Lengths) == 0 {
		return nil, &ValidationError{Field: "schema.lengths"}
	}

	chapters, ok := raw.AltStructs["Chapters"]
	if !ok || len(chapters.Nodes) == 0 {
		return nil, &ValidationError{Field: "alt_structs.Chapters.nodes"}
	}

	var pubDate string
	if len(raw.PubDate) > 0 {
		pubDate = raw.PubDate[0]
	}

	return &BookIndex{
		Categories:       raw.Categories,
		PageCount:        raw.Schema.Lengths[0],
		Titles:           raw.Schema.Titles,
		Description:      raw.EnDesc,
		ShortDescription: raw.EnShortDesc,
		PubDate:          pubDate,
		Chapters:         chapters.Nodes,
	}, nil
}

// FetchPageText fetches the text of one page, retrying up to retries
// times. Retries are immediate: the API is low-latency and flakes
// transiently, so the run fails fast rather than waiting out a backoff
// schedule. On success the nested per-line groups are flattened into a
// single ordered list of passage strings.
func (c *Client) FetchPageText(ctx context.Context, book, page string, retries int) ([]string, error) {
	url := fmt.Sprintf("%s/api/v3/texts/%s.%s", c.baseURL, book, page)

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		log.Printf("Fetching page: %s (attempt %d)", url, attempt)

		passages, err := c.doPageRequest(ctx, url)
		if err == nil {
			return passages, nil
		}
		lastErr = err
		log.Printf("Error fetching page %s (attempt %d): %v", page, attempt, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, &ExhaustedError{URL: url, Attempts: retries, Err: lastErr}
}

func (c *Client) doPageRequest(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var raw rawTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode text response: %w", err)
	}

	if len(raw.Versions) == 0 || raw.Versions[0].Text == nil {
		return nil, fmt.Errorf("unexpected response structure")
	}

	var flattened []string
	for _, group := range raw.Versions[0].Text {
		flattened = append(flattened, group...)
	}
	return flattened, nil
}
