package sefaria

import "fmt"

// StatusError represents a non-2xx response from the Sefaria API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sefaria: unexpected status %d", e.StatusCode)
}

// ValidationError indicates the index payload is missing a field the
// ingestion pipeline cannot proceed without.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sefaria: index response missing %s", e.Field)
}

// ExhaustedError is returned when every retry attempt for a page fetch
// has failed. It wraps the error from the final attempt.
type ExhaustedError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("sefaria: failed to fetch %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
