package config

// Default paths and run parameters
const (
	// DefaultDatabasePath is the default path for the corpus database
	DefaultDatabasePath = "./talmud-corpus.db"

	// DefaultSectionName is the corpus section an ingested book is filed under
	DefaultSectionName = "Talmud"

	// DefaultPageRetries bounds the fetch attempts per page
	DefaultPageRetries = 3

	// DefaultAuthorID is the seeded corpus-bot user
	DefaultAuthorID = 1
)
