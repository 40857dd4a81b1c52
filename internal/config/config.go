package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Sefaria
		Ingest
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Sefaria struct {
		BaseURL string
	}
	// Ingest holds the parameters of an ingestion run. CLI flags
	// override these per invocation.
	Ingest struct {
		SectionName         string
		BookID              string
		StartFolio          int
		EndFolio            int
		TranslationTemplate string
		AuthorID            uint
		PageRetries         int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("sefaria_base_url", "https://www.sefaria.org")

	// Ingestion run defaults
	v.SetDefault("ingest_section_name", DefaultSectionName)
	v.SetDefault("ingest_book_id", "")
	v.SetDefault("ingest_start_folio", 2)
	v.SetDefault("ingest_end_folio", 160)
	v.SetDefault("ingest_translation_template", "")
	v.SetDefault("ingest_author_id", DefaultAuthorID)
	v.SetDefault("ingest_page_retries", DefaultPageRetries)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Sefaria: Sefaria{
			BaseURL: v.GetString("SEFARIA_BASE_URL"),
		},
		Ingest: Ingest{
			SectionName:         v.GetString("INGEST_SECTION_NAME"),
			BookID:              v.GetString("INGEST_BOOK_ID"),
			StartFolio:          v.GetInt("INGEST_START_FOLIO"),
			EndFolio:            v.GetInt("INGEST_END_FOLIO"),
			TranslationTemplate: v.GetString("INGEST_TRANSLATION_TEMPLATE"),
			AuthorID:            v.GetUint("INGEST_AUTHOR_ID"),
			PageRetries:         v.GetInt("INGEST_PAGE_RETRIES"),
		},
	}
}
