package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ashapiro/talmud-corpus/internal/config"
	"github.com/ashapiro/talmud-corpus/internal/database"
	"github.com/ashapiro/talmud-corpus/internal/ingest"
	"github.com/ashapiro/talmud-corpus/internal/sefaria"
)

// IngestCommand runs one ingestion: fetch a book from Sefaria and
// persist its full entity graph in a single transaction.
type IngestCommand struct {
	BookID              string
	SectionName         string
	StartFolio          int
	EndFolio            int
	TranslationTemplate string
	AuthorID            uint
	PageRetries         int
	DatabasePath        string
	BaseURL             string
}

func NewIngestCommand() *IngestCommand {
	return &IngestCommand{}
}

func (cmd *IngestCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()

	fs := flag.NewFlagSet("ingest", flag.ExitOnError)

	fs.StringVar(&cmd.BookID, "book", cfg.Ingest.BookID, "Sefaria book identifier, e.g. Rashi_on_Shabbat (required)")
	fs.StringVar(&cmd.SectionName, "section", cfg.Ingest.SectionName, "Corpus section to file the book under")
	fs.IntVar(&cmd.StartFolio, "start", cfg.Ingest.StartFolio, "First folio to ingest")
	fs.IntVar(&cmd.EndFolio, "end", cfg.Ingest.EndFolio, "Last folio to ingest (inclusive)")
	fs.StringVar(&cmd.TranslationTemplate, "template", cfg.Ingest.TranslationTemplate, "Placeholder translation text (default: derived from the book identifier)")
	var authorID uint64
	fs.Uint64Var(&authorID, "author", uint64(cfg.Ingest.AuthorID), "User ID owning the placeholder translations")
	fs.IntVar(&cmd.PageRetries, "retries", cfg.Ingest.PageRetries, "Fetch attempts per page before the page is skipped")
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the corpus database file")
	fs.StringVar(&cmd.BaseURL, "base-url", cfg.Sefaria.BaseURL, "Sefaria API base URL")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s ingest -book <identifier> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch a book from the Sefaria API and load it into the corpus database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Ingest Rashi on Shabbat, folios 2-160:\n")
		fmt.Fprintf(os.Stderr, "  %s ingest -book Rashi_on_Shabbat\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Ingest a short folio range into a custom database:\n")
		fmt.Fprintf(os.Stderr, "  %s ingest -book Rashi_on_Shabbat -start 2 -end 4 -db ./corpus.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.AuthorID = uint(authorID)

	if cmd.BookID == "" {
		return fmt.Errorf("required flag -book not provided")
	}
	if cmd.SectionName == "" {
		return fmt.Errorf("section name must not be empty")
	}
	if cmd.StartFolio < 1 || cmd.EndFolio < cmd.StartFolio {
		return fmt.Errorf("invalid folio range %d-%d", cmd.StartFolio, cmd.EndFolio)
	}
	if cmd.PageRetries < 1 {
		return fmt.Errorf("retries must be at least 1")
	}

	if cmd.TranslationTemplate == "" {
		cmd.TranslationTemplate = fmt.Sprintf("sample translation for %s", cmd.BookID)
	}

	return nil
}

func (cmd *IngestCommand) Run() error {
	fmt.Println("Corpus Ingestion")
	fmt.Println("================")
	fmt.Printf("Book: %s\n", cmd.BookID)
	fmt.Printf("Folios: %d-%d\n", cmd.StartFolio, cmd.EndFolio)

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath
	fmt.Printf("Database: %s\n\n", cmd.DatabasePath)

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	client := sefaria.NewClientWithBaseURL(cmd.BaseURL)
	ingestor := ingest.NewIngestor(client, db.DB, ingest.Config{
		SectionName:         cmd.SectionName,
		BookID:              cmd.BookID,
		StartFolio:          cmd.StartFolio,
		EndFolio:            cmd.EndFolio,
		TranslationTemplate: cmd.TranslationTemplate,
		AuthorID:            cmd.AuthorID,
		PageRetries:         cmd.PageRetries,
	})

	summary, err := ingestor.Run(context.Background())
	if err != nil {
		return fmt.Errorf("ingestion failed, nothing was written: %w", err)
	}

	fmt.Println("\n=== Ingestion Summary ===")
	fmt.Printf("Book ID: %d\n", summary.BookID)
	fmt.Printf("Pages processed: %d\n", len(summary.Pages))
	fmt.Printf("Passages inserted: %d\n", summary.Passages)

	if skipped := summary.SkippedPages(); skipped > 0 {
		fmt.Printf("\n%d pages had no retrievable text:\n", skipped)
		for _, p := range summary.Pages {
			if p.Skipped {
				fmt.Printf("  [SKIPPED] %s: %s\n", p.PageNumber, p.Reason)
			}
		}
	}

	fmt.Println("\nIngestion complete!")
	return nil
}
