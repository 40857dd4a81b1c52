package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ashapiro/talmud-corpus/internal/config"
	"github.com/ashapiro/talmud-corpus/internal/database"
)

// CheckDBCommand is the connectivity smoke test: ping the database,
// print its current time and list the tables of the schema.
type CheckDBCommand struct {
	DatabasePath string
}

func NewCheckDBCommand() *CheckDBCommand {
	return &CheckDBCommand{}
}

func (cmd *CheckDBCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("check-db", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the corpus database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s check-db [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Verify database connectivity and list the corpus tables.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CheckDBCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	now, tables, err := db.CheckConnection()
	if err != nil {
		return fmt.Errorf("connection check failed: %w", err)
	}

	fmt.Printf("Database connected: %s\n", now)
	fmt.Println("Tables in the database:")
	for _, table := range tables {
		fmt.Printf("  %s\n", table)
	}

	return nil
}
