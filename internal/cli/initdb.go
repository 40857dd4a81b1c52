package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ashapiro/talmud-corpus/internal/config"
	"github.com/ashapiro/talmud-corpus/internal/database"
)

// InitDBCommand bootstraps the corpus schema and seeds the default
// translation author.
type InitDBCommand struct {
	DatabasePath string
}

func NewInitDBCommand() *InitDBCommand {
	return &InitDBCommand{}
}

func (cmd *InitDBCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the corpus database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s init-db [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the corpus tables and seed the default translation author.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *InitDBCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	fmt.Printf("Initializing database: %s\n", absDBPath)

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	fmt.Println("Tables created successfully")
	return nil
}
