package database

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ashapiro/talmud-corpus/internal/entities"
)

// defaultAuthor owns the placeholder translations created during
// ingestion. Seeded as the first user so the default author ID is 1.
var defaultAuthor = entities.User{
	Username:       "corpus-bot",
	Email:          "corpus-bot@localhost",
	Name:           "Corpus Bot",
	PrivilegeLevel: entities.PrivilegeLevelStandard,
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the database, migrates the full corpus schema and
// seeds the default translation author.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.RefreshToken{},
		&entities.Section{},
		&entities.Book{},
		&entities.Chapter{},
		&entities.Page{},
		&entities.Passage{},
		&entities.Translation{},
		&entities.Rating{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedDefaultAuthor(); err != nil {
		return nil, fmt.Errorf("failed to seed default author: %w", err)
	}

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// seedDefaultAuthor creates the built-in translation author if it does
// not exist yet. The account gets a random password hash; it is not
// meant to log in.
func (d *Database) seedDefaultAuthor() error {
	var existing entities.User
	result := d.DB.Where("username = ?", defaultAuthor.Username).First(&existing)
	if result.Error == nil {
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	password := make([]byte, 32)
	if _, err := rand.Read(password); err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(password)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := defaultAuthor
	user.HashedPassword = string(hashed)
	if err := d.DB.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	log.Printf("Seeded default author %q with ID %d", user.Username, user.ID)

	return nil
}

// GetUserByUsername retrieves a user by username.
func (d *Database) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	if err := d.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckConnection is the connectivity smoke test: it pings the
// database, reads the current database time and lists the tables of
// the schema.
func (d *Database) CheckConnection() (string, []string, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return "", nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return "", nil, fmt.Errorf("ping failed: %w", err)
	}

	var now string
	if err := d.DB.Raw("SELECT datetime('now')").Scan(&now).Error; err != nil {
		return "", nil, fmt.Errorf("failed to read database time: %w", err)
	}

	var tables []string
	err = d.DB.Raw(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
	).Scan(&tables).Error
	if err != nil {
		return "", nil, fmt.Errorf("failed to list tables: %w", err)
	}

	return now, tables, nil
}
