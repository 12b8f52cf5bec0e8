package models

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/medilink/medilink/server/logger"
	"github.com/medilink/medilink/shared"
	"github.com/medilink/medilink/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "medilink.db"

var logg = logger.NewLogger()
var db *gorm.DB

// Open connects to the configured database and auto-migrates the schema.
// When debug is set every SQL statement is logged.
func Open(config shared.ServerConfig, debug bool) error {
	err := openDB(config, debug)
	if err != nil {
		return err
	}

	return AutoMigrate()
}

// AutoMigrate auto-migrates the db schema and inserts seed data
func AutoMigrate() error {
	err := db.AutoMigrate(
		&User{}, &Page{},
		&Medicine{}, &Allergy{}, &Diagnosis{}, &EmergencyContact{},
		&Notification{}, &Product{}, &Order{}, &OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	return populateDBWithSeedData()
}

// Ping checks the store is reachable
func Ping() error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

func Close() error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Checkpoint flushes the sqlite write-ahead log into the main database file,
// so the file alone is a complete copy of the data.
func Checkpoint() error {
	if db.Dialector.Name() != "sqlite" {
		return nil
	}
	return db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error
}

// InitializeTestDb points the package at a fresh encrypted sqlite database in a
// temporary directory. It panics on failure so tests can call it in one line.
func InitializeTestDb() {
	dir, err := os.MkdirTemp("", "medilink-test-")
	if err != nil {
		log.Panic(err)
	}

	config := shared.ServerConfig{
		Database: shared.DatabaseConfig{Driver: shared.SQLITE_DRIVER},
		Sqlite:   shared.SqliteConfig{PassPhrase: "test-passphrase", Dir: dir},
	}

	// Release the previous test database, if any
	Close()

	if err := Open(config, false); err != nil {
		log.Panic(err)
	}
}

// SqliteFilePath returns where the sqlite database file lives for dbRootDir
func SqliteFilePath(dbRootDir string) string {
	return filepath.Join(dbRootDir, "db", DB_NAME)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func openDB(config shared.ServerConfig, debug bool) error {
	dialector, err := newDialector(config)
	if err != nil {
		return err
	}

	logLevel := gormLogger.Silent
	if debug {
		logLevel = gormLogger.Info
	}

	db, err = gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  logLevel,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %v", err)
	}

	return nil
}

func newDialector(config shared.ServerConfig) (gorm.Dialector, error) {
	switch config.Database.Driver {
	case shared.POSTGRES_DRIVER:
		if config.Postgres.DSN == "" {
			return nil, errors.New("postgres.dsn is required when database.driver is postgres")
		}
		return postgres.Open(config.Postgres.DSN), nil

	case shared.SQLITE_DRIVER, "":
		dsn, err := sqliteDSN(config.Sqlite.PassPhrase, config.Sqlite.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to set sqlite DSN: %v", err)
		}
		return sqliteEncrypt.Open(dsn), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}
}

func sqliteDSN(passPhrase string, dbRootDir string) (string, error) {
	if passPhrase == "" {
		return "", errors.New("sqlite.passPhrase is required")
	}

	dbFilePath := SqliteFilePath(dbRootDir)
	err := utils.CreateDirIfNotExist(filepath.Dir(dbFilePath))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL&_foreign_keys=1&_busy_timeout=5000",
		dbFilePath,
		passPhrase,
	), nil
}

func populateDBWithSeedData() error {
	var count int64
	if err := db.Model(&Product{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	logg.Info("Inserting seed data into 'Product'")
	return db.Create(&[]Product{
		{Name: "Medical ID card", Description: "Wallet card with a QR code linking to your public profile", PriceCents: 1500, Active: true},
		{Name: "Medical ID bracelet", Description: "Engraved bracelet linking to your public profile", PriceCents: 2900, Active: true},
		{Name: "Basic plan", Description: "Unlimited entries and a custom profile link", PriceCents: 499, Tier: BASIC_TIER, Active: true},
		{Name: "Premium plan", Description: "Everything in basic plus printed cards every year", PriceCents: 999, Tier: PREMIUM_TIER, Active: true},
	}).Error
}
