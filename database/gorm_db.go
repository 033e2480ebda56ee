package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/communitybackend/models"
)

// DriverName is the sqlite driver registered with the Unicode-aware
// unicode_lower function; sqlite's own LOWER only folds ASCII.
const DriverName = "sqlite3_community"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("unicode_lower", strings.ToLower, true); err != nil {
				return err
			}
			_, err := conn.Exec("PRAGMA foreign_keys = ON;", nil)
			return err
		},
	})
}

// GormLogLevel maps an application log level onto gorm's logger levels.
func GormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(dataSourceName string, logLevel logger.LogLevel) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Dialector{DriverName: DriverName, DSN: dataSourceName}, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	// enable write-ahead logging for concurrent readers during an import
	if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
		log.Printf("warning: failed to set WAL mode: %v", err)
	}
	if err := db.Exec("PRAGMA foreign_keys=ON;").Error; err != nil {
		log.Printf("warning: failed to enable foreign keys: %v", err)
	}
	if err := db.Exec("PRAGMA busy_timeout=5000;").Error; err != nil {
		log.Printf("warning: failed to set busy timeout: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// AllModels lists every persisted model in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&models.District{},
		&models.Taluka{},
		&models.Village{},
		&models.Country{},
		&models.Surname{},
		&models.Person{},
		&models.PersonTranslation{},
		&models.ParentChildRelation{},
		&models.Category{},
		&models.SubCategory{},
		&models.Business{},
		&models.SearchIntent{},
		&models.SearchInterest{},
		&models.SearchHistory{},
	}
}

// AutoMigrateModels creates or updates every table and index.
func AutoMigrateModels(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	return nil
}
