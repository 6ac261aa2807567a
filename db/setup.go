package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shram-daan/shramdaan/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ConnectDatabase opens a gorm handle for the given driver. Duplicate-key and
// foreign-key failures are translated into gorm's portable errors so callers
// never parse driver messages.
func ConnectDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})

	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer; one connection keeps transactions serialized.
		sqlDB.SetMaxOpenConns(1)

		// Cascades depend on foreign keys, which SQLite leaves off unless the
		// DSN asks for them.
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}

	return conn, nil
}

func MigrateDatabase(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Rsvp{},
		&models.Message{},
		&models.Notification{},
		&models.UserBadge{},
	)

	if err != nil {
		return err
	}

	return backfillSearchText(conn)
}

// backfillSearchText fills search_text for rows written before the column
// existed.
func backfillSearchText(conn *gorm.DB) error {
	var stale []models.Project

	if err := conn.Where("search_text = ''").Find(&stale).Error; err != nil {
		return err
	}

	for _, p := range stale {
		err := conn.Model(&models.Project{}).
			Where("id = ?", p.ID).
			UpdateColumn("search_text", p.SearchKey()).
			Error

		if err != nil {
			return err
		}
	}

	return nil
}
