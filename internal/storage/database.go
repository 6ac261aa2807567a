package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/shram-daan/shramdaan/internal/types"
	"gorm.io/gorm"
)

// Database implements Storage on top of gorm.
type Database struct {
	db *gorm.DB
}

var _ Storage = (*Database)(nil)

func New(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) Transaction(ctx context.Context, fn func(tx Storage) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Database{db: tx})
	})
}

func (d *Database) conn(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

func (d *Database) isPostgres() bool {
	return d.db.Dialector.Name() == "postgres"
}

// wrap classifies a gorm error into a StoreError.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	kind := types.StoreUnavailable
	msg := err.Error()

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		kind = types.StoreNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		kind = types.StoreConstraint
	// drivers without an error translator
	case strings.Contains(msg, "UNIQUE constraint failed"), strings.Contains(msg, "duplicate key value"):
		kind = types.StoreConstraint
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		kind = types.StoreNotFound
	}

	return &types.StoreError{Op: op, Kind: kind, Err: err}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// Ping checks that the database answers before ctx expires.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return wrap("ping", err)
	}

	return wrap("ping", sqlDB.PingContext(ctx))
}
