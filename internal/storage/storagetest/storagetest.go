// Package storagetest opens throwaway in-memory databases for tests.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shram-daan/shramdaan/db"
	"github.com/shram-daan/shramdaan/internal/models"
	"github.com/shram-daan/shramdaan/internal/storage"
	"gorm.io/gorm"
)

// Open returns a migrated, isolated SQLite database that is closed when the
// test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

	conn, err := db.ConnectDatabase(db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	if err := db.MigrateDatabase(conn); err != nil {
		t.Fatalf("migrate database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return conn
}

// New returns a Database over a fresh in-memory store.
func New(t testing.TB) *storage.Database {
	t.Helper()
	return storage.New(Open(t))
}

// CreateUser inserts a user with the given id.
func CreateUser(t testing.TB, store storage.Storage, id string) *models.User {
	t.Helper()

	email := id + "@example.org"
	first := "User"
	last := id

	user, err := store.UpsertUser(context.Background(), storage.UserUpsert{
		ID:        id,
		Email:     &email,
		FirstName: &first,
		LastName:  &last,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}

	return user
}

// CreateProject inserts an active project owned by organizerID.
func CreateProject(t testing.TB, store storage.Storage, organizerID, title string, maxVolunteers *int) *models.Project {
	t.Helper()

	project, err := store.CreateProject(context.Background(), models.Project{
		Title:         title,
		Description:   "Volunteers needed for " + title,
		Category:      models.CategoryCleanup,
		Location:      "Community Hall",
		DateTime:      time.Now().Add(72 * time.Hour),
		MaxVolunteers: maxVolunteers,
		OrganizerID:   organizerID,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create project %q: %v", title, err)
	}

	return project
}

func IntPtr(v int) *int {
	return &v
}

func StringPtr(v string) *string {
	return &v
}
