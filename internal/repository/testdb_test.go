package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/bobalog/bobalog-go/internal/model"

	_ "modernc.org/sqlite"
)

// setupDB opens an isolated in-memory sqlite database with the application
// schema. The production store is MySQL; the queries under test stick to the
// portable subset both engines share.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			auth_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE purchases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			flavour TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price REAL NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}

	return db
}

// createTestUser inserts a user and returns its id.
func createTestUser(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()

	repo := NewUserRepository(db)
	user := &model.User{Name: "Test User", Email: email, AuthHash: "x"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user.ID
}

// createTestPurchase inserts a purchase and returns its id.
func createTestPurchase(t *testing.T, db *sql.DB, p model.Purchase) int64 {
	t.Helper()

	repo := NewPurchaseRepository(db)
	if err := repo.Create(context.Background(), &p); err != nil {
		t.Fatalf("failed to create test purchase: %v", err)
	}
	return p.ID
}
