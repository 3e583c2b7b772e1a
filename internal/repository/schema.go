package repository

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		auth_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS purchases (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		owner_id BIGINT NOT NULL,
		flavour VARCHAR(50) NOT NULL,
		quantity INT NOT NULL,
		price DOUBLE NOT NULL,
		location VARCHAR(255) NOT NULL DEFAULT '',
		date VARCHAR(10) NOT NULL DEFAULT '',
		CONSTRAINT fk_purchases_owner FOREIGN KEY (owner_id)
			REFERENCES users(id) ON DELETE CASCADE,
		INDEX idx_purchases_owner (owner_id),
		INDEX idx_purchases_flavour (flavour)
	)`,
}
