package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Development bootstrap credentials. Seed only runs in development, so
// these never reach a real deployment.
const (
	seedAdminEmail    = "admin@blogpulse.local"
	seedAdminPassword = "admin"
)

// Seed bootstraps an empty development database with an admin account
// and a starter category. Any existing user makes it a no-op.
func Seed(db *sql.DB) error {
	var users int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if users > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, 'Admin', 'admin')
	`, seedAdminEmail, string(hash)); err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO categories (name, description)
		VALUES ('General', 'Uncategorized content')
		ON CONFLICT (name) DO NOTHING
	`); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", seedAdminEmail,
		"password", seedAdminPassword,
	)
	return nil
}
