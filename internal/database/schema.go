package database

import (
	"context"
	"database/sql"
	"fmt"
)

// seatsTable is portable between MySQL and SQLite.
const seatsTable = `CREATE TABLE IF NOT EXISTS seats (
	seat_id    VARCHAR(8)  NOT NULL PRIMARY KEY,
	status     VARCHAR(16) NOT NULL DEFAULT 'AVAILABLE',
	category   VARCHAR(16) NOT NULL DEFAULT '',
	updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

var usersTable = map[string]string{
	DriverMySQL: `CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(64)  NOT NULL UNIQUE,
		password_hash VARCHAR(100) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'PASSENGER',
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	DriverSQLite: `CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT     NOT NULL UNIQUE,
		password_hash TEXT     NOT NULL,
		role          TEXT     NOT NULL DEFAULT 'PASSENGER',
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the tables the service needs.  It is safe to run on
// every start.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	users, ok := usersTable[driver]
	if !ok {
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}
	for _, q := range []string{seatsTable, users} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
