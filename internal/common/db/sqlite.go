package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// OpenSQLite opens the database and applies the schema. In-memory databases
// are per connection, so the pool is pinned to a single connection for them.
func OpenSQLite(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	dsn := withForeignKeys(dataSourceName)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if isMemory(dataSourceName) {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	return sqlDB, nil
}

func isMemory(dataSourceName string) bool {
	return dataSourceName == ":memory:" || strings.Contains(dataSourceName, "mode=memory")
}

func withForeignKeys(dataSourceName string) string {
	if strings.Contains(dataSourceName, "_foreign_keys") || strings.Contains(dataSourceName, "_fk=") {
		return dataSourceName
	}
	sep := "?"
	if strings.Contains(dataSourceName, "?") {
		sep = "&"
	}
	return dataSourceName + sep + "_foreign_keys=on"
}

// Placeholders returns n comma separated "?" markers for an IN clause.
func Placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func StringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
