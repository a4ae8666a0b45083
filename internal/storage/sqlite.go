package storage

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"vpn-coordination-portal/internal/config"
)

type SQLiteProvider struct {
	SQLProvider
}

func NewSQLiteProvider(cfg *config.Storage) (*SQLiteProvider, error) {
	base, err := NewSQLProvider("sqlite3", cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}
	// A single writer sidesteps SQLITE_BUSY under concurrent transitions.
	base.db.SetMaxOpenConns(1)

	return &SQLiteProvider{SQLProvider: *base}, nil
}

// IsUniqueViolation reports whether err is a unique constraint failure, used
// by the engine to retry token generation on the (astronomically unlikely)
// collision.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
