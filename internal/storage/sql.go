package storage

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
)

type SQLProvider struct {
	db *sqlx.DB

	logger *slog.Logger
}

func NewSQLProvider(driverName string, dataSource string) (*SQLProvider, error) {
	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		return nil, err
	}

	logger := slog.With("component", "storage")

	return &SQLProvider{
		db:     db,
		logger: logger,
	}, nil
}

func (p *SQLProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
