package storage

import (
	"context"
	"fmt"
	"log/slog"

	"vpn-coordination-portal/internal/config"
)

type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	// Request records
	CreateRequest(ctx context.Context, req *VPNRequest) (int64, error)
	GetRequestByID(ctx context.Context, id int64) (*VPNRequest, error)
	GetRequestByToken(ctx context.Context, token string) (*VPNRequest, Side, error)
	UpdateRequest(ctx context.Context, req *VPNRequest) error
	ListRequests(ctx context.Context) ([]VPNRequest, error)

	// PurgeRequests removes every record. Only used by seed tooling and
	// tests; the workflow itself never deletes.
	PurgeRequests(ctx context.Context) error
}

func NewProvider(cfg *config.Storage) (Provider, error) {
	switch {
	case cfg.SQLite != nil:
		provider, err := NewSQLiteProvider(cfg)
		if err != nil {
			return nil, err
		}
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			provider.Close()
			return nil, err
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported storage configuration: %+v", cfg)
	}
}
