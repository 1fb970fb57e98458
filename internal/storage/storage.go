// Package storage persists users and campaigns. Postgres, MongoDB and an
// in-memory backend implement the same Store interface.
package storage

import (
	"context"
	"errors"
	"fmt"

	"greenspark-backend/internal/config"
	"greenspark-backend/internal/logging"
	"greenspark-backend/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by CreateUser when the backend's unique
	// constraint on email rejects the insert.
	ErrEmailTaken = errors.New("email already registered")
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type CampaignStore interface {
	CreateCampaign(ctx context.Context, c *models.Campaign) error
	// ListCampaigns returns every campaign in insertion order.
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
}

type Store interface {
	UserStore
	CampaignStore
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend selected by cfg.StorageDriver. For Postgres
// it also applies pending migrations.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (Store, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := ConnectPostgres(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		store := NewPostgres(db)
		if err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return store, nil
	case config.DriverMongo:
		return ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverMemory:
		log.Warn(ctx, "using in-memory storage; data is lost on restart")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
