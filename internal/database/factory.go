package database

import (
	"context"
	"fmt"

	"github.com/nfrund/passauth/internal/config"
	"github.com/nfrund/passauth/internal/domain"
	"github.com/nfrund/passauth/internal/password"
	"github.com/nfrund/passauth/internal/token"
)

// NewUserRepository builds the store selected by cfg.GetStoreDriver().
func NewUserRepository(ctx context.Context, cfg config.Provider, hasher *password.Hasher, tokens *token.Manager) (domain.UserRepository, error) {
	switch cfg.GetStoreDriver() {
	case "", "memory":
		return NewMemoryUserStore(hasher, tokens), nil

	case "surreal":
		db, err := NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store, err := NewSurrealUserStore(ctx, db, tokens, cfg.GetDBNs(), cfg.GetDBDb())
		if err != nil {
			db.Close(ctx)
			return nil, err
		}
		return store, nil

	case "mongo":
		client, err := ConnectMongo(ctx, cfg.GetMongoURI())
		if err != nil {
			return nil, err
		}
		store, err := NewMongoUserStore(ctx, client, cfg.GetMongoDB(), hasher, tokens)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.GetStoreDriver())
	}
}
