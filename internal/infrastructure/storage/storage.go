// Package storage opens the store backend selected by configuration.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"smtm/internal/domain/store"
	"smtm/internal/infrastructure/firebase"
	"smtm/internal/infrastructure/firestoredb"
	"smtm/internal/infrastructure/memory"
	"smtm/internal/infrastructure/postgres"
	"smtm/internal/shared/config"
)

// Backend is an opened store plus whatever must be released at shutdown.
type Backend struct {
	Store store.Store
	close func() error
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects the driver named in cfg.Store.Driver. fb is required only for Firestore.
func Open(ctx context.Context, cfg *config.Config, fb *firebase.App, log *zap.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return &Backend{Store: memory.NewStore()}, nil

	case config.StorePostgres:
		db, err := postgres.New(ctx, cfg.Database.ConnectionString())
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(db); err != nil {
				db.Close()
				return nil, err
			}
			log.Info("database migrations applied")
		}
		log.Info("connected to postgres", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))
		return &Backend{Store: postgres.NewDocStore(db), close: db.Close}, nil

	case config.StoreFirestore:
		if fb == nil {
			return nil, errors.New("firestore store requires a firebase app")
		}
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, err
		}
		log.Info("connected to firestore", zap.String("project", cfg.Firebase.ProjectID))
		return &Backend{Store: firestoredb.NewStore(client), close: client.Close}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
