package repository

import (
	"context"
	"fmt"

	"jobportal/internal/config"
	"jobportal/internal/db"
)

// Stores bundles the repositories of one backend together with its
// lifecycle hooks.
type Stores struct {
	Users     UserRepository
	Companies CompanyRepository
	Jobs      JobRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping reports whether the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Stores) Close(ctx context.Context) error {
	return s.close(ctx)
}

// Open connects to the backend selected by cfg.StoreDriver and prepares its
// schema or indexes.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return openMongo(ctx, cfg)
	case config.StoreMySQL:
		return openMySQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openMySQL(cfg *config.Config) (*Stores, error) {
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}

	return &Stores{
		Users:     NewUserRepository(gormDB),
		Companies: NewCompanyRepository(gormDB),
		Jobs:      NewJobRepository(gormDB),
		ping:      sqlDB.PingContext,
		close:     func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Stores, error) {
	client, database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if cfg.ResetDB {
		if err := database.Drop(ctx); err != nil {
			return nil, fmt.Errorf("drop mongo database: %w", err)
		}
	}
	if err := EnsureMongoIndexes(ctx, database); err != nil {
		return nil, err
	}

	return &Stores{
		Users:     NewMongoUserRepository(database),
		Companies: NewMongoCompanyRepository(database),
		Jobs:      NewMongoJobRepository(database),
		ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:     client.Disconnect,
	}, nil
}
