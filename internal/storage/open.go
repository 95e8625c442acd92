package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/learnai/internal/config"
	"github.com/at-ishikawa/learnai/internal/database"
	"github.com/at-ishikawa/learnai/schemas"
)

// Open returns the store selected by cfg.Backend. Network backends are pinged,
// with retries, before Open returns, and MySQL is migrated.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.StorageBackendMemory:
		return NewMemoryStore(), nil
	case config.StorageBackendFile, "":
		return NewFileStore(cfg.Directory)
	case config.StorageBackendMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		if err := database.PingWithRetry(ctx, db, cfg.ConnectAttempts); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database.PingWithRetry() > %w", err)
		}
		applied, err := database.Migrate(ctx, db, schemas.Migrations)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		if len(applied) > 0 {
			slog.Default().Info("migrated storage database", "versions", applied)
		}
		return NewMySQLStore(db), nil
	case config.StorageBackendRedis:
		store, err := NewRedisStore(cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("NewRedisStore() > %w", err)
		}
		if err := database.PingWithRetry(ctx, store, cfg.ConnectAttempts); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("database.PingWithRetry() > %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
