package server

import (
	"context"
	"fmt"
	"time"

	"opsassistant/internal/cache"
	"opsassistant/internal/config"
	"opsassistant/internal/database"

	"github.com/rs/zerolog"
)

// OpenStore opens the session store selected by SESSION_STORE. The returned
// closer releases the store's connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cache.Store, func() error, error) {
	ttl := cfg.SessionTTL()
	noop := func() error { return nil }

	switch cfg.SessionStore {
	case config.StoreMemory, "":
		return cache.NewMemoryStore(ttl), noop, nil

	case config.StoreRedis:
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis session store connected")
		return cache.NewRedisStore(rdb, ttl), rdb.Close, nil

	case config.StoreSQL:
		db, err := database.New(cfg.SessionDatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		store, err := database.NewSessionStore(ctx, db, ttl)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logger.Info().Str("driver", database.DetectDriver(cfg.SessionDatabaseURL)).Msg("SQL session store connected")
		return store, db.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown SESSION_STORE %q (want memory, redis or sql)", cfg.SessionStore)
	}
}

// RunJanitor purges expired session entries every interval until ctx is
// done. Redis expires keys itself, so nothing runs for it.
func RunJanitor(ctx context.Context, store cache.Store, interval time.Duration, logger zerolog.Logger) {
	var purge func() (int64, error)

	switch s := store.(type) {
	case *cache.MemoryStore:
		purge = func() (int64, error) { return int64(s.PurgeExpired()), nil }
	case *database.SessionStore:
		purge = func() (int64, error) { return s.PurgeExpired(ctx) }
	default:
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := purge()
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to purge expired sessions")
				continue
			}
			if removed > 0 {
				logger.Debug().Int64("removed", removed).Msg("Purged expired session entries")
			}
		}
	}
}
