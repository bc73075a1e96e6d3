package bootstrap

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"

	"github.com/NuSa-Nutrition-Scan/API-V1/config"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/docstore"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
)

// OpenDocStore opens the configured document store. The returned close
// function releases the underlying client.
func OpenDocStore(ctx context.Context, app *firebase.App, cfg config.DocStoreConfig) (docstore.Store, func(), error) {
	switch cfg.Driver {
	case "memory":
		logging.NewLogger(ctx).LogWarn("bootstrap.docstore", "using in-memory document store; data is lost on restart")
		return docstore.NewMemoryStore(time.Now), func() {}, nil
	case "firestore":
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore connect: %w", err)
		}
		return docstore.NewFirestoreStore(client, time.Now), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown docstore driver %q", cfg.Driver)
	}
}

type CacheOptions struct {
	Addr     string
	Password string
	DB       int
	PingTO   time.Duration
}

// OpenRedis connects the food cache. An unreachable Redis is logged, not
// fatal: the client keeps retrying and lookups fall back to the store.
func OpenRedis(ctx context.Context, opt CacheOptions) *redis.Client {
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		logging.NewLogger(ctx).LogWarnf("bootstrap.redis", "redis ping %s: %v", opt.Addr, err)
	}

	return client
}
