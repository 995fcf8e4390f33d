package botapp

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/config"
	s3infra "github.com/Anujpy12345/Scam-exposer-bot-render/internal/infra/s3"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/repo/jsonfile"
	pgrepo "github.com/Anujpy12345/Scam-exposer-bot-render/internal/repo/postgres"
	redrepo "github.com/Anujpy12345/Scam-exposer-bot-render/internal/repo/redis"
	s3repo "github.com/Anujpy12345/Scam-exposer-bot-render/internal/repo/s3"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/moderation"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/registry"
)

// backends holds the connections opened for the configured stores so they
// can be closed on shutdown.
type backends struct {
	redis    *goredis.Client
	postgres *pgxpool.Pool
}

func (b *backends) redisClient(ctx context.Context, cfg config.Config) (*goredis.Client, error) {
	if b.redis != nil {
		return b.redis, nil
	}
	client := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	b.redis = client
	return client, nil
}

// registryStore opens the configured registry backend. Config validation
// rejects unknown names, so the trailing error only guards direct callers.
func (b *backends) registryStore(ctx context.Context, cfg config.Config) (registry.Store, error) {
	switch cfg.Registry.Backend {
	case "file":
		return jsonfile.NewRegistryRepo(cfg.Registry.FilePath), nil
	case "redis":
		client, err := b.redisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return redrepo.NewRegistryRepo(client, cfg.Registry.RedisKey), nil
	case "postgres":
		pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		b.postgres = pool
		repo := pgrepo.NewRegistryRepo(pool, cfg.Registry.DocumentName)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case "s3":
		client, err := s3infra.NewClient(s3infra.Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := s3infra.EnsureBucket(ctx, client, cfg.S3.Bucket); err != nil {
			return nil, err
		}
		return s3repo.NewRegistryRepo(client, cfg.S3.Bucket, cfg.Registry.ObjectKey), nil
	}
	return nil, fmt.Errorf("unknown registry backend %q", cfg.Registry.Backend)
}

func (b *backends) pendingStore(ctx context.Context, cfg config.Config) (moderation.PendingStore, error) {
	switch cfg.Moderation.PendingBackend {
	case "memory":
		return moderation.NewMemoryStore(), nil
	case "redis":
		client, err := b.redisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return redrepo.NewPendingRepo(client), nil
	}
	return nil, fmt.Errorf("unknown pending backend %q", cfg.Moderation.PendingBackend)
}

func (b *backends) Close() error {
	var closeErr error
	if b.postgres != nil {
		b.postgres.Close()
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
