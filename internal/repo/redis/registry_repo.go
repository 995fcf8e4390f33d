package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/registry"
)

// RegistryRepo keeps the registry document as one string value.
type RegistryRepo struct {
	client *goredis.Client
	key    string
}

func NewRegistryRepo(client *goredis.Client, key string) *RegistryRepo {
	return &RegistryRepo{client: client, key: key}
}

func (r *RegistryRepo) Load(ctx context.Context) ([]int64, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registry document: %w", err)
	}

	return registry.DecodeDocument(data)
}

func (r *RegistryRepo) Save(ctx context.Context, userIDs []int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	data, err := registry.EncodeDocument(userIDs)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set registry document: %w", err)
	}
	return nil
}
