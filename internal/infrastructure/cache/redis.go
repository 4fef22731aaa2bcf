// Package cache implementa ports.Cache sobre Redis (versionado de claves) y en memoria.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

var _ ports.Cache = (*RedisCache)(nil)

const (
	backendRedis = "redis"
	versionKey   = "farmacia:intel:version"
)

// RedisCache caché JSON sobre Redis. Las claves incluyen una versión global;
// Bump la incrementa y deja huérfanas (hasta su TTL) todas las entradas anteriores.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	group   singleflight.Group
	metrics *Metrics
	log     *logger.Logger
}

// NewRedisCache construye la caché. metrics y log pueden ser nil.
func NewRedisCache(client *redis.Client, ttl time.Duration, metrics *Metrics, log *logger.Logger) *RedisCache {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisCache{client: client, ttl: ttl, metrics: metrics, log: log.Component("cache")}
}

// Version devuelve la versión actual de las claves, inicializándola si no existe.
func (c *RedisCache) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// FetchJSON ver ports.Cache. Si Redis falla la consulta se resuelve con el loader sin cachear.
func (c *RedisCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}

	ver, err := c.Version(ctx)
	if err != nil {
		c.degraded(key, err)
		return loadInto(ctx, dest, loader)
	}
	fullKey := fmt.Sprintf("farmacia:%s:v%d", key, ver)

	payload, err := c.client.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		c.metrics.hit(backendRedis)
		return json.Unmarshal(payload, dest)
	case !errors.Is(err, redis.Nil):
		c.degraded(key, err)
		return loadInto(ctx, dest, loader)
	}

	c.metrics.miss(backendRedis)
	raw, err := loadOnce(ctx, &c.group, fullKey, func(loadCtx context.Context) ([]byte, error) {
		value, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(loadCtx, fullKey, raw, c.ttl).Err(); err != nil {
			c.degraded(key, err)
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalida todas las entradas incrementando la versión.
func (c *RedisCache) Bump(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

func (c *RedisCache) degraded(key string, err error) {
	c.metrics.failure(backendRedis)
	c.log.Warn().Err(err).Str("key", key).Msg("redis no disponible, consulta sin caché")
}

func loadInto(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
