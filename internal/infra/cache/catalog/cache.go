// Package catalog is a redis read-through cache of service definitions.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const keyPrefix = "salon:service_definition:"

// Cache кеширует определения услуг в redis. Ошибки redis не прерывают запрос:
// кеш пропускается и данные берутся из источника
type Cache struct {
	client redis.Cmdable
	next   DefinitionSource
	ttl    time.Duration
	logger Logger
}

// New создает кеш поверх next
func New(client redis.Cmdable, next DefinitionSource, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger,
	}
}

// GetServiceDefinitions возвращает определения услуг, сначала из redis, затем из источника
func (c *Cache) GetServiceDefinitions(ctx context.Context, serviceIDs []string) (map[string]domain.ServiceDefinition, error) {
	ids := distinct(serviceIDs)
	result := make(map[string]domain.ServiceDefinition, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	missing := c.lookup(ctx, ids, result)
	if len(missing) == 0 {
		return result, nil
	}

	loaded, err := c.next.GetServiceDefinitions(ctx, missing)
	if err != nil {
		return nil, err
	}

	for id, def := range loaded {
		result[id] = def
	}
	c.store(ctx, loaded)

	return result, nil
}

// Invalidate удаляет определения из кеша
func (c *Cache) Invalidate(ctx context.Context, serviceIDs ...string) error {
	if len(serviceIDs) == 0 {
		return nil
	}
	keys := make([]string, len(serviceIDs))
	for i, id := range serviceIDs {
		keys[i] = key(id)
	}
	return c.client.Del(ctx, keys...).Err()
}

// lookup заполняет found из redis и возвращает ID, которых в кеше нет
func (c *Cache) lookup(ctx context.Context, ids []string, found map[string]domain.ServiceDefinition) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("catalog cache: MGET failed, falling back to store: %v", err)
		return ids
	}

	missing := make([]string, 0, len(ids))
	for i, raw := range values {
		s, ok := raw.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var def domain.ServiceDefinition
		if err := json.Unmarshal([]byte(s), &def); err != nil {
			c.logger.Warn("catalog cache: corrupted entry %s: %v", keys[i], err)
			missing = append(missing, ids[i])
			continue
		}
		found[ids[i]] = def
	}

	return missing
}

func (c *Cache) store(ctx context.Context, defs map[string]domain.ServiceDefinition) {
	if len(defs) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for id, def := range defs {
		data, err := json.Marshal(def)
		if err != nil {
			c.logger.Warn("catalog cache: encode %s: %v", id, err)
			continue
		}
		pipe.Set(ctx, key(id), data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("catalog cache: store %d definitions: %v", len(defs), err)
	}
}

func key(serviceID string) string {
	return keyPrefix + serviceID
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
