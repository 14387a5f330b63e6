package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/application/reports"
)

var _ reports.SummaryCache = (*RedisSummaryCache)(nil)

// RedisSummaryCache cachea resúmenes de reportes en redis.
// Solo cachea agregados de período ya calculados; nunca stock.
type RedisSummaryCache struct {
	client *redis.Client
}

// NewRedisSummaryCache conecta el cliente redis.
func NewRedisSummaryCache(addr, password string, db int) *RedisSummaryCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSummaryCache{client: client}
}

// Ping verifica la conexión.
func (c *RedisSummaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

// Get devuelve el resumen cacheado bajo la llave, si existe.
func (c *RedisSummaryCache) Get(ctx context.Context, key string) (*dto.SalesSummaryDTO, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var summary dto.SalesSummaryDTO
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

// Set guarda el resumen con TTL.
func (c *RedisSummaryCache) Set(ctx context.Context, key string, value *dto.SalesSummaryDTO, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
