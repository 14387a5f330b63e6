package reports

import (
	"context"
	"time"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
)

// SummaryCache cachea resúmenes de período ya calculados (lectura pura).
// Nunca se cachea stock: el stock siempre sale del agregado del libro.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*dto.SalesSummaryDTO, bool, error)
	Set(ctx context.Context, key string, value *dto.SalesSummaryDTO, ttl time.Duration) error
}

// NoopSummaryCache implementación nula para correr sin redis.
type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(_ context.Context, _ string) (*dto.SalesSummaryDTO, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ string, _ *dto.SalesSummaryDTO, _ time.Duration) error {
	return nil
}
