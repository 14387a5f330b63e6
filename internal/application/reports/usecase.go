package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// TTL del resumen cacheado. Los reportes son consumidores de solo lectura del
// libro y las tablas de venta/pago; un resumen levemente desactualizado es
// aceptable.
const summaryTTL = 5 * time.Minute

// ReportUseCase consultas de período para caja y administración.
type ReportUseCase struct {
	repo  repository.ReportRepository
	cache SummaryCache
}

// NewReportUseCase construye el caso de uso. cache puede ser NoopSummaryCache.
func NewReportUseCase(repo repository.ReportRepository, cache SummaryCache) *ReportUseCase {
	if cache == nil {
		cache = NoopSummaryCache{}
	}
	return &ReportUseCase{repo: repo, cache: cache}
}

// SalesSummary resumen de ventas y recaudo por medio de pago en [from, to].
func (uc *ReportUseCase) SalesSummary(ctx context.Context, from, to time.Time) (*dto.SalesSummaryDTO, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	key := fmt.Sprintf("reports:summary:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cached, ok, err := uc.cache.Get(ctx, key); err == nil && ok {
		return cached, nil
	}

	summary, err := uc.repo.SalesSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	salePays, err := uc.repo.SalePaymentsByMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	layawayPays, err := uc.repo.LayawayPaymentsByMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := &dto.SalesSummaryDTO{
		From:            from,
		To:              to,
		SaleCount:       summary.SaleCount,
		GrossTotal:      summary.GrossTotal,
		CostTotal:       summary.CostTotal,
		GrossMargin:     summary.GrossTotal.Sub(summary.CostTotal),
		SalePayments:    toMethodDTOs(salePays),
		LayawayDeposits: toMethodDTOs(layawayPays),
	}
	_ = uc.cache.Set(ctx, key, out, summaryTTL)
	return out, nil
}

// OpenLayaways saldos pendientes de planes separe abiertos.
func (uc *ReportUseCase) OpenLayaways(ctx context.Context, limit, offset int) ([]dto.OpenLayawayDTO, error) {
	rows, err := uc.repo.OpenLayaways(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OpenLayawayDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.OpenLayawayDTO{
			Code:         r.Code,
			CustomerName: r.CustomerName,
			TotalPrice:   r.TotalPrice,
			TotalPaid:    r.TotalPaid,
			Balance:      r.Balance,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out, nil
}

func toMethodDTOs(rows []repository.MethodTotalResult) []dto.MethodTotalDTO {
	out := make([]dto.MethodTotalDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MethodTotalDTO{Method: r.Method, Total: r.Total})
	}
	return out
}
