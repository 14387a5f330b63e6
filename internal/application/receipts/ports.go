package receipts

import (
	"context"

	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

// PDFGenerator genera los documentos imprimibles de caja.
type PDFGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale, lines []*entity.SaleLine,
		payments []*entity.Payment, productNames map[string]string) ([]byte, error)
	GenerateLayawayStatement(ctx context.Context, account *entity.LayawayAccount,
		payments []*entity.Payment, productName string) ([]byte, error)
}
