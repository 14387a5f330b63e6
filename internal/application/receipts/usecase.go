package receipts

import (
	"context"
	"fmt"

	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// ReceiptUseCase arma los datos de un comprobante y delega el render al
// generador PDF.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
	productRepo repository.ProductRepository
	layawayRepo repository.LayawayRepository
	gen         PDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	layawayRepo repository.LayawayRepository,
	gen PDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:    saleRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		layawayRepo: layawayRepo,
		gen:         gen,
	}
}

// SaleReceipt genera la tirilla PDF de una venta.
func (uc *ReceiptUseCase) SaleReceipt(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.GetLines(saleID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListBySale(saleID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(lines))
	for _, l := range lines {
		if _, ok := names[l.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			names[l.ProductID] = p.Name
		} else {
			names[l.ProductID] = l.ProductID
		}
	}

	pdf, err := uc.gen.GenerateSaleReceipt(ctx, sale, lines, payments, names)
	if err != nil {
		return nil, fmt.Errorf("generar tirilla: %w", err)
	}
	return pdf, nil
}

// LayawayStatement genera el estado de cuenta PDF de un plan separe.
func (uc *ReceiptUseCase) LayawayStatement(ctx context.Context, layawayID string) ([]byte, error) {
	account, err := uc.layawayRepo.GetByID(layawayID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	payments, err := uc.paymentRepo.ListByLayaway(layawayID)
	if err != nil {
		return nil, err
	}

	productName := account.ProductID
	if p, err := uc.productRepo.GetByID(account.ProductID); err == nil && p != nil {
		productName = p.Name
	}

	pdf, err := uc.gen.GenerateLayawayStatement(ctx, account, payments, productName)
	if err != nil {
		return nil, fmt.Errorf("generar estado de cuenta: %w", err)
	}
	return pdf, nil
}
