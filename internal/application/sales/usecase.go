package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	"github.com/dfmorales/puntoventa-api/internal/domain/payments"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// SaleUseCase confirma, anula y reconcilia ventas POS.
// Toda mutación corre dentro de una transacción del TxRunner: una falla en
// cualquier paso (stock insuficiente, pagos descuadrados) revierte la venta
// completa sin dejar filas a medias.
type SaleUseCase struct {
	txRunner    TxRunner
	ledger      StockLedger
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
	productRepo repository.ProductRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	ledger StockLedger,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		saleRepo:    saleRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
	}
}

// CommitSale valida líneas y pagos, y registra en UNA transacción la cabecera,
// las líneas (con snapshot de precio y costo), los pagos y una salida del
// libro por línea referenciando la venta.
func (uc *SaleUseCase) CommitSale(ctx context.Context, userID string, in dto.CommitSaleRequest) (*dto.SaleResponse, error) {
	var (
		sale  *entity.Sale
		lines []*entity.SaleLine
		pays  []*entity.Payment
	)
	now := time.Now()
	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		var err error
		sale, lines, pays, err = uc.CommitSaleInTx(movRepo, balanceRepo, productRepo, saleRepo, paymentRepo, userID, in, "", now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, lines, pays), nil
}

// CommitSaleInTx ejecuta la venta completa usando los repositorios
// proporcionados (misma transacción del caller). Lo usa CommitSale y también
// el cierre de plan separe, que necesita que la venta de cierre y la
// transición de estado de la cuenta compartan la misma frontera atómica.
// reference, si no es vacío, queda como nota en las salidas del libro.
func (uc *SaleUseCase) CommitSaleInTx(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	userID string,
	in dto.CommitSaleRequest,
	reference string,
	now time.Time,
) (*entity.Sale, []*entity.SaleLine, []*entity.Payment, error) {
	if len(in.Lines) == 0 {
		return nil, nil, nil, domain.ErrInvalidInput
	}

	// Validar líneas y congelar snapshots de producto (precio lo trae la
	// línea; costo se toma del producto en este momento).
	productsByID := make(map[string]*entity.Product, len(in.Lines))
	total := decimal.Zero
	for _, line := range in.Lines {
		if line.ProductID == "" || line.Quantity <= 0 || line.UnitPrice.IsNegative() {
			return nil, nil, nil, domain.ErrInvalidInput
		}
		if _, ok := productsByID[line.ProductID]; !ok {
			product, err := productRepo.GetByID(line.ProductID)
			if err != nil {
				return nil, nil, nil, err
			}
			if product == nil {
				return nil, nil, nil, domain.ErrNotFound
			}
			productsByID[line.ProductID] = product
		}
		total = total.Add(decimal.NewFromInt(line.Quantity).Mul(line.UnitPrice))
	}

	if err := payments.Validate(toItems(in.Payments), total); err != nil {
		return nil, nil, nil, err
	}

	saleID := uuid.New().String()

	// Una salida del libro por línea. Si el stock no alcanza, el error sube y
	// el caller revierte toda la venta.
	for _, line := range in.Lines {
		product := productsByID[line.ProductID]
		if err := uc.ledger.RegisterOUTInTx(
			movRepo, balanceRepo,
			line.ProductID, line.Quantity, product.Cost,
			saleID, reference, userID, now,
		); err != nil {
			return nil, nil, nil, err
		}
	}

	sale := &entity.Sale{
		ID:           saleID,
		CustomerName: in.CustomerName,
		Status:       entity.SaleStatusCompleted,
		Total:        total,
		CreatedAt:    now,
		CreatedBy:    userID,
	}
	if err := saleRepo.Create(sale); err != nil {
		return nil, nil, nil, err
	}

	lines := make([]*entity.SaleLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		product := productsByID[line.ProductID]
		saleLine := &entity.SaleLine{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			UnitCost:  product.Cost,
		}
		if err := saleRepo.CreateLine(saleLine); err != nil {
			return nil, nil, nil, err
		}
		lines = append(lines, saleLine)
	}

	pays := make([]*entity.Payment, 0, len(in.Payments))
	for _, p := range in.Payments {
		payment := &entity.Payment{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			Method:    p.Method,
			Amount:    p.Amount,
			Note:      p.Note,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := paymentRepo.Create(payment); err != nil {
			return nil, nil, nil, err
		}
		pays = append(pays, payment)
	}

	return sale, lines, pays, nil
}

// EditPayments recalcula el total de la venta desde sus líneas existentes,
// revalida el nuevo conjunto de pagos y lo reemplaza atómicamente.
// Nunca toca el libro de inventario.
func (uc *SaleUseCase) EditPayments(ctx context.Context, userID, saleID string, in dto.EditPaymentsRequest) (*dto.SaleResponse, error) {
	var (
		sale  *entity.Sale
		lines []*entity.SaleLine
		pays  []*entity.Payment
	)
	now := time.Now()
	err := uc.txRunner.RunSale(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.StockBalanceRepository,
		_ repository.ProductRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		var err error
		sale, err = saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusVoided {
			return domain.ErrConflict
		}
		lines, err = saleRepo.GetLines(saleID)
		if err != nil {
			return err
		}
		total := decimal.Zero
		for _, line := range lines {
			total = total.Add(line.Subtotal())
		}
		if err := payments.Validate(toItems(in.Payments), total); err != nil {
			return err
		}
		if err := paymentRepo.DeleteBySale(saleID); err != nil {
			return err
		}
		for _, p := range in.Payments {
			payment := &entity.Payment{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				Method:    p.Method,
				Amount:    p.Amount,
				Note:      p.Note,
				CreatedAt: now,
				CreatedBy: userID,
			}
			if err := paymentRepo.Create(payment); err != nil {
				return err
			}
			pays = append(pays, payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, lines, pays), nil
}

// VoidSale marca la venta como anulada y restaura el inventario con una
// entrada compensatoria por línea referenciando la venta original. Las salidas
// originales del libro no se tocan: la auditoría queda completa.
func (uc *SaleUseCase) VoidSale(ctx context.Context, userID, saleID string) error {
	now := time.Now()
	return uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		_ repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.PaymentRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusVoided {
			return domain.ErrConflict
		}
		lines, err := saleRepo.GetLines(saleID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := uc.ledger.RegisterINInTx(
				movRepo, balanceRepo,
				line.ProductID, line.Quantity, line.UnitCost,
				saleID, "anulación de venta", userID, now,
			); err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusVoided
		sale.VoidedAt = &now
		sale.VoidedBy = userID
		return saleRepo.Update(sale)
	})
}

// GetSale devuelve la venta con líneas y pagos.
func (uc *SaleUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
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
	pays, err := uc.paymentRepo.ListBySale(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, lines, pays), nil
}

// ListSales ventas de un período (lectura, para caja y reportes).
func (uc *SaleUseCase) ListSales(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.Sale, error) {
	return uc.saleRepo.ListByPeriod(from, to, limit, offset)
}

func toItems(in []dto.PaymentInput) []payments.Item {
	items := make([]payments.Item, 0, len(in))
	for _, p := range in {
		items = append(items, payments.Item{Method: p.Method, Amount: p.Amount})
	}
	return items
}

func toSaleResponse(sale *entity.Sale, lines []*entity.SaleLine, pays []*entity.Payment) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:           sale.ID,
		CustomerName: sale.CustomerName,
		Status:       sale.Status,
		Total:        sale.Total,
		CreatedAt:    sale.CreatedAt,
		Lines:        make([]dto.SaleLineResponse, 0, len(lines)),
		Payments:     make([]dto.PaymentResponse, 0, len(pays)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			UnitCost:  l.UnitCost,
			Subtotal:  l.Subtotal(),
		})
	}
	for _, p := range pays {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:     p.ID,
			Method: p.Method,
			Amount: p.Amount,
			Note:   p.Note,
		})
	}
	return resp
}
