package layaway

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	"github.com/dfmorales/puntoventa-api/internal/domain/payments"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// LayawayUseCase maneja el ciclo de vida del plan separe: creación con abono
// inicial, abonos parciales y cierre. La creación congela el precio del
// producto en TotalPrice y NO descuenta stock; el descuento ocurre exactamente
// una vez al cerrar, vía la venta de cierre.
type LayawayUseCase struct {
	txRunner       TxRunner
	sales          SaleCommitter
	productRepo    repository.ProductRepository
	layawayRepo    repository.LayawayRepository
	paymentRepo    repository.PaymentRepository
	closeThreshold decimal.Decimal
}

// NewLayawayUseCase construye el caso de uso. closeThreshold es el saldo
// máximo pendiente que el cierre tolera (redondeo o descuento negociado).
func NewLayawayUseCase(
	txRunner TxRunner,
	sales SaleCommitter,
	productRepo repository.ProductRepository,
	layawayRepo repository.LayawayRepository,
	paymentRepo repository.PaymentRepository,
	closeThreshold decimal.Decimal,
) *LayawayUseCase {
	return &LayawayUseCase{
		txRunner:       txRunner,
		sales:          sales,
		productRepo:    productRepo,
		layawayRepo:    layawayRepo,
		paymentRepo:    paymentRepo,
		closeThreshold: closeThreshold,
	}
}

// Create abre una cuenta de plan separe con el abono inicial como primer pago.
// El precio del producto se congela en TotalPrice: ediciones posteriores del
// catálogo no cambian el objetivo de una cuenta existente.
func (uc *LayawayUseCase) Create(ctx context.Context, userID string, in dto.CreateLayawayRequest) (*dto.LayawayResponse, error) {
	if in.ProductID == "" || in.CustomerName == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := payments.ValidatePartial(payments.Item{Method: in.Method, Amount: in.InitialDeposit}); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.InitialDeposit.GreaterThan(product.Price.Add(payments.Tolerance)) {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	account := &entity.LayawayAccount{
		ID:             uuid.New().String(),
		Code:           newCode(),
		Status:         entity.LayawayStatusOpen,
		ProductID:      in.ProductID,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		TotalPrice:     product.Price,
		InitialDeposit: in.InitialDeposit,
		TotalPaid:      in.InitialDeposit,
		CreatedAt:      now,
		CreatedBy:      userID,
	}
	deposit := &entity.Payment{
		ID:        uuid.New().String(),
		LayawayID: account.ID,
		Method:    in.Method,
		Amount:    in.InitialDeposit,
		Note:      "abono inicial",
		CreatedAt: now,
		CreatedBy: userID,
	}

	err = uc.txRunner.RunLayaway(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.StockBalanceRepository,
		_ repository.ProductRepository,
		_ repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		layawayRepo repository.LayawayRepository,
	) error {
		if err := layawayRepo.Create(account); err != nil {
			return err
		}
		return paymentRepo.Create(deposit)
	})
	if err != nil {
		return nil, err
	}
	return toLayawayResponse(account, []*entity.Payment{deposit}), nil
}

// AddPayment registra un abono sobre una cuenta abierta. TotalPaid se
// recalcula siempre desde las filas de pago dentro de la misma transacción;
// un abono que supere TotalPrice más la tolerancia se rechaza.
func (uc *LayawayUseCase) AddPayment(ctx context.Context, userID, accountID string, in dto.LayawayPaymentRequest) (*dto.LayawayResponse, error) {
	if err := payments.ValidatePartial(payments.Item{Method: in.Method, Amount: in.Amount}); err != nil {
		return nil, err
	}

	var (
		account *entity.LayawayAccount
		pays    []*entity.Payment
	)
	now := time.Now()
	err := uc.txRunner.RunLayaway(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.StockBalanceRepository,
		_ repository.ProductRepository,
		_ repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		layawayRepo repository.LayawayRepository,
	) error {
		var err error
		account, err = layawayRepo.GetForUpdate(accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		if account.Status == entity.LayawayStatusClosed {
			return domain.ErrLayawayClosed
		}
		paid, err := paymentRepo.SumByLayaway(accountID)
		if err != nil {
			return err
		}
		if paid.Add(in.Amount).GreaterThan(account.TotalPrice.Add(payments.Tolerance)) {
			return domain.ErrConflict
		}
		payment := &entity.Payment{
			ID:        uuid.New().String(),
			LayawayID: accountID,
			Method:    in.Method,
			Amount:    in.Amount,
			Note:      in.Note,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}
		account.TotalPaid = paid.Add(in.Amount)
		if err := layawayRepo.Update(account); err != nil {
			return err
		}
		pays, err = paymentRepo.ListByLayaway(accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toLayawayResponse(account, pays), nil
}

// Close cierra la cuenta si el saldo pendiente no supera el umbral y registra
// la venta de cierre en la MISMA transacción: una línea (qty 1, precio = total
// realmente recibido) cuya salida del libro es el único descuento de stock del
// plan separe. Los pagos de la venta espejan los abonos escrow, así la
// reconciliación cuadra exacta y el recaudo se reconoce como ingreso al cierre.
func (uc *LayawayUseCase) Close(ctx context.Context, userID, accountID string) (*dto.CloseLayawayResponse, error) {
	var (
		account   *entity.LayawayAccount
		sale      *entity.Sale
		saleLines []*entity.SaleLine
		salePays  []*entity.Payment
		pays      []*entity.Payment
	)
	now := time.Now()
	err := uc.txRunner.RunLayaway(ctx, func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		layawayRepo repository.LayawayRepository,
	) error {
		var err error
		account, err = layawayRepo.GetForUpdate(accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		if account.Status == entity.LayawayStatusClosed {
			return domain.ErrLayawayClosed
		}
		paid, err := paymentRepo.SumByLayaway(accountID)
		if err != nil {
			return err
		}
		if account.TotalPrice.Sub(paid).GreaterThan(uc.closeThreshold) {
			return domain.ErrBalancePending
		}
		pays, err = paymentRepo.ListByLayaway(accountID)
		if err != nil {
			return err
		}

		// Venta de cierre: los pagos espejan los abonos para que
		// Σ pagos == total de la línea (precio efectivo = total recibido).
		saleIn := dto.CommitSaleRequest{
			CustomerName: account.CustomerName,
			Lines: []dto.SaleLineInput{{
				ProductID: account.ProductID,
				Quantity:  1,
				UnitPrice: paid,
			}},
			Payments: mirrorPayments(pays, account.Code),
		}
		sale, saleLines, salePays, err = uc.sales.CommitSaleInTx(
			movRepo, balanceRepo, productRepo, saleRepo, paymentRepo,
			userID, saleIn, "cierre plan separe "+account.Code, now,
		)
		if err != nil {
			return err
		}

		account.Status = entity.LayawayStatusClosed
		account.TotalPaid = paid
		account.ClosedAt = &now
		account.ClosedBy = userID
		return layawayRepo.Update(account)
	})
	if err != nil {
		return nil, err
	}
	resp := &dto.CloseLayawayResponse{
		Account: *toLayawayResponse(account, pays),
	}
	resp.Sale = *saleToResponse(sale, saleLines, salePays)
	return resp, nil
}

// Get devuelve la cuenta con su historial de abonos.
func (uc *LayawayUseCase) Get(ctx context.Context, accountID string) (*dto.LayawayResponse, error) {
	account, err := uc.layawayRepo.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	pays, err := uc.paymentRepo.ListByLayaway(accountID)
	if err != nil {
		return nil, err
	}
	return toLayawayResponse(account, pays), nil
}

// List devuelve cuentas por estado; estado vacío devuelve todas.
func (uc *LayawayUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.LayawayAccount, error) {
	if status != "" && status != entity.LayawayStatusOpen && status != entity.LayawayStatusClosed {
		return nil, domain.ErrInvalidInput
	}
	return uc.layawayRepo.ListByStatus(status, limit, offset)
}

// newCode genera un consecutivo legible para el contrato del plan separe.
func newCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "SEP-" + strings.ToUpper(raw[:6])
}

// mirrorPayments copia método y monto de los abonos para la venta de cierre.
func mirrorPayments(pays []*entity.Payment, code string) []dto.PaymentInput {
	out := make([]dto.PaymentInput, 0, len(pays))
	for _, p := range pays {
		out = append(out, dto.PaymentInput{
			Method: p.Method,
			Amount: p.Amount,
			Note:   "plan separe " + code,
		})
	}
	return out
}

func toLayawayResponse(a *entity.LayawayAccount, pays []*entity.Payment) *dto.LayawayResponse {
	resp := &dto.LayawayResponse{
		ID:             a.ID,
		Code:           a.Code,
		Status:         a.Status,
		ProductID:      a.ProductID,
		CustomerName:   a.CustomerName,
		CustomerPhone:  a.CustomerPhone,
		TotalPrice:     a.TotalPrice,
		InitialDeposit: a.InitialDeposit,
		TotalPaid:      a.TotalPaid,
		Balance:        a.Balance(),
		CreatedAt:      a.CreatedAt,
		ClosedAt:       a.ClosedAt,
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

func saleToResponse(sale *entity.Sale, lines []*entity.SaleLine, pays []*entity.Payment) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:           sale.ID,
		CustomerName: sale.CustomerName,
		Status:       sale.Status,
		Total:        sale.Total,
		CreatedAt:    sale.CreatedAt,
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
