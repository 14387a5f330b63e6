package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	domaininv "github.com/dfmorales/puntoventa-api/internal/domain/inventory"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// LedgerUseCase registra movimientos del libro de inventario de forma
// transaccional (IN, OUT) con bloqueo de fila sobre el saldo materializado
// (SELECT FOR UPDATE) y Commit/Rollback.
//
// El stock de un producto es siempre Σ(IN) − Σ(OUT) sobre el libro; el saldo
// materializado se mantiene en la misma transacción de cada movimiento y solo
// sirve de ancla de bloqueo y de lectura rápida.
type LedgerUseCase struct {
	txRunner      TxRunner
	movRepo       repository.StockMovementRepository
	productRepo   repository.ProductRepository
	allowNegative bool
}

// NewLedgerUseCase construye el caso de uso. allowNegative permite que una
// salida deje el agregado en negativo (por defecto la operación se rechaza
// con ErrInsufficientStock).
func NewLedgerUseCase(
	txRunner TxRunner,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	allowNegative bool,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:      txRunner,
		movRepo:       movRepo,
		productRepo:   productRepo,
		allowNegative: allowNegative,
	}
}

// MovementInput entrada para registrar un movimiento.
// UnitCost es obligatorio y ≥ 0 para IN; en OUT se registra el costo promedio
// vigente del producto.
type MovementInput struct {
	ProductID string
	Type      string
	Quantity  int64
	UnitCost  *decimal.Decimal
	Reference string
	Note      string
}

// RegisterMovement valida la entrada, inicia una transacción, bloquea el saldo
// del producto y agrega la fila al libro. Devuelve el ID del movimiento.
//
// El costo vigente del producto se lee DESPUÉS de adquirir el candado del
// saldo: todos los escritores de costo serializan sobre esa fila, así dos
// movimientos concurrentes del mismo producto promedian siempre sobre el
// costo que confirmó el anterior, nunca sobre una lectura previa al candado.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, userID string, in MovementInput) (string, error) {
	if !entity.ValidMovementType(in.Type) {
		return "", domain.ErrInvalidInput
	}
	if in.ProductID == "" || in.Quantity <= 0 {
		return "", domain.ErrInvalidInput
	}
	if in.Type == entity.MovementTypeIN && (in.UnitCost == nil || in.UnitCost.IsNegative()) {
		return "", domain.ErrInvalidInput
	}

	// Chequeo de existencia antes de abrir la transacción: el costo que
	// devuelve aquí NO se usa, solo evita sembrar una fila de saldo para un
	// producto inexistente (su product_id tiene FK al catálogo).
	existing, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "", domain.ErrNotFound
	}

	now := time.Now()
	movementID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
	) error {
		balance, err := balanceRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		product, err := productRepo.GetByID(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		// OUT congela el costo promedio vigente; IN lo recalcula ponderado.
		unitCost := product.Cost
		if in.Type == entity.MovementTypeIN {
			stockActual := decimal.NewFromInt(balance.Quantity)
			newCost := domaininv.CostCalculator(stockActual, product.Cost, decimal.NewFromInt(in.Quantity), *in.UnitCost)
			if err := productRepo.UpdateCost(in.ProductID, newCost); err != nil {
				return err
			}
			unitCost = *in.UnitCost
		}
		return uc.appendLocked(movRepo, balanceRepo, &entity.StockMovement{
			ID:        movementID,
			ProductID: in.ProductID,
			Type:      in.Type,
			Quantity:  in.Quantity,
			UnitCost:  unitCost,
			Reference: in.Reference,
			Note:      in.Note,
			CreatedAt: now,
			CreatedBy: userID,
		})
	})
	if err != nil {
		return "", err
	}
	return movementID, nil
}

// RegisterOUTInTx agrega una salida usando los repositorios del caller (misma
// transacción). Lo usa el commit de venta para descontar una unidad por línea;
// reference suele ser el ID de la venta. Si el agregado quedaría negativo y la
// guarda está activa, retorna ErrInsufficientStock y el caller hace rollback.
func (uc *LedgerUseCase) RegisterOUTInTx(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productID string,
	quantity int64,
	unitCost decimal.Decimal,
	reference, note, userID string,
	now time.Time,
) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.appendInTx(movRepo, balanceRepo, &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      entity.MovementTypeOUT,
		Quantity:  quantity,
		UnitCost:  unitCost,
		Reference: reference,
		Note:      note,
		CreatedAt: now,
		CreatedBy: userID,
	})
}

// RegisterINInTx agrega una entrada compensatoria usando los repositorios del
// caller (misma transacción). Lo usa la anulación de venta para restaurar el
// inventario referenciando la venta original, sin tocar jamás las salidas ya
// escritas.
func (uc *LedgerUseCase) RegisterINInTx(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productID string,
	quantity int64,
	unitCost decimal.Decimal,
	reference, note, userID string,
	now time.Time,
) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.appendInTx(movRepo, balanceRepo, &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      entity.MovementTypeIN,
		Quantity:  quantity,
		UnitCost:  unitCost,
		Reference: reference,
		Note:      note,
		CreatedAt: now,
		CreatedBy: userID,
	})
}

// appendInTx bloquea el saldo del producto y delega en appendLocked.
func (uc *LedgerUseCase) appendInTx(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	m *entity.StockMovement,
) error {
	if _, err := balanceRepo.GetForUpdate(m.ProductID); err != nil {
		return err
	}
	return uc.appendLocked(movRepo, balanceRepo, m)
}

// appendLocked agrega el movimiento con la fila de saldo ya bloqueada:
// agrega sobre el libro (snapshot consistente de la misma tx), aplica la
// guarda de stock negativo, inserta la fila y materializa el nuevo saldo.
func (uc *LedgerUseCase) appendLocked(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	m *entity.StockMovement,
) error {
	aggregate, err := movRepo.SumByProduct(m.ProductID)
	if err != nil {
		return err
	}
	var next int64
	if m.Type == entity.MovementTypeOUT {
		next = aggregate - m.Quantity
		if next < 0 && !uc.allowNegative {
			return domain.ErrInsufficientStock
		}
	} else {
		next = aggregate + m.Quantity
	}
	if err := movRepo.Create(m); err != nil {
		return err
	}
	return balanceRepo.Upsert(&entity.StockBalance{
		ProductID: m.ProductID,
		Quantity:  next,
		UpdatedAt: m.CreatedAt,
	})
}

// ComputeStock agrega el libro completo del producto: Σ(IN) − Σ(OUT).
func (uc *LedgerUseCase) ComputeStock(ctx context.Context, productID string) (int64, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	return uc.movRepo.SumByProduct(productID)
}

// ListMovements devuelve el kardex del producto en un rango de fechas.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
}
