package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfmorales/puntoventa-api/internal/application/apptest"
	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/application/inventory"
	"github.com/dfmorales/puntoventa-api/internal/application/sales"
	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

const (
	testUserID = "00000000-0000-0000-0000-000000000001"
	productA   = "00000000-0000-0000-0000-0000000000aa"
	productB   = "00000000-0000-0000-0000-0000000000bb"
)

// setup arma un caso de uso de ventas con dos productos y stock inicial.
func setup(t *testing.T, stockA, stockB int64) (*sales.SaleUseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	store.Products[productA] = &entity.Product{
		ID: productA, SKU: "CAM-001", Name: "Camiseta",
		Price: decimal.NewFromInt(35000), Cost: decimal.NewFromInt(18000),
	}
	store.Products[productB] = &entity.Product{
		ID: productB, SKU: "PAN-001", Name: "Pantalón",
		Price: decimal.NewFromInt(80000), Cost: decimal.NewFromInt(45000),
	}
	seedStock(store, productA, stockA)
	seedStock(store, productB, stockB)

	txRunner := &apptest.TxRunner{S: store}
	mov, _, prod, sale, pay, _ := store.Repos()
	ledger := inventory.NewLedgerUseCase(txRunner, mov, prod, false)
	uc := sales.NewSaleUseCase(txRunner, ledger, sale, pay, prod)
	return uc, store
}

func seedStock(store *apptest.Store, productID string, qty int64) {
	if qty <= 0 {
		return
	}
	store.Movements = append(store.Movements, &entity.StockMovement{
		ID: "seed-" + productID, ProductID: productID,
		Type: entity.MovementTypeIN, Quantity: qty,
		UnitCost: decimal.NewFromInt(1000), Note: "carga inicial",
	})
	store.Balances[productID] = &entity.StockBalance{ProductID: productID, Quantity: qty}
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func pago(method string, amount int64) dto.PaymentInput {
	return dto.PaymentInput{Method: method, Amount: d(amount)}
}

// ──────────────────────────────────────────────────────────────────────────────
// CommitSale — confirmación atómica
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitSale_VentaMultiLineaMultiPago(t *testing.T) {
	uc, store := setup(t, 10, 5)
	ctx := context.Background()

	resp, err := uc.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		CustomerName: "Ana",
		Lines: []dto.SaleLineInput{
			{ProductID: productA, Quantity: 2, UnitPrice: d(35000)},
			{ProductID: productB, Quantity: 1, UnitPrice: d(80000)},
		},
		Payments: []dto.PaymentInput{
			pago("EFECTIVO", 100000),
			pago("DATAFONO", 50000),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.True(t, resp.Total.Equal(d(150000)))
	assert.Len(t, resp.Lines, 2)
	assert.Len(t, resp.Payments, 2)

	// Una salida del libro por línea, referenciando la venta.
	var saleOuts int
	for _, m := range store.Movements {
		if m.Reference == resp.ID && m.Type == entity.MovementTypeOUT {
			saleOuts++
		}
	}
	assert.Equal(t, 2, saleOuts)

	// Stock descontado.
	assert.Equal(t, int64(8), store.Balances[productA].Quantity)
	assert.Equal(t, int64(4), store.Balances[productB].Quantity)

	// Snapshot de costo en la línea.
	for _, l := range resp.Lines {
		if l.ProductID == productA {
			assert.True(t, l.UnitCost.Equal(d(18000)))
		}
	}
}

func TestCommitSale_PagosDescuadrados_NadaQueda(t *testing.T) {
	uc, store := setup(t, 10, 0)

	_, err := uc.CommitSale(context.Background(), testUserID, dto.CommitSaleRequest{
		Lines:    []dto.SaleLineInput{{ProductID: productA, Quantity: 1, UnitPrice: d(35000)}},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 30000)},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentMismatch)

	assert.Empty(t, store.Sales, "sin cabecera")
	assert.Empty(t, store.SaleLines, "sin líneas")
	assert.Empty(t, store.Payments, "sin pagos")
	assert.Equal(t, int64(10), store.Balances[productA].Quantity, "stock intacto")
}

func TestCommitSale_StockInsuficienteEnSegundaLinea_RevierteTodo(t *testing.T) {
	// productA tiene stock de sobra, productB ninguno: la segunda línea falla
	// y la salida ya registrada de la primera debe revertirse.
	uc, store := setup(t, 10, 0)

	_, err := uc.CommitSale(context.Background(), testUserID, dto.CommitSaleRequest{
		Lines: []dto.SaleLineInput{
			{ProductID: productA, Quantity: 1, UnitPrice: d(35000)},
			{ProductID: productB, Quantity: 1, UnitPrice: d(80000)},
		},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 115000)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), store.Balances[productA].Quantity,
		"la salida de la primera línea se revirtió con la transacción")
	var saleMovs int
	for _, m := range store.Movements {
		if m.Note != "carga inicial" {
			saleMovs++
		}
	}
	assert.Zero(t, saleMovs, "el libro no conserva movimientos de la venta fallida")
}

func TestCommitSale_Validaciones(t *testing.T) {
	uc, _ := setup(t, 10, 0)
	ctx := context.Background()

	_, err := uc.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		Payments: []dto.PaymentInput{pago("EFECTIVO", 1000)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "venta sin líneas")

	_, err = uc.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		Lines:    []dto.SaleLineInput{{ProductID: productA, Quantity: 0, UnitPrice: d(35000)}},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 0)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		Lines:    []dto.SaleLineInput{{ProductID: "no-existe", Quantity: 1, UnitPrice: d(100)}},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 100)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")
}

// Dos cajas venden la última unidad al mismo tiempo: exactamente una gana.
func TestCommitSale_ConcurrenciaUltimaUnidad(t *testing.T) {
	uc, store := setup(t, 1, 0)
	ctx := context.Background()

	req := dto.CommitSaleRequest{
		Lines:    []dto.SaleLineInput{{ProductID: productA, Quantity: 1, UnitPrice: d(35000)}},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 35000)},
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.CommitSale(ctx, testUserID, req)
		}(i)
	}
	wg.Wait()

	var oks, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			oks++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, oks, "exactamente una venta gana la última unidad")
	assert.Equal(t, 1, insufficient, "la otra recibe stock insuficiente")
	assert.Equal(t, int64(0), store.Balances[productA].Quantity)
	assert.Len(t, store.Sales, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// EditPayments — corrección de pagos sin tocar el libro
// ──────────────────────────────────────────────────────────────────────────────

func TestEditPayments_ReemplazaElConjunto(t *testing.T) {
	uc, store := setup(t, 10, 0)
	ctx := context.Background()

	resp, err := uc.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		Lines:    []dto.SaleLineInput{{ProductID: productA, Quantity: 1, UnitPrice: d(35000)}},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 35000)},
	})
	require.NoError(t, err)
	movementsBefore := len(store.Movements)

	edited, err := uc.EditPayments(ctx, testUserID, resp.ID, dto.EditPaymentsRequest{
		Payments: []dto.PaymentInput{pago("DATAFONO", 35000)},
	})
	require.NoError(t, err)
	require.Len(t, edited.Payments, 1)
	assert.Equal(t, "DATAFONO", edited.Payments[0].Method)

	assert.Len(t, store.Movements, movementsBefore, "editar pagos no toca el libro")
	assert.Equal(t, int64(9), store.Balances[productA].Quantity)
}

func TestEditPayments_NuevoConjuntoDescuadrado_Rechazado(t *testing.T) {
	uc, store := setup(t, 10, 0)
	ctx := context.Background()

	resp, err := uc.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		Lines:    []dto.SaleLineInput{{ProductID: productA, Quantity: 1, UnitPrice: d(35000)}},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 35000)},
	})
	require.NoError(t, err)

	_, err = uc.EditPayments(ctx, testUserID, resp.ID, dto.EditPaymentsRequest{
		Payments: []dto.PaymentInput{pago("DATAFONO", 10000)},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentMismatch)

	// El conjunto original sobrevive al rollback.
	pays := store.Payments
	require.Len(t, pays, 1)
	assert.Equal(t, "EFECTIVO", pays[0].Method)
}

func TestEditPayments_VentaAnulada_Rechazada(t *testing.T) {
	uc, _ := setup(t, 10, 0)
	ctx := context.Background()

	resp, err := uc.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		Lines:    []dto.SaleLineInput{{ProductID: productA, Quantity: 1, UnitPrice: d(35000)}},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 35000)},
	})
	require.NoError(t, err)
	require.NoError(t, uc.VoidSale(ctx, testUserID, resp.ID))

	_, err = uc.EditPayments(ctx, testUserID, resp.ID, dto.EditPaymentsRequest{
		Payments: []dto.PaymentInput{pago("DATAFONO", 35000)},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// VoidSale — anulación con entradas compensatorias
// ──────────────────────────────────────────────────────────────────────────────

func TestVoidSale_RestauraStockConCompensatorias(t *testing.T) {
	uc, store := setup(t, 10, 5)
	ctx := context.Background()

	resp, err := uc.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		Lines: []dto.SaleLineInput{
			{ProductID: productA, Quantity: 3, UnitPrice: d(35000)},
			{ProductID: productB, Quantity: 2, UnitPrice: d(80000)},
		},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 265000)},
	})
	require.NoError(t, err)
	outsBefore := len(store.Movements)

	require.NoError(t, uc.VoidSale(ctx, testUserID, resp.ID))

	// Stock restaurado.
	assert.Equal(t, int64(10), store.Balances[productA].Quantity)
	assert.Equal(t, int64(5), store.Balances[productB].Quantity)

	// Las salidas originales siguen en el libro; se sumaron entradas IN
	// compensatorias referenciando la venta.
	assert.Equal(t, outsBefore+2, len(store.Movements))
	var compIN int
	for _, m := range store.Movements {
		if m.Reference == resp.ID && m.Type == entity.MovementTypeIN {
			compIN++
		}
	}
	assert.Equal(t, 2, compIN)

	sale := store.Sales[resp.ID]
	assert.Equal(t, entity.SaleStatusVoided, sale.Status)
	assert.NotNil(t, sale.VoidedAt)
}

func TestVoidSale_DobleAnulacion_Rechazada(t *testing.T) {
	uc, _ := setup(t, 10, 0)
	ctx := context.Background()

	resp, err := uc.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		Lines:    []dto.SaleLineInput{{ProductID: productA, Quantity: 1, UnitPrice: d(35000)}},
		Payments: []dto.PaymentInput{pago("EFECTIVO", 35000)},
	})
	require.NoError(t, err)

	require.NoError(t, uc.VoidSale(ctx, testUserID, resp.ID))
	err = uc.VoidSale(ctx, testUserID, resp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "anular dos veces no duplica compensatorias")
}

func TestVoidSale_VentaInexistente(t *testing.T) {
	uc, _ := setup(t, 10, 0)
	err := uc.VoidSale(context.Background(), testUserID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
