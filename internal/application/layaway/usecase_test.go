package layaway_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfmorales/puntoventa-api/internal/application/apptest"
	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/application/inventory"
	"github.com/dfmorales/puntoventa-api/internal/application/layaway"
	"github.com/dfmorales/puntoventa-api/internal/application/sales"
	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

const (
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testProductID = "00000000-0000-0000-0000-0000000000aa"
)

// setup arma el caso de uso con un producto de 500.000 y stock inicial.
func setup(t *testing.T, stock int64) (*layaway.LayawayUseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	store.Products[testProductID] = &entity.Product{
		ID: testProductID, SKU: "VES-001", Name: "Vestido de gala",
		Price: decimal.NewFromInt(500000), Cost: decimal.NewFromInt(280000),
	}
	if stock > 0 {
		store.Movements = append(store.Movements, &entity.StockMovement{
			ID: "seed", ProductID: testProductID,
			Type: entity.MovementTypeIN, Quantity: stock,
			UnitCost: decimal.NewFromInt(280000), Note: "carga inicial",
		})
		store.Balances[testProductID] = &entity.StockBalance{ProductID: testProductID, Quantity: stock}
	}

	txRunner := &apptest.TxRunner{S: store}
	mov, _, prod, sale, pay, lay := store.Repos()
	ledger := inventory.NewLedgerUseCase(txRunner, mov, prod, false)
	saleUC := sales.NewSaleUseCase(txRunner, ledger, sale, pay, prod)
	uc := layaway.NewLayawayUseCase(txRunner, saleUC, prod, lay, pay, decimal.NewFromInt(500))
	return uc, store
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Create — apertura con precio congelado y abono inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CongelaPrecioYRegistraAbonoInicial(t *testing.T) {
	uc, store := setup(t, 1)

	resp, err := uc.Create(context.Background(), testUserID, dto.CreateLayawayRequest{
		ProductID:      testProductID,
		CustomerName:   "Marta",
		InitialDeposit: d(100000),
		Method:         "EFECTIVO",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LayawayStatusOpen, resp.Status)
	assert.True(t, resp.TotalPrice.Equal(d(500000)))
	assert.True(t, resp.TotalPaid.Equal(d(100000)))
	assert.True(t, resp.Balance.Equal(d(400000)))
	assert.Contains(t, resp.Code, "SEP-")
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "abono inicial", resp.Payments[0].Note)

	// La apertura NO toca el libro de inventario.
	assert.Len(t, store.Movements, 1, "solo la carga inicial")
	assert.Equal(t, int64(1), store.Balances[testProductID].Quantity)
}

func TestCreate_PrecioEditadoDespuesNoCambiaLaCuenta(t *testing.T) {
	uc, store := setup(t, 1)
	ctx := context.Background()

	resp, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(100000), Method: "EFECTIVO",
	})
	require.NoError(t, err)

	// Subir el precio del catálogo no mueve el objetivo de la cuenta.
	store.Products[testProductID].Price = d(600000)
	got, err := uc.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(d(500000)))
}

func TestCreate_AbonoMayorQueElPrecio_Rechazado(t *testing.T) {
	uc, _ := setup(t, 1)
	_, err := uc.Create(context.Background(), testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(600000), Method: "EFECTIVO",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := setup(t, 1)
	ctx := context.Background()

	_, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		CustomerName: "Marta", InitialDeposit: d(1000), Method: "EFECTIVO",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin producto")

	_, err = uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: decimal.Zero, Method: "EFECTIVO",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "abono inicial cero")

	_, err = uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: "no-existe", CustomerName: "Marta",
		InitialDeposit: d(1000), Method: "EFECTIVO",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// AddPayment — abonos sobre cuenta abierta
// ──────────────────────────────────────────────────────────────────────────────

func TestAddPayment_AcumulaSobreLosAbonos(t *testing.T) {
	uc, _ := setup(t, 1)
	ctx := context.Background()

	resp, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(100000), Method: "EFECTIVO",
	})
	require.NoError(t, err)

	updated, err := uc.AddPayment(ctx, testUserID, resp.ID, dto.LayawayPaymentRequest{
		Amount: d(200000), Method: "QR_LLAVE",
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalPaid.Equal(d(300000)))
	assert.True(t, updated.Balance.Equal(d(200000)))
	assert.Len(t, updated.Payments, 2)
}

func TestAddPayment_SobrepagoMasAllaDeTolerancia_Rechazado(t *testing.T) {
	uc, _ := setup(t, 1)
	ctx := context.Background()

	resp, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(400000), Method: "EFECTIVO",
	})
	require.NoError(t, err)

	_, err = uc.AddPayment(ctx, testUserID, resp.ID, dto.LayawayPaymentRequest{
		Amount: d(150000), Method: "EFECTIVO",
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "400k + 150k supera los 500k del plan")
}

func TestAddPayment_CuentaInexistente(t *testing.T) {
	uc, _ := setup(t, 1)
	_, err := uc.AddPayment(context.Background(), testUserID, "no-existe", dto.LayawayPaymentRequest{
		Amount: d(1000), Method: "EFECTIVO",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Close — cierre con venta de cierre en la misma transacción
// ──────────────────────────────────────────────────────────────────────────────

// Ciclo completo: apertura 100k, dos abonos de 200k, cierre.
func TestClose_CicloCompleto(t *testing.T) {
	uc, store := setup(t, 1)
	ctx := context.Background()

	resp, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(100000), Method: "EFECTIVO",
	})
	require.NoError(t, err)

	_, err = uc.AddPayment(ctx, testUserID, resp.ID, dto.LayawayPaymentRequest{Amount: d(200000), Method: "QR_LLAVE"})
	require.NoError(t, err)
	_, err = uc.AddPayment(ctx, testUserID, resp.ID, dto.LayawayPaymentRequest{Amount: d(200000), Method: "DATAFONO"})
	require.NoError(t, err)

	out, err := uc.Close(ctx, testUserID, resp.ID)
	require.NoError(t, err)

	// Cuenta cerrada.
	assert.Equal(t, entity.LayawayStatusClosed, out.Account.Status)
	assert.True(t, out.Account.TotalPaid.Equal(d(500000)))
	assert.NotNil(t, out.Account.ClosedAt)

	// Venta de cierre: una línea, precio = total recibido, pagos espejo.
	require.Len(t, out.Sale.Lines, 1)
	assert.Equal(t, int64(1), out.Sale.Lines[0].Quantity)
	assert.True(t, out.Sale.Lines[0].UnitPrice.Equal(d(500000)))
	assert.True(t, out.Sale.Total.Equal(d(500000)))
	require.Len(t, out.Sale.Payments, 3)

	// El stock se descontó exactamente una vez, al cierre.
	assert.Equal(t, int64(0), store.Balances[testProductID].Quantity)
	var outs int
	for _, m := range store.Movements {
		if m.Type == entity.MovementTypeOUT {
			outs++
		}
	}
	assert.Equal(t, 1, outs)
}

func TestClose_SaldoPendienteSuperaUmbral_Rechazado(t *testing.T) {
	uc, store := setup(t, 1)
	ctx := context.Background()

	resp, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(100000), Method: "EFECTIVO",
	})
	require.NoError(t, err)

	_, err = uc.Close(ctx, testUserID, resp.ID)
	assert.ErrorIs(t, err, domain.ErrBalancePending)

	// Nada cambió: cuenta abierta, stock intacto.
	got, err := uc.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LayawayStatusOpen, got.Status)
	assert.Equal(t, int64(1), store.Balances[testProductID].Quantity)
}

// El saldo dentro del umbral (descuento negociado de 500) permite cerrar.
func TestClose_SaldoDentroDelUmbral_Cierra(t *testing.T) {
	uc, _ := setup(t, 1)
	ctx := context.Background()

	resp, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(499500), Method: "EFECTIVO",
	})
	require.NoError(t, err)

	out, err := uc.Close(ctx, testUserID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LayawayStatusClosed, out.Account.Status)
	// La venta reconoce lo realmente recibido, no el precio de lista.
	assert.True(t, out.Sale.Total.Equal(d(499500)))
}

func TestClose_CuentaYaCerrada_Rechazado(t *testing.T) {
	uc, _ := setup(t, 1)
	ctx := context.Background()

	resp, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(500000), Method: "EFECTIVO",
	})
	require.NoError(t, err)

	_, err = uc.Close(ctx, testUserID, resp.ID)
	require.NoError(t, err)

	_, err = uc.Close(ctx, testUserID, resp.ID)
	assert.ErrorIs(t, err, domain.ErrLayawayClosed, "OPEN → CLOSED es de una sola vía")

	_, err = uc.AddPayment(ctx, testUserID, resp.ID, dto.LayawayPaymentRequest{Amount: d(1000), Method: "EFECTIVO"})
	assert.ErrorIs(t, err, domain.ErrLayawayClosed, "sin abonos sobre cuenta cerrada")
}

// ──────────────────────────────────────────────────────────────────────────────
// List — filtro por estado
// ──────────────────────────────────────────────────────────────────────────────

func TestList_EstadoVacioListaTodas(t *testing.T) {
	uc, _ := setup(t, 2)
	ctx := context.Background()

	pagada, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(500000), Method: "EFECTIVO",
	})
	require.NoError(t, err)
	_, err = uc.Close(ctx, testUserID, pagada.ID)
	require.NoError(t, err)

	_, err = uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Luisa",
		InitialDeposit: d(100000), Method: "QR_LLAVE",
	})
	require.NoError(t, err)

	todas, err := uc.List(ctx, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, todas, 2, "sin filtro se listan abiertas y cerradas")

	abiertas, err := uc.List(ctx, entity.LayawayStatusOpen, 20, 0)
	require.NoError(t, err)
	require.Len(t, abiertas, 1)
	assert.Equal(t, "Luisa", abiertas[0].CustomerName)

	cerradas, err := uc.List(ctx, entity.LayawayStatusClosed, 20, 0)
	require.NoError(t, err)
	require.Len(t, cerradas, 1)
	assert.Equal(t, "Marta", cerradas[0].CustomerName)

	_, err = uc.List(ctx, "PENDIENTE", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado desconocido")
}

// Flujo completo de la operación diaria: entrada de mercancía, venta de
// mostrador, plan separe abierto, abonado y cerrado. El libro cuadra al final.
func TestFlujoCompleto_EntradaVentaYSepare(t *testing.T) {
	store := apptest.NewStore()
	store.Products[testProductID] = &entity.Product{
		ID: testProductID, SKU: "VES-001", Name: "Vestido de gala",
		Price: decimal.NewFromInt(500000), Cost: decimal.Zero,
	}
	txRunner := &apptest.TxRunner{S: store}
	mov, _, prod, sale, pay, lay := store.Repos()
	ledger := inventory.NewLedgerUseCase(txRunner, mov, prod, false)
	saleUC := sales.NewSaleUseCase(txRunner, ledger, sale, pay, prod)
	uc := layaway.NewLayawayUseCase(txRunner, saleUC, prod, lay, pay, decimal.NewFromInt(500))
	ctx := context.Background()

	// Entrada de 10 unidades a 280.000.
	unitCost := decimal.NewFromInt(280000)
	_, err := ledger.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 10,
		UnitCost: &unitCost, Note: "compra proveedor",
	})
	require.NoError(t, err)

	// Venta de mostrador de 3 unidades.
	_, err = saleUC.CommitSale(ctx, testUserID, dto.CommitSaleRequest{
		Lines:    []dto.SaleLineInput{{ProductID: testProductID, Quantity: 3, UnitPrice: d(500000)}},
		Payments: []dto.PaymentInput{{Method: "EFECTIVO", Amount: d(1500000)}},
	})
	require.NoError(t, err)

	stock, err := ledger.ComputeStock(ctx, testProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock)

	// Plan separe: apertura, abono y cierre.
	acc, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(200000), Method: "EFECTIVO",
	})
	require.NoError(t, err)

	_, err = uc.AddPayment(ctx, testUserID, acc.ID, dto.LayawayPaymentRequest{Amount: d(300000), Method: "QR_LLAVE"})
	require.NoError(t, err)

	out, err := uc.Close(ctx, testUserID, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LayawayStatusClosed, out.Account.Status)

	// 10 entradas − 3 de mostrador − 1 del separe.
	stock, err = ledger.ComputeStock(ctx, testProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stock)
	assert.Equal(t, int64(6), store.Balances[testProductID].Quantity,
		"el saldo materializado acompaña al agregado del libro")
}

func TestClose_SinStock_RevierteElCierre(t *testing.T) {
	// La unidad se vendió por fuera antes del cierre: la venta de cierre no
	// puede descontar stock y todo el cierre se revierte.
	uc, store := setup(t, 0)
	ctx := context.Background()

	resp, err := uc.Create(ctx, testUserID, dto.CreateLayawayRequest{
		ProductID: testProductID, CustomerName: "Marta",
		InitialDeposit: d(500000), Method: "EFECTIVO",
	})
	require.NoError(t, err)

	_, err = uc.Close(ctx, testUserID, resp.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := uc.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LayawayStatusOpen, got.Status, "la cuenta sigue abierta")
	assert.Empty(t, store.Sales, "no quedó venta de cierre")
}
