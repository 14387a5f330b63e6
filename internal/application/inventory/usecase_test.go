package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfmorales/puntoventa-api/internal/application/apptest"
	"github.com/dfmorales/puntoventa-api/internal/application/inventory"
	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

const (
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testProductID = "00000000-0000-0000-0000-0000000000aa"
)

func setup(t *testing.T, allowNegative bool) (*inventory.LedgerUseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	store.Products[testProductID] = &entity.Product{
		ID:    testProductID,
		SKU:   "CAM-001",
		Name:  "Camiseta básica",
		Price: decimal.NewFromInt(35000),
		Cost:  decimal.Zero,
	}
	mov, _, prod, _, _, _ := store.Repos()
	uc := inventory.NewLedgerUseCase(&apptest.TxRunner{S: store}, mov, prod, allowNegative)
	return uc, store
}

func cost(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de movimientos y agregación del libro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaYSalida_AgregadoDelLibro(t *testing.T) {
	uc, store := setup(t, false)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 10, UnitCost: cost(20000),
	})
	require.NoError(t, err)

	_, err = uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeOUT, Quantity: 3,
	})
	require.NoError(t, err)

	stock, err := uc.ComputeStock(ctx, testProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock, "stock = Σ(IN) − Σ(OUT)")

	// El saldo materializado acompaña al agregado.
	assert.Equal(t, int64(7), store.Balances[testProductID].Quantity)
	assert.Len(t, store.Movements, 2)
}

func TestRegisterMovement_SalidaSinStock_Rechazada(t *testing.T) {
	uc, store := setup(t, false)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeOUT, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada quedó escrito: ni fila de libro ni saldo.
	assert.Empty(t, store.Movements)
	stock, _ := uc.ComputeStock(ctx, testProductID)
	assert.Equal(t, int64(0), stock)
}

func TestRegisterMovement_StockNegativoPermitidoPorConfig(t *testing.T) {
	uc, _ := setup(t, true)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeOUT, Quantity: 2,
	})
	require.NoError(t, err)

	stock, err := uc.ComputeStock(ctx, testProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), stock)
}

func TestRegisterMovement_EntradaSinCosto_Invalida(t *testing.T) {
	uc, _ := setup(t, false)
	_, err := uc.RegisterMovement(context.Background(), testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_ValidacionesBasicas(t *testing.T) {
	uc, _ := setup(t, false)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: "TRANSFER", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 0, UnitCost: cost(100),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: "no-existe", Type: entity.MovementTypeIN, Quantity: 1, UnitCost: cost(100),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio ponderado en entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaActualizaCostoPromedio(t *testing.T) {
	uc, store := setup(t, false)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 10, UnitCost: cost(1000),
	})
	require.NoError(t, err)
	assert.True(t, store.Products[testProductID].Cost.Equal(decimal.NewFromInt(1000)))

	_, err = uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 10, UnitCost: cost(2000),
	})
	require.NoError(t, err)
	assert.True(t, store.Products[testProductID].Cost.Equal(decimal.NewFromInt(1500)),
		"promedio ponderado de 10@1000 + 10@2000")
}

func TestRegisterMovement_SalidaCongelaCostoVigente(t *testing.T) {
	uc, store := setup(t, false)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 5, UnitCost: cost(1200),
	})
	require.NoError(t, err)

	_, err = uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeOUT, Quantity: 2,
	})
	require.NoError(t, err)

	out := store.Movements[1]
	assert.Equal(t, entity.MovementTypeOUT, out.Type)
	assert.True(t, out.UnitCost.Equal(decimal.NewFromInt(1200)),
		"la salida registra el costo promedio vigente")
}

// Dos entradas concurrentes del mismo producto: la segunda en tomar el candado
// debe promediar sobre el costo que confirmó la primera, no sobre una lectura
// anterior. 10@1000 y 10@2000 en cualquier orden dan costo 1500 y stock 20.
func TestRegisterMovement_EntradasConcurrentesPromedianCostoConfirmado(t *testing.T) {
	uc, store := setup(t, false)
	ctx := context.Background()

	entradas := []int64{1000, 2000}
	var wg sync.WaitGroup
	errs := make([]error, len(entradas))
	for i, c := range entradas {
		wg.Add(1)
		go func(i int, c int64) {
			defer wg.Done()
			_, errs[i] = uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
				ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 10, UnitCost: cost(c),
			})
		}(i, c)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.True(t, store.Products[testProductID].Cost.Equal(decimal.NewFromInt(1500)),
		"costo final %s, esperado 1500", store.Products[testProductID].Cost)

	stock, err := uc.ComputeStock(ctx, testProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltraPorFecha(t *testing.T) {
	uc, store := setup(t, false)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, testUserID, inventory.MovementInput{
		ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 1, UnitCost: cost(100),
	})
	require.NoError(t, err)
	require.Len(t, store.Movements, 1)

	cutoff := store.Movements[0].CreatedAt.Add(time.Minute)
	list, err := uc.ListMovements(ctx, testProductID, nil, &cutoff, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	before := store.Movements[0].CreatedAt.Add(-time.Minute)
	list, err = uc.ListMovements(ctx, testProductID, nil, &before, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
