// Package apptest provee repositorios en memoria y un TxRunner falso para los
// tests de los casos de uso. El TxRunner serializa las transacciones con un
// mutex (equivalente al bloqueo de fila de la base) y restaura un snapshot del
// estado cuando el callback retorna error (equivalente al rollback).
package apptest

import (
	"context"
	"sync"

	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// Store estado compartido de los repositorios falsos.
type Store struct {
	mu        sync.Mutex
	Products  map[string]*entity.Product
	Movements []*entity.StockMovement
	Balances  map[string]*entity.StockBalance
	Sales     map[string]*entity.Sale
	SaleLines []*entity.SaleLine
	Payments  []*entity.Payment
	Layaways  map[string]*entity.LayawayAccount
}

// NewStore inicializa el estado vacío.
func NewStore() *Store {
	return &Store{
		Products: make(map[string]*entity.Product),
		Balances: make(map[string]*entity.StockBalance),
		Sales:    make(map[string]*entity.Sale),
		Layaways: make(map[string]*entity.LayawayAccount),
	}
}

// snapshot copia el estado completo (valores, no punteros) para poder
// restaurarlo si la transacción falla.
func (s *Store) snapshot() *Store {
	snap := NewStore()
	for k, v := range s.Products {
		c := *v
		snap.Products[k] = &c
	}
	for _, m := range s.Movements {
		c := *m
		snap.Movements = append(snap.Movements, &c)
	}
	for k, v := range s.Balances {
		c := *v
		snap.Balances[k] = &c
	}
	for k, v := range s.Sales {
		c := *v
		snap.Sales[k] = &c
	}
	for _, l := range s.SaleLines {
		c := *l
		snap.SaleLines = append(snap.SaleLines, &c)
	}
	for _, p := range s.Payments {
		c := *p
		snap.Payments = append(snap.Payments, &c)
	}
	for k, v := range s.Layaways {
		c := *v
		snap.Layaways[k] = &c
	}
	return snap
}

func (s *Store) restore(snap *Store) {
	s.Products = snap.Products
	s.Movements = snap.Movements
	s.Balances = snap.Balances
	s.Sales = snap.Sales
	s.SaleLines = snap.SaleLines
	s.Payments = snap.Payments
	s.Layaways = snap.Layaways
}

// Repos devuelve los repositorios falsos sobre el store.
func (s *Store) Repos() (
	repository.StockMovementRepository,
	repository.StockBalanceRepository,
	repository.ProductRepository,
	repository.SaleRepository,
	repository.PaymentRepository,
	repository.LayawayRepository,
) {
	return &MovementRepo{s: s}, &BalanceRepo{s: s}, &ProductRepo{s: s},
		&SaleRepo{s: s}, &PaymentRepo{s: s}, &LayawayRepo{s: s}
}

// TxRunner falso: serializa transacciones con el mutex del store y hace
// rollback por snapshot cuando el callback falla. Implementa los puertos
// TxRunner de inventory, sales y layaway.
type TxRunner struct {
	S *Store
}

func (r *TxRunner) run(fn func() error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	snap := r.S.snapshot()
	if err := fn(); err != nil {
		r.S.restore(snap)
		return err
	}
	return nil
}

// Run transacción con los repos del libro de inventario.
func (r *TxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
) error) error {
	mov, bal, prod, _, _, _ := r.S.Repos()
	return r.run(func() error { return fn(mov, bal, prod) })
}

// RunSale transacción con repos de inventario, venta y pago.
func (r *TxRunner) RunSale(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	mov, bal, prod, sale, pay, _ := r.S.Repos()
	return r.run(func() error { return fn(mov, bal, prod, sale, pay) })
}

// RunLayaway transacción con todos los repos del ciclo de plan separe.
func (r *TxRunner) RunLayaway(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	layawayRepo repository.LayawayRepository,
) error) error {
	mov, bal, prod, sale, pay, lay := r.S.Repos()
	return r.run(func() error { return fn(mov, bal, prod, sale, pay, lay) })
}
