package apptest

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// Los repos falsos no toman el mutex: dentro de una transacción el TxRunner ya
// lo sostiene, y los tests que leen fuera de transacción son secuenciales.

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.s.Products {
		if existing.SKU == p.SKU {
			return domain.ErrConflict
		}
	}
	c := *p
	r.s.Products[p.ID] = &c
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.Products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.Products {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	list := make([]*entity.Product, 0, len(r.s.Products))
	for _, p := range r.s.Products {
		c := *p
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *ProductRepo) Update(p *entity.Product) error {
	existing, ok := r.s.Products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.SKU = p.SKU
	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.Category = p.Category
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	p, ok := r.s.Products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	return nil
}

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de inventario en memoria (append-only).
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(m *entity.StockMovement) error {
	c := *m
	r.s.Movements = append(r.s.Movements, &c)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.Movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.s.Movements {
		if m.ProductID != productID {
			continue
		}
		if m.Type == entity.MovementTypeIN {
			sum += m.Quantity
		} else {
			sum -= m.Quantity
		}
	}
	return sum, nil
}

func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.s.Movements {
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	return page(list, limit, offset), nil
}

func (r *MovementRepo) ListByReference(reference string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.s.Movements {
		if m.Reference == reference {
			c := *m
			list = append(list, &c)
		}
	}
	return list, nil
}

var _ repository.StockBalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo saldo materializado en memoria.
type BalanceRepo struct{ s *Store }

func (r *BalanceRepo) Get(productID string) (*entity.StockBalance, error) {
	b, ok := r.s.Balances[productID]
	if !ok {
		return &entity.StockBalance{ProductID: productID}, nil
	}
	c := *b
	return &c, nil
}

func (r *BalanceRepo) GetForUpdate(productID string) (*entity.StockBalance, error) {
	// El bloqueo real lo simula el mutex del TxRunner.
	return r.Get(productID)
}

func (r *BalanceRepo) Upsert(balance *entity.StockBalance) error {
	c := *balance
	r.s.Balances[balance.ProductID] = &c
	return nil
}

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(sale *entity.Sale) error {
	c := *sale
	r.s.Sales[sale.ID] = &c
	return nil
}

func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	c := *line
	r.s.SaleLines = append(r.s.SaleLines, &c)
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.Sales[id]
	if !ok {
		return nil, nil
	}
	c := *sale
	return &c, nil
}

func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	var lines []*entity.SaleLine
	for _, l := range r.s.SaleLines {
		if l.SaleID == saleID {
			c := *l
			lines = append(lines, &c)
		}
	}
	return lines, nil
}

func (r *SaleRepo) Update(sale *entity.Sale) error {
	existing, ok := r.s.Sales[sale.ID]
	if !ok {
		return domain.ErrNotFound
	}
	*existing = *sale
	return nil
}

func (r *SaleRepo) ListByPeriod(from, to time.Time, limit, offset int) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for _, sale := range r.s.Sales {
		if sale.CreatedAt.Before(from) || sale.CreatedAt.After(to) {
			continue
		}
		c := *sale
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos en memoria.
type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) Create(p *entity.Payment) error {
	c := *p
	r.s.Payments = append(r.s.Payments, &c)
	return nil
}

func (r *PaymentRepo) ListBySale(saleID string) ([]*entity.Payment, error) {
	var list []*entity.Payment
	for _, p := range r.s.Payments {
		if p.SaleID == saleID {
			c := *p
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *PaymentRepo) ListByLayaway(layawayID string) ([]*entity.Payment, error) {
	var list []*entity.Payment
	for _, p := range r.s.Payments {
		if p.LayawayID == layawayID {
			c := *p
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *PaymentRepo) SumByLayaway(layawayID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.s.Payments {
		if p.LayawayID == layawayID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *PaymentRepo) DeleteBySale(saleID string) error {
	kept := r.s.Payments[:0]
	for _, p := range r.s.Payments {
		if p.SaleID != saleID {
			kept = append(kept, p)
		}
	}
	r.s.Payments = kept
	return nil
}

var _ repository.LayawayRepository = (*LayawayRepo)(nil)

// LayawayRepo planes separe en memoria.
type LayawayRepo struct{ s *Store }

func (r *LayawayRepo) Create(a *entity.LayawayAccount) error {
	c := *a
	r.s.Layaways[a.ID] = &c
	return nil
}

func (r *LayawayRepo) GetByID(id string) (*entity.LayawayAccount, error) {
	a, ok := r.s.Layaways[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *LayawayRepo) GetByCode(code string) (*entity.LayawayAccount, error) {
	for _, a := range r.s.Layaways {
		if a.Code == code {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *LayawayRepo) GetForUpdate(id string) (*entity.LayawayAccount, error) {
	return r.GetByID(id)
}

func (r *LayawayRepo) Update(a *entity.LayawayAccount) error {
	existing, ok := r.s.Layaways[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	*existing = *a
	return nil
}

func (r *LayawayRepo) ListByStatus(status string, limit, offset int) ([]*entity.LayawayAccount, error) {
	var list []*entity.LayawayAccount
	for _, a := range r.s.Layaways {
		if status != "" && a.Status != status {
			continue
		}
		c := *a
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
