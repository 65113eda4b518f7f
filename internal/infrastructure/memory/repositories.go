package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
)

// UserRepository usuarios en memoria con unicidad de email y username.
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return fmt.Errorf("%w: usuario duplicado", domain.ErrConflict)
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email }), nil
}

func (r *UserRepository) ListByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, &u)
		}
	}
	return out, nil
}

// SetActive activa o desactiva un usuario (no hay endpoint; lo usan los tests).
func (r *UserRepository) SetActive(id string, active bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.IsActive = active
		r.s.users[id] = u
	}
}

// Delete elimina físicamente un usuario (solo tests: token de un usuario que ya no existe).
func (r *UserRepository) Delete(id string) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
}

func (r *UserRepository) find(match func(entity.User) bool) *entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

// CategoryRepository categorías en memoria con nombre único.
type CategoryRepository struct{ s *Store }

func (r *CategoryRepository) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return fmt.Errorf("%w: categoría duplicada", domain.ErrConflict)
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepository) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ProductRepository productos en memoria con barcode único y FK a categoría.
type ProductRepository struct{ s *Store }

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkLocked(p); err != nil {
		return err
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Update(_ context.Context, id string, patch repository.ProductPatch) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	applyPatch(&p, patch)
	if err := r.checkLocked(&p); err != nil {
		return nil, err
	}
	r.s.products[id] = p
	return &p, nil
}

// applyPatch copia sobre p solo los campos informados en el patch.
func applyPatch(p *entity.Product, patch repository.ProductPatch) {
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Cost != nil {
		p.Cost = *patch.Cost
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.SetBarcode {
		p.Barcode = patch.Barcode
	}
	if patch.UnitMeasure != nil {
		p.UnitMeasure = *patch.UnitMeasure
	}
	if patch.ImageBase64 != nil {
		p.ImageBase64 = *patch.ImageBase64
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	p.UpdatedAt = patch.UpdatedAt
}

func (r *ProductRepository) checkLocked(p *entity.Product) error {
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, p.CategoryID)
	}
	if p.Barcode == nil {
		return nil
	}
	for id, existing := range r.s.products {
		if id != p.ID && existing.Barcode != nil && *existing.Barcode == *p.Barcode {
			return fmt.Errorf("%w: barcode duplicado", domain.ErrConflict)
		}
	}
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if f.Search != "" && !containsFold(p.Name, f.Search) {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Offset, f.Limit), nil
}

func (r *ProductRepository) Deactivate(_ context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return false, nil
	}
	p.IsActive = false
	p.UpdatedAt = at
	r.s.products[id] = p
	return true, nil
}

func (r *ProductRepository) LockForUpdate(_ context.Context, ids []string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make([]*entity.Product, 0, len(sorted))
	seen := make(map[string]bool, len(sorted))
	for _, id := range sorted {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.s.products[id]; ok {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *ProductRepository) DecrementStock(_ context.Context, id string, qty int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	r.s.products[id] = p
	return true, nil
}

// SaleRepository ventas en memoria.
type SaleRepository struct{ s *Store }

func (r *SaleRepository) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[sale.ID]; ok {
		return fmt.Errorf("%w: venta duplicada", domain.ErrConflict)
	}
	header := *sale
	header.Items = nil
	header.User = nil
	r.s.sales[sale.ID] = header
	for _, it := range sale.Items {
		it.ProductName = ""
		r.s.items = append(r.s.items, it)
	}
	return nil
}

func (r *SaleRepository) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SaleRepository) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Sale, 0)
	for _, id := range sortedKeys(r.s.sales) {
		s := r.s.sales[id]
		if inWindow(s.CreatedAt, f.From, f.To) {
			out = append(out, &s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Offset, f.Limit), nil
}

func (r *SaleRepository) ListItems(_ context.Context, saleIDs []string) ([]entity.SaleItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	want := make(map[string]bool, len(saleIDs))
	for _, id := range saleIDs {
		want[id] = true
	}
	out := make([]entity.SaleItem, 0)
	for _, it := range r.s.items {
		if !want[it.SaleID] {
			continue
		}
		it.ProductName = r.s.products[it.ProductID].Name
		out = append(out, it)
	}
	return out, nil
}

// AnalyticsRepository agregados calculados recorriendo el Store.
type AnalyticsRepository struct{ s *Store }

func (r *AnalyticsRepository) GetSalesMetrics(_ context.Context, from, to *time.Time) (repository.SalesMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m := repository.SalesMetrics{Revenue: decimal.Zero}
	for _, s := range r.s.sales {
		if inWindow(s.CreatedAt, from, to) {
			m.Revenue = m.Revenue.Add(s.Total)
			m.Count++
		}
	}
	return m, nil
}

func (r *AnalyticsRepository) CountActiveProducts(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.products {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *AnalyticsRepository) CountLowStockProducts(_ context.Context, threshold int) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.products {
		if p.IsActive && p.Stock < threshold {
			n++
		}
	}
	return n, nil
}
