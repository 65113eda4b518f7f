// Package memory implementa los repositorios en memoria. Lo usan los tests de casos de uso
// y de HTTP; la transacción de venta se serializa con un mutex y se revierte con una instantánea.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
)

var (
	_ repository.UserRepository      = (*UserRepository)(nil)
	_ repository.CategoryRepository  = (*CategoryRepository)(nil)
	_ repository.ProductRepository   = (*ProductRepository)(nil)
	_ repository.SaleRepository      = (*SaleRepository)(nil)
	_ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)
)

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users      map[string]entity.User
	categories map[string]entity.Category
	products   map[string]entity.Product
	sales      map[string]entity.Sale
	items      []entity.SaleItem
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]entity.User),
		categories: make(map[string]entity.Category),
		products:   make(map[string]entity.Product),
		sales:      make(map[string]entity.Sale),
	}
}

func (s *Store) Users() *UserRepository          { return &UserRepository{s: s} }
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }
func (s *Store) Products() *ProductRepository    { return &ProductRepository{s: s} }
func (s *Store) Sales() *SaleRepository          { return &SaleRepository{s: s} }
func (s *Store) Analytics() *AnalyticsRepository { return &AnalyticsRepository{s: s} }
func (s *Store) TxRunner() *TxRunner             { return &TxRunner{s: s} }

// SaleCount número de ventas persistidas (para asserts de rollback).
func (s *Store) SaleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sales)
}

// ItemCount número de líneas persistidas.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

type snapshot struct {
	products map[string]entity.Product
	sales    map[string]entity.Sale
	items    int
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		products: make(map[string]entity.Product, len(s.products)),
		sales:    make(map[string]entity.Sale, len(s.sales)),
		items:    len(s.items),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.sales = snap.sales
	s.items = s.items[:snap.items]
}

// TxRunner ejecuta la venta en exclusión mutua y revierte los cambios si fn falla.
type TxRunner struct {
	s *Store
}

// RunSale equivale a una transacción: o se aplican todos los cambios de fn o ninguno.
func (r *TxRunner) RunSale(ctx context.Context, fn func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.s.snapshot()
	if err := fn(r.s.Products(), r.s.Sales()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func inWindow(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func page[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
