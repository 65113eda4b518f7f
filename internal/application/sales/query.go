package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
)

// List devuelve ventas de la más reciente a la más antigua, con cajero y líneas hidratados en lote.
func (uc *SaleUseCase) List(ctx context.Context, q dto.ListSalesQuery) (*dto.SaleListResponse, error) {
	w, err := ResolveWindow(uc.clock, q.StartDate, q.EndDate, q.Today)
	if err != nil {
		return nil, err
	}
	page := q.Page()
	list, err := uc.saleRepo.List(ctx, repository.SaleFilter{From: w.From, To: w.To, Offset: page.Skip, Limit: page.Limit})
	if err != nil {
		return nil, err
	}
	if err := uc.hydrate(ctx, list); err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}, nil
}

// Summary suma totales y cuenta ventas de la ventana (sin paginar).
func (uc *SaleUseCase) Summary(ctx context.Context, q dto.ListSalesQuery) (*dto.SalesSummaryResponse, error) {
	w, err := ResolveWindow(uc.clock, q.StartDate, q.EndDate, q.Today)
	if err != nil {
		return nil, err
	}
	m, err := uc.analytics.GetSalesMetrics(ctx, w.From, w.To)
	if err != nil {
		return nil, err
	}
	return &dto.SalesSummaryResponse{Total: m.Revenue, Count: m.Count}, nil
}

// GetByID devuelve una venta con sus líneas. Un id mal formado se trata como inexistente.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	if err := uc.hydrate(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return toSaleResponse(s), nil
}

// hydrate carga cajeros y líneas con dos consultas en lote (sin N+1).
func (uc *SaleUseCase) hydrate(ctx context.Context, list []*entity.Sale) error {
	if len(list) == 0 {
		return nil
	}
	saleIDs := make([]string, 0, len(list))
	userIDs := make([]string, 0, len(list))
	seenUser := make(map[string]bool)
	bySale := make(map[string]*entity.Sale, len(list))
	for _, s := range list {
		s.Items = s.Items[:0]
		saleIDs = append(saleIDs, s.ID)
		bySale[s.ID] = s
		if !seenUser[s.UserID] {
			seenUser[s.UserID] = true
			userIDs = append(userIDs, s.UserID)
		}
	}

	items, err := uc.saleRepo.ListItems(ctx, saleIDs)
	if err != nil {
		return err
	}
	for _, it := range items {
		if s, ok := bySale[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}

	users, err := uc.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	byUser := make(map[string]*entity.User, len(users))
	for _, u := range users {
		byUser[u.ID] = u
	}
	for _, s := range list {
		s.User = byUser[s.UserID]
	}
	return nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:            s.ID,
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		CustomerName:  s.CustomerName,
		CustomerEmail: s.CustomerEmail,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	if s.User != nil {
		out.User = &dto.UserSimple{
			ID:       s.User.ID,
			Username: s.User.Username,
			FullName: s.User.FullName,
			Email:    s.User.Email,
		}
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
