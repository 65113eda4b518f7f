package sales

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/application/validate"
	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
	"github.com/jhoicas/paws-pos/internal/domain/sale"
)

// Create registra una venta de forma atómica: bloquea los productos (SELECT FOR UPDATE en orden de id),
// valida stock acumulado por producto en el orden de las líneas, calcula totales, inserta venta y
// líneas y descuenta stock. Si algo falla no queda nada persistido.
func (uc *SaleUseCase) Create(ctx context.Context, cashier *entity.User, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if cashier == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := uc.validateCreate(&in); err != nil {
		return nil, err
	}

	saleID := uuid.New().String()
	now := uc.clock.Now()

	var committed *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		committed = nil

		products, err := productRepo.LockForUpdate(ctx, distinctProductIDs(in.Items))
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		requested := make(map[string]int, len(byID))
		lines := make([]sale.Line, 0, len(in.Items))
		items := make([]entity.SaleItem, 0, len(in.Items))
		for _, it := range in.Items {
			p, ok := byID[it.ProductID]
			if !ok {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
			}
			requested[p.ID] += it.Quantity
			if requested[p.ID] > p.Stock {
				return &domain.StockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Requested: requested[p.ID]}
			}
			line := sale.Line{Quantity: it.Quantity, Price: uc.unitPrice(it, p)}
			lines = append(lines, line)
			items = append(items, entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      saleID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				Price:       line.Price,
				Subtotal:    line.Subtotal(),
			})
		}

		totals := sale.CalculateTotals(lines, uc.cfg.TaxRate, in.Discount)
		if !sale.Fits(lines, totals) {
			verr := domain.NewValidationError()
			verr.Add("items", "el monto de la venta excede el máximo permitido")
			return verr
		}
		s := &entity.Sale{
			ID:            saleID,
			UserID:        cashier.ID,
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Discount:      totals.Discount,
			Total:         totals.Total,
			PaymentMethod: in.PaymentMethod,
			CustomerName:  in.CustomerName,
			CustomerEmail: in.CustomerEmail,
			Notes:         in.Notes,
			CreatedAt:     now,
			Items:         items,
		}
		if err := saleRepo.Create(ctx, s); err != nil {
			return err
		}

		// Segunda barrera: el UPDATE condicionado no deja el stock negativo aunque el lock fallara.
		for _, id := range sortedKeys(requested) {
			ok, err := productRepo.DecrementStock(ctx, id, requested[id])
			if err != nil {
				return err
			}
			if !ok {
				p := byID[id]
				return &domain.StockError{ProductID: id, ProductName: p.Name, Available: p.Stock, Requested: requested[id]}
			}
		}
		committed = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	committed.User = cashier
	if committed.Total.IsNegative() {
		uc.log.Warn().Str("sale_id", committed.ID).Str("total", committed.Total.String()).
			Str("discount", committed.Discount.String()).Msg("venta con total negativo: el descuento supera subtotal + IVA")
	}
	uc.log.Info().Str("sale_id", committed.ID).Str("user_id", cashier.ID).Int("items", len(committed.Items)).
		Str("total", committed.Total.String()).Str("payment_method", committed.PaymentMethod).Msg("venta registrada")
	return toSaleResponse(committed), nil
}

func (uc *SaleUseCase) validateCreate(in *dto.CreateSaleRequest) error {
	in.CustomerName = validate.Clean(in.CustomerName)
	in.CustomerEmail = validate.Clean(in.CustomerEmail)
	in.Notes = validate.Clean(in.Notes)
	for i := range in.Items {
		in.Items[i].ProductID = validate.Clean(in.Items[i].ProductID)
	}
	verr := validate.Struct(in)
	for i, it := range in.Items {
		if !it.Price.IsPositive() {
			verr.Add(fmt.Sprintf("items[%d].price", i), "debe ser mayor que 0")
		}
		if !it.Price.Equal(it.Price.Round(2)) {
			verr.Add(fmt.Sprintf("items[%d].price", i), "admite máximo 2 decimales")
		}
		if !entity.AmountInRange(it.Price) {
			verr.Add(fmt.Sprintf("items[%d].price", i), "excede el máximo permitido")
		}
	}
	if in.Discount.IsNegative() {
		verr.Add("discount", "debe ser mayor o igual a 0")
	}
	if !in.Discount.Equal(in.Discount.Round(2)) {
		verr.Add("discount", "admite máximo 2 decimales")
	}
	if !entity.AmountInRange(in.Discount) {
		verr.Add("discount", "excede el máximo permitido")
	}
	return verr.Err()
}

func (uc *SaleUseCase) unitPrice(it dto.SaleItemRequest, p *entity.Product) decimal.Decimal {
	if uc.cfg.PricePolicy == PricePolicyCatalog {
		return p.Price
	}
	return it.Price
}

func distinctProductIDs(items []dto.SaleItemRequest) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
