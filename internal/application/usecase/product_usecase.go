package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/application/validate"
	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
	"github.com/jhoicas/paws-pos/pkg/clock"
)

// ProductUseCase casos de uso del catálogo de productos. No hay borrado físico: Deactivate.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	images     ImageStore // nil = la imagen base64 se guarda en línea
	clock      clock.Clock
	log        zerolog.Logger
}

// NewProductUseCase construye el caso de uso. images puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	images ImageStore,
	clk clock.Clock,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		repo:       repo,
		categories: categories,
		images:     images,
		clock:      clk,
		log:        log.With().Str("component", "catalog").Logger(),
	}
}

// Create crea un producto. NotFound si la categoría no existe; Conflict si el barcode ya está en uso.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = validate.Clean(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.UnitMeasure = strings.TrimSpace(in.UnitMeasure)
	in.Barcode = normalizeBarcode(in.Barcode)

	verr := validate.Struct(in)
	checkPrice(verr, "price", in.Price)
	checkCost(verr, "cost", in.Cost)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := uc.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if err := uc.requireFreeBarcode(ctx, in.Barcode, ""); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		Stock:       in.Stock,
		Barcode:     in.Barcode,
		UnitMeasure: in.UnitMeasure,
		ImageBase64: in.ImageBase64,
		ImageURL:    in.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.storeImage(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("name", p.Name).Int("stock", p.Stock).Msg("producto creado")
	return toProductResponse(p), nil
}

// GetByID obtiene un producto (activo o no). Un id mal formado se trata como inexistente.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos con filtros AND-eados, ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	page := q.Page()
	filter := repository.ProductFilter{
		Offset:     page.Skip,
		Limit:      page.Limit,
		Search:     validate.Clean(q.Search),
		CategoryID: strings.TrimSpace(q.CategoryID),
	}

	verr := domain.NewValidationError()
	switch strings.ToLower(strings.TrimSpace(q.IsActive)) {
	case "", "true", "1":
		active := true
		filter.IsActive = &active
	case "false", "0":
		inactive := false
		filter.IsActive = &inactive
	case "all":
	default:
		verr.Add("is_active", "debe ser true, false o all")
	}
	if filter.CategoryID != "" {
		if _, err := uuid.Parse(filter.CategoryID); err != nil {
			verr.Add("category_id", "debe ser un identificador válido")
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}, nil
}

// Update aplica solo los campos presentes en la petición. Los campos ausentes no se
// escriben: en particular el stock descontado por ventas concurrentes se conserva.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	in.Name = validate.CleanPtr(in.Name)
	in.CategoryID = validate.CleanPtr(in.CategoryID)
	verr := validate.Struct(in)
	if in.Name != nil && *in.Name == "" {
		verr.Add("name", "es obligatorio")
	}
	if in.Price != nil {
		checkPrice(verr, "price", *in.Price)
	}
	if in.Cost != nil {
		checkCost(verr, "cost", *in.Cost)
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}

	patch := repository.ProductPatch{
		Name:      in.Name,
		Price:     in.Price,
		Cost:      in.Cost,
		Stock:     in.Stock,
		IsActive:  in.IsActive,
		UpdatedAt: uc.clock.Now(),
	}
	if in.Description != nil {
		patch.Description = trimmed(*in.Description)
	}
	if in.UnitMeasure != nil {
		patch.UnitMeasure = trimmed(*in.UnitMeasure)
	}
	if in.ImageURL != nil {
		patch.ImageURL = trimmed(*in.ImageURL)
	}
	if in.Barcode != nil {
		patch.SetBarcode = true
		patch.Barcode = normalizeBarcode(in.Barcode)
		if err := uc.requireFreeBarcode(ctx, patch.Barcode, id); err != nil {
			return nil, err
		}
	}
	if in.CategoryID != nil {
		if err := uc.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		patch.CategoryID = in.CategoryID
	}
	if in.ImageBase64 != nil {
		img := &entity.Product{ID: id, ImageBase64: *in.ImageBase64}
		if err := uc.storeImage(ctx, img); err != nil {
			return nil, err
		}
		patch.ImageBase64 = &img.ImageBase64
		if img.ImageURL != "" {
			patch.ImageURL = &img.ImageURL
		}
	}

	p, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Deactivate marca el producto como inactivo. Idempotente; NotFound si no existe.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	ok, err := uc.repo.Deactivate(ctx, id, uc.clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	uc.log.Info().Str("product_id", id).Msg("producto desactivado")
	return nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func (uc *ProductUseCase) requireCategory(ctx context.Context, id string) error {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return nil
}

// requireFreeBarcode verifica que ningún otro producto (activo o no) use el barcode.
func (uc *ProductUseCase) requireFreeBarcode(ctx context.Context, barcode *string, selfID string) error {
	if barcode == nil {
		return nil
	}
	other, err := uc.repo.GetByBarcode(ctx, *barcode)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: el código de barras %q ya está en uso", domain.ErrConflict, *barcode)
	}
	return nil
}

// storeImage sube la imagen base64 al ImageStore si está configurado y deja solo la URL.
func (uc *ProductUseCase) storeImage(ctx context.Context, p *entity.Product) error {
	if uc.images == nil || p.ImageBase64 == "" {
		return nil
	}
	data, err := decodeImage(p.ImageBase64)
	if err != nil {
		verr := domain.NewValidationError()
		verr.Add("image_base64", "no es base64 válido")
		return verr
	}
	contentType := http.DetectContentType(data)
	key := fmt.Sprintf("products/%s/%s%s", p.ID, uuid.New().String(), extensionFor(contentType))
	url, err := uc.images.Put(ctx, key, data, contentType)
	if err != nil {
		return fmt.Errorf("subir imagen de producto: %w", err)
	}
	p.ImageURL = url
	p.ImageBase64 = ""
	return nil
}

// decodeImage acepta base64 plano o data URL ("data:image/png;base64,...").
func decodeImage(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}

func trimmed(s string) *string {
	v := strings.TrimSpace(s)
	return &v
}

func normalizeBarcode(b *string) *string {
	if b == nil {
		return nil
	}
	v := strings.TrimSpace(*b)
	if v == "" {
		return nil
	}
	return &v
}

func checkPrice(verr *domain.ValidationError, field string, d decimal.Decimal) {
	if !d.IsPositive() {
		verr.Add(field, "debe ser mayor que 0")
	}
	checkCents(verr, field, d)
}

func checkCost(verr *domain.ValidationError, field string, d decimal.Decimal) {
	if d.IsNegative() {
		verr.Add(field, "debe ser mayor o igual a 0")
	}
	checkCents(verr, field, d)
}

// checkCents los montos se guardan con 2 decimales y deben caber en NUMERIC(14,2).
func checkCents(verr *domain.ValidationError, field string, d decimal.Decimal) {
	if !d.Equal(d.Round(2)) {
		verr.Add(field, "admite máximo 2 decimales")
	}
	if !entity.AmountInRange(d) {
		verr.Add(field, "excede el máximo permitido")
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		Stock:       p.Stock,
		Barcode:     p.Barcode,
		UnitMeasure: p.UnitMeasure,
		ImageURL:    p.ImageURL,
		ImageBase64: p.ImageBase64,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
