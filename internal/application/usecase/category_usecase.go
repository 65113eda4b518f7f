package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/application/validate"
	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
	"github.com/jhoicas/paws-pos/pkg/clock"
)

// CategoryUseCase alta y listado de categorías (no hay edición ni borrado).
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	clock clock.Clock
	log   zerolog.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, clk clock.Clock, log zerolog.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, clock: clk, log: log.With().Str("component", "catalog").Logger()}
}

// Create crea una categoría. ErrConflict si el nombre (normalizado) ya existe.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	in.Name = validate.Clean(in.Name)
	in.Description = validate.Clean(in.Description)
	if err := validate.Struct(in).Err(); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la categoría %q ya existe", domain.ErrConflict, in.Name)
	}
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   uc.clock.Now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("category_id", c.ID).Str("name", c.Name).Msg("categoría creada")
	return toCategoryResponse(c), nil
}

// List devuelve todas las categorías ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
