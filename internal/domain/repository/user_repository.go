package repository

import (
	"context"

	"github.com/jhoicas/paws-pos/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) cuando el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListByIDs carga en lote los usuarios indicados (para hidratar ventas).
	ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
}
