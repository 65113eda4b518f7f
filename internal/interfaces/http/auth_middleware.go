package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
)

// LocalUser clave de c.Locals donde queda el usuario autenticado.
const LocalUser = "user"

// UserResolver valida un token y devuelve el usuario vigente. Lo implementa *auth.AuthUseCase.
type UserResolver interface {
	Resolve(ctx context.Context, token string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token y carga el usuario actual en c.Locals.
// El rol y el estado salen del repositorio, no del token.
func AuthMiddleware(resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fmt.Errorf("%w: Authorization header requerido", domain.ErrUnauthorized)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fmt.Errorf("%w: formato: Bearer <token>", domain.ErrUnauthorized)
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return fmt.Errorf("%w: token vacío", domain.ErrUnauthorized)
		}
		user, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// GetUser devuelve el usuario autenticado o nil si la ruta no pasó por AuthMiddleware.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetUserID devuelve el ID del usuario autenticado.
func GetUserID(c *fiber.Ctx) string {
	if u := GetUser(c); u != nil {
		return u.ID
	}
	return ""
}

// GetRole devuelve el rol del usuario autenticado.
func GetRole(c *fiber.Ctx) string {
	if u := GetUser(c); u != nil {
		return u.Role
	}
	return ""
}

// RequireRole permite el paso solo a los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return fmt.Errorf("%w: usuario no autenticado", domain.ErrUnauthorized)
		}
		if _, ok := allowed[role]; !ok {
			return fmt.Errorf("%w: el rol %q no tiene permiso para esta operación", domain.ErrForbidden, role)
		}
		return c.Next()
	}
}
