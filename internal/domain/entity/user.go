package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleManager = "manager"
)

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCashier, RoleManager:
		return true
	}
	return false
}

// User representa un usuario del punto de venta (cajero, administrador o gerente).
// Nunca se elimina físicamente; se desactiva con IsActive = false.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
