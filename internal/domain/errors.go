package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrConflict          = errors.New("conflicto con un recurso existente")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInactiveUser      = errors.New("usuario inactivo")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError agrupa las violaciones por campo de una entrada. Unwrap devuelve ErrInvalidInput.
type ValidationError struct {
	Violations map[string]string
}

// NewValidationError crea un ValidationError vacío.
func NewValidationError() *ValidationError {
	return &ValidationError{Violations: make(map[string]string)}
}

// Add registra una violación; la primera por campo gana.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Violations[field]; ok {
		return
	}
	e.Violations[field] = message
}

// Empty indica si no hay violaciones.
func (e *ValidationError) Empty() bool { return e == nil || len(e.Violations) == 0 }

// Err devuelve nil si no hay violaciones (evita el nil tipado en interfaces error).
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Violations[f])
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StockError detalla qué línea de una venta excede el stock disponible.
type StockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s (disponible %d, solicitado %d)", e.ProductName, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
