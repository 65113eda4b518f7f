package entity

import "time"

// Category agrupa productos. No tiene actualización ni borrado: borrarla dejaría productos huérfanos.
type Category struct {
	ID          string
	Name        string // único
	Description string
	CreatedAt   time.Time
}
