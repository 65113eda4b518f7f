// Package clock abstrae la hora actual en la zona horaria configurada del negocio.
// Todas las marcas de tiempo y los límites de "hoy" se calculan con un Clock inyectado.
package clock

import (
	"time"
	_ "time/tzdata"
)

// Clock devuelve la hora actual en una zona horaria fija.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// New devuelve un reloj de sistema en la zona loc (UTC si es nil).
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c systemClock) Location() *time.Location { return c.loc }

// Fixed reloj detenido, útil en tests. Set permite avanzarlo.
type Fixed struct {
	T time.Time
}

// NewFixed crea un reloj fijo en t.
func NewFixed(t time.Time) *Fixed { return &Fixed{T: t} }

func (f *Fixed) Now() time.Time           { return f.T }
func (f *Fixed) Location() *time.Location { return f.T.Location() }

// Set mueve el reloj a t.
func (f *Fixed) Set(t time.Time) { f.T = t }

// DayBounds devuelve el día calendario local de t: 00:00:00.000 – 23:59:59.999999999.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
