package sales

import (
	"strings"
	"time"

	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/pkg/clock"
)

// Window intervalo inclusivo [From, To] de created_at; nil = sin límite.
type Window struct {
	From *time.Time
	To   *time.Time
}

const dateOnly = "2006-01-02"

// ResolveWindow interpreta start_date/end_date/today en la zona del reloj.
// today tiene prioridad y usa el día calendario local completo. Una fecha YYYY-MM-DD
// vale 00:00 como inicio y 23:59:59.999999999 como fin.
func ResolveWindow(clk clock.Clock, startDate, endDate string, today bool) (Window, error) {
	if today {
		start, end := clock.DayBounds(clk.Now())
		return Window{From: &start, To: &end}, nil
	}

	verr := domain.NewValidationError()
	var w Window
	if s := strings.TrimSpace(startDate); s != "" {
		t, dayOnly, err := parseDate(s, clk.Location())
		if err != nil {
			verr.Add("start_date", "debe ser RFC 3339 o YYYY-MM-DD")
		} else {
			if dayOnly {
				t, _ = clock.DayBounds(t)
			}
			w.From = &t
		}
	}
	if s := strings.TrimSpace(endDate); s != "" {
		t, dayOnly, err := parseDate(s, clk.Location())
		if err != nil {
			verr.Add("end_date", "debe ser RFC 3339 o YYYY-MM-DD")
		} else {
			if dayOnly {
				_, t = clock.DayBounds(t)
			}
			w.To = &t
		}
	}
	if err := verr.Err(); err != nil {
		return Window{}, err
	}
	return w, nil
}

func parseDate(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateOnly, s, loc); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), false, nil
	}
	// Fecha-hora sin zona: se interpreta en la hora local del negocio.
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, false, nil
}
