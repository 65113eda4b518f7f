package sales_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/paws-pos/internal/application/sales"
	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/pkg/clock"
)

func TestResolveWindow_Today(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 3, 10, 21, 0, 0, 0, bogota))
	w, err := sales.ResolveWindow(clk, "2020-01-01", "", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, bogota), *w.From)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 999999999, bogota), *w.To)
}

func TestResolveWindow_FechasSoloDia(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 3, 10, 21, 0, 0, 0, bogota))
	w, err := sales.ResolveWindow(clk, "2026-03-01", "2026-03-05", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, bogota), *w.From)
	assert.Equal(t, time.Date(2026, 3, 5, 23, 59, 59, 999999999, bogota), *w.To)
}

func TestResolveWindow_RFC3339(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 3, 10, 21, 0, 0, 0, bogota))
	w, err := sales.ResolveWindow(clk, "2026-03-01T05:00:00Z", "", false)
	require.NoError(t, err)
	assert.True(t, w.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, bogota)))
	assert.Nil(t, w.To)
}

func TestResolveWindow_Invalida(t *testing.T) {
	clk := clock.NewFixed(time.Now())
	_, err := sales.ResolveWindow(clk, "ayer", "mañana", false)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "start_date")
	assert.Contains(t, verr.Violations, "end_date")
}
