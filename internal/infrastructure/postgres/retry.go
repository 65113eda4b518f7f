package postgres

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy reintentos ante serialization failure (40001) o deadlock (40P01).
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryPolicy 3 reintentos con backoff exponencial desde 50ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: 50 * time.Millisecond}
}

// withRetry ejecuta op y la repite solo si el error es transitorio. Los errores de negocio
// (stock insuficiente, no encontrado, validación) se devuelven en el primer intento.
func withRetry(ctx context.Context, p RetryPolicy, log zerolog.Logger, op func() error) error {
	backoff := p.BaseDelay
	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt >= p.MaxRetries {
			return fmt.Errorf("máximo de reintentos (%d) agotado: %w", p.MaxRetries, err)
		}
		sleep := backoff
		if backoff > 0 {
			sleep += time.Duration(rand.Int64N(int64(backoff/4) + 1))
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Dur("backoff", sleep).Msg("conflicto de concurrencia, reintentando transacción")

		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
}
