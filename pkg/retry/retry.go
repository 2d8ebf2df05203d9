// Package retry implementa reintentos con backoff lineal para contención
// transitoria de la base de datos. Cada invocación lleva su propio contador;
// no hay estado compartido entre llamadas.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted indica que se agotaron los intentos sin éxito.
var ErrExhausted = errors.New("reintentos agotados")

// Strategy plan de reintentos: hasta MaxAttempts intentos, esperando
// BaseDelay × número de intento tras cada fallo transitorio (0.1s, 0.2s, ...).
type Strategy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Sleep permite inyectar la espera en tests; nil usa un timer que respeta ctx.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default valores de producción: 5 intentos, base 100ms (~1.5s de espera total).
func Default() Strategy {
	return Strategy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond}
}

// Do ejecuta op hasta MaxAttempts veces. Solo reintenta errores para los que
// retryable devuelve true; cualquier otro error se propaga de inmediato sin
// reintento. Tras agotar los intentos devuelve ErrExhausted envolviendo el
// último error observado.
func (s Strategy) Do(ctx context.Context, retryable func(error) bool, op func() error) error {
	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	var last error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		last = err
		if err := sleep(ctx, time.Duration(attempt)*s.BaseDelay); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrExhausted, last)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
