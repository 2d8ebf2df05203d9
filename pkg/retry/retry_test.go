package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisas-salud/sisas-api/pkg/retry"
)

var errLocked = errors.New("database is locked")

func always(error) bool { return true }

// strategy con Sleep instrumentado que registra las esperas solicitadas.
func recorded(maxAttempts int, delays *[]time.Duration) retry.Strategy {
	return retry.Strategy{
		MaxAttempts: maxAttempts,
		BaseDelay:   100 * time.Millisecond,
		Sleep: func(_ context.Context, d time.Duration) error {
			*delays = append(*delays, d)
			return nil
		},
	}
}

func TestDo_ExitoInmediatoSinEsperas(t *testing.T) {
	var delays []time.Duration
	s := recorded(5, &delays)

	err := s.Do(context.Background(), always, func() error { return nil })
	require.NoError(t, err)
	assert.Empty(t, delays)
}

func TestDo_BackoffLinealTrasCadaFallo(t *testing.T) {
	var delays []time.Duration
	s := recorded(5, &delays)

	calls := 0
	err := s.Do(context.Background(), always, func() error {
		calls++
		if calls < 3 {
			return errLocked
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	// 100ms tras el primer fallo, 200ms tras el segundo
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, delays)
}

func TestDo_ErrorNoTransitorioNoSeReintenta(t *testing.T) {
	var delays []time.Duration
	s := recorded(5, &delays)
	errNegocio := errors.New("stock insuficiente")

	calls := 0
	err := s.Do(context.Background(),
		func(err error) bool { return errors.Is(err, errLocked) },
		func() error { calls++; return errNegocio },
	)
	assert.ErrorIs(t, err, errNegocio)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestDo_AgotamientoDevuelveErrExhausted(t *testing.T) {
	var delays []time.Duration
	s := recorded(5, &delays)

	calls := 0
	err := s.Do(context.Background(), always, func() error { calls++; return errLocked })
	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.Equal(t, 5, calls)
	// se espera también tras el último intento fallido (conducta heredada)
	assert.Len(t, delays, 5)
	assert.Equal(t, 500*time.Millisecond, delays[4])
}

func TestDo_ContextoCanceladoCortaLaEspera(t *testing.T) {
	s := retry.Strategy{MaxAttempts: 5, BaseDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Do(ctx, always, func() error { return errLocked })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefault_Parametros(t *testing.T) {
	s := retry.Default()
	assert.Equal(t, 5, s.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, s.BaseDelay)
}
