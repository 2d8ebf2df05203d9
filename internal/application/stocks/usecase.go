// Package stocks implementa la corrección directa de stock por municipio.
// A diferencia del motor de movimientos, este camino NO escribe en el libro:
// es una herramienta administrativa de ajuste, no un evento del ledger.
package stocks

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
	"github.com/sisas-salud/sisas-api/pkg/retry"
)

// SetStockUseCase upsert transaccional de una fila de MunicipalityStock.
type SetStockUseCase struct {
	stockRepo        repository.MunicipalityStockRepository
	materialRepo     repository.MaterialRepository
	municipalityRepo repository.MunicipalityRepository
	log              zerolog.Logger
	retry            retry.Strategy
}

// NewSetStockUseCase construye el caso de uso.
func NewSetStockUseCase(
	stockRepo repository.MunicipalityStockRepository,
	materialRepo repository.MaterialRepository,
	municipalityRepo repository.MunicipalityRepository,
	log zerolog.Logger,
) *SetStockUseCase {
	return &SetStockUseCase{
		stockRepo:        stockRepo,
		materialRepo:     materialRepo,
		municipalityRepo: municipalityRepo,
		log:              log,
		retry:            retry.Default(),
	}
}

// WithRetryStrategy reemplaza la estrategia de reintentos (tests).
func (uc *SetStockUseCase) WithRetryStrategy(s retry.Strategy) *SetStockUseCase {
	uc.retry = s
	return uc
}

// Set valida municipio y material, y hace upsert del stock. Un valor negativo
// se fija en 0 en lugar de rechazarse (comportamiento permisivo deliberado).
// Devuelve la fila y si fue creada.
func (uc *SetStockUseCase) Set(ctx context.Context, in dto.SetStockRequest) (*entity.MunicipalityStock, bool, error) {
	municipalityID, err := parseID(in.MunicipalityID)
	if err != nil {
		return nil, false, domain.ErrInvalidReference
	}
	materialID, err := parseID(in.MaterialID)
	if err != nil {
		return nil, false, domain.ErrInvalidReference
	}
	stockValue, err := parseStock(in.Stock)
	if err != nil {
		return nil, false, domain.ErrInvalidInput
	}

	municipality, err := uc.municipalityRepo.GetByID(municipalityID)
	if err != nil {
		return nil, false, err
	}
	if municipality == nil {
		return nil, false, domain.ErrInvalidReference
	}
	material, err := uc.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, false, err
	}
	if material == nil {
		return nil, false, domain.ErrMaterialNotFound
	}

	if stockValue < 0 {
		stockValue = 0
	}

	row := &entity.MunicipalityStock{
		MunicipalityID:   municipalityID,
		MaterialID:       materialID,
		Stock:            stockValue,
		UpdatedAt:        time.Now(),
		MunicipalityName: municipality.Name,
		MaterialName:     material.Name,
	}

	var created bool
	err = uc.retry.Do(ctx,
		func(err error) bool { return errors.Is(err, domain.ErrStoreBusy) },
		func() error {
			var err error
			created, err = uc.stockRepo.Upsert(row)
			return err
		},
	)
	if errors.Is(err, retry.ErrExhausted) {
		return nil, false, domain.ErrServiceBusy
	}
	if err != nil {
		return nil, false, err
	}

	// El ajuste directo no deja rastro en el libro de movimientos; se registra
	// en el log para que al menos quede trazabilidad operativa.
	uc.log.Warn().
		Int64("municipality_id", municipalityID).
		Int64("material_id", materialID).
		Int64("stock", stockValue).
		Msg("stock fijado directamente sin movimiento")

	return row, created, nil
}

func parseID(v any) (int64, error) {
	n, err := parseInt(v)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidReference
	}
	return n, nil
}

// parseStock acepta negativos: el caller los fija en 0.
func parseStock(v any) (int64, error) {
	return parseInt(v)
}

func parseInt(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, domain.ErrInvalidInput
	case float64:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, domain.ErrInvalidInput
		}
		if out, err := strconv.ParseInt(s, 10, 64); err == nil {
			return out, nil
		}
		// "12.0" llega como string desde algunos formularios
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, domain.ErrInvalidInput
		}
		return int64(f), nil
	default:
		return 0, domain.ErrInvalidInput
	}
}
