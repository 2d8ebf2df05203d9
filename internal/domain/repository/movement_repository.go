package repository

import (
	"time"

	"github.com/sisas-salud/sisas-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	MunicipalityID *int64
	MaterialID     *int64
	From           *time.Time
	To             *time.Time
	Limit          int
	Offset         int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es solo-inserción: no hay Update ni Delete de negocio.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id int64) (*entity.Movement, error)
	GetByIDs(ids []int64) ([]*entity.Movement, error)
	// List ordena por created_at descendente (presentación).
	List(filter MovementFilter) ([]*entity.Movement, error)
	// NetQuantityAfter devuelve Σ ingreso − Σ egreso con created_at estrictamente
	// posterior al corte, para reconstruir niveles históricos de stock.
	NetQuantityAfter(materialID int64, cutoff time.Time) (int64, error)
	// SumByTypeInRange suma cantidades de un tipo en [from, to], opcionalmente por municipio.
	SumByTypeInRange(movementType string, from, to time.Time, municipalityID *int64) (int64, error)
	// MonthlySeries agrega cantidades por mes y tipo para las gráficas del dashboard.
	MonthlySeries(municipalityID *int64) ([]entity.MonthlyFlow, error)
	// ListByMunicipalityMonth lista los movimientos de un municipio en un mes calendario,
	// ordenados por created_at ascendente (agregación por ventana de tiempo).
	ListByMunicipalityMonth(municipalityID int64, year int, month time.Month) ([]*entity.Movement, error)
}
