package movements

import (
	"context"

	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// movimientos: o se persisten libro + stock + agregado, o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.MunicipalityStockRepository,
		materialRepo repository.MaterialRepository,
	) error) error
}
