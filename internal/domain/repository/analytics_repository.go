package repository

import (
	"context"

	"github.com/sisas-salud/sisas-api/internal/domain/entity"
)

// AnalyticsRepository consultas de solo lectura para el dashboard.
// No muta stock ni movimientos; tolera consistencia de lectura transaccional.
type AnalyticsRepository interface {
	// CountMaterials cuenta materiales; si municipalityID no es nil cuenta las
	// filas de stock de ese municipio (vista restringida de no-administradores).
	CountMaterials(ctx context.Context, municipalityID *int64) (int64, error)
	StockDistribution(ctx context.Context, municipalityID *int64) ([]entity.MunicipalityTotal, error)
}
