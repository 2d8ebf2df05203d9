package postgres

import (
	"context"
	"fmt"

	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// CountMaterials cuenta materiales del catálogo; con municipio cuenta sus filas de stock.
func (r *AnalyticsRepo) CountMaterials(ctx context.Context, municipalityID *int64) (int64, error) {
	var count int64
	var err error
	if municipalityID == nil {
		err = r.q.QueryRow(ctx, `SELECT COUNT(*) FROM materials`).Scan(&count)
	} else {
		err = r.q.QueryRow(ctx,
			`SELECT COUNT(*) FROM municipality_stocks WHERE municipality_id = $1`,
			*municipalityID,
		).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count materials: %w", err)
	}
	return count, nil
}

// StockDistribution devuelve el stock total por municipio, de mayor a menor.
func (r *AnalyticsRepo) StockDistribution(ctx context.Context, municipalityID *int64) ([]entity.MunicipalityTotal, error) {
	query := `
		SELECT mu.municipality_name, COALESCE(SUM(ms.stock), 0) AS total
		FROM municipality_stocks ms
		JOIN municipalities mu ON mu.id = ms.municipality_id`
	var args []any
	if municipalityID != nil {
		query += ` WHERE ms.municipality_id = $1`
		args = append(args, *municipalityID)
	}
	query += ` GROUP BY mu.municipality_name ORDER BY total DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stock distribution: %w", err)
	}
	defer rows.Close()
	var dist []entity.MunicipalityTotal
	for rows.Next() {
		var t entity.MunicipalityTotal
		if err := rows.Scan(&t.Municipality, &t.Total); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		dist = append(dist, t)
	}
	return dist, rows.Err()
}
