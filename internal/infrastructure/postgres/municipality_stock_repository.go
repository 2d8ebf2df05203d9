package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

var _ repository.MunicipalityStockRepository = (*MunicipalityStockRepo)(nil)

// MunicipalityStockRepo implementación de MunicipalityStockRepository sobre PostgreSQL.
type MunicipalityStockRepo struct {
	q Querier
}

func NewMunicipalityStockRepository(q Querier) *MunicipalityStockRepo {
	return &MunicipalityStockRepo{q: q}
}

const stockSelect = `
	SELECT ms.id, ms.municipality_id, ms.material_id, ms.stock, ms.updated_at,
	       mu.municipality_name, ma.material_name
	FROM municipality_stocks ms
	JOIN municipalities mu ON mu.id = ms.municipality_id
	JOIN materials ma ON ma.id = ms.material_id`

func (r *MunicipalityStockRepo) Get(municipalityID, materialID int64) (*entity.MunicipalityStock, error) {
	query := stockSelect + ` WHERE ms.municipality_id = $1 AND ms.material_id = $2`
	s, err := r.scanOne(query, municipalityID, materialID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetForUpdate bloquea la fila de stock (FOR UPDATE NOWAIT). Si no existe la
// crea con stock 0 y la bloquea; la contención se marca como ErrStoreBusy.
func (r *MunicipalityStockRepo) GetForUpdate(municipalityID, materialID int64) (*entity.MunicipalityStock, error) {
	// FOR UPDATE no admite el JOIN de presentación; se bloquea la fila desnuda.
	query := `
		SELECT id, municipality_id, material_id, stock, updated_at
		FROM municipality_stocks
		WHERE municipality_id = $1 AND material_id = $2
		FOR UPDATE NOWAIT`
	var s entity.MunicipalityStock
	err := r.q.QueryRow(context.Background(), query, municipalityID, materialID).Scan(
		&s.ID, &s.MunicipalityID, &s.MaterialID, &s.Stock, &s.UpdatedAt,
	)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, markBusy(fmt.Errorf("lock stock: %w", err))
	}

	insert := `
		INSERT INTO municipality_stocks (municipality_id, material_id, stock, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (municipality_id, material_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, municipalityID, materialID); err != nil {
		return nil, markBusy(fmt.Errorf("init stock: %w", err))
	}
	err = r.q.QueryRow(context.Background(), query, municipalityID, materialID).Scan(
		&s.ID, &s.MunicipalityID, &s.MaterialID, &s.Stock, &s.UpdatedAt,
	)
	if err != nil {
		return nil, markBusy(fmt.Errorf("lock stock: %w", err))
	}
	return &s, nil
}

// Upsert inserta o actualiza el stock de la pareja municipio+material.
// Devuelve true cuando la fila fue creada.
func (r *MunicipalityStockRepo) Upsert(stock *entity.MunicipalityStock) (bool, error) {
	query := `
		INSERT INTO municipality_stocks (municipality_id, material_id, stock, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (municipality_id, material_id)
		DO UPDATE SET stock = EXCLUDED.stock, updated_at = now()
		RETURNING id, updated_at, (xmax = 0) AS created`
	var created bool
	err := r.q.QueryRow(context.Background(), query,
		stock.MunicipalityID, stock.MaterialID, stock.Stock,
	).Scan(&stock.ID, &stock.UpdatedAt, &created)
	if err != nil {
		return false, markBusy(fmt.Errorf("upsert stock: %w", err))
	}
	return created, nil
}

func (r *MunicipalityStockRepo) UpdateStock(id int64, stock int64) error {
	query := `UPDATE municipality_stocks SET stock = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, stock)
	if err != nil {
		return markBusy(fmt.Errorf("update stock: %w", err))
	}
	return nil
}

// SumByMaterial re-suma el stock de todos los municipios para un material.
func (r *MunicipalityStockRepo) SumByMaterial(materialID int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(stock), 0) FROM municipality_stocks WHERE material_id = $1`,
		materialID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stock by material: %w", err)
	}
	return total, nil
}

func (r *MunicipalityStockRepo) SumByMunicipality(municipalityID int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(stock), 0) FROM municipality_stocks WHERE municipality_id = $1`,
		municipalityID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stock by municipality: %w", err)
	}
	return total, nil
}

func (r *MunicipalityStockRepo) ListByMunicipality(municipalityID int64) ([]*entity.MunicipalityStock, error) {
	query := stockSelect + ` WHERE ms.municipality_id = $1 ORDER BY ma.material_name`
	return r.scanMany(query, municipalityID)
}

// EnsureRows crea filas con stock 0 para los materiales que el municipio aún no tiene.
func (r *MunicipalityStockRepo) EnsureRows(municipalityID int64) error {
	query := `
		INSERT INTO municipality_stocks (municipality_id, material_id, stock, updated_at)
		SELECT $1, m.id, 0, now()
		FROM materials m
		ON CONFLICT (municipality_id, material_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), query, municipalityID); err != nil {
		return fmt.Errorf("ensure stock rows: %w", err)
	}
	return nil
}

func (r *MunicipalityStockRepo) List(limit, offset int) ([]*entity.MunicipalityStock, error) {
	query := stockSelect + ` ORDER BY mu.municipality_name, ma.material_name LIMIT $1 OFFSET $2`
	return r.scanMany(query, limit, offset)
}

// Summary devuelve el total de stock por material.
func (r *MunicipalityStockRepo) Summary() (map[int64]int64, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT material_id, COALESCE(SUM(stock), 0) FROM municipality_stocks GROUP BY material_id`)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	defer rows.Close()
	totals := make(map[int64]int64)
	for rows.Next() {
		var materialID, total int64
		if err := rows.Scan(&materialID, &total); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		totals[materialID] = total
	}
	return totals, rows.Err()
}

func (r *MunicipalityStockRepo) scanOne(query string, args ...any) (*entity.MunicipalityStock, error) {
	var s entity.MunicipalityStock
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.MunicipalityID, &s.MaterialID, &s.Stock, &s.UpdatedAt,
		&s.MunicipalityName, &s.MaterialName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

func (r *MunicipalityStockRepo) scanMany(query string, args ...any) ([]*entity.MunicipalityStock, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	var list []*entity.MunicipalityStock
	for rows.Next() {
		var s entity.MunicipalityStock
		if err := rows.Scan(&s.ID, &s.MunicipalityID, &s.MaterialID, &s.Stock, &s.UpdatedAt,
			&s.MunicipalityName, &s.MaterialName); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
