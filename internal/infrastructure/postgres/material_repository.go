package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, category, code, material_name, physical_stock, monthly_demand_avg, months_of_supply, created_at, updated_at`

// Create persiste un material nuevo. Código duplicado devuelve ErrDuplicate.
func (r *MaterialRepo) Create(material *entity.Material) error {
	query := `
		INSERT INTO materials (category, code, material_name, physical_stock, monthly_demand_avg, months_of_supply, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		material.Category, material.Code, material.Name, material.PhysicalStock,
		material.MonthlyDemand, material.MonthsOfSupply, material.CreatedAt, material.UpdatedAt,
	).Scan(&material.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por id.
func (r *MaterialRepo) GetByID(id int64) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate obtiene el material bloqueando la fila (SELECT FOR UPDATE NOWAIT).
// Una fila ya bloqueada produce contención marcada como ErrStoreBusy.
func (r *MaterialRepo) GetForUpdate(id int64) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 FOR UPDATE NOWAIT`
	m, err := r.scanOne(query, id)
	if err != nil {
		return nil, markBusy(err)
	}
	return m, nil
}

func (r *MaterialRepo) scanOne(query string, args ...any) (*entity.Material, error) {
	var m entity.Material
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&m.ID, &m.Category, &m.Code, &m.Name, &m.PhysicalStock,
		&m.MonthlyDemand, &m.MonthsOfSupply, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}

// Update actualiza los campos de catálogo.
func (r *MaterialRepo) Update(material *entity.Material) error {
	query := `
		UPDATE materials
		SET category = $2, code = $3, material_name = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		material.ID, material.Category, material.Code, material.Name, material.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

// UpdatePhysicalStock fija el agregado denormalizado tras el re-SUM del motor.
func (r *MaterialRepo) UpdatePhysicalStock(id int64, total int64) error {
	query := `UPDATE materials SET physical_stock = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, total)
	if err != nil {
		return fmt.Errorf("update physical stock: %w", err)
	}
	return nil
}

// List lista materiales ordenados por nombre, con búsqueda opcional por código o nombre.
func (r *MaterialRepo) List(search string, limit, offset int) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials`
	args := []any{}
	if search != "" {
		query += ` WHERE code ILIKE $1 OR material_name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += fmt.Sprintf(" ORDER BY material_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.Category, &m.Code, &m.Name, &m.PhysicalStock,
			&m.MonthlyDemand, &m.MonthsOfSupply, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Delete elimina un material; sus filas de stock caen en cascada.
func (r *MaterialRepo) Delete(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}
