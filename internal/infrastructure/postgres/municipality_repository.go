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

var _ repository.MunicipalityRepository = (*MunicipalityRepo)(nil)

// MunicipalityRepo implementación de MunicipalityRepository sobre PostgreSQL.
type MunicipalityRepo struct {
	q Querier
}

func NewMunicipalityRepository(q Querier) *MunicipalityRepo {
	return &MunicipalityRepo{q: q}
}

// Create persiste un municipio. Nombre duplicado devuelve ErrDuplicate.
func (r *MunicipalityRepo) Create(municipality *entity.Municipality) error {
	query := `INSERT INTO municipalities (municipality_name) VALUES ($1) RETURNING id`
	err := r.q.QueryRow(context.Background(), query, municipality.Name).Scan(&municipality.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert municipality: %w", err)
	}
	return nil
}

func (r *MunicipalityRepo) GetByID(id int64) (*entity.Municipality, error) {
	query := `SELECT id, municipality_name FROM municipalities WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByNameFold busca por nombre case-insensitive exacto (sin quitar acentos;
// eso lo hace la capa de aplicación sobre la lista completa).
func (r *MunicipalityRepo) GetByNameFold(name string) (*entity.Municipality, error) {
	query := `SELECT id, municipality_name FROM municipalities WHERE LOWER(municipality_name) = LOWER($1)`
	return r.scanOne(query, name)
}

func (r *MunicipalityRepo) scanOne(query string, args ...any) (*entity.Municipality, error) {
	var m entity.Municipality
	err := r.q.QueryRow(context.Background(), query, args...).Scan(&m.ID, &m.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get municipality: %w", err)
	}
	return &m, nil
}

func (r *MunicipalityRepo) List() ([]*entity.Municipality, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, municipality_name FROM municipalities ORDER BY municipality_name`)
	if err != nil {
		return nil, fmt.Errorf("list municipalities: %w", err)
	}
	defer rows.Close()
	var list []*entity.Municipality
	for rows.Next() {
		var m entity.Municipality
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan municipality: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *MunicipalityRepo) Update(municipality *entity.Municipality) error {
	query := `UPDATE municipalities SET municipality_name = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, municipality.ID, municipality.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update municipality: %w", err)
	}
	return nil
}

func (r *MunicipalityRepo) Delete(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM municipalities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete municipality: %w", err)
	}
	return nil
}
