package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// El libro es solo-inserción; no expone Update ni Delete.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementSelect = `
	SELECT mv.id, mv.batch_id, mv.movement_type, mv.material_id, mv.municipality_id,
	       mv.user_id, mv.quantity, mv.notes, mv.created_at,
	       ma.material_name, ma.code, ma.category,
	       COALESCE(mu.municipality_name, ''), COALESCE(u.user_name, '')
	FROM movements mv
	JOIN materials ma ON ma.id = mv.material_id
	LEFT JOIN municipalities mu ON mu.id = mv.municipality_id
	LEFT JOIN users u ON u.id = mv.user_id`

// Create inserta un movimiento en el libro. Se invoca dentro de la transacción
// que también actualiza los stocks derivados.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (batch_id, movement_type, material_id, municipality_id, user_id, quantity, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		movement.BatchID, movement.Type, movement.MaterialID, movement.MunicipalityID,
		movement.UserID, movement.Quantity, movement.Notes, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		return markBusy(fmt.Errorf("insert movement: %w", err))
	}
	return nil
}

func (r *MovementRepo) GetByID(id int64) (*entity.Movement, error) {
	query := movementSelect + ` WHERE mv.id = $1`
	var m entity.Movement
	err := r.q.QueryRow(context.Background(), query, id).Scan(scanTargets(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

func (r *MovementRepo) GetByIDs(ids []int64) ([]*entity.Movement, error) {
	query := movementSelect + ` WHERE mv.id = ANY($1) ORDER BY mv.created_at`
	return r.scanMany(query, ids)
}

// List ordena por created_at descendente.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := movementSelect
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.MunicipalityID != nil {
		add("mv.municipality_id = $%d", *filter.MunicipalityID)
	}
	if filter.MaterialID != nil {
		add("mv.material_id = $%d", *filter.MaterialID)
	}
	if filter.From != nil {
		add("mv.created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("mv.created_at <= $%d", *filter.To)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += fmt.Sprintf(" ORDER BY mv.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)
	return r.scanMany(query, args...)
}

// NetQuantityAfter devuelve Σ ingreso − Σ egreso con created_at posterior al corte.
func (r *MovementRepo) NetQuantityAfter(materialID int64, cutoff time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN movement_type = 'ingreso' THEN quantity ELSE -quantity END), 0)
		FROM movements
		WHERE material_id = $1 AND created_at > $2`
	var net int64
	err := r.q.QueryRow(context.Background(), query, materialID, cutoff).Scan(&net)
	if err != nil {
		return 0, fmt.Errorf("net quantity: %w", err)
	}
	return net, nil
}

func (r *MovementRepo) SumByTypeInRange(movementType string, from, to time.Time, municipalityID *int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM movements
		WHERE movement_type = $1 AND created_at >= $2 AND created_at <= $3`
	args := []any{movementType, from, to}
	if municipalityID != nil {
		query += ` AND municipality_id = $4`
		args = append(args, *municipalityID)
	}
	var total int64
	err := r.q.QueryRow(context.Background(), query, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return total, nil
}

// MonthlySeries agrega cantidades por mes y tipo, orden cronológico.
func (r *MovementRepo) MonthlySeries(municipalityID *int64) ([]entity.MonthlyFlow, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month,
		       COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'ingreso'), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'egreso'), 0)
		FROM movements`
	var args []any
	if municipalityID != nil {
		query += ` WHERE municipality_id = $1`
		args = append(args, *municipalityID)
	}
	query += ` GROUP BY month ORDER BY month`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	defer rows.Close()
	var series []entity.MonthlyFlow
	for rows.Next() {
		var f entity.MonthlyFlow
		if err := rows.Scan(&f.Month, &f.Ingreso, &f.Egreso); err != nil {
			return nil, fmt.Errorf("scan serie: %w", err)
		}
		series = append(series, f)
	}
	return series, rows.Err()
}

func (r *MovementRepo) ListByMunicipalityMonth(municipalityID int64, year int, month time.Month) ([]*entity.Movement, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	query := movementSelect + `
		WHERE mv.municipality_id = $1 AND mv.created_at >= $2 AND mv.created_at < $3
		ORDER BY mv.created_at`
	return r.scanMany(query, municipalityID, from, to)
}

func scanTargets(m *entity.Movement) []any {
	return []any{
		&m.ID, &m.BatchID, &m.Type, &m.MaterialID, &m.MunicipalityID,
		&m.UserID, &m.Quantity, &m.Notes, &m.CreatedAt,
		&m.MaterialName, &m.MaterialCode, &m.MaterialCategory,
		&m.MunicipalityName, &m.UserName,
	}
}

func (r *MovementRepo) scanMany(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(scanTargets(&m)...); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
