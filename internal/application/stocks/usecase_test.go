package stocks_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/application/stocks"
	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/pkg/retry"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	rows     map[string]*entity.MunicipalityStock
	busyLeft int
	upserts  int
}

func key(municipalityID, materialID int64) string {
	return fmt.Sprintf("%d:%d", municipalityID, materialID)
}

func (r *fakeStockRepo) Upsert(row *entity.MunicipalityStock) (bool, error) {
	r.upserts++
	if r.busyLeft > 0 {
		r.busyLeft--
		return false, fmt.Errorf("lock: %w", domain.ErrStoreBusy)
	}
	k := key(row.MunicipalityID, row.MaterialID)
	if existing, ok := r.rows[k]; ok {
		existing.Stock = row.Stock
		row.ID = existing.ID
		return false, nil
	}
	row.ID = int64(len(r.rows) + 1)
	cp := *row
	r.rows[k] = &cp
	return true, nil
}

func (r *fakeStockRepo) Get(municipalityID, materialID int64) (*entity.MunicipalityStock, error) {
	return r.rows[key(municipalityID, materialID)], nil
}
func (r *fakeStockRepo) GetForUpdate(int64, int64) (*entity.MunicipalityStock, error) {
	return nil, nil
}
func (r *fakeStockRepo) UpdateStock(int64, int64) error         { return nil }
func (r *fakeStockRepo) SumByMaterial(int64) (int64, error)     { return 0, nil }
func (r *fakeStockRepo) SumByMunicipality(int64) (int64, error) { return 0, nil }
func (r *fakeStockRepo) ListByMunicipality(int64) ([]*entity.MunicipalityStock, error) {
	return nil, nil
}
func (r *fakeStockRepo) EnsureRows(int64) error                             { return nil }
func (r *fakeStockRepo) List(int, int) ([]*entity.MunicipalityStock, error) { return nil, nil }
func (r *fakeStockRepo) Summary() (map[int64]int64, error)                  { return nil, nil }

type fakeMaterialRepo struct{ materials map[int64]*entity.Material }

func (r *fakeMaterialRepo) Create(*entity.Material) error { return nil }
func (r *fakeMaterialRepo) GetByID(id int64) (*entity.Material, error) {
	return r.materials[id], nil
}
func (r *fakeMaterialRepo) GetForUpdate(id int64) (*entity.Material, error) {
	return r.materials[id], nil
}
func (r *fakeMaterialRepo) Update(*entity.Material) error                     { return nil }
func (r *fakeMaterialRepo) UpdatePhysicalStock(int64, int64) error            { return nil }
func (r *fakeMaterialRepo) List(string, int, int) ([]*entity.Material, error) { return nil, nil }
func (r *fakeMaterialRepo) Delete(int64) error                                { return nil }

type fakeMunicipalityRepo struct {
	municipalities map[int64]*entity.Municipality
}

func (r *fakeMunicipalityRepo) Create(*entity.Municipality) error { return nil }
func (r *fakeMunicipalityRepo) GetByID(id int64) (*entity.Municipality, error) {
	return r.municipalities[id], nil
}
func (r *fakeMunicipalityRepo) GetByNameFold(string) (*entity.Municipality, error) { return nil, nil }
func (r *fakeMunicipalityRepo) List() ([]*entity.Municipality, error)              { return nil, nil }
func (r *fakeMunicipalityRepo) Update(*entity.Municipality) error                  { return nil }
func (r *fakeMunicipalityRepo) Delete(int64) error                                 { return nil }

func setup() (*stocks.SetStockUseCase, *fakeStockRepo) {
	stockRepo := &fakeStockRepo{rows: map[string]*entity.MunicipalityStock{}}
	materialRepo := &fakeMaterialRepo{materials: map[int64]*entity.Material{
		1: {ID: 1, Code: "MAT-001", Name: "Guantes de látex"},
	}}
	municipalityRepo := &fakeMunicipalityRepo{municipalities: map[int64]*entity.Municipality{
		1: {ID: 1, Name: "Sololá"},
	}}
	uc := stocks.NewSetStockUseCase(stockRepo, materialRepo, municipalityRepo, zerolog.Nop()).
		WithRetryStrategy(retry.Strategy{
			MaxAttempts: 5,
			BaseDelay:   time.Millisecond,
			Sleep:       func(context.Context, time.Duration) error { return nil },
		})
	return uc, stockRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestSet_CreaFila(t *testing.T) {
	uc, repo := setup()

	row, created, err := uc.Set(context.Background(), dto.SetStockRequest{
		MunicipalityID: 1, MaterialID: 1, Stock: 25,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(25), row.Stock)
	assert.Equal(t, int64(25), repo.rows[key(1, 1)].Stock)
}

func TestSet_ActualizaFilaExistente(t *testing.T) {
	uc, repo := setup()
	repo.rows[key(1, 1)] = &entity.MunicipalityStock{ID: 9, MunicipalityID: 1, MaterialID: 1, Stock: 5}

	row, created, err := uc.Set(context.Background(), dto.SetStockRequest{
		MunicipalityID: 1, MaterialID: 1, Stock: "40",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(40), row.Stock)
	assert.Equal(t, int64(40), repo.rows[key(1, 1)].Stock)
}

func TestSet_NegativoSeFijaEnCero(t *testing.T) {
	uc, repo := setup()

	row, _, err := uc.Set(context.Background(), dto.SetStockRequest{
		MunicipalityID: 1, MaterialID: 1, Stock: -5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.Stock, "un valor negativo se acepta pero se fija en 0")
	assert.Equal(t, int64(0), repo.rows[key(1, 1)].Stock)
}

func TestSet_ReferenciasInvalidas(t *testing.T) {
	uc, _ := setup()

	_, _, err := uc.Set(context.Background(), dto.SetStockRequest{
		MunicipalityID: 42, MaterialID: 1, Stock: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, _, err = uc.Set(context.Background(), dto.SetStockRequest{
		MunicipalityID: 1, MaterialID: 42, Stock: 5,
	})
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)

	_, _, err = uc.Set(context.Background(), dto.SetStockRequest{
		MunicipalityID: "x", MaterialID: 1, Stock: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, _, err = uc.Set(context.Background(), dto.SetStockRequest{
		MunicipalityID: 1, MaterialID: 1, Stock: "abc",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSet_ReintentaContencion(t *testing.T) {
	uc, repo := setup()
	repo.busyLeft = 2

	_, created, err := uc.Set(context.Background(), dto.SetStockRequest{
		MunicipalityID: 1, MaterialID: 1, Stock: 10,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 3, repo.upserts)
}

func TestSet_ContencionPersistente(t *testing.T) {
	uc, repo := setup()
	repo.busyLeft = 100

	_, _, err := uc.Set(context.Background(), dto.SetStockRequest{
		MunicipalityID: 1, MaterialID: 1, Stock: 10,
	})
	assert.ErrorIs(t, err, domain.ErrServiceBusy)
	assert.Equal(t, 5, repo.upserts)
}
