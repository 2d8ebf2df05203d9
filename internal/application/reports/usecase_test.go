package reports_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisas-salud/sisas-api/internal/application/reports"
	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

type fakeMovementRepo struct {
	byMonth map[string][]*entity.Movement
}

func (f *fakeMovementRepo) ListByMunicipalityMonth(municipalityID int64, year int, month time.Month) ([]*entity.Movement, error) {
	return f.byMonth[time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")], nil
}

func (f *fakeMovementRepo) Create(*entity.Movement) error                { return nil }
func (f *fakeMovementRepo) GetByID(int64) (*entity.Movement, error)      { return nil, nil }
func (f *fakeMovementRepo) GetByIDs([]int64) ([]*entity.Movement, error) { return nil, nil }
func (f *fakeMovementRepo) List(repository.MovementFilter) ([]*entity.Movement, error) {
	return nil, nil
}
func (f *fakeMovementRepo) NetQuantityAfter(int64, time.Time) (int64, error) { return 0, nil }
func (f *fakeMovementRepo) SumByTypeInRange(string, time.Time, time.Time, *int64) (int64, error) {
	return 0, nil
}
func (f *fakeMovementRepo) MonthlySeries(*int64) ([]entity.MonthlyFlow, error) { return nil, nil }

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

func TestParsePeriod(t *testing.T) {
	now := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)

	year, month, err := reports.ParsePeriod("2026-03", now)
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.March, month)

	// vacío usa el mes actual
	year, month, err = reports.ParsePeriod("", now)
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.August, month)

	_, _, err = reports.ParsePeriod("marzo-2026", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFormatPeriod(t *testing.T) {
	assert.Equal(t, "Agosto 2026", reports.FormatPeriod(2026, time.August))
	assert.Equal(t, "Enero 2025", reports.FormatPeriod(2025, time.January))
}

func TestMonthly_TotalesPorTipo(t *testing.T) {
	movRepo := &fakeMovementRepo{byMonth: map[string][]*entity.Movement{
		"2026-08": {
			{Type: entity.MovementTypeIngreso, Quantity: 100, MaterialCode: "MAT-001", MaterialName: "Guantes de látex", UserName: "Ana"},
			{Type: entity.MovementTypeEgreso, Quantity: 30, MaterialCode: "MAT-001", MaterialName: "Guantes de látex"},
			{Type: entity.MovementTypeEgreso, Quantity: 20, MaterialCode: "MAT-002", MaterialName: "Jeringas 5ml", UserName: "Ana"},
		},
	}}
	municipalityRepo := &fakeMunicipalityRepo{municipalities: map[int64]*entity.Municipality{
		1: {ID: 1, Name: "Sololá"},
	}}
	uc := reports.NewReportUseCase(movRepo, municipalityRepo, nil)

	report, err := uc.Monthly(1, 2026, time.August)
	require.NoError(t, err)

	assert.Equal(t, "Sololá", report.MunicipalityName)
	assert.Equal(t, "Agosto 2026", report.Period)
	require.Len(t, report.Items, 3)
	assert.Equal(t, int64(100), report.TotalIngresos)
	assert.Equal(t, int64(50), report.TotalEgresos)
	assert.Equal(t, int64(150), report.TotalQuantity)
	// movimientos sin usuario registrado se muestran con guion
	assert.Equal(t, "-", report.Items[1].User)
}

func TestMonthly_MunicipioInexistente(t *testing.T) {
	uc := reports.NewReportUseCase(
		&fakeMovementRepo{},
		&fakeMunicipalityRepo{municipalities: map[int64]*entity.Municipality{}},
		nil,
	)
	_, err := uc.Monthly(42, 2026, time.August)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestMonthly_MesSinMovimientos(t *testing.T) {
	uc := reports.NewReportUseCase(
		&fakeMovementRepo{byMonth: map[string][]*entity.Movement{}},
		&fakeMunicipalityRepo{municipalities: map[int64]*entity.Municipality{1: {ID: 1, Name: "Sololá"}}},
		nil,
	)
	report, err := uc.Monthly(1, 2026, time.February)
	require.NoError(t, err)
	assert.Empty(t, report.Items)
	assert.Zero(t, report.TotalQuantity)
}
