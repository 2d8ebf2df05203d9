// Package analytics contiene los casos de uso de solo lectura del dashboard.
// Consumen las mismas tablas que el motor de movimientos pero nunca las mutan;
// siempre observan un snapshot confirmado.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

const dashboardTrendTop = 8 // municipios en el widget de tendencia

// Viewer define el alcance de los datos: los no-administradores con municipio
// asignado solo ven los movimientos y el stock de su municipio.
type Viewer struct {
	IsAdmin      bool
	Municipality string
}

// DashboardUseCase resumen y gráficas del dashboard.
type DashboardUseCase struct {
	analyticsRepo    repository.AnalyticsRepository
	movRepo          repository.MovementRepository
	userRepo         repository.UserRepository
	municipalityRepo repository.MunicipalityRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	movRepo repository.MovementRepository,
	userRepo repository.UserRepository,
	municipalityRepo repository.MunicipalityRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo:    analyticsRepo,
		movRepo:          movRepo,
		userRepo:         userRepo,
		municipalityRepo: municipalityRepo,
	}
}

// scope resuelve el municipio del viewer a un id; nil = sin restricción.
func (uc *DashboardUseCase) scope(v Viewer) (*int64, error) {
	if v.IsAdmin || v.Municipality == "" {
		return nil, nil
	}
	m, err := uc.municipalityRepo.GetByNameFold(v.Municipality)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	return &m.ID, nil
}

// GetStats construye el resumen del mes en curso: ingresos, egresos, total de
// materiales visibles y conteo de usuarios. Las tres consultas van en paralelo.
func (uc *DashboardUseCase) GetStats(ctx context.Context, viewer Viewer) (*dto.DashboardStatsResponse, error) {
	municipalityID, err := uc.scope(viewer)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	type flowResult struct {
		ingreso, egreso int64
		err             error
	}
	type countResult struct {
		materials int64
		err       error
	}
	type usersResult struct {
		total, active int64
		err           error
	}

	flowCh := make(chan flowResult, 1)
	materialsCh := make(chan countResult, 1)
	usersCh := make(chan usersResult, 1)

	go func() {
		ingreso, err := uc.movRepo.SumByTypeInRange(entity.MovementTypeIngreso, monthStart, monthEnd, municipalityID)
		if err != nil {
			flowCh <- flowResult{err: err}
			return
		}
		egreso, err := uc.movRepo.SumByTypeInRange(entity.MovementTypeEgreso, monthStart, monthEnd, municipalityID)
		flowCh <- flowResult{ingreso: ingreso, egreso: egreso, err: err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountMaterials(ctx, municipalityID)
		materialsCh <- countResult{materials: n, err: err}
	}()
	go func() {
		total, active, err := uc.userRepo.CountByActive()
		usersCh <- usersResult{total: total, active: active, err: err}
	}()

	flow := <-flowCh
	materials := <-materialsCh
	users := <-usersCh

	if flow.err != nil {
		return nil, fmt.Errorf("dashboard: flujo mensual: %w", flow.err)
	}
	if materials.err != nil {
		return nil, fmt.Errorf("dashboard: materiales: %w", materials.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios: %w", users.err)
	}

	return &dto.DashboardStatsResponse{
		ConsumptionMonthly: flow.ingreso + flow.egreso,
		MonthlyIngreso:     flow.ingreso,
		MonthlyEgreso:      flow.egreso,
		MaterialsTotal:     materials.materials,
		UsersTotal:         users.total,
		UsersActive:        users.active,
	}, nil
}

// GetCharts construye las series de las gráficas: flujo mensual por tipo,
// distribución de stock por municipio y el top de municipios por stock.
func (uc *DashboardUseCase) GetCharts(ctx context.Context, viewer Viewer) (*dto.DashboardChartsResponse, error) {
	municipalityID, err := uc.scope(viewer)
	if err != nil {
		return nil, err
	}

	monthly, err := uc.movRepo.MonthlySeries(municipalityID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: serie mensual: %w", err)
	}
	distribution, err := uc.analyticsRepo.StockDistribution(ctx, municipalityID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: distribución: %w", err)
	}

	monthlyDTO := make([]dto.MonthlyFlowDTO, 0, len(monthly))
	for _, m := range monthly {
		monthlyDTO = append(monthlyDTO, dto.MonthlyFlowDTO{Month: m.Month, Ingreso: m.Ingreso, Egreso: m.Egreso})
	}

	distributionDTO := make([]dto.DistributionDTO, 0, len(distribution))
	for _, d := range distribution {
		distributionDTO = append(distributionDTO, dto.DistributionDTO{Municipality: d.Municipality, Total: d.Total})
	}

	trend := make([]dto.DistributionDTO, len(distributionDTO))
	copy(trend, distributionDTO)
	sort.Slice(trend, func(i, j int) bool { return trend[i].Total > trend[j].Total })
	if len(trend) > dashboardTrendTop {
		trend = trend[:dashboardTrendTop]
	}

	return &dto.DashboardChartsResponse{
		Monthly:      monthlyDTO,
		Distribution: distributionDTO,
		Trend:        trend,
	}, nil
}
