package dto

// DashboardStatsResponse resumen del dashboard (GET /api/dashboard/stats).
type DashboardStatsResponse struct {
	ConsumptionMonthly int64 `json:"consumption_monthly"`
	MonthlyIngreso     int64 `json:"monthly_ingreso"`
	MonthlyEgreso      int64 `json:"monthly_egreso"`
	MaterialsTotal     int64 `json:"materials_total"`
	UsersTotal         int64 `json:"users_total"`
	UsersActive        int64 `json:"users_active"`
}

// MonthlyFlowDTO punto de la serie mensual de ingresos/egresos.
type MonthlyFlowDTO struct {
	Month   string `json:"month"`
	Ingreso int64  `json:"ingreso"`
	Egreso  int64  `json:"egreso"`
}

// DistributionDTO stock total por municipio.
type DistributionDTO struct {
	Municipality string `json:"municipality"`
	Total        int64  `json:"total"`
}

// DashboardChartsResponse series para las gráficas (GET /api/dashboard/charts).
type DashboardChartsResponse struct {
	Monthly      []MonthlyFlowDTO  `json:"monthly"`
	Distribution []DistributionDTO `json:"distribution"`
	Trend        []DistributionDTO `json:"trend"`
}
