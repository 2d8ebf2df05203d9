package entity

// MonthlyFlow total de ingresos y egresos de un mes calendario ("2026-08").
type MonthlyFlow struct {
	Month   string
	Ingreso int64
	Egreso  int64
}

// MunicipalityTotal stock total de un municipio (distribución del dashboard).
type MunicipalityTotal struct {
	Municipality string
	Total        int64
}
