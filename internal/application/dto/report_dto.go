package dto

// ReportItemDTO renglón del reporte mensual por municipio.
type ReportItemDTO struct {
	Code     string `json:"code"`
	Category string `json:"category"`
	Name     string `json:"material_name"`
	Quantity int64  `json:"quantity"`
	Type     string `json:"type"`
	User     string `json:"user"`
}

// MonthlyReportResponse respuesta de GET /api/reports/municipality.
type MonthlyReportResponse struct {
	MunicipalityID   int64           `json:"municipality_id"`
	MunicipalityName string          `json:"municipality_name"`
	Period           string          `json:"period"` // ej. "Agosto 2026"
	Items            []ReportItemDTO `json:"items"`
	TotalIngresos    int64           `json:"total_ingresos"`
	TotalEgresos     int64           `json:"total_egresos"`
	TotalQuantity    int64           `json:"total_quantity"`
}
