package dto

// CreateMunicipalityRequest body para POST /api/municipalities.
type CreateMunicipalityRequest struct {
	Name string `json:"name"`
}

// MunicipalityResponse municipio serializado.
type MunicipalityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MunicipalityTotalStockResponse respuesta de GET /api/municipalities/:id/stock.
type MunicipalityTotalStockResponse struct {
	MunicipalityID   int64  `json:"municipality_id"`
	MunicipalityName string `json:"municipality_name"`
	TotalStock       int64  `json:"total_stock"`
}
