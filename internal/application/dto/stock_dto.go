package dto

import "time"

// SetStockRequest body para POST /api/municipality-stocks. Corrección directa:
// no escribe en el libro de movimientos.
type SetStockRequest struct {
	MunicipalityID any `json:"municipality"`
	MaterialID     any `json:"medication"`
	Stock          any `json:"stock"`
}

// MunicipalityStockResponse fila de stock serializada.
type MunicipalityStockResponse struct {
	ID               int64     `json:"id"`
	MunicipalityID   int64     `json:"municipality"`
	MunicipalityName string    `json:"municipality_name"`
	MaterialID       int64     `json:"medication"`
	MaterialName     string    `json:"medication_name"`
	Stock            int64     `json:"stock"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StockSummaryItem total de stock por material (GET /api/municipality-stocks/summary).
type StockSummaryItem struct {
	MaterialID int64 `json:"medication_id"`
	TotalStock int64 `json:"total_stock"`
}
