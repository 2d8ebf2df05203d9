package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest body para POST /api/medications.
type CreateMaterialRequest struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Name     string `json:"material_name"`
}

// UpdateMaterialRequest body para PUT /api/medications/:id (campos opcionales).
type UpdateMaterialRequest struct {
	Category *string `json:"category,omitempty"`
	Code     *string `json:"code,omitempty"`
	Name     *string `json:"material_name,omitempty"`
}

// MaterialResponse material con el pronóstico calculado en lectura.
// MonthlyDemandAvg y MonthsOfSupply no se persisten: se derivan del libro de
// movimientos en cada listado.
type MaterialResponse struct {
	ID               int64           `json:"id"`
	Category         string          `json:"category"`
	Code             string          `json:"code"`
	Name             string          `json:"material_name"`
	PhysicalStock    int64           `json:"physical_stock"`
	MonthlyDemandAvg decimal.Decimal `json:"monthly_demand_avg"`
	MonthsOfSupply   int64           `json:"months_of_supply"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MaterialListResponse respuesta de GET /api/medications.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
