package dto

import "time"

// MovementRequest body para POST /api/movements. Los campos numéricos llegan como
// string o número según el cliente; se aceptan ambos y se validan en el caso de uso.
type MovementRequest struct {
	Type           string `json:"type"`
	MaterialID     any    `json:"medication"`
	Quantity       any    `json:"quantity"`
	Notes          string `json:"notes,omitempty"`
	MunicipalityID any    `json:"municipality,omitempty"`
}

// BulkMovementRequest body para POST /api/movements/bulk.
type BulkMovementRequest struct {
	Items []MovementRequest `json:"items"`
}

// DispatchReportRequest body para POST /api/movements/dispatch-report.
type DispatchReportRequest struct {
	IDs []int64 `json:"ids"`
}

// MovementResponse movimiento serializado para listados y respuestas de creación.
type MovementResponse struct {
	ID               int64     `json:"id"`
	Type             string    `json:"type"`
	MaterialID       int64     `json:"medication"`
	MaterialName     string    `json:"medication_name"`
	MunicipalityID   *int64    `json:"municipality"`
	MunicipalityName string    `json:"municipality_name,omitempty"`
	UserID           *string   `json:"user"`
	UserName         string    `json:"user_name,omitempty"`
	Quantity         int64     `json:"quantity"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
}

// MovementListResponse respuesta de GET /api/movements.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
