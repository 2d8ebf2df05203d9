package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa un insumo/material médico del catálogo, identificado por código único.
//
// PhysicalStock es la suma denormalizada del stock en todos los municipios. Se recalcula
// con un SUM completo después de cada movimiento confirmado; el invariante
// PhysicalStock == Σ MunicipalityStock.Stock debe cumplirse tras cada transacción.
type Material struct {
	ID             int64
	Category       string
	Code           string
	Name           string
	PhysicalStock  int64
	MonthlyDemand  decimal.Decimal // columna legada; el pronóstico se calcula en lectura
	MonthsOfSupply decimal.Decimal // columna legada; el pronóstico se calcula en lectura
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
