// Package forecast calcula, en lectura, la demanda mensual promedio y los meses
// de abastecimiento de cada material. Nada de esto se persiste: las columnas
// almacenadas monthly_demand_avg / months_of_supply son legadas y este camino
// no las usa ni las actualiza.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

// Calculator deriva métricas del libro de movimientos reconstruyendo niveles
// históricos de stock. Solo lectura, fuera de cualquier transacción de escritura.
type Calculator struct {
	movRepo repository.MovementRepository
}

// NewCalculator construye el calculador.
func NewCalculator(movRepo repository.MovementRepository) *Calculator {
	return &Calculator{movRepo: movRepo}
}

// Result métricas derivadas de un material.
type Result struct {
	MonthlyAvg     decimal.Decimal // promedio de niveles reconstruidos, redondeo mitad-arriba
	MonthsOfSupply int64           // floor(stock actual / promedio); 0 si el promedio es 0
}

// Compute reconstruye el stock del material en dos cortes (fin del mes anterior
// y fin del mes antepenúltimo) deshaciendo los movimientos posteriores a cada
// corte, y promedia esos dos niveles.
//
// Nota: el nombre histórico "demanda mensual promedio" sugiere promediar
// consumo, pero el comportamiento a preservar promedia NIVELES de stock
// reconstruidos, no deltas de consumo.
func (c *Calculator) Compute(materialID int64, currentStock int64, now time.Time) (Result, error) {
	prevEnd, twoBackEnd := MonthCutoffs(now)

	atPrev, err := c.stockAt(materialID, currentStock, prevEnd)
	if err != nil {
		return Result{}, err
	}
	atTwoBack, err := c.stockAt(materialID, currentStock, twoBackEnd)
	if err != nil {
		return Result{}, err
	}

	avg := MonthlyAverage(atPrev, atTwoBack)
	return Result{
		MonthlyAvg:     avg,
		MonthsOfSupply: MonthsOfSupply(currentStock, avg),
	}, nil
}

// stockAt reconstruye el nivel de stock en el corte deshaciendo todo lo
// posterior: nivel = max(0, actual − neto_después_del_corte). El clamp a 0
// absorbe inconsistencias de datos (ajustes directos fuera del libro).
func (c *Calculator) stockAt(materialID, currentStock int64, cutoff time.Time) (int64, error) {
	net, err := c.movRepo.NetQuantityAfter(materialID, cutoff)
	if err != nil {
		return 0, err
	}
	level := currentStock - net
	if level < 0 {
		level = 0
	}
	return level, nil
}

// MonthCutoffs devuelve el último instante del mes anterior y del mes previo a
// ese, en la zona horaria de now. Los movimientos estrictamente posteriores al
// corte son los que se deshacen.
func MonthCutoffs(now time.Time) (prevEnd, twoBackEnd time.Time) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevEnd = monthStart.Add(-time.Nanosecond)
	prevStart := time.Date(prevEnd.Year(), prevEnd.Month(), 1, 0, 0, 0, 0, now.Location())
	twoBackEnd = prevStart.Add(-time.Nanosecond)
	return prevEnd, twoBackEnd
}

// MonthlyAverage promedia los dos niveles reconstruidos con redondeo
// mitad-arriba: (41+42)/2 → 42, no 41.
func MonthlyAverage(atPrev, atTwoBack int64) decimal.Decimal {
	sum := decimal.NewFromInt(atPrev + atTwoBack)
	return sum.Div(decimal.NewFromInt(2)).Round(0)
}

// MonthsOfSupply meses de abastecimiento: floor(actual / promedio), 0 si el
// promedio es 0.
func MonthsOfSupply(currentStock int64, monthlyAvg decimal.Decimal) int64 {
	if !monthlyAvg.IsPositive() {
		return 0
	}
	return decimal.NewFromInt(currentStock).Div(monthlyAvg).Floor().IntPart()
}
