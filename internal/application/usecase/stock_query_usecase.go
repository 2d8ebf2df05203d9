package usecase

import (
	"sort"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

// StockQueryUseCase listados de solo lectura sobre MunicipalityStock.
type StockQueryUseCase struct {
	stockRepo repository.MunicipalityStockRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(stockRepo repository.MunicipalityStockRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo}
}

// List lista filas de stock paginadas, ordenadas por municipio y material.
func (uc *StockQueryUseCase) List(limit, offset int) ([]dto.MunicipalityStockResponse, error) {
	list, err := uc.stockRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MunicipalityStockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toStockResponse(s))
	}
	return items, nil
}

// Summary total de stock por material, ordenado por id de material.
func (uc *StockQueryUseCase) Summary() ([]dto.StockSummaryItem, error) {
	totals, err := uc.stockRepo.Summary()
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockSummaryItem, 0, len(totals))
	for id, total := range totals {
		items = append(items, dto.StockSummaryItem{MaterialID: id, TotalStock: total})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].MaterialID < items[j].MaterialID })
	return items, nil
}
