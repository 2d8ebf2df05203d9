package repository

import "github.com/sisas-salud/sisas-api/internal/domain/entity"

// MunicipalityStockRepository define el puerto para el stock por municipio+material.
// Las operaciones de escritura se usan dentro de transacciones para garantizar
// consistencia con el libro de movimientos.
type MunicipalityStockRepository interface {
	Get(municipalityID, materialID int64) (*entity.MunicipalityStock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE NOWAIT); si no existe la crea con stock 0.
	GetForUpdate(municipalityID, materialID int64) (*entity.MunicipalityStock, error)
	Upsert(stock *entity.MunicipalityStock) (created bool, err error)
	UpdateStock(id int64, stock int64) error
	// SumByMaterial re-suma el stock de todos los municipios para un material.
	SumByMaterial(materialID int64) (int64, error)
	SumByMunicipality(municipalityID int64) (int64, error)
	ListByMunicipality(municipalityID int64) ([]*entity.MunicipalityStock, error)
	// EnsureRows crea filas con stock 0 para los materiales que el municipio aún no tiene.
	EnsureRows(municipalityID int64) error
	List(limit, offset int) ([]*entity.MunicipalityStock, error)
	// Summary devuelve el total de stock por material, ordenado por material.
	Summary() (map[int64]int64, error)
}
