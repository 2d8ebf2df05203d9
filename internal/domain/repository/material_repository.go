package repository

import "github.com/sisas-salud/sisas-api/internal/domain/entity"

// MaterialRepository define el puerto de persistencia del catálogo de materiales.
type MaterialRepository interface {
	Create(material *entity.Material) error
	GetByID(id int64) (*entity.Material, error)
	// GetForUpdate bloquea la fila del material (SELECT FOR UPDATE NOWAIT).
	GetForUpdate(id int64) (*entity.Material, error)
	Update(material *entity.Material) error
	// UpdatePhysicalStock fija el agregado denormalizado tras un re-SUM completo.
	UpdatePhysicalStock(id int64, total int64) error
	List(search string, limit, offset int) ([]*entity.Material, error)
	Delete(id int64) error
}
