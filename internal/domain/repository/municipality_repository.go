package repository

import "github.com/sisas-salud/sisas-api/internal/domain/entity"

// MunicipalityRepository define el puerto de persistencia de municipios.
type MunicipalityRepository interface {
	Create(municipality *entity.Municipality) error
	GetByID(id int64) (*entity.Municipality, error)
	// GetByNameFold busca por nombre con comparación case-insensitive exacta.
	GetByNameFold(name string) (*entity.Municipality, error)
	List() ([]*entity.Municipality, error)
	Update(municipality *entity.Municipality) error
	Delete(id int64) error
}
