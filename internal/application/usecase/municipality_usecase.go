package usecase

import (
	"strings"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

// MunicipalityUseCase CRUD de municipios y consultas de stock por municipio.
type MunicipalityUseCase struct {
	repo      repository.MunicipalityRepository
	stockRepo repository.MunicipalityStockRepository
}

// NewMunicipalityUseCase construye el caso de uso.
func NewMunicipalityUseCase(repo repository.MunicipalityRepository, stockRepo repository.MunicipalityStockRepository) *MunicipalityUseCase {
	return &MunicipalityUseCase{repo: repo, stockRepo: stockRepo}
}

// Create da de alta un municipio. Nombres duplicados (case-insensitive) se rechazan.
func (uc *MunicipalityUseCase) Create(in dto.CreateMunicipalityRequest) (*dto.MunicipalityResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByNameFold(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	municipality := &entity.Municipality{Name: name}
	if err := uc.repo.Create(municipality); err != nil {
		return nil, err
	}
	return toMunicipalityResponse(municipality), nil
}

// GetByID obtiene un municipio por id.
func (uc *MunicipalityUseCase) GetByID(id int64) (*dto.MunicipalityResponse, error) {
	municipality, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if municipality == nil {
		return nil, nil
	}
	return toMunicipalityResponse(municipality), nil
}

// List lista todos los municipios ordenados por nombre.
func (uc *MunicipalityUseCase) List() ([]dto.MunicipalityResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.MunicipalityResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMunicipalityResponse(m))
	}
	return items, nil
}

// Update renombra un municipio.
func (uc *MunicipalityUseCase) Update(id int64, in dto.CreateMunicipalityRequest) (*dto.MunicipalityResponse, error) {
	municipality, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if municipality == nil {
		return nil, nil
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	municipality.Name = name
	if err := uc.repo.Update(municipality); err != nil {
		return nil, err
	}
	return toMunicipalityResponse(municipality), nil
}

// Delete elimina un municipio (su stock cae en cascada; los movimientos
// conservan municipality_id en NULL).
func (uc *MunicipalityUseCase) Delete(id int64) error {
	return uc.repo.Delete(id)
}

// TotalStock total de stock del municipio sumando todos los materiales.
func (uc *MunicipalityUseCase) TotalStock(id int64) (*dto.MunicipalityTotalStockResponse, error) {
	municipality, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if municipality == nil {
		return nil, nil
	}
	total, err := uc.stockRepo.SumByMunicipality(id)
	if err != nil {
		return nil, err
	}
	return &dto.MunicipalityTotalStockResponse{
		MunicipalityID:   municipality.ID,
		MunicipalityName: municipality.Name,
		TotalStock:       total,
	}, nil
}

// Stocks lista el stock del municipio material por material, creando antes las
// filas faltantes con stock 0 para que el listado siempre cubra el catálogo completo.
func (uc *MunicipalityUseCase) Stocks(id int64) ([]dto.MunicipalityStockResponse, error) {
	municipality, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if municipality == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.stockRepo.EnsureRows(id); err != nil {
		return nil, err
	}
	list, err := uc.stockRepo.ListByMunicipality(id)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MunicipalityStockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toStockResponse(s))
	}
	return items, nil
}

func toMunicipalityResponse(m *entity.Municipality) *dto.MunicipalityResponse {
	if m == nil {
		return nil
	}
	return &dto.MunicipalityResponse{ID: m.ID, Name: m.Name}
}

func toStockResponse(s *entity.MunicipalityStock) dto.MunicipalityStockResponse {
	return dto.MunicipalityStockResponse{
		ID:               s.ID,
		MunicipalityID:   s.MunicipalityID,
		MunicipalityName: s.MunicipalityName,
		MaterialID:       s.MaterialID,
		MaterialName:     s.MaterialName,
		Stock:            s.Stock,
		UpdatedAt:        s.UpdatedAt,
	}
}
