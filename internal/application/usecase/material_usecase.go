package usecase

import (
	"strings"
	"time"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/application/forecast"
	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

// MaterialUseCase CRUD del catálogo de materiales. Los listados y detalles se
// enriquecen con el pronóstico calculado en lectura.
type MaterialUseCase struct {
	repo       repository.MaterialRepository
	calculator *forecast.Calculator
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository, calculator *forecast.Calculator) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, calculator: calculator}
}

// Create da de alta un material con stock agregado 0.
func (uc *MaterialUseCase) Create(in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	material := &entity.Material{
		Category:  strings.TrimSpace(in.Category),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(material); err != nil {
		return nil, err
	}
	return uc.toResponse(material, now)
}

// GetByID obtiene un material con su pronóstico.
func (uc *MaterialUseCase) GetByID(id int64) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	return uc.toResponse(material, time.Now())
}

// Update actualiza los campos del catálogo (no toca stock).
func (uc *MaterialUseCase) Update(id int64, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	if in.Category != nil {
		material.Category = strings.TrimSpace(*in.Category)
	}
	if in.Code != nil {
		material.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		material.Name = strings.TrimSpace(*in.Name)
	}
	material.UpdatedAt = time.Now()
	if err := uc.repo.Update(material); err != nil {
		return nil, err
	}
	return uc.toResponse(material, material.UpdatedAt)
}

// List lista materiales con búsqueda por código/nombre y pronóstico por fila.
func (uc *MaterialUseCase) List(search string, limit, offset int) (*dto.MaterialListResponse, error) {
	list, err := uc.repo.List(strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		resp, err := uc.toResponse(m, now)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un material (las filas de stock caen en cascada).
func (uc *MaterialUseCase) Delete(id int64) error {
	return uc.repo.Delete(id)
}

func (uc *MaterialUseCase) toResponse(m *entity.Material, now time.Time) (*dto.MaterialResponse, error) {
	result, err := uc.calculator.Compute(m.ID, m.PhysicalStock, now)
	if err != nil {
		return nil, err
	}
	return &dto.MaterialResponse{
		ID:               m.ID,
		Category:         m.Category,
		Code:             m.Code,
		Name:             m.Name,
		PhysicalStock:    m.PhysicalStock,
		MonthlyDemandAvg: result.MonthlyAvg,
		MonthsOfSupply:   result.MonthsOfSupply,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}
