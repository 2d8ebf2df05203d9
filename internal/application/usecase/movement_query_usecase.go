package usecase

import (
	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

// MovementQueryUseCase listados de solo lectura del libro de movimientos.
type MovementQueryUseCase struct {
	movRepo repository.MovementRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(movRepo repository.MovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo}
}

// List lista movimientos ordenados por fecha descendente.
func (uc *MovementQueryUseCase) List(filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	list, err := uc.movRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// ToMovementResponse serializa un movimiento del dominio.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		Type:             m.Type,
		MaterialID:       m.MaterialID,
		MaterialName:     m.MaterialName,
		MunicipalityID:   m.MunicipalityID,
		MunicipalityName: m.MunicipalityName,
		UserID:           m.UserID,
		UserName:         m.UserName,
		Quantity:         m.Quantity,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
	}
}
