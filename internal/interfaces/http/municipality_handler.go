package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/application/usecase"
	"github.com/sisas-salud/sisas-api/internal/domain"
)

// MunicipalityHandler maneja las peticiones HTTP para municipios.
type MunicipalityHandler struct {
	uc *usecase.MunicipalityUseCase
}

// NewMunicipalityHandler construye el handler.
func NewMunicipalityHandler(uc *usecase.MunicipalityUseCase) *MunicipalityHandler {
	return &MunicipalityHandler{uc: uc}
}

// Create godoc
// @Summary      Crear municipio
// @Tags         municipalities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMunicipalityRequest  true  "Nombre"
// @Success      201   {object}  dto.MunicipalityResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/municipalities [post]
func (h *MunicipalityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMunicipalityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el municipio ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar municipios
// @Tags         municipalities
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MunicipalityResponse
// @Router       /api/municipalities [get]
func (h *MunicipalityHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener municipio por ID
// @Tags         municipalities
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del municipio"
// @Success      200  {object}  dto.MunicipalityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/municipalities/{id} [get]
func (h *MunicipalityHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "municipio no encontrado"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar municipio
// @Tags         municipalities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del municipio"
// @Param        body  body  dto.CreateMunicipalityRequest  true  "Nombre"
// @Success      200   {object}  dto.MunicipalityResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/municipalities/{id} [put]
func (h *MunicipalityHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	var in dto.CreateMunicipalityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el municipio ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "municipio no encontrado"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar municipio
// @Tags         municipalities
// @Security     Bearer
// @Param        id  path  int  true  "ID del municipio"
// @Success      204
// @Router       /api/municipalities/{id} [delete]
func (h *MunicipalityHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	if err := h.uc.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// TotalStock godoc
// @Summary      Stock total del municipio
// @Tags         municipalities
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del municipio"
// @Success      200  {object}  dto.MunicipalityTotalStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/municipalities/{id}/stock [get]
func (h *MunicipalityHandler) TotalStock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	out, err := h.uc.TotalStock(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "municipio no encontrado"})
	}
	return c.JSON(out)
}

// Stocks godoc
// @Summary      Stocks del municipio (con filas inicializadas en 0)
// @Tags         municipalities
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del municipio"
// @Success      200  {array}  dto.MunicipalityStockResponse
// @Router       /api/municipalities/{id}/stocks [get]
func (h *MunicipalityHandler) Stocks(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	out, err := h.uc.Stocks(id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReference) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "municipio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
