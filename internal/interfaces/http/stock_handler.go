package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/application/stocks"
	"github.com/sisas-salud/sisas-api/internal/application/usecase"
	"github.com/sisas-salud/sisas-api/internal/domain"
)

// StockHandler maneja la consulta y la corrección directa del stock por municipio.
type StockHandler struct {
	set   *stocks.SetStockUseCase
	query *usecase.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(set *stocks.SetStockUseCase, query *usecase.StockQueryUseCase) *StockHandler {
	return &StockHandler{set: set, query: query}
}

// Set godoc
// @Summary      Fijar stock directo (corrección sin movimiento)
// @Tags         municipality-stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetStockRequest  true  "municipio, material, stock"
// @Success      200   {object}  dto.MunicipalityStockResponse
// @Success      201   {object}  dto.MunicipalityStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/municipality-stocks [post]
func (h *StockHandler) Set(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	stock, created, err := h.set.Set(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidReference):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REFERENCE", Message: "referencia de material o municipio inválida"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "stock debe ser numérico"})
		case errors.Is(err, domain.ErrServiceBusy):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SERVICE_BUSY", Message: "almacén ocupado, intente de nuevo"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	out := dto.MunicipalityStockResponse{
		ID:             stock.ID,
		MunicipalityID: stock.MunicipalityID,
		MaterialID:     stock.MaterialID,
		Stock:          stock.Stock,
		UpdatedAt:      stock.UpdatedAt,
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// List godoc
// @Summary      Listar stocks por municipio y material
// @Tags         municipality-stocks
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(50)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.MunicipalityStockResponse
// @Router       /api/municipality-stocks [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.query.List(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Stock total por material
// @Tags         municipality-stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockSummaryItem
// @Router       /api/municipality-stocks/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	out, err := h.query.Summary()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
