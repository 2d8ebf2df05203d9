package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/application/reports"
	"github.com/sisas-salud/sisas-api/internal/domain"
)

// ReportHandler expone el reporte mensual y la nota de despacho.
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Monthly godoc
// @Summary      Reporte mensual por municipio (JSON)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        municipality  query  int     true   "ID del municipio"
// @Param        period        query  string  false  "Período YYYY-MM (default: mes actual)"
// @Success      200  {object}  dto.MonthlyReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/municipality [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	municipalityID := int64(c.QueryInt("municipality", 0))
	if municipalityID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "municipality es requerido"})
	}
	year, month, err := reports.ParsePeriod(c.Query("period"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "period debe ser YYYY-MM"})
	}
	out, err := h.uc.Monthly(municipalityID, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReference) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "municipio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// MonthlyPDF godoc
// @Summary      Reporte mensual por municipio (PDF)
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        municipality  query  int     true   "ID del municipio"
// @Param        period        query  string  false  "Período YYYY-MM (default: mes actual)"
// @Success      200  {file}  file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/municipality/pdf [get]
func (h *ReportHandler) MonthlyPDF(c *fiber.Ctx) error {
	municipalityID := int64(c.QueryInt("municipality", 0))
	if municipalityID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "municipality es requerido"})
	}
	year, month, err := reports.ParsePeriod(c.Query("period"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "period debe ser YYYY-MM"})
	}
	pdf, filename, err := h.uc.MonthlyPDF(c.UserContext(), municipalityID, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReference) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "municipio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return sendPDF(c, pdf, filename)
}

// Dispatch godoc
// @Summary      Nota de despacho en PDF de un conjunto de movimientos
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.DispatchReportRequest  true  "IDs de movimientos"
// @Success      200   {file}  file
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/dispatch-report [post]
func (h *ReportHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchReportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pdf, filename, err := h.uc.Dispatch(c.UserContext(), in.IDs, GetUserName(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ids no puede estar vacío"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimientos no encontrados"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return sendPDF(c, pdf, filename)
}
