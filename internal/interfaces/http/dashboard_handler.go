package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sisas-salud/sisas-api/internal/application/analytics"
	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
)

// DashboardHandler expone los resúmenes y las gráficas del dashboard.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// La vista de no-administradores queda restringida a su municipio asignado.
func viewerFrom(c *fiber.Ctx) analytics.Viewer {
	return analytics.Viewer{
		IsAdmin:      GetRole(c) == entity.RoleAdministrador,
		Municipality: GetMunicipality(c),
	}
}

// Stats godoc
// @Summary      Resumen del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.GetStats(c.UserContext(), viewerFrom(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Charts godoc
// @Summary      Series para las gráficas del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardChartsResponse
// @Router       /api/dashboard/charts [get]
func (h *DashboardHandler) Charts(c *fiber.Ctx) error {
	out, err := h.uc.GetCharts(c.UserContext(), viewerFrom(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
