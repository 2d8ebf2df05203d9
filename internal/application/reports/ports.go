package reports

import (
	"context"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
)

// PDFGenerator renderiza los reportes en PDF. La implementación vive en
// infrastructure/pdf (Maroto).
type PDFGenerator interface {
	// GenerateDispatchPDF genera la nota de despacho de un conjunto de movimientos.
	GenerateDispatchPDF(ctx context.Context, municipality string, user string, movements []*entity.Movement) ([]byte, error)
	// GenerateMonthlyPDF genera el reporte mensual de un municipio.
	GenerateMonthlyPDF(ctx context.Context, report *dto.MonthlyReportResponse) ([]byte, error)
}
