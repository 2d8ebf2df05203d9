// Package reports genera el reporte mensual por municipio y la nota de
// despacho. Solo lectura sobre el libro de movimientos.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
)

// nombres de mes en español para el encabezado del período.
var monthsES = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// FormatPeriod etiqueta legible de un período, ej. "Agosto 2026".
func FormatPeriod(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", monthsES[month-1], year)
}

// ParsePeriod interpreta "YYYY-MM"; vacío devuelve el mes actual.
func ParsePeriod(value string, now time.Time) (int, time.Month, error) {
	if value == "" {
		return now.Year(), now.Month(), nil
	}
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, domain.ErrInvalidInput
	}
	return parsed.Year(), parsed.Month(), nil
}

// ReportUseCase arma los reportes a partir del libro de movimientos.
type ReportUseCase struct {
	movRepo          repository.MovementRepository
	municipalityRepo repository.MunicipalityRepository
	pdf              PDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	movRepo repository.MovementRepository,
	municipalityRepo repository.MunicipalityRepository,
	pdf PDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{movRepo: movRepo, municipalityRepo: municipalityRepo, pdf: pdf}
}

// Monthly arma el reporte mensual de un municipio: movimientos del mes en orden
// cronológico con totales de ingresos y egresos.
func (uc *ReportUseCase) Monthly(municipalityID int64, year int, month time.Month) (*dto.MonthlyReportResponse, error) {
	municipality, err := uc.municipalityRepo.GetByID(municipalityID)
	if err != nil {
		return nil, err
	}
	if municipality == nil {
		return nil, domain.ErrInvalidReference
	}

	movements, err := uc.movRepo.ListByMunicipalityMonth(municipalityID, year, month)
	if err != nil {
		return nil, err
	}

	report := &dto.MonthlyReportResponse{
		MunicipalityID:   municipality.ID,
		MunicipalityName: municipality.Name,
		Period:           FormatPeriod(year, month),
		Items:            make([]dto.ReportItemDTO, 0, len(movements)),
	}
	for _, m := range movements {
		userName := m.UserName
		if userName == "" {
			userName = "-"
		}
		report.Items = append(report.Items, dto.ReportItemDTO{
			Code:     m.MaterialCode,
			Category: m.MaterialCategory,
			Name:     m.MaterialName,
			Quantity: m.Quantity,
			Type:     m.Type,
			User:     userName,
		})
		report.TotalQuantity += m.Quantity
		switch m.Type {
		case entity.MovementTypeIngreso:
			report.TotalIngresos += m.Quantity
		case entity.MovementTypeEgreso:
			report.TotalEgresos += m.Quantity
		}
	}
	return report, nil
}

// MonthlyPDF renderiza el reporte mensual en PDF.
func (uc *ReportUseCase) MonthlyPDF(ctx context.Context, municipalityID int64, year int, month time.Month) ([]byte, string, error) {
	report, err := uc.Monthly(municipalityID, year, month)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.pdf.GenerateMonthlyPDF(ctx, report)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("reporte_%s_%d%02d.pdf", report.MunicipalityName, year, int(month))
	return pdf, filename, nil
}

// Dispatch genera la nota de despacho en PDF para un conjunto de movimientos.
// El municipio del encabezado es el del primer movimiento.
func (uc *ReportUseCase) Dispatch(ctx context.Context, ids []int64, userName string) ([]byte, string, error) {
	if len(ids) == 0 {
		return nil, "", domain.ErrInvalidInput
	}
	movements, err := uc.movRepo.GetByIDs(ids)
	if err != nil {
		return nil, "", err
	}
	if len(movements) == 0 {
		return nil, "", domain.ErrNotFound
	}

	municipality := "municipio"
	if movements[0].MunicipalityName != "" {
		municipality = movements[0].MunicipalityName
	}
	pdf, err := uc.pdf.GenerateDispatchPDF(ctx, municipality, userName, movements)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("despacho_%s_%s.pdf", municipality, time.Now().Format("20060102"))
	return pdf, filename, nil
}
