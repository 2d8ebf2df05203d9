// Package pdf renderiza los reportes en PDF con Maroto v2: la nota de despacho
// de insumos y el reporte mensual por municipio.
//
// Layout de la nota de despacho (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: DESPACHO DE INSUMOS  │  Municipio + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: No. | Código | Categoría | Material médico | Cant.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DESPACHADO                                           │
//	│  OBSERVACIONES + firmas entrega/recibe                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	marotoentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/application/reports"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
)

const authorityName = "DIRECCION DE AREA DE SALUD DE SOLOLÁ"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa reports.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

var _ reports.PDFGenerator = (*MarotoReportGenerator)(nil)

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateDispatchPDF genera la nota de despacho y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateDispatchPDF(
	_ context.Context,
	municipality string,
	user string,
	movements []*entity.Movement,
) ([]byte, error) {
	m := maroto.New(buildConfig("Despacho de Insumos"))

	m.AddRows(dispatchHeaderRow(municipality))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(dispatchTableHeaderRow())
	var total int64
	for i, mov := range movements {
		m.AddRows(dispatchDetailRow(i+1, mov))
		total += mov.Quantity
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New("TOTAL DESPACHADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(fmt.Sprintf("%d", total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 2,
		})),
	))

	m.AddRows(observationsRows()...)
	m.AddRows(signatureRow(user))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar despacho: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateMonthlyPDF genera el reporte mensual de un municipio.
func (g *MarotoReportGenerator) GenerateMonthlyPDF(
	_ context.Context,
	report *dto.MonthlyReportResponse,
) ([]byte, error) {
	m := maroto.New(buildConfig("Reporte Mensual de Movimientos"))

	m.AddRows(monthlyHeaderRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(monthlyTableHeaderRow())
	for i, item := range report.Items {
		m.AddRows(monthlyDetailRow(i+1, item))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(monthlyTotalsRow(report))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte mensual: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func buildConfig(title string) *marotoentity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(authorityName, true).
		Build()
}

func dispatchHeaderRow(municipality string) core.Row {
	fecha := time.Now().Format("02/01/2006")
	return row.New(20).Add(
		col.New(7).Add(
			text.New("DESPACHO DE INSUMOS", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(authorityName, props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Municipio: "+municipality, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func dispatchTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("No.", 1, align.Center),
		h("Código", 2, align.Left),
		h("Categoría", 2, align.Left),
		h("Material médico", 5, align.Left),
		h("Cantidad", 2, align.Center),
	)
}

func dispatchDetailRow(n int, mov *entity.Movement) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", n),
			props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(mov.MaterialCode,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(mov.MaterialCategory,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(5).Add(text.New(mov.MaterialName,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", mov.Quantity),
			props.Text{Size: 8, Align: align.Center, Top: 1})),
	)
}

func observationsRows() []core.Row {
	return []core.Row{
		row.New(3),
		row.New(6).Add(col.New(12).Add(
			text.New("OBSERVACIONES:", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(14).Add(col.New(12).Add(
			text.New("_________________________________________________________________________",
				props.Text{Size: 8, Color: colorGray, Top: 4}),
			text.New("_________________________________________________________________________",
				props.Text{Size: 8, Color: colorGray, Top: 10}),
		)),
	}
}

func signatureRow(user string) core.Row {
	return row.New(24).Add(
		col.New(6).Add(
			text.New("____________________________", props.Text{
				Size: 9, Align: align.Center, Top: 12,
			}),
			text.New("Entrega: "+user, props.Text{
				Size: 8, Align: align.Center, Top: 18, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("____________________________", props.Text{
				Size: 9, Align: align.Center, Top: 12,
			}),
			text.New("Recibe (nombre y firma)", props.Text{
				Size: 8, Align: align.Center, Top: 18, Color: colorGray,
			}),
		),
	)
}

func monthlyHeaderRow(report *dto.MonthlyReportResponse) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New("REPORTE MENSUAL DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(authorityName, props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Municipio: "+report.MunicipalityName, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 3,
			}),
			text.New("Período: "+report.Period, props.Text{
				Size: 9, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func monthlyTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("No.", 1, align.Center),
		h("Código", 2, align.Left),
		h("Material médico", 4, align.Left),
		h("Tipo", 2, align.Center),
		h("Cantidad", 1, align.Center),
		h("Usuario", 2, align.Left),
	)
}

func monthlyDetailRow(n int, item dto.ReportItemDTO) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", n),
			props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(item.Code,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(4).Add(text.New(item.Name,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(item.Type,
			props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(1).Add(text.New(fmt.Sprintf("%d", item.Quantity),
			props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(item.User,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
	)
}

func monthlyTotalsRow(report *dto.MonthlyReportResponse) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(n int64, top float64) core.Component {
		return text.New(fmt.Sprintf("%d", n), props.Text{
			Size: 9, Align: align.Right, Right: 1, Top: top,
		})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Total ingresos:", 1),
			label("Total egresos:", 7),
			label("Total movimientos:", 13),
		),
		col.New(3).Add(
			value(report.TotalIngresos, 1),
			value(report.TotalEgresos, 7),
			value(report.TotalQuantity, 13),
		),
	)
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Documento generado por el sistema SISAS. Conserve este documento como soporte de entrega.",
			props.Text{Size: 6.5, Color: colorGray, Top: 3}),
	))
}
