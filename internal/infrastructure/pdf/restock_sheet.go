// Package pdf genera la hoja de pedido imprimible a partir de las sugerencias de reabastecimiento.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Farmacia + "HOJA DE PEDIDO"  │  Fecha de generación│
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: conteo por prioridad                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Prioridad | Producto | Actual | Mín | Pedir | Costo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: ítems / unidades / costo estimado                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	apprestock "github.com/jhoicas/Farmacia-api/internal/application/restock"
)

var _ apprestock.SuggestionPDFGenerator = (*RestockSheetGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 110, Blue: 80}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 190, Green: 30, Blue: 45}
	colorHigh     = &props.Color{Red: 220, Green: 110, Blue: 0}
)

var priorityLabels = map[string]string{
	"critical": "CRÍTICA",
	"high":     "ALTA",
	"medium":   "MEDIA",
	"low":      "BAJA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// RestockSheetGenerator implementa restock.SuggestionPDFGenerator usando Maroto v2.
type RestockSheetGenerator struct {
	printer *message.Printer
}

// NewRestockSheetGenerator construye el generador. Los montos se formatean en español (separador de miles ".").
func NewRestockSheetGenerator() *RestockSheetGenerator {
	return &RestockSheetGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateRestockSheet genera el PDF y devuelve sus bytes.
func (g *RestockSheetGenerator) GenerateRestockSheet(
	_ context.Context,
	title string,
	sheet *dto.RestockSuggestionsResponse,
) ([]byte, error) {
	if sheet == nil {
		return nil, fmt.Errorf("pdf: hoja de pedido vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de pedido", true).
		WithAuthor(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, sheet))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(sheet))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(sheet.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay productos en o bajo su stock mínimo.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range g.tableDetailRows(sheet.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(sheet))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, sheet *dto.RestockSuggestionsResponse) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(nonEmpty(title, "Farmacia"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("HOJA DE PEDIDO A PROVEEDORES", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generada", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(sheet.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 10, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRow: conteo por prioridad.
func summaryRow(sheet *dto.RestockSuggestionsResponse) core.Row {
	cell := func(key string, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(priorityLabels[key], props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: c, Top: 1,
			}),
			text.New(fmt.Sprintf("%d", sheet.CountByPriority[key]), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 6,
			}),
		)
	}
	return row.New(14).Add(
		cell("critical", colorCritical),
		cell("high", colorHigh),
		cell("medium", colorGray),
		cell("low", colorGray),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Prioridad", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Actual", 1, align.Center),
		h("Mín.", 1, align.Center),
		h("Pedir", 1, align.Center),
		h("Costo est.", 3, align.Right),
	)
}

func (g *RestockSheetGenerator) tableDetailRows(items []dto.RestockSuggestionDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		prio := props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Left, Top: 1, Left: 1}
		switch it.Priority {
		case "critical":
			prio.Color = colorCritical
		case "high":
			prio.Color = colorHigh
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(nonEmpty(priorityLabels[it.Priority], it.Priority), prio)),
			col.New(4).Add(text.New(
				nonEmpty(it.ProductName, it.ProductID),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(g.printer.Sprintf("%d", it.CurrentQuantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(g.printer.Sprintf("%d", it.MinStock),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(g.printer.Sprintf("%d", it.SuggestedQuantity),
				props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(g.money(it.EstimatedOrderCost),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func (g *RestockSheetGenerator) totalsRow(sheet *dto.RestockSuggestionsResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Productos:"),
			label("Unidades:"),
			text.New("COSTO ESTIMADO:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2,
			}),
		),
		col.New(3).Add(
			value(g.printer.Sprintf("%d", sheet.TotalItems)),
			value(g.printer.Sprintf("%d", sheet.TotalUnits)),
			text.New(g.money(sheet.TotalEstimatedCost), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money redondea a pesos y agrupa miles. Ej: 1250000.4 → "$1.250.000".
func (g *RestockSheetGenerator) money(d decimal.Decimal) string {
	return "$" + g.printer.Sprintf("%d", d.Round(0).IntPart())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
