// Package pdf genera el resumen contable del libro de ventas en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + período    │  Generado el / Desde           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ventas / Unidades / Ingreso / Comisión / Dueño     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA VENDEDORES: Vendedor | Ventas | Ingreso | Comisión    │
//	│  TABLA ÍTEMS: Ítem | Unidades | Ingreso                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/application/ports"
)

var _ ports.ReportRenderer = (*SummaryRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 20, Green: 110, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var periodLabels = map[string]string{
	dto.PeriodToday: "Hoje",
	dto.PeriodWeek:  "Últimos 7 dias",
	dto.PeriodMonth: "Últimos 30 dias",
	dto.PeriodAll:   "Todo o período",
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// SummaryRenderer implementa ports.ReportRenderer usando Maroto v2.
type SummaryRenderer struct {
	org     string
	printer *message.Printer
}

// NewSummaryRenderer construye el renderer; org aparece como autor y encabezado.
func NewSummaryRenderer(org string) *SummaryRenderer {
	return &SummaryRenderer{org: org, printer: message.NewPrinter(language.BrazilianPortuguese)}
}

// RenderSummary genera el PDF y devuelve sus bytes.
func (r *SummaryRenderer) RenderSummary(s *dto.SummaryDTO) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("pdf: resumen nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumo de vendas", true).
		WithAuthor(r.org, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(r.totalsRow(s.Totals))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("VENDAS POR VENDEDOR"))
	m.AddRows(tableHeaderRow([]string{"Vendedor", "Vendas", "Unid.", "Receita", "Comissão"}))
	if len(s.BySeller) == 0 {
		m.AddRows(emptyRow())
	}
	for _, st := range s.BySeller {
		m.AddRows(r.tableRow(st.Username, st.TotalsDTO))
	}

	m.AddRows(row.New(4))
	m.AddRows(sectionRow("ITENS MAIS VENDIDOS"))
	m.AddRows(tableHeaderRow([]string{"Item", "Vendas", "Unid.", "Receita", "Comissão"}))
	if len(s.TopItems) == 0 {
		m.AddRows(emptyRow())
	}
	for _, it := range s.TopItems {
		m.AddRows(r.tableRow(it.ItemName, it.TotalsDTO))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (r *SummaryRenderer) headerRow(s *dto.SummaryDTO) core.Row {
	since := "início"
	if s.Since != nil {
		since = s.Since.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.org, "Vendas"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Resumo: "+nonEmpty(periodLabels[s.Period], s.Period), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Gerado em "+s.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Desde: "+since, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func (r *SummaryRenderer) totalsRow(t dto.TotalsDTO) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("Vendas", fmt.Sprint(t.SalesCount)),
		cell("Unidades", fmt.Sprint(t.UnitsSold)),
		col.New(1),
		cell("Receita", r.money(t.Revenue)),
		cell("Comissões", r.money(t.SellerProfit)),
		cell("Organização", r.money(t.OwnerProfit)),
		col.New(1),
	)
}

func (r *SummaryRenderer) tableRow(name string, t dto.TotalsDTO) core.Row {
	return row.New(7).Add(
		col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(fmt.Sprint(t.SalesCount), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(fmt.Sprint(t.UnitsSold), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(r.money(t.Revenue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(r.money(t.SellerProfit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func sectionRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func tableHeaderRow(labels []string) core.Row {
	sizes := []int{4, 2, 2, 2, 2}
	aligns := []align.Type{align.Left, align.Center, align.Center, align.Right, align.Right}
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: aligns[i], Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(cols...)
}

func emptyRow() core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New("Sem vendas no período.", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (r *SummaryRenderer) money(d decimal.Decimal) string {
	return r.printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
