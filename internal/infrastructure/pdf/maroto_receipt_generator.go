// Package pdf genera los comprobantes imprimibles de caja con Maroto v2:
// la tirilla de venta y el estado de cuenta de un plan separe.
//
// Layout de la tirilla (A4 media carta, margen angosto):
//
//	┌──────────────────────────────────────────────┐
//	│  HEADER: Nombre tienda  │  N° venta + Fecha  │
//	│  ──────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal  │
//	│  ──────────────────────────────────────────  │
//	│  TOTAL                                       │
//	│  PAGOS: medio por medio                      │
//	└──────────────────────────────────────────────┘
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
	marotoentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/dfmorales/puntoventa-api/internal/application/receipts"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ receipts.PDFGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa receipts.PDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	StoreName string
}

// NewMarotoReceiptGenerator construye el generador con el nombre de la tienda.
func NewMarotoReceiptGenerator(storeName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{StoreName: storeName}
}

// GenerateSaleReceipt genera la tirilla de una venta y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateSaleReceipt(
	_ context.Context,
	sale *entity.Sale,
	lines []*entity.SaleLine,
	payments []*entity.Payment,
	productNames map[string]string,
) ([]byte, error) {
	m := maroto.New(g.baseConfig("Comprobante de venta"))

	m.AddRows(g.headerRow("COMPROBANTE DE VENTA", shortID(sale.ID), sale.CreatedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if sale.CustomerName != "" {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("Cliente: "+sale.CustomerName, props.Text{Size: 9, Top: 1}),
		)))
	}
	if sale.Status == entity.SaleStatusVoided {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("*** VENTA ANULADA ***", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 1,
			}),
		)))
	}

	m.AddRows(saleTableHeaderRow())
	for _, l := range lines {
		m.AddRows(saleLineRow(l, productNames[l.ProductID]))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(9).Add(
		col.New(7),
		col.New(2).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 1,
		})),
		col.New(3).Add(text.New("$"+formatMoney(sale.Total.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 1, Right: 1,
		})),
	))

	m.AddRows(paymentRows("FORMA DE PAGO", payments)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar tirilla: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateLayawayStatement genera el estado de cuenta de un plan separe.
func (g *MarotoReceiptGenerator) GenerateLayawayStatement(
	_ context.Context,
	account *entity.LayawayAccount,
	payments []*entity.Payment,
	productName string,
) ([]byte, error) {
	m := maroto.New(g.baseConfig("Plan separe " + account.Code))

	m.AddRows(g.headerRow("PLAN SEPARE", account.Code, account.CreatedAt.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(row.New(14).Add(col.New(12).Add(
		text.New("Cliente: "+account.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 1}),
		text.New(fmt.Sprintf("Producto: %s   |   Tel: %s",
			productName, nonEmpty(account.CustomerPhone, "—"),
		), props.Text{Size: 8, Top: 8, Color: colorGray}),
	)))

	estado := "ABIERTO"
	if account.Status == entity.LayawayStatusClosed {
		estado = "CERRADO"
	}
	m.AddRows(row.New(20).Add(
		col.New(4).Add(
			text.New("Precio total", props.Text{Size: 8, Color: colorGray, Top: 1}),
			text.New("$"+formatMoney(account.TotalPrice.StringFixed(0)), props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 7,
			}),
		),
		col.New(4).Add(
			text.New("Total abonado", props.Text{Size: 8, Color: colorGray, Top: 1}),
			text.New("$"+formatMoney(account.TotalPaid.StringFixed(0)), props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 7,
			}),
		),
		col.New(4).Add(
			text.New("Saldo pendiente ("+estado+")", props.Text{Size: 8, Color: colorGray, Top: 1}),
			text.New("$"+formatMoney(account.Balance().StringFixed(0)), props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 7, Color: colorPrimary,
			}),
		),
	))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(paymentRows("HISTORIAL DE ABONOS", payments)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar estado de cuenta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReceiptGenerator) baseConfig(title string) *marotoentity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.StoreName, true).
		Build()
}

func (g *MarotoReceiptGenerator) headerRow(docType, number, date string) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.StoreName, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(docType, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New(date, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func saleTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func saleLineRow(l *entity.SaleLine, name string) core.Row {
	return row.New(6).Add(
		col.New(2).Add(text.New(
			fmt.Sprintf("%d", l.Quantity),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(5).Add(text.New(
			name, props.Text{Size: 8, Align: align.Left, Top: 1},
		)),
		col.New(2).Add(text.New(
			"$"+formatMoney(l.UnitPrice.StringFixed(0)),
			props.Text{Size: 8, Align: align.Right, Top: 1},
		)),
		col.New(3).Add(text.New(
			"$"+formatMoney(l.Subtotal().StringFixed(0)),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

func paymentRows(title string, payments []*entity.Payment) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
		)),
	}
	for _, p := range payments {
		rows = append(rows, row.New(5).Add(
			col.New(5).Add(text.New(
				p.CreatedAt.Format("02/01/2006")+"  "+p.Method,
				props.Text{Size: 8, Top: 0.5, Left: 2},
			)),
			col.New(4).Add(text.New(
				nonEmpty(p.Note, ""), props.Text{Size: 7, Top: 1, Color: colorGray},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(p.Amount.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 0.5, Right: 1},
			)),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID devuelve los primeros 8 caracteres de un UUID para imprimir.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if neg {
		return "-" + string(buf)
	}
	return string(buf)
}
