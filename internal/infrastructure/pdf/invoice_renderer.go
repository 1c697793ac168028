// Package pdf implementa la representación gráfica de la factura GST (tax invoice)
// con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + GSTIN      │  TAX INVOICE + N° + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Estado                                  │
//	│  RECEPTOR: Empresa + GSTIN + lugar de suministro             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Base | Tasa | Impuesto | Total          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Base / CGST / SGST / IGST / TOTAL                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/onboarding-api/internal/application/billing"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ billing.InvoiceRenderer = (*MarotoInvoiceRenderer)(nil)

// MarotoInvoiceRenderer implementa billing.InvoiceRenderer usando Maroto v2.
type MarotoInvoiceRenderer struct{}

func NewMarotoInvoiceRenderer() *MarotoInvoiceRenderer { return &MarotoInvoiceRenderer{} }

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoInvoiceRenderer) Render(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil || doc.Company == nil {
		return nil, fmt.Errorf("pdf: factura o empresa vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Tax Invoice "+doc.Invoice.Number, true).
		WithAuthor(nonEmpty(doc.Seller.Name, "Onboarding"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(doc.Seller))
	m.AddRows(buyerRow(doc.Company, doc.Invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(lineItemRow(doc))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.Invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc billing.InvoiceDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.Seller.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("GSTIN: "+nonEmpty(doc.Seller.GSTIN, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+doc.Invoice.IssuedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sellerRow(s billing.Seller) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Código de estado: %s",
				nonEmpty(s.Address, "—"),
				nonEmpty(s.StateCode, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func buyerRow(c *entity.Company, inv *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(c.LegalName, c.Name), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("GSTIN: %s   |   Lugar de suministro: %s   |   Email: %s",
				nonEmpty(c.GSTIN, "—"),
				nonEmpty(inv.PlaceOfSupply, "—"),
				nonEmpty(c.Email, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descripción del servicio", 5, align.Left),
		h("Base", 2, align.Right),
		h("GST%", 1, align.Center),
		h("Impuesto", 2, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func lineItemRow(doc billing.InvoiceDocument) core.Row {
	inv := doc.Invoice
	return row.New(7).Add(
		col.New(5).Add(text.New(
			nonEmpty(doc.Description, "Onboarding"),
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(2).Add(text.New(
			FormatINR(inv.TaxableAmount),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(1).Add(text.New(
			nonEmpty(doc.GSTRate, "0")+"%",
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(2).Add(text.New(
			FormatINR(inv.TaxTotal()),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(2).Add(text.New(
			FormatINR(inv.TotalAmount),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

// totalsRow CGST/SGST o IGST según el caso; nunca ambos.
func totalsRow(inv *entity.Invoice) core.Row {
	labels := []string{"Base imponible:"}
	values := []string{FormatINR(inv.TaxableAmount)}
	if inv.IGST.IsZero() {
		labels = append(labels, "CGST:", "SGST:")
		values = append(values, FormatINR(inv.CGST), FormatINR(inv.SGST))
	} else {
		labels = append(labels, "IGST:")
		values = append(values, FormatINR(inv.IGST))
	}

	left := col.New(3)
	right := col.New(3)
	for i := range labels {
		top := float64(i * 5)
		left.Add(text.New(labels[i], props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		right.Add(text.New(values[i], props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
	}
	grandTop := float64(len(labels) * 5)
	left.Add(text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: grandTop,
	}))
	right.Add(text.New(FormatINR(inv.TotalAmount), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: grandTop,
	}))

	return row.New(26).Add(col.New(3), left, right, col.New(3))
}

func footerRow(doc billing.InvoiceDocument) core.Row {
	qr := strings.Join([]string{
		doc.Invoice.Number,
		doc.Seller.GSTIN,
		doc.Company.GSTIN,
		doc.Invoice.TotalAmount.StringFixed(2),
		doc.Invoice.IssuedAt.Format("2006-01-02"),
	}, "|")
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Factura generada automáticamente al confirmarse el pago.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Año fiscal "+doc.Invoice.FiscalYear+"   |   Moneda "+nonEmpty(doc.Invoice.Currency, "INR"), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 14, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatINR formato indio con agrupación por lakhs.
// Ej: 1180 → "INR 1,180.00", 1234567.5 → "INR 12,34,567.50"
func FormatINR(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return "INR " + sign + groupIndian(intPart) + "." + frac
}

func groupIndian(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
