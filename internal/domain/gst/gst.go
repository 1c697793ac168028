// Package gst calcula el desglose de impuestos GST de una factura india y el
// año fiscal (abril-marzo) al que pertenece una fecha.
package gst

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Breakdown desglose de un monto bruto (impuestos incluidos).
// Intra-estatal: CGST + SGST. Inter-estatal: IGST.
type Breakdown struct {
	Taxable    decimal.Decimal
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
	Total      decimal.Decimal
	IntraState bool
}

// Tax suma de los impuestos del desglose.
func (b Breakdown) Tax() decimal.Decimal {
	return b.CGST.Add(b.SGST).Add(b.IGST)
}

// Split descompone gross con la tasa ratePercent (ej: 18).
// taxable = gross / (1 + rate), redondeado a 2 decimales; el impuesto es el resto,
// de modo que Taxable + impuestos == gross siempre. En el caso intra-estatal
// CGST es la mitad redondeada y SGST absorbe el centavo sobrante.
func Split(gross, ratePercent decimal.Decimal, sellerState, buyerState string) (Breakdown, error) {
	if gross.IsNegative() {
		return Breakdown{}, fmt.Errorf("monto bruto negativo: %s", gross)
	}
	if ratePercent.IsNegative() {
		return Breakdown{}, fmt.Errorf("tasa GST negativa: %s", ratePercent)
	}
	gross = gross.Round(2)
	factor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	taxable := gross.Div(factor).Round(2)
	tax := gross.Sub(taxable)

	b := Breakdown{
		Taxable:    taxable,
		CGST:       decimal.Zero,
		SGST:       decimal.Zero,
		IGST:       decimal.Zero,
		Total:      gross,
		IntraState: SameState(sellerState, buyerState),
	}
	if b.IntraState {
		b.CGST = tax.Div(two).Round(2)
		b.SGST = tax.Sub(b.CGST)
	} else {
		b.IGST = tax
	}
	return b, nil
}

// SameState compara dos códigos de estado GST. Un código vacío se trata como
// otro estado (IGST).
func SameState(a, b string) bool {
	a, b = normalizeState(a), normalizeState(b)
	return a != "" && a == b
}

// StateCodeFromGSTIN extrae los dos primeros dígitos de un GSTIN.
func StateCodeFromGSTIN(gstin string) string {
	g := strings.TrimSpace(gstin)
	if len(g) < 2 {
		return ""
	}
	code := g[:2]
	for _, r := range code {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return code
}

func normalizeState(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		s = "0" + s
	}
	return s
}

// FiscalYear año fiscal indio de t en formato "2025-26".
func FiscalYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
