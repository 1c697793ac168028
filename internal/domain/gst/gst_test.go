package gst_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/domain/gst"
)

var rate18 = decimal.NewFromInt(18)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSplit_MismoEstadoDivideCGSTySGST(t *testing.T) {
	b, err := gst.Split(d("1180"), rate18, "29", "29")
	require.NoError(t, err)

	assert.True(t, b.IntraState)
	assert.True(t, d("1000").Equal(b.Taxable), b.Taxable.String())
	assert.True(t, d("90").Equal(b.CGST), b.CGST.String())
	assert.True(t, d("90").Equal(b.SGST), b.SGST.String())
	assert.True(t, b.IGST.IsZero())
	assert.True(t, d("1180").Equal(b.Total))
}

func TestSplit_SGSTAbsorbeElResiduo(t *testing.T) {
	// 1001 / 1.18 = 848.305... -> 848.31; impuesto 152.69; mitad 76.345 -> 76.35
	b, err := gst.Split(d("1001"), rate18, "27", "27")
	require.NoError(t, err)

	assert.Equal(t, "848.31", b.Taxable.StringFixed(2))
	assert.Equal(t, "76.35", b.CGST.StringFixed(2))
	assert.Equal(t, "76.34", b.SGST.StringFixed(2))
	assert.True(t, b.Taxable.Add(b.Tax()).Equal(d("1001")), "taxable + impuestos debe igualar el bruto")
}

func TestSplit_OtroEstadoUsaIGST(t *testing.T) {
	b, err := gst.Split(d("1180"), rate18, "29", "07")
	require.NoError(t, err)

	assert.False(t, b.IntraState)
	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, d("180").Equal(b.IGST), b.IGST.String())
}

func TestSplit_EstadoCompradorVacioEsInterEstatal(t *testing.T) {
	b, err := gst.Split(d("500"), rate18, "29", "")
	require.NoError(t, err)
	assert.False(t, b.IntraState)
	assert.False(t, b.IGST.IsZero())
}

func TestSplit_MontoNegativoFalla(t *testing.T) {
	_, err := gst.Split(d("-1"), rate18, "29", "29")
	assert.Error(t, err)
}

func TestSameState_NormalizaUnDigito(t *testing.T) {
	assert.True(t, gst.SameState("7", "07"))
	assert.False(t, gst.SameState("", ""))
}

func TestStateCodeFromGSTIN(t *testing.T) {
	assert.Equal(t, "29", gst.StateCodeFromGSTIN("29ABCDE1234F1Z5"))
	assert.Equal(t, "", gst.StateCodeFromGSTIN("X"))
	assert.Equal(t, "", gst.StateCodeFromGSTIN("AB1234"))
}

func TestFiscalYear(t *testing.T) {
	cases := map[string]time.Time{
		"2025-26": time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		"2024-25": time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC),
		"2099-00": time.Date(2099, time.December, 1, 0, 0, 0, 0, time.UTC),
	}
	for want, at := range cases {
		assert.Equal(t, want, gst.FiscalYear(at), at.String())
	}
}
