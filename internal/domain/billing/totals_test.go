package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sigepy/erp-api/internal/domain/billing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotal(t *testing.T) {
	cases := []struct {
		name     string
		qty      int
		price    string
		discount string
		want     string
	}{
		{"sin descuento", 2, "150000", "0", "300000"},
		{"con descuento 10%", 3, "100000", "10", "270000"},
		{"descuento total", 1, "50000", "100", "0"},
		{"redondeo a 2 decimales", 3, "33333.333", "0", "100000"},
		{"precio cero", 5, "0", "50", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := billing.LineTotal(tc.qty, dec(tc.price), dec(tc.discount))
			assert.True(t, got.Equal(dec(tc.want)),
				"LineTotal = %s, esperado %s", got, tc.want)
		})
	}
}

// Vector de referencia: línea {qty:3, price:100000, discount:10} produce
// subtotal 270000, IVA 27000 y total 297000.
func TestQuoteTotals_VectorReferencia(t *testing.T) {
	line := billing.LineTotal(3, dec("100000"), dec("10"))
	assert.True(t, line.Equal(dec("270000")))

	subtotal, tax, total := billing.QuoteTotals([]decimal.Decimal{line}, false)
	assert.True(t, subtotal.Equal(dec("270000")), "subtotal = %s", subtotal)
	assert.True(t, tax.Equal(dec("27000")), "tax = %s", tax)
	assert.True(t, total.Equal(dec("297000")), "total = %s", total)
}

// El total siempre debe ser exactamente subtotal + subtotal*0.10 para
// clientes no exentos.
func TestQuoteTotals_TotalEsSubtotalMasIVA(t *testing.T) {
	lines := []decimal.Decimal{dec("125000.50"), dec("74999.50"), dec("1")}
	subtotal, tax, total := billing.QuoteTotals(lines, false)

	assert.True(t, tax.Equal(subtotal.Mul(dec("0.10")).Round(2)))
	assert.True(t, total.Equal(subtotal.Add(tax)))
}

func TestQuoteTotals_ExentoPorRegimenTurismo(t *testing.T) {
	subtotal, tax, total := billing.QuoteTotals([]decimal.Decimal{dec("500000")}, true)
	assert.True(t, subtotal.Equal(dec("500000")))
	assert.True(t, tax.IsZero(), "cliente con régimen de turismo vigente no paga IVA")
	assert.True(t, total.Equal(subtotal))
}

func TestQuoteTotals_SinLineas(t *testing.T) {
	subtotal, tax, total := billing.QuoteTotals(nil, false)
	assert.True(t, subtotal.IsZero())
	assert.True(t, tax.IsZero())
	assert.True(t, total.IsZero())
}

func TestInvoiceBreakdown_Desglose(t *testing.T) {
	lines := []billing.TaxedLine{
		{LineTotal: dec("1000000"), IVACategory: "10"},
		{LineTotal: dec("200000"), IVACategory: "5"},
		{LineTotal: dec("300000"), IVACategory: "EXENTO"},
	}
	b := billing.InvoiceBreakdown(lines, dec("10"), dec("5"))

	assert.True(t, b.SubtotalGravado10.Equal(dec("1000000")))
	assert.True(t, b.SubtotalGravado5.Equal(dec("200000")))
	assert.True(t, b.SubtotalExento.Equal(dec("300000")))
	assert.True(t, b.IVA10.Equal(dec("100000")))
	assert.True(t, b.IVA5.Equal(dec("10000")))
	assert.True(t, b.TotalIVA.Equal(dec("110000")))
	assert.True(t, b.Subtotal.Equal(dec("1500000")))
	assert.True(t, b.Total.Equal(dec("1610000")))
}

func TestLineIVA(t *testing.T) {
	assert.True(t, billing.LineIVA(dec("100000"), "10", dec("10"), dec("5")).Equal(dec("10000")))
	assert.True(t, billing.LineIVA(dec("100000"), "5", dec("10"), dec("5")).Equal(dec("5000")))
	assert.True(t, billing.LineIVA(dec("100000"), "EXENTO", dec("10"), dec("5")).IsZero())
}

// El régimen turístico descuenta el IVA, no la base gravada: con 100% de
// exención el total queda igual al subtotal.
func TestApplyTourismRegime_ExencionTotal(t *testing.T) {
	lines := []billing.TaxedLine{
		{LineTotal: dec("1000000"), IVACategory: "10"},
		{LineTotal: dec("200000"), IVACategory: "5"},
	}
	b := billing.InvoiceBreakdown(lines, dec("10"), dec("5"))
	b = billing.ApplyTourismRegime(b, dec("100"))

	assert.True(t, b.IVA10.IsZero())
	assert.True(t, b.IVA5.IsZero())
	assert.True(t, b.TotalIVA.IsZero())
	assert.True(t, b.Total.Equal(b.Subtotal))
	assert.True(t, b.TourismDiscount.Equal(dec("110000")))
}

func TestApplyTourismRegime_PorcentajeCeroNoCambiaNada(t *testing.T) {
	lines := []billing.TaxedLine{{LineTotal: dec("1000000"), IVACategory: "10"}}
	b := billing.InvoiceBreakdown(lines, dec("10"), dec("5"))
	after := billing.ApplyTourismRegime(b, decimal.Zero)
	assert.True(t, after.Total.Equal(b.Total))
	assert.True(t, after.TotalIVA.Equal(b.TotalIVA))
}
