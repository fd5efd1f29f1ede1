// Package billing contiene el cálculo monetario puro de cotizaciones y
// facturas: totales de línea con descuento, IVA fijo de cotización y el
// desglose de IVA paraguayo (gravado 10%, gravado 5%, exento) con la
// exención por régimen de turismo.
package billing

import "github.com/shopspring/decimal"

// Tasa de IVA fija aplicada a cotizaciones (10%).
var QuoteIVARate = decimal.RequireFromString("0.10")

var hundred = decimal.NewFromInt(100)

// LineTotal calcula el total de una línea:
// cantidad * precio unitario * (1 - descuento/100), redondeado a 2 decimales.
func LineTotal(quantity int, unitPrice, discountPercent decimal.Decimal) decimal.Decimal {
	gross := decimal.NewFromInt(int64(quantity)).Mul(unitPrice)
	net := gross.Mul(decimal.NewFromInt(1).Sub(discountPercent.Div(hundred)))
	return net.Round(2)
}

// QuoteTotals suma los totales de línea y aplica el IVA fijo del 10%.
// Un cliente con régimen de turismo vigente queda exento: tax = 0.
func QuoteTotals(lineTotals []decimal.Decimal, taxExempt bool) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	if taxExempt {
		tax = decimal.Zero
	} else {
		tax = subtotal.Mul(QuoteIVARate).Round(2)
	}
	return subtotal, tax, subtotal.Add(tax)
}

// TaxedLine es la entrada del desglose de IVA de facturas.
type TaxedLine struct {
	LineTotal   decimal.Decimal
	IVACategory string // 10, 5, EXENTO
}

// IVABreakdown es el desglose de IVA paraguayo de una factura.
type IVABreakdown struct {
	SubtotalGravado10 decimal.Decimal
	SubtotalGravado5  decimal.Decimal
	SubtotalExento    decimal.Decimal
	IVA10             decimal.Decimal
	IVA5              decimal.Decimal
	TotalIVA          decimal.Decimal
	Subtotal          decimal.Decimal
	Total             decimal.Decimal
	TourismDiscount   decimal.Decimal
}

// InvoiceBreakdown acumula cada línea en su base gravada y calcula el IVA
// con las tasas configuradas (porcentajes, ej: 10 y 5).
func InvoiceBreakdown(lines []TaxedLine, iva10Rate, iva5Rate decimal.Decimal) IVABreakdown {
	var b IVABreakdown
	b.SubtotalGravado10 = decimal.Zero
	b.SubtotalGravado5 = decimal.Zero
	b.SubtotalExento = decimal.Zero
	for _, l := range lines {
		switch l.IVACategory {
		case "10":
			b.SubtotalGravado10 = b.SubtotalGravado10.Add(l.LineTotal)
		case "5":
			b.SubtotalGravado5 = b.SubtotalGravado5.Add(l.LineTotal)
		default: // EXENTO
			b.SubtotalExento = b.SubtotalExento.Add(l.LineTotal)
		}
	}
	b.IVA10 = b.SubtotalGravado10.Mul(iva10Rate.Div(hundred)).Round(2)
	b.IVA5 = b.SubtotalGravado5.Mul(iva5Rate.Div(hundred)).Round(2)
	b.TotalIVA = b.IVA10.Add(b.IVA5)
	b.Subtotal = b.SubtotalGravado10.Add(b.SubtotalGravado5).Add(b.SubtotalExento)
	b.Total = b.Subtotal.Add(b.TotalIVA)
	b.TourismDiscount = decimal.Zero
	return b
}

// LineIVA calcula el IVA de una línea individual según su categoría.
func LineIVA(lineTotal decimal.Decimal, category string, iva10Rate, iva5Rate decimal.Decimal) decimal.Decimal {
	switch category {
	case "10":
		return lineTotal.Mul(iva10Rate.Div(hundred)).Round(2)
	case "5":
		return lineTotal.Mul(iva5Rate.Div(hundred)).Round(2)
	default:
		return decimal.Zero
	}
}

// ApplyTourismRegime descuenta del IVA el porcentaje de exención turística
// (100 = exención total). La exención aplica sobre el impuesto, no sobre la
// base gravada.
func ApplyTourismRegime(b IVABreakdown, tourismPercentage decimal.Decimal) IVABreakdown {
	if !tourismPercentage.GreaterThan(decimal.Zero) {
		return b
	}
	factor := tourismPercentage.Div(hundred)
	disc10 := b.IVA10.Mul(factor).Round(2)
	disc5 := b.IVA5.Mul(factor).Round(2)
	discount := disc10.Add(disc5)

	b.IVA10 = b.IVA10.Sub(disc10)
	b.IVA5 = b.IVA5.Sub(disc5)
	b.TotalIVA = b.TotalIVA.Sub(discount)
	b.Total = b.Total.Sub(discount)
	b.TourismDiscount = discount
	return b
}
