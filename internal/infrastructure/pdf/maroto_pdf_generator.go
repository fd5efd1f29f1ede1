// Package pdf implementa la representación gráfica de comprobantes con
// Maroto v2: factura con los datos del timbrado paraguayo y desglose de IVA,
// y cotización comercial.
//
// Layout de la factura (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUC  │  Timbrado + N° + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                            │
//	│  CLIENTE: Razón social + RUC + condición de venta           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | IVA | Total línea     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LIQUIDACIÓN IVA: Gravado 10 / Gravado 5 / Exento           │
//	│  TOTALES: Subtotal / IVA / TOTAL                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda del timbrado (+ régimen de turismo)        │
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

	"github.com/sigepy/erp-api/internal/application/billing"
	"github.com/sigepy/erp-api/internal/application/sales"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/pkg/fiscal"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator y
// sales.QuotePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var (
	_ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)
	_ sales.QuotePDFGenerator     = (*MarotoPDFGenerator)(nil)
)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

// GenerateInvoicePDF genera el PDF de la factura y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, data billing.InvoicePDFData) ([]byte, error) {
	m := newDocument("Factura "+data.Invoice.InvoiceNumber, data.Company.RazonSocial)

	m.AddRows(invoiceHeaderRow(data.Invoice, data.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(data.Company))
	m.AddRows(invoiceCustomerRow(data.Invoice, data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(true))
	for _, r := range invoiceLineRows(data.Invoice.Currency, data.Lines, data.Products) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(ivaBreakdownRow(data.Invoice))
	m.AddRows(invoiceTotalsRow(data.Invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range invoiceFooterRows(data.Invoice, data.Company) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar factura: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateQuotePDF genera el PDF de la cotización y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateQuotePDF(_ context.Context, data sales.QuotePDFData) ([]byte, error) {
	m := newDocument("Cotización "+data.Quote.QuoteNumber, data.Company.RazonSocial)

	m.AddRows(quoteHeaderRow(data.Quote, data.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(data.Company))
	m.AddRows(quoteCustomerRow(data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(false))
	for _, r := range quoteLineRows(data.Company.MonedaDefecto, data.Lines, data.Products) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(quoteTotalsRow(data.Quote, data.Company.MonedaDefecto))

	m.AddRows(line.NewRow(3))
	for _, r := range quoteFooterRows(data.Quote) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar cotización: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones de factura ──────────────────────────────────────────────────────

// invoiceHeaderRow: razón social + RUC (izq) y timbrado + número + fecha (der).
func invoiceHeaderRow(inv *entity.Invoice, company *entity.CompanySettings) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(company.RazonSocial, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUC: "+company.RUC, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Timbrado N° "+company.Timbrado, props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 11,
			}),
			text.New("Fecha: "+inv.InvoiceDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 18, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos de contacto del emisor.
func emisorRow(company *entity.CompanySettings) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Direccion, "—"),
				nonEmpty(company.Telefono, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// invoiceCustomerRow: datos del cliente y condición de venta.
func invoiceCustomerRow(inv *entity.Invoice, customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("RUC: %s   |   Condición de venta: %s   |   Moneda: %s",
				nonEmpty(customer.TaxID, "—"),
				inv.CondicionVenta,
				inv.Currency,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas. La columna de IVA solo
// aparece en facturas.
func tableHeaderRow(withIVA bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	if withIVA {
		return row.New(8).Add(
			h("Cant.", 1, align.Center),
			h("Descripción", 5, align.Left),
			h("Precio Unit.", 2, align.Right),
			h("IVA", 1, align.Center),
			h("Total", 3, align.Right),
		)
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.%", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// invoiceLineRows: una fila por línea de factura, con su categoría de IVA.
func invoiceLineRows(currency string, lines []*entity.InvoiceLine, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		desc := l.Description
		if desc == "" {
			if p, ok := products[l.ProductID]; ok {
				desc = p.Name
			}
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				desc,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				fiscal.FormatCurrency(l.UnitPrice, currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				ivaLabel(l.IVACategory),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				fiscal.FormatCurrency(l.LineTotal, currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// ivaBreakdownRow: liquidación del IVA por categoría.
func ivaBreakdownRow(inv *entity.Invoice) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Center, Color: colorGray, Top: 1,
			}),
			text.New(value, props.Text{Size: 8, Align: align.Center, Top: 5}),
		)
	}
	return row.New(11).Add(
		cell("GRAVADO 10%", fiscal.FormatCurrency(inv.SubtotalGravado10, inv.Currency)),
		cell("GRAVADO 5%", fiscal.FormatCurrency(inv.SubtotalGravado5, inv.Currency)),
		cell("EXENTO", fiscal.FormatCurrency(inv.SubtotalExento, inv.Currency)),
	)
}

// invoiceTotalsRow: bloque de totales alineado a la derecha.
func invoiceTotalsRow(inv *entity.Invoice) core.Row {
	return totalsBlock(
		[2]string{"Subtotal:", fiscal.FormatCurrency(inv.Subtotal, inv.Currency)},
		[2]string{fmt.Sprintf("IVA (10%%: %s / 5%%: %s):",
			fiscal.FormatCurrency(inv.IVA10, inv.Currency),
			fiscal.FormatCurrency(inv.IVA5, inv.Currency)),
			fiscal.FormatCurrency(inv.TaxAmount, inv.Currency)},
		[2]string{"TOTAL:", fiscal.FormatCurrency(inv.TotalAmount, inv.Currency)},
	)
}

// invoiceFooterRows: leyenda del timbrado y, si aplica, del régimen de turismo.
func invoiceFooterRows(inv *entity.Invoice, company *entity.CompanySettings) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Timbrado N° %s   |   Punto de expedición: %s   |   %s",
				company.Timbrado, inv.PuntoExpedicion, nonEmpty(inv.LugarEmision, company.Ciudad)),
				props.Text{Size: 7, Color: colorGray, Top: 1}),
		)),
	}
	if inv.TourismRegimeApplied {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Operación exenta de IVA (%s%%) — Régimen de Turismo, Decreto 1931/19.",
				inv.TourismRegimePercentage.StringFixed(0)),
				props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Original: cliente   |   Duplicado: archivo tributario. Conserve este documento como comprobante fiscal.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// ── Secciones de cotización ───────────────────────────────────────────────────

func quoteHeaderRow(q *entity.Quote, company *entity.CompanySettings) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.RazonSocial, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUC: "+company.RUC, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COTIZACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(q.QuoteNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Fecha: %s   Válida hasta: %s",
				q.QuoteDate.Format("02/01/2006"), q.ValidUntil.Format("02/01/2006")),
				props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func quoteCustomerRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("RUC: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(customer.TaxID, "—"),
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func quoteLineRows(currency string, lines []*entity.QuoteLine, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		desc := l.Description
		if desc == "" {
			if p, ok := products[l.ProductID]; ok {
				desc = p.Name
			}
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				desc,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				fiscal.FormatCurrency(l.UnitPrice, currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.DiscountPercent.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				fiscal.FormatCurrency(l.LineTotal, currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func quoteTotalsRow(q *entity.Quote, currency string) core.Row {
	return totalsBlock(
		[2]string{"Subtotal:", fiscal.FormatCurrency(q.Subtotal, currency)},
		[2]string{"IVA:", fiscal.FormatCurrency(q.TaxAmount, currency)},
		[2]string{"TOTAL:", fiscal.FormatCurrency(q.TotalAmount, currency)},
	)
}

func quoteFooterRows(q *entity.Quote) []core.Row {
	var rows []core.Row
	if q.Terms != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Condiciones: "+q.Terms, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Cotización válida hasta el %s. Precios sujetos a cambio sin previo aviso luego de esa fecha.",
			q.ValidUntil.Format("02/01/2006")),
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// totalsBlock arma el bloque de tres pares etiqueta/valor a la derecha.
func totalsBlock(subtotal, tax, total [2]string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := text.New(total[0], props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 2,
	})
	grandValue := text.New(total[1], props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 1,
	})

	return row.New(26).Add(
		col.New(2),
		col.New(4).Add(label(subtotal[0]), label(tax[0]), grandLabel),
		col.New(3).Add(value(subtotal[1]), value(tax[1]), grandValue),
		col.New(3),
	)
}

func ivaLabel(category string) string {
	switch category {
	case entity.IVACategory10:
		return "10%"
	case entity.IVACategory5:
		return "5%"
	default:
		return "Ex."
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
