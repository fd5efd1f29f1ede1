package billing

import (
	"context"

	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función con repos atados a una misma
// transacción. Emitir una factura toca numeración, cabecera, líneas y
// stock; todo entra o todo se revierte.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
		companyRepo repository.CompanyRepository,
	) error) error
}

// InvoicePDFData datos ya resueltos para render del PDF de factura.
type InvoicePDFData struct {
	Invoice  *entity.Invoice
	Lines    []*entity.InvoiceLine
	Customer *entity.Customer
	Company  *entity.CompanySettings
	Products map[string]*entity.Product
}

// InvoicePDFGenerator genera la representación PDF de una factura con el
// desglose de IVA y los datos del timbrado.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, data InvoicePDFData) ([]byte, error)
}
