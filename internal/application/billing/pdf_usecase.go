package billing

import (
	"context"
	"fmt"

	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF recupera la factura con sus datos relacionados y
// genera el PDF con el desglose de IVA y los datos del timbrado.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	company, err := uc.companyRepo.Get()
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	lines, err := uc.invoiceRepo.GetLines(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	products := make(map[string]*entity.Product, len(lines))
	for _, l := range lines {
		if _, ok := products[l.ProductID]; ok {
			continue
		}
		if p, pErr := uc.productRepo.GetByID(l.ProductID); pErr == nil && p != nil {
			products[l.ProductID] = p
		}
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoicePDFData{
		Invoice:  inv,
		Lines:    lines,
		Customer: customer,
		Company:  company,
		Products: products,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("factura_%s.pdf", inv.InvoiceNumber)
	return pdfBytes, filename, nil
}
