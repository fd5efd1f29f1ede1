package sales

import (
	"context"

	"github.com/sigepy/erp-api/internal/domain/entity"
)

// QuotePDFData datos ya resueltos para render del PDF de cotización.
type QuotePDFData struct {
	Quote    *entity.Quote
	Lines    []*entity.QuoteLine
	Customer *entity.Customer
	Company  *entity.CompanySettings
	Products map[string]*entity.Product // por ID, para nombres y unidades
}

// QuotePDFGenerator genera la representación PDF de una cotización.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, data QuotePDFData) ([]byte, error)
}
