package crm

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/application/ports"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/alerts"
	"github.com/sigepy/erp-api/internal/domain/repository"
	"github.com/sigepy/erp-api/pkg/logger"
)

// MaxTourismPDFSize tamaño máximo del PDF acreditante (10 MB).
const MaxTourismPDFSize = 10 << 20

var pdfMagic = []byte("%PDF-")

// TourismUseCase maneja el PDF acreditante del régimen de turismo y las
// alertas de vencimiento.
type TourismUseCase struct {
	customerRepo repository.CustomerRepository
	files        ports.FileStore
	log          *logger.Logger
}

// NewTourismUseCase construye el caso de uso.
func NewTourismUseCase(customerRepo repository.CustomerRepository, files ports.FileStore, log *logger.Logger) *TourismUseCase {
	return &TourismUseCase{customerRepo: customerRepo, files: files, log: log}
}

// UploadPDF guarda el PDF acreditante del régimen de turismo. Valida firma
// %PDF-, content type y tamaño antes de tocar el almacén.
func (uc *TourismUseCase) UploadPDF(customerID, filename, contentType string, size int64, content io.Reader) error {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	if !customer.TourismRegime {
		return fmt.Errorf("%w: el cliente no tiene régimen de turismo", domain.ErrInvalidInput)
	}
	if contentType != "application/pdf" {
		return fmt.Errorf("%w: solo se aceptan archivos PDF", domain.ErrInvalidInput)
	}
	if size <= 0 || size > MaxTourismPDFSize {
		return fmt.Errorf("%w: el archivo supera el máximo de 10MB", domain.ErrInvalidInput)
	}

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(content, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return fmt.Errorf("%w: el contenido no es un PDF válido", domain.ErrInvalidInput)
	}

	stored := fmt.Sprintf("turismo_%s.pdf", customer.ID)
	if err := uc.files.Save(stored, io.MultiReader(bytes.NewReader(head), content)); err != nil {
		return fmt.Errorf("guardar pdf de turismo: %w", err)
	}

	customer.TourismRegimePDF = stored
	customer.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return err
	}
	uc.log.Info().
		Str("customer_id", customer.ID).
		Str("archivo", filename).
		Msg("PDF de régimen de turismo cargado")
	return nil
}

// DownloadPDF abre el PDF acreditante para streaming al cliente HTTP.
func (uc *TourismUseCase) DownloadPDF(customerID string) (io.ReadCloser, string, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, "", err
	}
	if customer == nil {
		return nil, "", domain.ErrNotFound
	}
	if customer.TourismRegimePDF == "" {
		return nil, "", domain.ErrNotFound
	}
	rc, err := uc.files.Open(customer.TourismRegimePDF)
	if err != nil {
		return nil, "", domain.ErrNotFound
	}
	return rc, customer.TourismRegimePDF, nil
}

// DeletePDF elimina el PDF acreditante. Sin documento que lo respalde el
// beneficio deja de aplicar: también se limpian el flag y el vencimiento.
func (uc *TourismUseCase) DeletePDF(customerID string) error {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	if customer.TourismRegimePDF == "" {
		return domain.ErrNotFound
	}
	if err := uc.files.Delete(customer.TourismRegimePDF); err != nil {
		return fmt.Errorf("eliminar pdf de turismo: %w", err)
	}
	customer.TourismRegimePDF = ""
	customer.TourismRegime = false
	customer.TourismRegimeExpiry = nil
	customer.UpdatedAt = time.Now()
	return uc.customerRepo.Update(customer)
}

// ListExpiring devuelve los clientes con régimen de turismo que vence dentro
// de la ventana de aviso (5 días).
func (uc *TourismUseCase) ListExpiring(now time.Time) ([]dto.ExpiringCustomerDTO, error) {
	return uc.ListExpiringWithin(now, alerts.CustomerExpiryWindowDays)
}

// ListExpiringWithin igual que ListExpiring pero con la ventana en días
// elegida por el llamador.
func (uc *TourismUseCase) ListExpiringWithin(now time.Time, days int) ([]dto.ExpiringCustomerDTO, error) {
	if days < 1 {
		days = alerts.CustomerExpiryWindowDays
	}
	from := now.AddDate(0, 0, -1) // incluye los que vencen hoy
	to := now.AddDate(0, 0, days)
	customers, err := uc.customerRepo.ListExpiringTourism(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringCustomerDTO, 0, len(customers))
	for _, c := range customers {
		if c.TourismRegimeExpiry == nil {
			continue
		}
		if !alerts.IsExpiringSoon(*c.TourismRegimeExpiry, now, days) {
			continue
		}
		out = append(out, dto.ExpiringCustomerDTO{
			CustomerID:    c.ID,
			CustomerCode:  c.CustomerCode,
			CompanyName:   c.CompanyName,
			ExpiryDate:    *c.TourismRegimeExpiry,
			DaysRemaining: alerts.DaysUntil(*c.TourismRegimeExpiry, now),
		})
	}
	return out, nil
}

// ProcessExpiryNotifications registra en el log un aviso por cada cliente
// cuyo régimen de turismo está por vencer. Pensado para correr a diario.
func (uc *TourismUseCase) ProcessExpiryNotifications(now time.Time) (int, error) {
	expiring, err := uc.ListExpiring(now)
	if err != nil {
		return 0, err
	}
	for _, c := range expiring {
		uc.log.Warn().
			Str("customer_id", c.CustomerID).
			Str("cliente", c.CompanyName).
			Int("dias_restantes", c.DaysRemaining).
			Time("vence", c.ExpiryDate).
			Msg("régimen de turismo por vencer")
	}
	return len(expiring), nil
}
