// Package crm contiene los casos de uso de clientes: fichas, contactos y el
// régimen de turismo (exención de IVA) con su PDF acreditante.
package crm

import (
	"time"

	"github.com/google/uuid"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/alerts"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
	"github.com/sigepy/erp-api/pkg/fiscal"
)

// CustomerUseCase casos de uso de clientes y contactos.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customerRepo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

// Create da de alta un cliente. El RUC, si viene, se valida y se guarda en
// formato canónico con dígito verificador.
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest, userID string) (*dto.CustomerResponse, error) {
	if in.CustomerCode == "" || in.CompanyName == "" {
		return nil, domain.ErrInvalidInput
	}
	taxID := in.TaxID
	if taxID != "" {
		info, err := fiscal.ValidateRUC(taxID)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		taxID = info.Formatted
	}
	if in.TourismRegime && in.TourismRegimeExpiry == nil {
		return nil, domain.ErrInvalidInput // el régimen exige fecha de vencimiento
	}
	existing, _ := uc.customerRepo.GetByCode(in.CustomerCode)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	customer := &entity.Customer{
		ID:                  uuid.New().String(),
		CustomerCode:        in.CustomerCode,
		CompanyName:         in.CompanyName,
		ContactName:         in.ContactName,
		Email:               in.Email,
		Phone:               in.Phone,
		Address:             in.Address,
		City:                in.City,
		Country:             in.Country,
		TaxID:               taxID,
		CreditLimit:         in.CreditLimit,
		PaymentTerms:        in.PaymentTerms,
		IsActive:            true,
		TourismRegime:       in.TourismRegime,
		TourismRegimeExpiry: in.TourismRegimeExpiry,
		Notes:               in.Notes,
		CreatedByID:         userID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer, now), nil
}

// Get devuelve un cliente por ID.
func (uc *CustomerUseCase) Get(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer, time.Now()), nil
}

// List devuelve clientes filtrados y paginados. La búsqueda ignora tildes.
func (uc *CustomerUseCase) List(search string, activeOnly bool, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	customers, err := uc.customerRepo.List(repository.CustomerFilter{
		Search:     search,
		ActiveOnly: activeOnly,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	items := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		items = append(items, *toCustomerResponse(c, now))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica los campos presentes en la solicitud.
func (uc *CustomerUseCase) Update(id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	if in.CompanyName != nil {
		customer.CompanyName = *in.CompanyName
	}
	if in.ContactName != nil {
		customer.ContactName = *in.ContactName
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	if in.City != nil {
		customer.City = *in.City
	}
	if in.Country != nil {
		customer.Country = *in.Country
	}
	if in.TaxID != nil {
		if *in.TaxID == "" {
			customer.TaxID = ""
		} else {
			info, err := fiscal.ValidateRUC(*in.TaxID)
			if err != nil {
				return nil, domain.ErrInvalidInput
			}
			customer.TaxID = info.Formatted
		}
	}
	if in.CreditLimit != nil {
		customer.CreditLimit = *in.CreditLimit
	}
	if in.PaymentTerms != nil {
		customer.PaymentTerms = *in.PaymentTerms
	}
	if in.Notes != nil {
		customer.Notes = *in.Notes
	}
	if in.TourismRegime != nil {
		customer.TourismRegime = *in.TourismRegime
	}
	if in.TourismRegimeExpiry != nil {
		customer.TourismRegimeExpiry = in.TourismRegimeExpiry
	}
	if customer.TourismRegime && customer.TourismRegimeExpiry == nil {
		return nil, domain.ErrInvalidInput
	}

	customer.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer, customer.UpdatedAt), nil
}

// Deactivate baja lógica: el cliente queda inactivo, nunca se borra.
func (uc *CustomerUseCase) Deactivate(id string) error {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	return uc.customerRepo.SetActive(id, false)
}

// Activate reactiva un cliente inactivo.
func (uc *CustomerUseCase) Activate(id string) error {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	return uc.customerRepo.SetActive(id, true)
}

// AddContact agrega un contacto al cliente.
func (uc *CustomerUseCase) AddContact(customerID string, in dto.ContactRequest) (*dto.ContactResponse, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	contact := &entity.Contact{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Name:       in.Name,
		Title:      in.Title,
		Email:      in.Email,
		Phone:      in.Phone,
		IsPrimary:  in.IsPrimary,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	if err := uc.customerRepo.CreateContact(contact); err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// ListContacts devuelve los contactos del cliente.
func (uc *CustomerUseCase) ListContacts(customerID string) ([]dto.ContactResponse, error) {
	contacts, err := uc.customerRepo.ListContacts(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, *toContactResponse(c))
	}
	return out, nil
}

// UpdateContact modifica un contacto existente.
func (uc *CustomerUseCase) UpdateContact(contactID string, in dto.ContactRequest) (*dto.ContactResponse, error) {
	contact, err := uc.customerRepo.GetContact(contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}
	contact.Name = in.Name
	contact.Title = in.Title
	contact.Email = in.Email
	contact.Phone = in.Phone
	contact.IsPrimary = in.IsPrimary
	if err := uc.customerRepo.UpdateContact(contact); err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// DeleteContact elimina un contacto.
func (uc *CustomerUseCase) DeleteContact(contactID string) error {
	contact, err := uc.customerRepo.GetContact(contactID)
	if err != nil {
		return err
	}
	if contact == nil {
		return domain.ErrNotFound
	}
	return uc.customerRepo.DeleteContact(contactID)
}

func toCustomerResponse(c *entity.Customer, now time.Time) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:                  c.ID,
		CustomerCode:        c.CustomerCode,
		CompanyName:         c.CompanyName,
		ContactName:         c.ContactName,
		Email:               c.Email,
		Phone:               c.Phone,
		Address:             c.Address,
		City:                c.City,
		Country:             c.Country,
		TaxID:               c.TaxID,
		CreditLimit:         c.CreditLimit,
		PaymentTerms:        c.PaymentTerms,
		IsActive:            c.IsActive,
		Notes:               c.Notes,
		TourismRegime:       c.TourismRegime,
		TourismRegimePDF:    c.TourismRegimePDF,
		TourismRegimeExpiry: c.TourismRegimeExpiry,
		TourismRegimeValid:  c.HasValidTourismRegime(now),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	if c.TourismRegime && c.TourismRegimeExpiry != nil {
		d := alerts.DaysUntil(*c.TourismRegimeExpiry, now)
		resp.TourismDaysToExpiry = &d
		resp.TourismExpiringAlert = alerts.IsExpiringSoon(*c.TourismRegimeExpiry, now, alerts.CustomerExpiryWindowDays)
	}
	return resp
}

func toContactResponse(c *entity.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Title:      c.Title,
		Email:      c.Email,
		Phone:      c.Phone,
		IsPrimary:  c.IsPrimary,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
	}
}
