package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	CustomerCode string          `json:"customer_code" validate:"required,min=1,max=50"`
	CompanyName  string          `json:"company_name" validate:"required,min=1,max=200"`
	ContactName  string          `json:"contact_name"`
	Email        string          `json:"email" validate:"omitempty,email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	Country      string          `json:"country"`
	TaxID        string          `json:"tax_id"` // RUC con dígito verificador
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	PaymentTerms int             `json:"payment_terms" validate:"min=0"`
	Notes        string          `json:"notes"`

	TourismRegime       bool       `json:"tourism_regime"`
	TourismRegimeExpiry *time.Time `json:"tourism_regime_expiry"`
}

// UpdateCustomerRequest entrada para actualizar un cliente (campos opcionales).
type UpdateCustomerRequest struct {
	CompanyName  *string          `json:"company_name" validate:"omitempty,min=1,max=200"`
	ContactName  *string          `json:"contact_name"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Phone        *string          `json:"phone"`
	Address      *string          `json:"address"`
	City         *string          `json:"city"`
	Country      *string          `json:"country"`
	TaxID        *string          `json:"tax_id"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
	PaymentTerms *int             `json:"payment_terms" validate:"omitempty,min=0"`
	Notes        *string          `json:"notes"`

	TourismRegime       *bool      `json:"tourism_regime"`
	TourismRegimeExpiry *time.Time `json:"tourism_regime_expiry"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID           string          `json:"id"`
	CustomerCode string          `json:"customer_code"`
	CompanyName  string          `json:"company_name"`
	ContactName  string          `json:"contact_name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	Country      string          `json:"country"`
	TaxID        string          `json:"tax_id"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	PaymentTerms int             `json:"payment_terms"`
	IsActive     bool            `json:"is_active"`
	Notes        string          `json:"notes"`

	TourismRegime        bool       `json:"tourism_regime"`
	TourismRegimePDF     string     `json:"tourism_regime_pdf,omitempty"`
	TourismRegimeExpiry  *time.Time `json:"tourism_regime_expiry,omitempty"`
	TourismRegimeValid   bool       `json:"tourism_regime_valid"`
	TourismDaysToExpiry  *int       `json:"tourism_days_to_expiry,omitempty"`
	TourismExpiringAlert bool       `json:"tourism_expiring_alert"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ContactRequest entrada para crear o actualizar un contacto.
type ContactRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Title     string `json:"title"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"is_primary"`
}

// ContactResponse salida de un contacto.
type ContactResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	IsPrimary  bool      `json:"is_primary"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
