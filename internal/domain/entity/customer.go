package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la empresa.
// Los campos del régimen de turismo implementan la exención de IVA
// paraguaya para clientes calificados: el beneficio se acredita con un PDF
// y tiene fecha de vencimiento.
type Customer struct {
	ID            string
	CustomerCode  string // código único, ej: CLI0001
	CompanyName   string
	ContactName   string
	Email         string
	Phone         string
	Address       string
	City          string
	Country       string
	TaxID         string // RUC paraguayo
	CreditLimit   decimal.Decimal
	PaymentTerms  int // días
	IsActive      bool

	TourismRegime       bool
	TourismRegimePDF    string     // nombre del archivo PDF acreditante
	TourismRegimeExpiry *time.Time // nil = sin vencimiento registrado

	Notes       string
	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasValidTourismRegime indica si el cliente está exento de IVA a la fecha
// dada: régimen activo y vencimiento igual o posterior a hoy.
func (c *Customer) HasValidTourismRegime(today time.Time) bool {
	if !c.TourismRegime {
		return false
	}
	if c.TourismRegimeExpiry == nil {
		return false
	}
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := c.TourismRegimeExpiry.Date()
	expiry := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return !expiry.Before(day)
}

// Contact representa un contacto adicional de un cliente.
type Contact struct {
	ID         string
	CustomerID string
	Name       string
	Title      string
	Email      string
	Phone      string
	IsPrimary  bool
	IsActive   bool
	CreatedAt  time.Time
}
