package repository

import (
	"time"

	"github.com/sigepy/erp-api/internal/domain/entity"
)

// CustomerFilter filtros del listado de clientes.
type CustomerFilter struct {
	Search     string // busca en código, razón social y RUC (sin tildes)
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CustomerRepository define el puerto de persistencia para Customer y sus contactos.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByCode(code string) (*entity.Customer, error)
	List(filter CustomerFilter) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	SetActive(id string, active bool) error

	// ListExpiringTourism devuelve clientes activos con régimen de turismo
	// cuyo vencimiento cae en [from, to].
	ListExpiringTourism(from, to time.Time) ([]*entity.Customer, error)

	CreateContact(contact *entity.Contact) error
	GetContact(id string) (*entity.Contact, error)
	ListContacts(customerID string) ([]*entity.Contact, error)
	UpdateContact(contact *entity.Contact) error
	DeleteContact(id string) error
}
