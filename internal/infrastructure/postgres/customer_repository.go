package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
	"github.com/sigepy/erp-api/pkg/search"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, customer_code, company_name, contact_name, email, phone, address, city,
	country, tax_id, credit_limit, payment_terms, is_active, tourism_regime, tourism_regime_pdf,
	tourism_regime_expiry, notes, created_by, created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CustomerCode, c.CompanyName, c.ContactName, c.Email, c.Phone, c.Address, c.City,
		c.Country, c.TaxID, c.CreditLimit, c.PaymentTerms, c.IsActive, c.TourismRegime, c.TourismRegimePDF,
		c.TourismRegimeExpiry, c.Notes, c.CreatedByID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene un cliente por su código único.
func (r *CustomerRepo) GetByCode(code string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_code = $1`
	return scanCustomer(r.q.QueryRow(context.Background(), query, code))
}

// List lista clientes con búsqueda sin tildes sobre código, razón social y RUC.
func (r *CustomerRepo) List(filter repository.CustomerFilter) ([]*entity.Customer, error) {
	term := search.Normalize(filter.Search)
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE ($1 = '' OR unaccent(lower(customer_code || ' ' || company_name || ' ' || coalesce(tax_id, ''))) LIKE '%' || $1 || '%')
		  AND (NOT $2 OR is_active)
		ORDER BY company_name
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, term, filter.ActiveOnly, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza la ficha completa del cliente.
func (r *CustomerRepo) Update(c *entity.Customer) error {
	query := `
		UPDATE customers SET
			company_name = $2, contact_name = $3, email = $4, phone = $5, address = $6,
			city = $7, country = $8, tax_id = $9, credit_limit = $10, payment_terms = $11,
			tourism_regime = $12, tourism_regime_pdf = $13, tourism_regime_expiry = $14,
			notes = $15, updated_at = $16
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CompanyName, c.ContactName, c.Email, c.Phone, c.Address,
		c.City, c.Country, c.TaxID, c.CreditLimit, c.PaymentTerms,
		c.TourismRegime, c.TourismRegimePDF, c.TourismRegimeExpiry,
		c.Notes, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// SetActive cambia la baja/alta lógica del cliente.
func (r *CustomerRepo) SetActive(id string, active bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE customers SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set customer active: %w", err)
	}
	return nil
}

// ListExpiringTourism devuelve clientes activos con régimen de turismo que
// vence en [from, to].
func (r *CustomerRepo) ListExpiringTourism(from, to time.Time) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE is_active AND tourism_regime
		  AND tourism_regime_expiry BETWEEN $1 AND $2
		ORDER BY tourism_regime_expiry`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expiring tourism: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.CustomerCode, &c.CompanyName, &c.ContactName, &c.Email, &c.Phone, &c.Address, &c.City,
		&c.Country, &c.TaxID, &c.CreditLimit, &c.PaymentTerms, &c.IsActive, &c.TourismRegime, &c.TourismRegimePDF,
		&c.TourismRegimeExpiry, &c.Notes, &c.CreatedByID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	return &c, nil
}

const contactColumns = `id, customer_id, name, title, email, phone, is_primary, is_active, created_at`

// CreateContact persiste un contacto del cliente.
func (r *CustomerRepo) CreateContact(c *entity.Contact) error {
	query := `
		INSERT INTO customer_contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CustomerID, c.Name, c.Title, c.Email, c.Phone, c.IsPrimary, c.IsActive, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetContact obtiene un contacto por ID.
func (r *CustomerRepo) GetContact(id string) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM customer_contacts WHERE id = $1`
	var c entity.Contact
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.CustomerID, &c.Name, &c.Title, &c.Email, &c.Phone, &c.IsPrimary, &c.IsActive, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

// ListContacts devuelve los contactos del cliente, primarios primero.
func (r *CustomerRepo) ListContacts(customerID string) ([]*entity.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM customer_contacts WHERE customer_id = $1
		ORDER BY is_primary DESC, name`
	rows, err := r.q.Query(context.Background(), query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contact
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.CustomerID, &c.Name, &c.Title, &c.Email, &c.Phone, &c.IsPrimary, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// UpdateContact actualiza un contacto.
func (r *CustomerRepo) UpdateContact(c *entity.Contact) error {
	query := `
		UPDATE customer_contacts SET name = $2, title = $3, email = $4, phone = $5, is_primary = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, c.ID, c.Name, c.Title, c.Email, c.Phone, c.IsPrimary)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// DeleteContact elimina un contacto.
func (r *CustomerRepo) DeleteContact(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM customer_contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
