package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

var _ repository.DepositRepository = (*DepositRepo)(nil)

// DepositRepo implementación de DepositRepository (usable con pool o tx).
type DepositRepo struct {
	q Querier
}

// NewDepositRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDepositRepository(q Querier) *DepositRepo {
	return &DepositRepo{q: q}
}

const depositColumns = `id, deposit_number, customer_id, deposit_type, amount, currency, deposit_date,
	expiry_date, status, applied_amount, available_amount, payment_method, reference_number, bank_name,
	notes, project_ref, contract_number, created_by, created_at, updated_at`

// Create persiste un depósito.
func (r *DepositRepo) Create(d *entity.Deposit) error {
	query := `
		INSERT INTO deposits (` + depositColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.DepositNumber, d.CustomerID, d.DepositType, d.Amount, d.Currency, d.DepositDate,
		d.ExpiryDate, d.Status, d.AppliedAmount, d.AvailableAmount, d.PaymentMethod, d.ReferenceNumber, d.BankName,
		d.Notes, d.ProjectRef, d.ContractNumber, d.CreatedByID, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

// GetByID obtiene un depósito por ID.
func (r *DepositRepo) GetByID(id string) (*entity.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE id = $1`
	return scanDeposit(r.q.QueryRow(context.Background(), query, id))
}

// List lista depósitos filtrados, más recientes primero.
func (r *DepositRepo) List(filter repository.DepositFilter) ([]*entity.Deposit, error) {
	query := `
		SELECT ` + depositColumns + `
		FROM deposits
		WHERE ($1 = '' OR customer_id = $1::uuid)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR deposit_type = $3)
		  AND ($4 = '' OR currency = $4)
		  AND ($5::timestamptz IS NULL OR deposit_date >= $5)
		  AND ($6::timestamptz IS NULL OR deposit_date <= $6)
		ORDER BY deposit_date DESC, deposit_number DESC
		LIMIT $7 OFFSET $8`
	rows, err := r.q.Query(context.Background(), query,
		filter.CustomerID, filter.Status, filter.DepositType, filter.Currency,
		filter.FromDate, filter.ToDate, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Update actualiza estado, saldos y notas del depósito.
func (r *DepositRepo) Update(d *entity.Deposit) error {
	query := `
		UPDATE deposits SET
			status = $2, applied_amount = $3, available_amount = $4, expiry_date = $5,
			notes = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Status, d.AppliedAmount, d.AvailableAmount, d.ExpiryDate, d.Notes, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update deposit: %w", err)
	}
	return nil
}

// ApplyAmount descuenta del saldo con un update condicionado: la fila solo
// se toca si el disponible alcanza. Dos aplicaciones concurrentes sobre el
// mismo saldo no pueden pasar las dos, y el estado se decide sobre el
// disponible resultante, no sobre una lectura previa.
func (r *DepositRepo) ApplyAmount(depositID string, amount decimal.Decimal) (*entity.Deposit, error) {
	query := `
		UPDATE deposits
		SET available_amount = available_amount - $2,
			applied_amount = applied_amount + $2,
			status = CASE WHEN available_amount - $2 = 0 THEN $3 ELSE status END,
			updated_at = now()
		WHERE id = $1 AND status = $4 AND available_amount >= $2
		RETURNING ` + depositColumns
	d, err := scanDeposit(r.q.QueryRow(context.Background(), query,
		depositID, amount, entity.DepositStatusApplied, entity.DepositStatusActive))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrInsufficientFunds
	}
	return d, nil
}

// RefundAmount descuenta una devolución del disponible con el mismo guard
// que ApplyAmount. La nota queda anexada y el pase a REFUNDED ocurre en la
// misma sentencia cuando el disponible llega a cero.
func (r *DepositRepo) RefundAmount(depositID string, amount decimal.Decimal, note string) (*entity.Deposit, error) {
	query := `
		UPDATE deposits
		SET available_amount = available_amount - $2,
			status = CASE WHEN available_amount - $2 = 0 THEN $3 ELSE status END,
			notes = CASE WHEN notes = '' THEN $5 ELSE notes || chr(10) || $5 END,
			updated_at = now()
		WHERE id = $1 AND status = $4 AND available_amount >= $2
		RETURNING ` + depositColumns
	d, err := scanDeposit(r.q.QueryRow(context.Background(), query,
		depositID, amount, entity.DepositStatusRefunded, entity.DepositStatusActive, note))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrInsufficientFunds
	}
	return d, nil
}

// CreateApplication persiste una aplicación del libro de depósitos.
func (r *DepositRepo) CreateApplication(a *entity.DepositApplication) error {
	query := `
		INSERT INTO deposit_applications (id, deposit_id, invoice_id, amount_applied, application_date, notes, applied_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.DepositID, a.InvoiceID, a.AmountApplied, a.ApplicationDate, a.Notes, a.AppliedByID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert deposit application: %w", err)
	}
	return nil
}

// ListApplications devuelve la auditoría de aplicaciones de un depósito.
func (r *DepositRepo) ListApplications(depositID string) ([]*entity.DepositApplication, error) {
	query := `
		SELECT id, deposit_id, invoice_id, amount_applied, application_date, notes, applied_by, created_at
		FROM deposit_applications WHERE deposit_id = $1 ORDER BY application_date`
	rows, err := r.q.Query(context.Background(), query, depositID)
	if err != nil {
		return nil, fmt.Errorf("list deposit applications: %w", err)
	}
	defer rows.Close()
	var list []*entity.DepositApplication
	for rows.Next() {
		var a entity.DepositApplication
		if err := rows.Scan(&a.ID, &a.DepositID, &a.InvoiceID, &a.AmountApplied, &a.ApplicationDate,
			&a.Notes, &a.AppliedByID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deposit application: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Summary agrega los saldos del cliente por moneda desde el libro.
func (r *DepositRepo) Summary(customerID string) (*entity.DepositSummary, error) {
	query := `
		SELECT
			coalesce(sum(amount) FILTER (WHERE currency = 'PYG'), 0),
			coalesce(sum(available_amount) FILTER (WHERE currency = 'PYG' AND status = $2), 0),
			coalesce(sum(applied_amount) FILTER (WHERE currency = 'PYG'), 0),
			coalesce(sum(amount) FILTER (WHERE currency = 'USD'), 0),
			coalesce(sum(available_amount) FILTER (WHERE currency = 'USD' AND status = $2), 0),
			coalesce(sum(applied_amount) FILTER (WHERE currency = 'USD'), 0),
			count(*) FILTER (WHERE status = $2),
			count(*),
			max(deposit_date)
		FROM deposits WHERE customer_id = $1`
	s := &entity.DepositSummary{CustomerID: customerID}
	err := r.q.QueryRow(context.Background(), query, customerID, entity.DepositStatusActive).Scan(
		&s.TotalPYG, &s.AvailablePYG, &s.AppliedPYG,
		&s.TotalUSD, &s.AvailableUSD, &s.AppliedUSD,
		&s.ActiveDepositsCount, &s.TotalDepositsCount, &s.LastDepositDate,
	)
	if err != nil {
		return nil, fmt.Errorf("deposit summary: %w", err)
	}
	return s, nil
}

// LastNumberWithPrefix devuelve el mayor deposit_number con el prefijo dado.
func (r *DepositRepo) LastNumberWithPrefix(prefix string) (string, error) {
	query := `
		SELECT deposit_number FROM deposits
		WHERE deposit_number LIKE $1 || '%'
		ORDER BY deposit_number DESC LIMIT 1`
	var number string
	err := r.q.QueryRow(context.Background(), query, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last deposit number: %w", err)
	}
	return number, nil
}

// MarkExpired pasa a EXPIRED los depósitos ACTIVE con vencimiento pasado.
func (r *DepositRepo) MarkExpired(today time.Time) (int, error) {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE deposits SET status = $1, updated_at = now()
		WHERE status = $2 AND expiry_date IS NOT NULL AND expiry_date < $3`,
		entity.DepositStatusExpired, entity.DepositStatusActive, today)
	if err != nil {
		return 0, fmt.Errorf("mark deposits expired: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanDeposit(row pgx.Row) (*entity.Deposit, error) {
	var d entity.Deposit
	err := row.Scan(
		&d.ID, &d.DepositNumber, &d.CustomerID, &d.DepositType, &d.Amount, &d.Currency, &d.DepositDate,
		&d.ExpiryDate, &d.Status, &d.AppliedAmount, &d.AvailableAmount, &d.PaymentMethod, &d.ReferenceNumber, &d.BankName,
		&d.Notes, &d.ProjectRef, &d.ContractNumber, &d.CreatedByID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan deposit: %w", err)
	}
	return &d, nil
}
