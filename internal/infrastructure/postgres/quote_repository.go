package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, quote_number, customer_id, quote_date, valid_until, status, subtotal,
	tax_amount, total_amount, notes, terms, created_by, created_at, updated_at`

// Create persiste cabecera y líneas de la cotización.
func (r *QuoteRepo) Create(quote *entity.Quote, lines []*entity.QuoteLine) error {
	ctx := context.Background()
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		quote.ID, quote.QuoteNumber, quote.CustomerID, quote.QuoteDate, quote.ValidUntil, quote.Status,
		quote.Subtotal, quote.TaxAmount, quote.TotalAmount, quote.Notes, quote.Terms,
		quote.CreatedByID, quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return r.insertLines(ctx, lines)
}

func (r *QuoteRepo) insertLines(ctx context.Context, lines []*entity.QuoteLine) error {
	query := `
		INSERT INTO quote_lines (id, quote_id, product_id, quantity, unit_price, discount_percent, line_total, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, l := range lines {
		_, err := r.q.Exec(ctx, query,
			l.ID, l.QuoteID, l.ProductID, l.Quantity, l.UnitPrice, l.DiscountPercent, l.LineTotal, l.Description)
		if err != nil {
			return fmt.Errorf("insert quote line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	return scanQuote(r.q.QueryRow(context.Background(), query, id))
}

// GetLines devuelve las líneas de la cotización.
func (r *QuoteRepo) GetLines(quoteID string) ([]*entity.QuoteLine, error) {
	query := `
		SELECT id, quote_id, product_id, quantity, unit_price, discount_percent, line_total, description
		FROM quote_lines WHERE quote_id = $1 ORDER BY description`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuoteLine
	for rows.Next() {
		var l entity.QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.ProductID, &l.Quantity, &l.UnitPrice,
			&l.DiscountPercent, &l.LineTotal, &l.Description); err != nil {
			return nil, fmt.Errorf("scan quote line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// List lista cotizaciones filtradas, más recientes primero.
func (r *QuoteRepo) List(filter repository.QuoteFilter) ([]*entity.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE ($1 = '' OR customer_id = $1::uuid)
		  AND ($2 = '' OR status = $2)
		  AND ($3::timestamptz IS NULL OR quote_date >= $3)
		  AND ($4::timestamptz IS NULL OR quote_date <= $4)
		ORDER BY quote_date DESC, quote_number DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query,
		filter.CustomerID, filter.Status, filter.FromDate, filter.ToDate, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Update reemplaza cabecera y líneas (borra y reinserta las líneas).
func (r *QuoteRepo) Update(quote *entity.Quote, lines []*entity.QuoteLine) error {
	ctx := context.Background()
	query := `
		UPDATE quotes SET
			valid_until = $2, status = $3, subtotal = $4, tax_amount = $5, total_amount = $6,
			notes = $7, terms = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		quote.ID, quote.ValidUntil, quote.Status, quote.Subtotal, quote.TaxAmount, quote.TotalAmount,
		quote.Notes, quote.Terms, quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM quote_lines WHERE quote_id = $1`, quote.ID); err != nil {
		return fmt.Errorf("delete quote lines: %w", err)
	}
	return r.insertLines(ctx, lines)
}

// UpdateStatus cambia el estado de la cotización.
func (r *QuoteRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE quotes SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	return nil
}

// Delete elimina la cotización y sus líneas.
func (r *QuoteRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM quote_lines WHERE quote_id = $1`, id); err != nil {
		return fmt.Errorf("delete quote lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

// MarkExpired pasa a EXPIRED las cotizaciones vigentes cuyo valid_until ya pasó.
func (r *QuoteRepo) MarkExpired(today time.Time) (int, error) {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE quotes SET status = $1, updated_at = now()
		WHERE status IN ($2, $3) AND valid_until < $4`,
		entity.QuoteStatusExpired, entity.QuoteStatusDraft, entity.QuoteStatusSent, today)
	if err != nil {
		return 0, fmt.Errorf("mark quotes expired: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.CustomerID, &q.QuoteDate, &q.ValidUntil, &q.Status, &q.Subtotal,
		&q.TaxAmount, &q.TotalAmount, &q.Notes, &q.Terms, &q.CreatedByID, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan quote: %w", err)
	}
	return &q, nil
}
