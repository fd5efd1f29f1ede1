package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
	"github.com/sigepy/erp-api/pkg/search"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// CreateCategory persiste una categoría.
func (r *ProductRepo) CreateCategory(c *entity.ProductCategory) error {
	query := `
		INSERT INTO product_categories (id, name, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, c.ID, c.Name, c.Description, c.IsActive, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetCategory obtiene una categoría por ID.
func (r *ProductRepo) GetCategory(id string) (*entity.ProductCategory, error) {
	query := `SELECT id, name, description, is_active, created_at FROM product_categories WHERE id = $1`
	var c entity.ProductCategory
	err := r.q.QueryRow(context.Background(), query, id).Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListCategories devuelve todas las categorías.
func (r *ProductRepo) ListCategories() ([]*entity.ProductCategory, error) {
	query := `SELECT id, name, description, is_active, created_at FROM product_categories ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductCategory
	for rows.Next() {
		var c entity.ProductCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// UpdateCategory actualiza una categoría.
func (r *ProductRepo) UpdateCategory(c *entity.ProductCategory) error {
	query := `UPDATE product_categories SET name = $2, description = $3, is_active = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, c.ID, c.Name, c.Description, c.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

const productColumns = `id, product_code, name, description, category_id, unit_of_measure, cost_price,
	selling_price, min_stock_level, max_stock_level, current_stock, is_active, is_trackable, barcode,
	expiry_date, currency, created_at, updated_at`

// Create persiste un producto.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.ProductCode, p.Name, p.Description, nullIfEmpty(p.CategoryID), p.UnitOfMeasure, p.CostPrice,
		p.SellingPrice, p.MinStockLevel, p.MaxStockLevel, p.CurrentStock, p.IsActive, p.IsTrackable, p.Barcode,
		p.ExpiryDate, p.Currency, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene un producto por su código único.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_code = $1`
	return scanProduct(r.q.QueryRow(context.Background(), query, code))
}

// List lista productos con búsqueda sin tildes y filtros de categoría,
// estado y stock bajo.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	term := search.Normalize(filter.Search)
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR unaccent(lower(product_code || ' ' || name || ' ' || coalesce(barcode, ''))) LIKE '%' || $1 || '%')
		  AND ($2 = '' OR category_id = $2::uuid)
		  AND (NOT $3 OR is_active)
		  AND (NOT $4 OR (is_trackable AND current_stock < min_stock_level))
		ORDER BY name
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query,
		term, filter.CategoryID, filter.ActiveOnly, filter.LowStock, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza un producto (sin tocar current_stock).
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products SET
			name = $2, description = $3, category_id = $4, unit_of_measure = $5, cost_price = $6,
			selling_price = $7, min_stock_level = $8, max_stock_level = $9, is_active = $10,
			is_trackable = $11, barcode = $12, expiry_date = $13, currency = $14, updated_at = $15
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.Description, nullIfEmpty(p.CategoryID), p.UnitOfMeasure, p.CostPrice,
		p.SellingPrice, p.MinStockLevel, p.MaxStockLevel, p.IsActive,
		p.IsTrackable, p.Barcode, p.ExpiryDate, p.Currency, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// AdjustStock aplica el delta con un update condicionado: la fila solo se
// toca si el resultado no queda negativo. Cero filas afectadas significa
// stock insuficiente.
func (r *ProductRepo) AdjustStock(productID string, delta int) (int, error) {
	query := `
		UPDATE products
		SET current_stock = current_stock + $2, updated_at = now()
		WHERE id = $1 AND current_stock + $2 >= 0
		RETURNING current_stock`
	var newStock int
	err := r.q.QueryRow(context.Background(), query, productID, delta).Scan(&newStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return newStock, nil
}

// CreateMovement persiste un movimiento de stock.
func (r *ProductRepo) CreateMovement(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, movement_type, quantity, unit_cost, reference_type, reference_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.MovementType, m.Quantity, m.UnitCost,
		m.ReferenceType, nullIfEmpty(m.ReferenceID), m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListMovements devuelve los movimientos de stock, más recientes primero.
// Con productID vacío lista el kardex global de todos los productos.
func (r *ProductRepo) ListMovements(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, movement_type, quantity, unit_cost, reference_type, coalesce(reference_id::text, ''), notes, created_at
		FROM stock_movements WHERE ($1::uuid IS NULL OR product_id = $1::uuid)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, nullIfEmpty(productID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.MovementType, &m.Quantity, &m.UnitCost,
			&m.ReferenceType, &m.ReferenceID, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	err := row.Scan(
		&p.ID, &p.ProductCode, &p.Name, &p.Description, &categoryID, &p.UnitOfMeasure, &p.CostPrice,
		&p.SellingPrice, &p.MinStockLevel, &p.MaxStockLevel, &p.CurrentStock, &p.IsActive, &p.IsTrackable, &p.Barcode,
		&p.ExpiryDate, &p.Currency, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}

// nullIfEmpty convierte cadena vacía en NULL para columnas uuid opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
