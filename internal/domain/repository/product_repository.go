package repository

import "github.com/sigepy/erp-api/internal/domain/entity"

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string
	CategoryID string
	ActiveOnly bool
	LowStock   bool // current_stock < min_stock_level (solo trazables)
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para el catálogo:
// categorías, productos y movimientos de stock.
type ProductRepository interface {
	CreateCategory(category *entity.ProductCategory) error
	GetCategory(id string) (*entity.ProductCategory, error)
	ListCategories() ([]*entity.ProductCategory, error)
	UpdateCategory(category *entity.ProductCategory) error

	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	List(filter ProductFilter) ([]*entity.Product, error)
	Update(product *entity.Product) error

	// AdjustStock aplica el delta con un update condicionado
	// (current_stock + delta >= 0) y devuelve el stock resultante.
	// Retorna domain.ErrInsufficientStock si el guard no se cumple.
	AdjustStock(productID string, delta int) (int, error)

	CreateMovement(movement *entity.StockMovement) error
	// ListMovements pagina los movimientos de un producto; con productID
	// vacío devuelve el kardex global.
	ListMovements(productID string, limit, offset int) ([]*entity.StockMovement, error)
}
