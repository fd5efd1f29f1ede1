package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest entrada para crear o actualizar una categoría.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	ProductCode   string          `json:"product_code" validate:"required,min=1,max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	MaxStockLevel int             `json:"max_stock_level" validate:"min=0"`
	InitialStock  int             `json:"initial_stock" validate:"min=0"`
	IsTrackable   bool            `json:"is_trackable"`
	Barcode       string          `json:"barcode"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	Currency      string          `json:"currency" validate:"omitempty,oneof=PYG USD"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock no se
// toca por acá; usar el ajuste de stock.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	CategoryID    *string          `json:"category_id"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	IsTrackable   *bool            `json:"is_trackable"`
	Barcode       *string          `json:"barcode"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	Currency      *string          `json:"currency" validate:"omitempty,oneof=PYG USD"`
}

// AdjustStockRequest entrada para un ajuste manual de stock.
type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,min=1"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	ProductCode   string          `json:"product_code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	MinStockLevel int             `json:"min_stock_level"`
	MaxStockLevel int             `json:"max_stock_level"`
	CurrentStock  int             `json:"current_stock"`
	IsActive      bool            `json:"is_active"`
	IsTrackable   bool            `json:"is_trackable"`
	Barcode       string          `json:"barcode,omitempty"`
	Currency      string          `json:"currency"`

	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	IsExpired     bool       `json:"is_expired"`
	ExpiringSoon  bool       `json:"expiring_soon"`
	DaysToExpiry  *int       `json:"days_to_expiry,omitempty"`
	LowStockAlert bool       `json:"low_stock_alert"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockMovementResponse salida de un movimiento de stock.
type StockMovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	MovementType  string          `json:"movement_type"`
	Quantity      int             `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
