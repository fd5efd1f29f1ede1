package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monedas soportadas.
const (
	CurrencyPYG = "PYG"
	CurrencyUSD = "USD"
)

// ProductCategory agrupa productos del catálogo.
type ProductCategory struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// Product representa un producto o SKU del catálogo.
// CurrentStock solo se modifica vía movimientos de stock (ajustes);
// las cotizaciones nunca lo tocan.
type Product struct {
	ID            string
	ProductCode   string // código único
	Name          string
	Description   string
	CategoryID    string
	UnitOfMeasure string // PZA, KG, M, etc.
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	MinStockLevel int
	MaxStockLevel int
	CurrentStock  int
	IsActive      bool
	IsTrackable   bool // si maneja inventario
	Barcode       string
	ExpiryDate    *time.Time // productos perecederos
	Currency      string     // PYG, USD
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Tipos de movimiento de stock.
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
)

// StockMovement registra una entrada, salida o ajuste de inventario.
type StockMovement struct {
	ID            string
	ProductID     string
	MovementType  string // IN, OUT, ADJUSTMENT
	Quantity      int
	UnitCost      decimal.Decimal
	ReferenceType string // SALE, PURCHASE, ADJUSTMENT
	ReferenceID   string
	Notes         string
	CreatedAt     time.Time
}
