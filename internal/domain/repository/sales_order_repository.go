package repository

import (
	"time"

	"github.com/sigepy/erp-api/internal/domain/entity"
)

// OrderFilter filtros del listado de órdenes de venta.
type OrderFilter struct {
	CustomerID string
	Status     string
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// SalesOrderRepository define el puerto de persistencia para órdenes de venta.
type SalesOrderRepository interface {
	Create(order *entity.SalesOrder, lines []*entity.SalesOrderLine) error
	GetByID(id string) (*entity.SalesOrder, error)
	GetLines(orderID string) ([]*entity.SalesOrderLine, error)
	List(filter OrderFilter) ([]*entity.SalesOrder, error)
	UpdateStatus(id, status string) error

	LastNumberWithPrefix(prefix string) (string, error)
}
