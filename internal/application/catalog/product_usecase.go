// Package catalog contiene los casos de uso del catálogo: categorías,
// productos y ajustes de stock con su movimiento de auditoría.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/alerts"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	txRunner    TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, txRunner TxRunner) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, txRunner: txRunner}
}

// CreateCategory da de alta una categoría.
func (uc *ProductUseCase) CreateCategory(in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.ProductCategory{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := uc.productRepo.CreateCategory(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// ListCategories devuelve todas las categorías.
func (uc *ProductUseCase) ListCategories() ([]dto.CategoryResponse, error) {
	categories, err := uc.productRepo.ListCategories()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// UpdateCategory modifica nombre y descripción de una categoría.
func (uc *ProductUseCase) UpdateCategory(id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := uc.productRepo.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	category.Name = in.Name
	category.Description = in.Description
	if err := uc.productRepo.UpdateCategory(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Create da de alta un producto. Si declara stock inicial se registra el
// movimiento IN correspondiente.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.ProductCode == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SellingPrice.IsNegative() || in.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.productRepo.GetByCode(in.ProductCode)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	currency := in.Currency
	if currency == "" {
		currency = entity.CurrencyPYG
	}
	unit := in.UnitOfMeasure
	if unit == "" {
		unit = "PZA"
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		ProductCode:   in.ProductCode,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		UnitOfMeasure: unit,
		CostPrice:     in.CostPrice,
		SellingPrice:  in.SellingPrice,
		MinStockLevel: in.MinStockLevel,
		MaxStockLevel: in.MaxStockLevel,
		CurrentStock:  0,
		IsActive:      true,
		IsTrackable:   in.IsTrackable,
		Barcode:       in.Barcode,
		ExpiryDate:    in.ExpiryDate,
		Currency:      currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if !in.IsTrackable || in.InitialStock <= 0 {
			return nil
		}
		if _, err := productRepo.AdjustStock(product.ID, in.InitialStock); err != nil {
			return err
		}
		return productRepo.CreateMovement(&entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			MovementType:  entity.MovementIn,
			Quantity:      in.InitialStock,
			UnitCost:      in.CostPrice,
			ReferenceType: "ADJUSTMENT",
			Notes:         "stock inicial",
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	product.CurrentStock = in.InitialStock
	return toProductResponse(product, now), nil
}

// Get devuelve un producto por ID.
func (uc *ProductUseCase) Get(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product, time.Now()), nil
}

// List devuelve productos filtrados y paginados.
func (uc *ProductUseCase) List(filter repository.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	filter.Limit = page.Limit
	filter.Offset = page.Offset
	products, err := uc.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *toProductResponse(p, now))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica los campos presentes. El stock no se toca por acá.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.SellingPrice = *in.SellingPrice
	}
	if in.MinStockLevel != nil {
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		product.MaxStockLevel = *in.MaxStockLevel
	}
	if in.IsTrackable != nil {
		product.IsTrackable = *in.IsTrackable
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.ExpiryDate != nil {
		product.ExpiryDate = in.ExpiryDate
	}
	if in.Currency != nil {
		product.Currency = *in.Currency
	}

	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product, product.UpdatedAt), nil
}

// AdjustStock aplica un ajuste manual: delta positivo o negativo, con el
// movimiento de auditoría en la misma transacción. El update condicionado en
// el repositorio garantiza que el stock nunca queda negativo.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, productID string, in dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if in.Delta == 0 || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsTrackable {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var newStock int
	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository) error {
		var err error
		newStock, err = productRepo.AdjustStock(productID, in.Delta)
		if err != nil {
			return err
		}
		return productRepo.CreateMovement(&entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     productID,
			MovementType:  entity.MovementAdjustment,
			Quantity:      in.Delta,
			UnitCost:      product.CostPrice,
			ReferenceType: "ADJUSTMENT",
			Notes:         in.Reason,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	product.CurrentStock = newStock
	product.UpdatedAt = now
	return toProductResponse(product, now), nil
}

// ListMovements devuelve los movimientos de stock de un producto, o el
// kardex global si productID viene vacío.
func (uc *ProductUseCase) ListMovements(productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	page.DefaultPage()
	movements, err := uc.productRepo.ListMovements(productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			MovementType:  m.MovementType,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			ReferenceType: m.ReferenceType,
			ReferenceID:   m.ReferenceID,
			Notes:         m.Notes,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out, nil
}

// ListExpiring devuelve los productos perecederos vencidos o por vencer
// dentro de la ventana de 30 días.
func (uc *ProductUseCase) ListExpiring(now time.Time) ([]dto.ExpiringProductDTO, error) {
	products, err := uc.productRepo.List(repository.ProductFilter{ActiveOnly: true, Limit: 1000})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringProductDTO, 0)
	for _, p := range products {
		if p.ExpiryDate == nil {
			continue
		}
		expired := alerts.IsExpired(*p.ExpiryDate, now)
		soon := alerts.IsExpiringSoon(*p.ExpiryDate, now, alerts.ProductExpiryWindowDays)
		if !expired && !soon {
			continue
		}
		out = append(out, dto.ExpiringProductDTO{
			ProductID:     p.ID,
			ProductCode:   p.ProductCode,
			Name:          p.Name,
			ExpiryDate:    *p.ExpiryDate,
			DaysRemaining: alerts.DaysUntil(*p.ExpiryDate, now),
			IsExpired:     expired,
			CurrentStock:  p.CurrentStock,
		})
	}
	return out, nil
}

func toCategoryResponse(c *entity.ProductCategory) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func toProductResponse(p *entity.Product, now time.Time) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:            p.ID,
		ProductCode:   p.ProductCode,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		UnitOfMeasure: p.UnitOfMeasure,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		MinStockLevel: p.MinStockLevel,
		MaxStockLevel: p.MaxStockLevel,
		CurrentStock:  p.CurrentStock,
		IsActive:      p.IsActive,
		IsTrackable:   p.IsTrackable,
		Barcode:       p.Barcode,
		Currency:      p.Currency,
		ExpiryDate:    p.ExpiryDate,
		LowStockAlert: p.IsTrackable && p.CurrentStock < p.MinStockLevel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.ExpiryDate != nil {
		d := alerts.DaysUntil(*p.ExpiryDate, now)
		resp.DaysToExpiry = &d
		resp.IsExpired = alerts.IsExpired(*p.ExpiryDate, now)
		resp.ExpiringSoon = alerts.IsExpiringSoon(*p.ExpiryDate, now, alerts.ProductExpiryWindowDays)
	}
	return resp
}
