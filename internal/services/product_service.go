// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopsmith/storefront/internal/events"
	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/internal/stock"
	"github.com/shopsmith/storefront/internal/utils"
)

type ProductService struct {
	db              *gorm.DB
	publisher       events.Publisher
	defaultLowStock int
}

type CreateProductRequest struct {
	Name              string                 `json:"name" validate:"required,min=3,max=255"`
	Description       string                 `json:"description" validate:"required,min=10"`
	Category          string                 `json:"category" validate:"required"`
	Slug              string                 `json:"slug,omitempty" validate:"omitempty,slug"`
	SKU               string                 `json:"sku,omitempty" validate:"omitempty,sku"`
	Price             float64                `json:"price" validate:"required,min=0.01"`
	ComparePrice      *float64               `json:"compare_price,omitempty" validate:"omitempty,min=0"`
	CostPrice         *float64               `json:"cost_price,omitempty" validate:"omitempty,min=0"`
	StockQuantity     int                    `json:"stock_quantity" validate:"min=0"`
	LowStockThreshold *int                   `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	TrackInventory    *bool                  `json:"track_inventory,omitempty"`
	Images            []string               `json:"images,omitempty"`
	Tags              []string               `json:"tags,omitempty"`
	Attributes        map[string]interface{} `json:"attributes,omitempty"`
}

type UpdateProductRequest struct {
	Name         string                 `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description  string                 `json:"description,omitempty" validate:"omitempty,min=10"`
	Category     string                 `json:"category,omitempty"`
	Price        float64                `json:"price,omitempty" validate:"omitempty,min=0.01"`
	ComparePrice *float64               `json:"compare_price,omitempty" validate:"omitempty,min=0"`
	CostPrice    *float64               `json:"cost_price,omitempty" validate:"omitempty,min=0"`
	Images       []string               `json:"images,omitempty"`
	Tags         []string               `json:"tags,omitempty"`
	Attributes   map[string]interface{} `json:"attributes,omitempty"`
	Status       models.ProductStatus   `json:"status,omitempty"`
}

type SetStockRequest struct {
	Quantity int    `json:"quantity" validate:"min=0"`
	Reason   string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	Status     *models.ProductStatus `json:"status,omitempty"`
	PriceMin   *float64              `json:"price_min,omitempty"`
	PriceMax   *float64              `json:"price_max,omitempty"`
	Tags       []string              `json:"tags,omitempty"`
	InStock    *bool                 `json:"in_stock,omitempty"`
	Preorder   *bool                 `json:"preorder,omitempty"`
	LowStock   *bool                 `json:"low_stock,omitempty"`
	WithHidden bool                  `json:"-"`
}

// Administrator-controlled statuses; out_of_stock and preorder are owned by
// the stock reconciliation and rejected on manual update.
var manualStatuses = map[models.ProductStatus]bool{
	models.ProductStatusDraft:        true,
	models.ProductStatusActive:       true,
	models.ProductStatusInactive:     true,
	models.ProductStatusDiscontinued: true,
}

func NewProductService(db *gorm.DB, publisher events.Publisher, defaultLowStock int) *ProductService {
	return &ProductService{
		db:              db,
		publisher:       publisher,
		defaultLowStock: defaultLowStock,
	}
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{
		Name:              req.Name,
		Slug:              req.Slug,
		SKU:               req.SKU,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		ComparePrice:      req.ComparePrice,
		CostPrice:         req.CostPrice,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: s.defaultLowStock,
		TrackInventory:    true,
		Status:            models.ProductStatusDraft,
		Images:            req.Images,
		Tags:              req.Tags,
		Attributes:        models.JSONB(req.Attributes),
	}

	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.TrackInventory != nil {
		product.TrackInventory = *req.TrackInventory
	}

	// Identity fields are filled in before insert: caller-supplied slugs and
	// SKUs are checked for uniqueness, generated ones retry on collision.
	if err := s.assignIdentifiers(product); err != nil {
		return nil, err
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"sku":        product.SKU,
		"slug":       product.Slug,
	}).Info("Product created")

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.ComparePrice != nil {
		updates["compare_price"] = *req.ComparePrice
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}
	if req.Attributes != nil {
		updates["attributes"] = models.JSONB(req.Attributes)
	}
	if req.Status != "" {
		if !manualStatuses[req.Status] {
			return nil, fmt.Errorf("status %q is managed automatically and cannot be set directly", req.Status)
		}
		updates["status"] = req.Status
	}

	// Apply updates
	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &product, nil
}

// SetStock replaces the stock quantity and runs the reconciliation inside a
// single transaction. The product row is locked for the duration so two
// concurrent adjustments cannot both observe the same old quantity.
func (s *ProductService) SetStock(id uuid.UUID, actorID *uuid.UUID, req *SetStockRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Quantity < 0 {
		return nil, errors.New("stock quantity cannot be negative")
	}

	return s.writeStock(id, actorID, models.StockOperationSet, req.Reason, func(current int) (int, error) {
		return req.Quantity, nil
	})
}

// AdjustStock applies a relative stock change (positive or negative).
func (s *ProductService) AdjustStock(id uuid.UUID, actorID *uuid.UUID, req *AdjustStockRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	op := models.StockOperationIncrement
	if req.Delta < 0 {
		op = models.StockOperationDecrement
	}

	return s.writeStock(id, actorID, op, req.Reason, func(current int) (int, error) {
		next := current + req.Delta
		if next < 0 {
			return 0, errors.New("insufficient stock")
		}
		return next, nil
	})
}

// lockForUpdate appends a row-level FOR UPDATE lock to the query. All stock
// and preorder writes read through this so concurrent transactions serialize
// on the product row.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *ProductService) writeStock(id uuid.UUID, actorID *uuid.UUID, op models.StockOperation, reason string, next func(current int) (int, error)) (*models.Product, error) {
	var product models.Product
	var evts []events.Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("product not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !product.TrackInventory {
			return errors.New("product does not track inventory")
		}

		oldQty := product.StockQuantity
		newQty, err := next(oldQty)
		if err != nil {
			return err
		}

		if oldQty == newQty {
			// No-op write: nothing to reconcile, nothing to publish.
			return nil
		}

		evts = stock.Reconcile(&product, oldQty, newQty, op, reason)

		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		movement := &models.StockMovement{
			ProductID:   product.ID,
			OldQuantity: oldQty,
			NewQuantity: newQty,
			Operation:   op,
			Reason:      reason,
			ActorID:     actorID,
		}
		if err := tx.Create(movement).Error; err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Events are published only after the transaction committed.
	if s.publisher != nil && len(evts) > 0 {
		s.publisher.Publish(evts...)
	}

	return &product, nil
}

// DeleteProduct soft-deletes a product. An active preorder is disabled first
// with the deletion recorded as the reason.
func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	var evts []events.Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := lockForUpdate(tx).
			First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("product not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if product.IsPreorderEnabled {
			evts = append(evts, stock.DisablePreorder(&product, true, stock.ReasonProductDeleted))
			if err := tx.Save(&product).Error; err != nil {
				return fmt.Errorf("failed to disable preorder: %w", err)
			}
		}

		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	if s.publisher != nil && len(evts) > 0 {
		s.publisher.Publish(evts...)
	}

	return nil
}

// RestoreProduct undoes a soft delete and re-evaluates stock state: a
// restored product that is still at zero stock goes back through the
// out-of-stock handling.
func (s *ProductService) RestoreProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	var evts []events.Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("product not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !product.DeletedAt.Valid {
			return errors.New("product is not deleted")
		}

		if err := tx.Unscoped().Model(&product).Update("deleted_at", nil).Error; err != nil {
			return fmt.Errorf("failed to restore product: %w", err)
		}
		product.DeletedAt = gorm.DeletedAt{}

		evts = stock.Reevaluate(&product)
		if len(evts) > 0 {
			if err := tx.Save(&product).Error; err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if s.publisher != nil && len(evts) > 0 {
		s.publisher.Publish(evts...)
	}

	return &product, nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else if !params.WithHidden {
		// Storefront default: everything a customer can see.
		query = query.Where("status IN ?", []models.ProductStatus{
			models.ProductStatusActive,
			models.ProductStatusOutOfStock,
			models.ProductStatusPreorder,
		})
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", params.Tags)
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("NOT track_inventory OR stock_quantity > 0")
	}

	if params.Preorder != nil && *params.Preorder {
		query = query.Where("is_preorder_enabled")
	}

	if params.LowStock != nil && *params.LowStock {
		query = query.Where("track_inventory AND stock_quantity > 0 AND stock_quantity <= low_stock_threshold")
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting and pagination
	query = utils.ApplySort(query, params.PaginationParams,
		"created_at", "updated_at", "name", "price", "stock_quantity")
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// LowStockProducts lists tracked products at or below their threshold,
// including those already at zero.
func (s *ProductService) LowStockProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.
		Where("track_inventory AND stock_quantity <= low_stock_threshold").
		Where("status IN ?", []models.ProductStatus{
			models.ProductStatusActive,
			models.ProductStatusOutOfStock,
			models.ProductStatusPreorder,
		}).
		Order("stock_quantity ASC, updated_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}
	return products, nil
}

func (s *ProductService) GetStockMovements(productID uuid.UUID, params utils.PaginationParams) ([]models.StockMovement, int64, error) {
	query := s.db.Model(&models.StockMovement{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stock movements: %w", err)
	}

	var movements []models.StockMovement
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).
		Find(&movements).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stock movements: %w", err)
	}

	return movements, total, nil
}

const identifierRetries = 5

func (s *ProductService) assignIdentifiers(product *models.Product) error {
	if product.Slug != "" {
		taken, err := s.identifierTaken("slug", product.Slug)
		if err != nil {
			return err
		}
		if taken {
			return errors.New("slug already in use")
		}
	} else {
		base := utils.GenerateSlug(product.Name)
		slug := base
		for attempt := 0; ; attempt++ {
			taken, err := s.identifierTaken("slug", slug)
			if err != nil {
				return err
			}
			if !taken {
				break
			}
			if attempt >= identifierRetries {
				return errors.New("failed to generate unique slug")
			}
			suffix, err := utils.GenerateRandomString(6)
			if err != nil {
				return fmt.Errorf("failed to generate slug suffix: %w", err)
			}
			slug = base + "-" + strings.ToLower(suffix)
		}
		product.Slug = slug
	}

	if product.SKU != "" {
		taken, err := s.identifierTaken("sku", product.SKU)
		if err != nil {
			return err
		}
		if taken {
			return errors.New("sku already in use")
		}
	} else {
		for attempt := 0; ; attempt++ {
			sku, err := utils.GenerateSKU(product.Category)
			if err != nil {
				return err
			}
			taken, err := s.identifierTaken("sku", sku)
			if err != nil {
				return err
			}
			if !taken {
				product.SKU = sku
				break
			}
			if attempt >= identifierRetries {
				return errors.New("failed to generate unique SKU")
			}
		}
	}

	for attempt := 0; ; attempt++ {
		barcode, err := utils.GenerateBarcode()
		if err != nil {
			return err
		}
		taken, err := s.identifierTaken("barcode", barcode)
		if err != nil {
			return err
		}
		if !taken {
			product.Barcode = barcode
			break
		}
		if attempt >= identifierRetries {
			return errors.New("failed to generate unique barcode")
		}
	}

	return nil
}

// identifierTaken checks uniqueness across soft-deleted rows too, since the
// unique indexes are unscoped.
func (s *ProductService) identifierTaken(column, value string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Product{}).Unscoped().
		Where(column+" = ?", value).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return count > 0, nil
}
