package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
)

// ProductFilter narrows a product listing. Empty fields do not filter.
type ProductFilter struct {
	CategoryID   string
	Search       string // matches name or SKU
	LowStockOnly bool
}

// ProductReader defines read operations for products. Deleted products are not found.
type ProductReader interface {
	FindProductByID(ctx context.Context, businessID, productID string) (*domain.Product, error)

	// FindProductsByIDs returns the live products among ids, keyed by id.
	// Missing ids are simply absent from the map.
	FindProductsByIDs(ctx context.Context, businessID string, productIDs []string) (map[string]domain.Product, error)

	ListProducts(ctx context.Context, businessID string, filter ProductFilter, limit int, offset int) ([]domain.Product, error)

	// ListStockMovements retrieves the movements of a product, newest first, using token-based pagination.
	ListStockMovements(ctx context.Context, businessID, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error)
}

// ProductWriter defines write operations for products. Stock changes only
// through ledger effects.
type ProductWriter interface {
	// SaveProduct persists a new product. A SKU taken within the business returns apperrors.ErrDuplicate.
	SaveProduct(ctx context.Context, product domain.Product) error
	UpdateProduct(ctx context.Context, product domain.Product) error
	MarkProductDeleted(ctx context.Context, businessID, productID string, deletedAt time.Time, deletedBy string) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}

// CategoryReader defines read operations for categories. Deleted categories are not found.
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, businessID, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, businessID string, limit int, offset int) ([]domain.Category, error)
}

// CategoryWriter defines write operations for categories.
type CategoryWriter interface {
	// SaveCategory persists a new category. A name taken within the business returns apperrors.ErrDuplicate.
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	MarkCategoryDeleted(ctx context.Context, businessID, categoryID string, deletedAt time.Time, deletedBy string) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
