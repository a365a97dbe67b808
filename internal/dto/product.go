package dto

import (
	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateCategoryRequest defines the category fields allowed to change.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

// ListCategoriesParams defines query parameters for listing categories.
type ListCategoriesParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// CreateProductRequest defines the data needed to create a product.
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	SKU               string          `json:"sku"`
	Unit              string          `json:"unit"`
	CategoryID        *string         `json:"categoryID"`
	PurchasePrice     decimal.Decimal `json:"purchasePrice" binding:"gte=0"`
	SellingPrice      decimal.Decimal `json:"sellingPrice" binding:"gte=0"`
	TaxPercent        decimal.Decimal `json:"taxPercent" binding:"gte=0,lte=100"`
	OpeningStock      decimal.Decimal `json:"openingStock"`
	LowStockThreshold decimal.Decimal `json:"lowStockThreshold" binding:"gte=0"`
}

// UpdateProductRequest defines the product fields allowed to change.
// Stock is changed only by documents.
type UpdateProductRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1"`
	SKU               *string          `json:"sku"`
	Unit              *string          `json:"unit"`
	CategoryID        *string          `json:"categoryID"`
	PurchasePrice     *decimal.Decimal `json:"purchasePrice" binding:"omitempty,gte=0"`
	SellingPrice      *decimal.Decimal `json:"sellingPrice" binding:"omitempty,gte=0"`
	TaxPercent        *decimal.Decimal `json:"taxPercent" binding:"omitempty,gte=0,lte=100"`
	LowStockThreshold *decimal.Decimal `json:"lowStockThreshold" binding:"omitempty,gte=0"`
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	CategoryID string `form:"categoryID"`
	Search     string `form:"search"`
	LowStock   bool   `form:"lowStock"`
	Limit      int    `form:"limit,default=20"`
	Offset     int    `form:"offset,default=0"`
}

// ListProductsResponse wraps a page of products.
type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
}

// ListStockMovementsParams defines query parameters for a product's movements.
type ListStockMovementsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListStockMovementsResponse wraps a page of movements.
type ListStockMovementsResponse struct {
	Movements []domain.StockMovement `json:"movements"`
	NextToken *string                `json:"nextToken,omitempty"`
}
