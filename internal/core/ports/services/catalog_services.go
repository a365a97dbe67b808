package services

import (
	"context"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/dto"
)

// PartySvcFacade manages customers and suppliers.
type PartySvcFacade interface {
	CreateParty(ctx context.Context, actor domain.Actor, req dto.CreatePartyRequest) (*domain.Party, error)
	GetParty(ctx context.Context, actor domain.Actor, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, actor domain.Actor, params dto.ListPartiesParams) ([]domain.Party, error)
	UpdateParty(ctx context.Context, actor domain.Actor, partyID string, req dto.UpdatePartyRequest) (*domain.Party, error)
	DeleteParty(ctx context.Context, actor domain.Actor, partyID string) error
}

// CategorySvcFacade manages product categories.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, actor domain.Actor, req dto.CreateCategoryRequest) (*domain.Category, error)
	GetCategory(ctx context.Context, actor domain.Actor, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, actor domain.Actor, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, actor domain.Actor, categoryID string) error
}

// ProductSvcFacade manages products. Stock is read-only here.
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, actor domain.Actor, req dto.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, actor domain.Actor, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, actor domain.Actor, params dto.ListProductsParams) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, productID string, req dto.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.Actor, productID string) error
	ListStockMovements(ctx context.Context, actor domain.Actor, productID string, params dto.ListStockMovementsParams) (*dto.ListStockMovementsResponse, error)
}
