package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productService struct {
	BaseService
	productRepo  portsrepo.ProductRepositoryFacade
	categoryRepo portsrepo.CategoryReader
}

// NewProductService creates a new product service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade, categoryRepo portsrepo.CategoryReader, opts ...ServiceOption) portssvc.ProductSvcFacade {
	svc := &productService{productRepo: productRepo, categoryRepo: categoryRepo}
	svc.apply(opts)
	return svc
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

// checkCategory makes sure the referenced category is live and belongs to the business.
func (s *productService) checkCategory(ctx context.Context, businessID string, categoryID *string) error {
	if categoryID == nil || *categoryID == "" {
		return nil
	}
	if _, err := s.categoryRepo.FindCategoryByID(ctx, businessID, *categoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("category not found")
		}
		return err
	}
	return nil
}

func validatePricing(purchase, selling, tax, threshold decimal.Decimal) error {
	if purchase.IsNegative() || selling.IsNegative() {
		return apperrors.NewValidationError("prices must not be negative")
	}
	if !domain.IsPercent(tax) {
		return apperrors.NewValidationError("tax percent must be between 0 and 100")
	}
	if threshold.IsNegative() {
		return apperrors.NewValidationError("low stock threshold must not be negative")
	}
	return nil
}

// CreateProduct adds a product. Current stock starts at the opening stock.
func (s *productService) CreateProduct(ctx context.Context, actor domain.Actor, req dto.CreateProductRequest) (*domain.Product, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("product name is required")
	}
	if err := validatePricing(req.PurchasePrice, req.SellingPrice, req.TaxPercent, req.LowStockThreshold); err != nil {
		return nil, err
	}
	if req.OpeningStock.IsNegative() {
		return nil, apperrors.NewValidationError("opening stock must not be negative")
	}
	if err := s.checkCategory(ctx, actor.BusinessID, req.CategoryID); err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "pcs"
	}
	var categoryID *string
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID = req.CategoryID
	}
	product := domain.Product{
		ProductID:         uuid.NewString(),
		BusinessID:        actor.BusinessID,
		CategoryID:        categoryID,
		Name:              name,
		SKU:               strings.TrimSpace(req.SKU),
		Unit:              unit,
		PurchasePrice:     domain.RoundMoney(req.PurchasePrice),
		SellingPrice:      domain.RoundMoney(req.SellingPrice),
		TaxPercent:        req.TaxPercent,
		OpeningStock:      req.OpeningStock,
		CurrentStock:      req.OpeningStock,
		LowStockThreshold: req.LowStockThreshold,
		AuditFields:       domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product", slog.String("sku", product.SKU))
		return nil, err
	}
	s.record(ctx, actor, domain.ActionCreate, resourceProduct, product.ProductID, nil, product)
	return &product, nil
}

func (s *productService) GetProduct(ctx context.Context, actor domain.Actor, productID string) (*domain.Product, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	return s.productRepo.FindProductByID(ctx, actor.BusinessID, productID)
}

func (s *productService) ListProducts(ctx context.Context, actor domain.Actor, params dto.ListProductsParams) ([]domain.Product, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	filter := portsrepo.ProductFilter{
		CategoryID:   params.CategoryID,
		Search:       strings.TrimSpace(params.Search),
		LowStockOnly: params.LowStock,
	}
	products, err := s.productRepo.ListProducts(ctx, actor.BusinessID, filter, clampLimit(params.Limit), clampOffset(params.Offset))
	if err != nil {
		s.LogError(ctx, err, "Failed to list products")
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func setDecimal(dst *decimal.Decimal, src *decimal.Decimal, changed *bool) {
	if src != nil && !src.Equal(*dst) {
		*dst = *src
		*changed = true
	}
}

// UpdateProduct changes catalog fields. Stock is left to documents.
func (s *productService) UpdateProduct(ctx context.Context, actor domain.Actor, productID string, req dto.UpdateProductRequest) (*domain.Product, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindProductByID(ctx, actor.BusinessID, productID)
	if err != nil {
		return nil, err
	}
	before := *product

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.NewValidationError("product name must not be empty")
	}
	changed := false
	setString(&product.Name, req.Name, &changed)
	setString(&product.SKU, req.SKU, &changed)
	setString(&product.Unit, req.Unit, &changed)
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, actor.BusinessID, req.CategoryID); err != nil {
			return nil, err
		}
		var categoryID *string
		if *req.CategoryID != "" {
			categoryID = req.CategoryID
		}
		product.CategoryID = categoryID
		changed = true
	}
	if req.PurchasePrice != nil {
		rounded := domain.RoundMoney(*req.PurchasePrice)
		setDecimal(&product.PurchasePrice, &rounded, &changed)
	}
	if req.SellingPrice != nil {
		rounded := domain.RoundMoney(*req.SellingPrice)
		setDecimal(&product.SellingPrice, &rounded, &changed)
	}
	setDecimal(&product.TaxPercent, req.TaxPercent, &changed)
	setDecimal(&product.LowStockThreshold, req.LowStockThreshold, &changed)
	if err := validatePricing(product.PurchasePrice, product.SellingPrice, product.TaxPercent, product.LowStockThreshold); err != nil {
		return nil, err
	}
	if !changed {
		return product, nil
	}

	product.Touch(actor.UserID, s.Now())
	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, err
	}
	s.record(ctx, actor, domain.ActionUpdate, resourceProduct, productID, before, product)
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actor domain.Actor, productID string) error {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return err
	}
	product, err := s.productRepo.FindProductByID(ctx, actor.BusinessID, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.MarkProductDeleted(ctx, actor.BusinessID, productID, s.Now(), actor.UserID); err != nil {
		s.LogError(ctx, err, "Failed to delete product", slog.String("product_id", productID))
		return err
	}
	s.record(ctx, actor, domain.ActionDelete, resourceProduct, productID, product, nil)
	return nil
}

// ListStockMovements pages through a product's movements, newest first.
func (s *productService) ListStockMovements(ctx context.Context, actor domain.Actor, productID string, params dto.ListStockMovementsParams) (*dto.ListStockMovementsResponse, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindProductByID(ctx, actor.BusinessID, productID); err != nil {
		return nil, err
	}
	movements, next, err := s.productRepo.ListStockMovements(ctx, actor.BusinessID, productID, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list stock movements", slog.String("product_id", productID))
		return nil, err
	}
	if movements == nil {
		movements = []domain.StockMovement{}
	}
	return &dto.ListStockMovementsResponse{Movements: movements, NextToken: next}, nil
}
