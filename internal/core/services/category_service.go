package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo portsrepo.CategoryRepositoryFacade, opts ...ServiceOption) portssvc.CategorySvcFacade {
	svc := &categoryService{categoryRepo: repo}
	svc.apply(opts)
	return svc
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, actor domain.Actor, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required")
	}
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		BusinessID:  actor.BusinessID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		AuditFields: domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("name", name))
		return nil, err
	}
	s.record(ctx, actor, domain.ActionCreate, resourceCategory, category.CategoryID, nil, category)
	return &category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, actor domain.Actor, categoryID string) (*domain.Category, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	return s.categoryRepo.FindCategoryByID(ctx, actor.BusinessID, categoryID)
}

func (s *categoryService) ListCategories(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Category, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategories(ctx, actor.BusinessID, clampLimit(limit), clampOffset(offset))
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, actor domain.Actor, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, actor.BusinessID, categoryID)
	if err != nil {
		return nil, err
	}
	before := *category

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.NewValidationError("category name must not be empty")
	}
	changed := false
	setString(&category.Name, req.Name, &changed)
	setString(&category.Description, req.Description, &changed)
	if !changed {
		return category, nil
	}

	category.Touch(actor.UserID, s.Now())
	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	s.record(ctx, actor, domain.ActionUpdate, resourceCategory, categoryID, before, category)
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, actor domain.Actor, categoryID string) error {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return err
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, actor.BusinessID, categoryID)
	if err != nil {
		return err
	}
	if err := s.categoryRepo.MarkCategoryDeleted(ctx, actor.BusinessID, categoryID, s.Now(), actor.UserID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	s.record(ctx, actor, domain.ActionDelete, resourceCategory, categoryID, category, nil)
	return nil
}
