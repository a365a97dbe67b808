package services

import (
	"context"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/dto"
)

// UserSvcFacade manages the users of a business.
type UserSvcFacade interface {
	GetCurrentUser(ctx context.Context, userID string) (*domain.User, error)
	CreateStaff(ctx context.Context, actor domain.Actor, req dto.CreateStaffRequest) (*domain.User, error)
	GetUser(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.User, error)
	UpdateUser(ctx context.Context, actor domain.Actor, userID string, req dto.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, actor domain.Actor, userID string) error
}

// BusinessSvcFacade manages tenant profiles.
type BusinessSvcFacade interface {
	GetBusiness(ctx context.Context, actor domain.Actor) (*domain.Business, error)
	UpdateBusiness(ctx context.Context, actor domain.Actor, req dto.UpdateBusinessRequest) (*domain.Business, error)
	ListBusinesses(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Business, error)
	DeactivateBusiness(ctx context.Context, actor domain.Actor, businessID string) error
}
