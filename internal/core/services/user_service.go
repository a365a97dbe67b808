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
	"github.com/SscSPs/billistry/internal/utils"
	"github.com/google/uuid"
)

// userService manages the staff of a business.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, opts ...ServiceOption) portssvc.UserSvcFacade {
	svc := &userService{userRepo: userRepo}
	svc.apply(opts)
	return svc
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetCurrentUser returns the signed-in user.
func (s *userService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find current user", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// CreateStaff adds a staff member to the actor's business.
func (s *userService) CreateStaff(ctx context.Context, actor domain.Actor, req dto.CreateStaffRequest) (*domain.User, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("email is already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	businessID := actor.BusinessID
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
		Role:         domain.RoleStaff,
		BusinessID:   &businessID,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save staff user", slog.String("email", email))
		return nil, err
	}

	s.record(ctx, actor, domain.ActionCreate, resourceUser, user.UserID, nil, user)
	return &user, nil
}

// findManaged loads a user the actor is allowed to manage.
func (s *userService) findManaged(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	if err := actor.Allow(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sameBusiness(actor, user.BusinessID) {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	return s.findManaged(ctx, actor, userID)
}

func (s *userService) ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.User, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListUsersByBusiness(ctx, actor.BusinessID, clampLimit(limit), clampOffset(offset))
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// UpdateUser changes the name or active flag of a user of the business.
func (s *userService) UpdateUser(ctx context.Context, actor domain.Actor, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.findManaged(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleShopkeeper && user.UserID != actor.UserID && actor.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbiddenError("cannot modify another shopkeeper")
	}
	before := *user

	updated := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name must not be empty")
		}
		if name != user.Name {
			user.Name = name
			updated = true
		}
	}
	if req.IsActive != nil && *req.IsActive != user.IsActive {
		if user.UserID == actor.UserID {
			return nil, apperrors.NewValidationError("users cannot deactivate themselves")
		}
		user.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return user, nil
	}

	user.Touch(actor.UserID, s.Now())
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}
	s.record(ctx, actor, domain.ActionUpdate, resourceUser, userID, before, user)
	return user, nil
}

// DeleteUser soft deletes a staff member. Users cannot delete themselves.
func (s *userService) DeleteUser(ctx context.Context, actor domain.Actor, userID string) error {
	if userID == actor.UserID {
		return apperrors.NewValidationError("users cannot delete themselves")
	}
	user, err := s.findManaged(ctx, actor, userID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleStaff && actor.Role != domain.RoleSuperAdmin {
		return apperrors.NewForbiddenError("only staff users can be deleted")
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, s.Now(), actor.UserID); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return err
	}
	s.record(ctx, actor, domain.ActionDelete, resourceUser, userID, user, nil)
	return nil
}
