package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/core/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockUserRepository is a mock implementation of UserRepositoryFacade
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindUserByProvider(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ListUsersByBusiness(ctx context.Context, businessID string, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, businessID, limit, offset)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// MockAuditRecorder captures audit calls.
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, resourceType, resourceID string, before, after any) {
	m.Called(ctx, actor, action, resourceType, resourceID, before, after)
}

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockUserRepository
	mockAudit *MockAuditRecorder
	service   portssvc.UserSvcFacade
	ctx       context.Context
	now       time.Time

	businessID string
	owner      domain.Actor
	staff      domain.Actor
}

// SetupTest sets up the test suite before each test
func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.mockAudit = new(MockAuditRecorder)
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewUserService(suite.mockRepo,
		services.WithAuditRecorder(suite.mockAudit),
		services.WithClock(func() time.Time { return suite.now }))

	suite.businessID = "biz-1"
	suite.owner = domain.Actor{UserID: "owner-1", BusinessID: suite.businessID, Role: domain.RoleShopkeeper}
	suite.staff = domain.Actor{UserID: "staff-1", BusinessID: suite.businessID, Role: domain.RoleStaff}
}

// TestUserServiceTestSuite runs the test suite
func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) staffUser(id string, businessID string) *domain.User {
	return &domain.User{
		UserID:     id,
		Name:       "Staff " + id,
		Email:      id + "@shop.test",
		Role:       domain.RoleStaff,
		BusinessID: &businessID,
		IsActive:   true,
	}
}

// --- Test CreateStaff ---

func (suite *UserServiceTestSuite) TestCreateStaff_Success() {
	req := dto.CreateStaffRequest{Name: "  Ravi ", Email: "Ravi@Shop.Test", Password: "password123"}

	suite.mockRepo.On("FindUserByEmail", suite.ctx, "ravi@shop.test").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == "Ravi" &&
			u.Email == "ravi@shop.test" &&
			u.Role == domain.RoleStaff &&
			u.BusinessID != nil && *u.BusinessID == suite.businessID &&
			u.PasswordHash != "" && u.PasswordHash != req.Password &&
			u.CreatedBy == suite.owner.UserID &&
			u.CreatedAt.Equal(suite.now)
	})).Return(nil).Once()
	suite.mockAudit.On("Record", suite.ctx, suite.owner, domain.ActionCreate, "user", mock.AnythingOfType("string"), nil, mock.Anything).Once()

	user, err := suite.service.CreateStaff(suite.ctx, suite.owner, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.True(user.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateStaff_EmailTaken() {
	suite.mockRepo.On("FindUserByEmail", suite.ctx, "taken@shop.test").Return(suite.staffUser("x", suite.businessID), nil).Once()

	user, err := suite.service.CreateStaff(suite.ctx, suite.owner, dto.CreateStaffRequest{Name: "A", Email: "taken@shop.test", Password: "password123"})

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateStaff_StaffForbidden() {
	user, err := suite.service.CreateStaff(suite.ctx, suite.staff, dto.CreateStaffRequest{Name: "A", Email: "a@shop.test", Password: "password123"})

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateStaff_RepoError() {
	suite.mockRepo.On("FindUserByEmail", suite.ctx, "a@shop.test").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(assert.AnError).Once()

	user, err := suite.service.CreateStaff(suite.ctx, suite.owner, dto.CreateStaffRequest{Name: "A", Email: "a@shop.test", Password: "password123"})

	suite.Nil(user)
	suite.ErrorIs(err, assert.AnError)
	suite.mockAudit.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Test GetUser ---

func (suite *UserServiceTestSuite) TestGetUser_OtherBusinessIsNotFound() {
	suite.mockRepo.On("FindUserByID", suite.ctx, "staff-9").Return(suite.staffUser("staff-9", "biz-2"), nil).Once()

	user, err := suite.service.GetUser(suite.ctx, suite.owner, "staff-9")

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestListUsers_ClampsLimit() {
	users := []domain.User{*suite.staffUser("staff-1", suite.businessID)}
	suite.mockRepo.On("ListUsersByBusiness", suite.ctx, suite.businessID, 100, 0).Return(users, nil).Once()

	result, err := suite.service.ListUsers(suite.ctx, suite.owner, 500, -3)

	suite.Require().NoError(err)
	suite.Len(result, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestListUsers_EmptyIsNotNil() {
	suite.mockRepo.On("ListUsersByBusiness", suite.ctx, suite.businessID, 20, 0).Return(nil, nil).Once()

	result, err := suite.service.ListUsers(suite.ctx, suite.owner, 0, 0)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

// --- Test UpdateUser ---

func (suite *UserServiceTestSuite) TestUpdateUser_Deactivate() {
	existing := suite.staffUser("staff-1", suite.businessID)
	inactive := false
	suite.mockRepo.On("FindUserByID", suite.ctx, "staff-1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == "staff-1" && !u.IsActive && u.LastUpdatedBy == suite.owner.UserID
	})).Return(nil).Once()
	suite.mockAudit.On("Record", suite.ctx, suite.owner, domain.ActionUpdate, "user", "staff-1", mock.Anything, mock.Anything).Once()

	user, err := suite.service.UpdateUser(suite.ctx, suite.owner, "staff-1", dto.UpdateUserRequest{IsActive: &inactive})

	suite.Require().NoError(err)
	suite.False(user.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_NoChangeSkipsWrite() {
	existing := suite.staffUser("staff-1", suite.businessID)
	name := existing.Name
	suite.mockRepo.On("FindUserByID", suite.ctx, "staff-1").Return(existing, nil).Once()

	user, err := suite.service.UpdateUser(suite.ctx, suite.owner, "staff-1", dto.UpdateUserRequest{Name: &name})

	suite.Require().NoError(err)
	suite.Equal(name, user.Name)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_BlankName() {
	blank := "   "
	suite.mockRepo.On("FindUserByID", suite.ctx, "staff-1").Return(suite.staffUser("staff-1", suite.businessID), nil).Once()

	_, err := suite.service.UpdateUser(suite.ctx, suite.owner, "staff-1", dto.UpdateUserRequest{Name: &blank})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestUpdateUser_CannotDeactivateSelf() {
	self := &domain.User{UserID: suite.owner.UserID, Role: domain.RoleShopkeeper, BusinessID: &suite.businessID, IsActive: true}
	inactive := false
	suite.mockRepo.On("FindUserByID", suite.ctx, suite.owner.UserID).Return(self, nil).Once()

	_, err := suite.service.UpdateUser(suite.ctx, suite.owner, suite.owner.UserID, dto.UpdateUserRequest{IsActive: &inactive})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Test DeleteUser ---

func (suite *UserServiceTestSuite) TestDeleteUser_Success() {
	suite.mockRepo.On("FindUserByID", suite.ctx, "staff-1").Return(suite.staffUser("staff-1", suite.businessID), nil).Once()
	suite.mockRepo.On("MarkUserDeleted", suite.ctx, "staff-1", suite.now, suite.owner.UserID).Return(nil).Once()
	suite.mockAudit.On("Record", suite.ctx, suite.owner, domain.ActionDelete, "user", "staff-1", mock.Anything, nil).Once()

	err := suite.service.DeleteUser(suite.ctx, suite.owner, "staff-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_Self() {
	err := suite.service.DeleteUser(suite.ctx, suite.owner, suite.owner.UserID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_ShopkeeperCannotBeDeleted() {
	other := &domain.User{UserID: "owner-2", Role: domain.RoleShopkeeper, BusinessID: &suite.businessID}
	suite.mockRepo.On("FindUserByID", suite.ctx, "owner-2").Return(other, nil).Once()

	err := suite.service.DeleteUser(suite.ctx, suite.owner, "owner-2")

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
