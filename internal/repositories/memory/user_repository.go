package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
)

type userRepository struct {
	store *Store
}

func newUserRepository(store *Store) *userRepository {
	return &userRepository{store: store}
}

var _ portsrepo.UserRepositoryFacade = (*userRepository)(nil)

// emailTaken reports whether a live user other than exceptID uses email.
func (st *state) emailTaken(email, exceptID string) bool {
	for _, u := range st.users {
		if u.DeletedAt == nil && u.UserID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var (
		user  domain.User
		found bool
	)
	r.store.read(func(st *state) {
		user, found = st.users[userID]
	})
	if !found || user.DeletedAt != nil {
		return nil, notFound("user")
	}
	return &user, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out *domain.User
	r.store.read(func(st *state) {
		for _, u := range st.users {
			if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
				out = &u
				return
			}
		}
	})
	if out == nil {
		return nil, notFound("user")
	}
	return out, nil
}

func (r *userRepository) FindUserByProvider(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	var out *domain.User
	r.store.read(func(st *state) {
		for _, u := range st.users {
			if u.DeletedAt == nil && u.AuthProvider == provider && u.ProviderUserID != nil && *u.ProviderUserID == providerUserID {
				out = &u
				return
			}
		}
	})
	if out == nil {
		return nil, notFound("user")
	}
	return out, nil
}

func (r *userRepository) ListUsersByBusiness(ctx context.Context, businessID string, limit int, offset int) ([]domain.User, error) {
	var users []domain.User
	r.store.read(func(st *state) {
		for _, u := range st.users {
			if u.DeletedAt == nil && u.BusinessID != nil && *u.BusinessID == businessID {
				users = append(users, u)
			}
		}
	})
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return offsetPage(users, limit, offset), nil
}

func (r *userRepository) SaveUser(ctx context.Context, user domain.User) error {
	return r.store.write(ctx, func(st *state) error {
		if st.emailTaken(user.Email, user.UserID) {
			return duplicate("user with this email")
		}
		st.users[user.UserID] = user
		return nil
	})
}

func (r *userRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.users[user.UserID]
		if !ok || stored.DeletedAt != nil {
			return notFound("user")
		}
		if st.emailTaken(user.Email, user.UserID) {
			return duplicate("user with this email")
		}
		st.users[user.UserID] = user
		return nil
	})
}

func (r *userRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	return r.store.write(ctx, func(st *state) error {
		user, ok := st.users[userID]
		if !ok || user.DeletedAt != nil {
			return notFound("user")
		}
		user.DeletedAt = &deletedAt
		user.IsActive = false
		user.Touch(deletedBy, deletedAt)
		st.users[userID] = user
		return nil
	})
}
