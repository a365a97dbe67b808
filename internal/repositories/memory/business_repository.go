package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
)

type businessRepository struct {
	store *Store
}

func newBusinessRepository(store *Store) *businessRepository {
	return &businessRepository{store: store}
}

var _ portsrepo.BusinessRepositoryFacade = (*businessRepository)(nil)

func (r *businessRepository) FindBusinessByID(ctx context.Context, businessID string) (*domain.Business, error) {
	var (
		business domain.Business
		found    bool
	)
	r.store.read(func(st *state) {
		business, found = st.businesses[businessID]
	})
	if !found || business.IsDeleted {
		return nil, notFound("business")
	}
	return &business, nil
}

func (r *businessRepository) FindBusinessByOwnerID(ctx context.Context, ownerID string) (*domain.Business, error) {
	var out *domain.Business
	r.store.read(func(st *state) {
		for _, b := range st.businesses {
			if !b.IsDeleted && b.OwnerID == ownerID {
				out = &b
				return
			}
		}
	})
	if out == nil {
		return nil, notFound("business")
	}
	return out, nil
}

func (r *businessRepository) ListBusinesses(ctx context.Context, limit int, offset int) ([]domain.Business, error) {
	var businesses []domain.Business
	r.store.read(func(st *state) {
		for _, b := range st.businesses {
			if !b.IsDeleted {
				businesses = append(businesses, b)
			}
		}
	})
	sort.Slice(businesses, func(i, j int) bool { return businesses[i].CreatedAt.After(businesses[j].CreatedAt) })
	return offsetPage(businesses, limit, offset), nil
}

// CreateBusinessWithOwner writes the owner, the business and the trial together.
func (r *businessRepository) CreateBusinessWithOwner(ctx context.Context, owner domain.User, business domain.Business, trial domain.Subscription) error {
	return r.store.write(ctx, func(st *state) error {
		if st.emailTaken(owner.Email, owner.UserID) {
			return duplicate("user with this email")
		}
		for _, b := range st.businesses {
			if !b.IsDeleted && b.OwnerID == business.OwnerID {
				return duplicate("business for this owner")
			}
		}
		st.users[owner.UserID] = owner
		st.businesses[business.BusinessID] = business
		st.subscriptions[trial.SubscriptionID] = trial
		return nil
	})
}

// UpdateBusiness replaces the profile. The subscription mirror is kept.
func (r *businessRepository) UpdateBusiness(ctx context.Context, business domain.Business) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.businesses[business.BusinessID]
		if !ok || stored.IsDeleted {
			return notFound("business")
		}
		business.SubscriptionPlanID = stored.SubscriptionPlanID
		business.SubscriptionExpiry = stored.SubscriptionExpiry
		business.OwnerID = stored.OwnerID
		st.businesses[business.BusinessID] = business
		return nil
	})
}

func (r *businessRepository) MarkBusinessDeleted(ctx context.Context, businessID string, deletedAt time.Time, deletedBy string) error {
	return r.store.write(ctx, func(st *state) error {
		business, ok := st.businesses[businessID]
		if !ok || business.IsDeleted {
			return notFound("business")
		}
		business.IsDeleted = true
		business.DeletedAt = &deletedAt
		business.IsActive = false
		business.Touch(deletedBy, deletedAt)
		st.businesses[businessID] = business
		return nil
	})
}
