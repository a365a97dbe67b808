package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/SscSPs/billistry/internal/utils/pagination"
)

type partyRepository struct {
	store *Store
}

func newPartyRepository(store *Store) *partyRepository {
	return &partyRepository{store: store}
}

var _ portsrepo.PartyRepositoryFacade = (*partyRepository)(nil)

// mobileTaken enforces mobile uniqueness per business and party type among live parties.
func (st *state) mobileTaken(p domain.Party) bool {
	for _, other := range st.parties {
		if !other.IsDeleted && other.PartyID != p.PartyID && other.BusinessID == p.BusinessID &&
			other.Type == p.Type && other.Mobile == p.Mobile {
			return true
		}
	}
	return false
}

func (r *partyRepository) FindPartyByID(ctx context.Context, businessID, partyID string) (*domain.Party, error) {
	var (
		party domain.Party
		found bool
	)
	r.store.read(func(st *state) {
		party, found = st.parties[partyID]
	})
	if !found || party.IsDeleted || party.BusinessID != businessID {
		return nil, notFound("party")
	}
	return &party, nil
}

func (r *partyRepository) ListParties(ctx context.Context, businessID string, filter portsrepo.PartyFilter, limit int, offset int) ([]domain.Party, error) {
	var parties []domain.Party
	r.store.read(func(st *state) {
		for _, p := range st.parties {
			if p.IsDeleted || p.BusinessID != businessID {
				continue
			}
			if filter.Type != "" && p.Type != filter.Type {
				continue
			}
			if filter.Search != "" && !containsFold(p.Name, filter.Search) && !strings.Contains(p.Mobile, filter.Search) {
				continue
			}
			parties = append(parties, p)
		}
	})
	sort.Slice(parties, func(i, j int) bool { return strings.ToLower(parties[i].Name) < strings.ToLower(parties[j].Name) })
	return offsetPage(parties, limit, offset), nil
}

func (r *partyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	return r.store.write(ctx, func(st *state) error {
		if st.mobileTaken(party) {
			return duplicate("party with this mobile")
		}
		st.parties[party.PartyID] = party
		return nil
	})
}

// UpdateParty keeps the stored balances whatever the caller passes.
func (r *partyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.parties[party.PartyID]
		if !ok || stored.IsDeleted || stored.BusinessID != party.BusinessID {
			return notFound("party")
		}
		if st.mobileTaken(party) {
			return duplicate("party with this mobile")
		}
		party.Type = stored.Type
		party.OpeningBalance = stored.OpeningBalance
		party.Balance = stored.Balance
		st.parties[party.PartyID] = party
		return nil
	})
}

func (r *partyRepository) MarkPartyDeleted(ctx context.Context, businessID, partyID string, deletedAt time.Time, deletedBy string) error {
	return r.store.write(ctx, func(st *state) error {
		party, ok := st.parties[partyID]
		if !ok || party.IsDeleted || party.BusinessID != businessID {
			return notFound("party")
		}
		party.IsDeleted = true
		party.DeletedAt = &deletedAt
		party.Touch(deletedBy, deletedAt)
		st.parties[partyID] = party
		return nil
	})
}

type categoryRepository struct {
	store *Store
}

func newCategoryRepository(store *Store) *categoryRepository {
	return &categoryRepository{store: store}
}

var _ portsrepo.CategoryRepositoryFacade = (*categoryRepository)(nil)

func (st *state) categoryNameTaken(c domain.Category) bool {
	for _, other := range st.categories {
		if !other.IsDeleted && other.CategoryID != c.CategoryID && other.BusinessID == c.BusinessID &&
			strings.EqualFold(other.Name, c.Name) {
			return true
		}
	}
	return false
}

func (r *categoryRepository) FindCategoryByID(ctx context.Context, businessID, categoryID string) (*domain.Category, error) {
	var (
		category domain.Category
		found    bool
	)
	r.store.read(func(st *state) {
		category, found = st.categories[categoryID]
	})
	if !found || category.IsDeleted || category.BusinessID != businessID {
		return nil, notFound("category")
	}
	return &category, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context, businessID string, limit int, offset int) ([]domain.Category, error) {
	var categories []domain.Category
	r.store.read(func(st *state) {
		for _, c := range st.categories {
			if !c.IsDeleted && c.BusinessID == businessID {
				categories = append(categories, c)
			}
		}
	})
	sort.Slice(categories, func(i, j int) bool { return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name) })
	return offsetPage(categories, limit, offset), nil
}

func (r *categoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	return r.store.write(ctx, func(st *state) error {
		if st.categoryNameTaken(category) {
			return duplicate("category with this name")
		}
		st.categories[category.CategoryID] = category
		return nil
	})
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.categories[category.CategoryID]
		if !ok || stored.IsDeleted || stored.BusinessID != category.BusinessID {
			return notFound("category")
		}
		if st.categoryNameTaken(category) {
			return duplicate("category with this name")
		}
		st.categories[category.CategoryID] = category
		return nil
	})
}

func (r *categoryRepository) MarkCategoryDeleted(ctx context.Context, businessID, categoryID string, deletedAt time.Time, deletedBy string) error {
	return r.store.write(ctx, func(st *state) error {
		category, ok := st.categories[categoryID]
		if !ok || category.IsDeleted || category.BusinessID != businessID {
			return notFound("category")
		}
		category.IsDeleted = true
		category.DeletedAt = &deletedAt
		category.Touch(deletedBy, deletedAt)
		st.categories[categoryID] = category
		return nil
	})
}

type productRepository struct {
	store *Store
}

func newProductRepository(store *Store) *productRepository {
	return &productRepository{store: store}
}

var _ portsrepo.ProductRepositoryFacade = (*productRepository)(nil)

// skuTaken enforces SKU uniqueness per business among live products. Empty SKUs never clash.
func (st *state) skuTaken(p domain.Product) bool {
	if p.SKU == "" {
		return false
	}
	for _, other := range st.products {
		if !other.IsDeleted && other.ProductID != p.ProductID && other.BusinessID == p.BusinessID &&
			strings.EqualFold(other.SKU, p.SKU) {
			return true
		}
	}
	return false
}

func (r *productRepository) FindProductByID(ctx context.Context, businessID, productID string) (*domain.Product, error) {
	var (
		product domain.Product
		found   bool
	)
	r.store.read(func(st *state) {
		product, found = st.products[productID]
	})
	if !found || product.IsDeleted || product.BusinessID != businessID {
		return nil, notFound("product")
	}
	return &product, nil
}

func (r *productRepository) FindProductsByIDs(ctx context.Context, businessID string, productIDs []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(productIDs))
	r.store.read(func(st *state) {
		for _, id := range productIDs {
			if p, ok := st.products[id]; ok && !p.IsDeleted && p.BusinessID == businessID {
				out[id] = p
			}
		}
	})
	return out, nil
}

func (r *productRepository) ListProducts(ctx context.Context, businessID string, filter portsrepo.ProductFilter, limit int, offset int) ([]domain.Product, error) {
	var products []domain.Product
	r.store.read(func(st *state) {
		for _, p := range st.products {
			if p.IsDeleted || p.BusinessID != businessID {
				continue
			}
			if filter.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
				continue
			}
			if filter.Search != "" && !containsFold(p.Name, filter.Search) && !containsFold(p.SKU, filter.Search) {
				continue
			}
			if filter.LowStockOnly && !p.IsLowStock() {
				continue
			}
			products = append(products, p)
		}
	})
	sort.Slice(products, func(i, j int) bool { return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name) })
	return offsetPage(products, limit, offset), nil
}

func movementCursor(m domain.StockMovement) pagination.Cursor {
	return pagination.Cursor{SortAt: m.CreatedAt, CreatedAt: m.CreatedAt, ID: m.MovementID}
}

func (r *productRepository) ListStockMovements(ctx context.Context, businessID, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	var movements []domain.StockMovement
	r.store.read(func(st *state) {
		for _, m := range st.movements {
			if m.BusinessID == businessID && m.ProductID == productID {
				movements = append(movements, m)
			}
		}
	})
	return cursorPage(movements, movementCursor, limit, nextToken)
}

func (r *productRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	return r.store.write(ctx, func(st *state) error {
		if st.skuTaken(product) {
			return duplicate("product with this SKU")
		}
		st.products[product.ProductID] = product
		return nil
	})
}

// UpdateProduct keeps the stored stock figures whatever the caller passes.
func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.products[product.ProductID]
		if !ok || stored.IsDeleted || stored.BusinessID != product.BusinessID {
			return notFound("product")
		}
		if st.skuTaken(product) {
			return duplicate("product with this SKU")
		}
		product.OpeningStock = stored.OpeningStock
		product.CurrentStock = stored.CurrentStock
		st.products[product.ProductID] = product
		return nil
	})
}

func (r *productRepository) MarkProductDeleted(ctx context.Context, businessID, productID string, deletedAt time.Time, deletedBy string) error {
	return r.store.write(ctx, func(st *state) error {
		product, ok := st.products[productID]
		if !ok || product.IsDeleted || product.BusinessID != businessID {
			return notFound("product")
		}
		product.IsDeleted = true
		product.DeletedAt = &deletedAt
		product.Touch(deletedBy, deletedAt)
		st.products[productID] = product
		return nil
	})
}
