package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/SscSPs/billistry/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	db *pgxpool.Pool
}

func newPgxCategoryRepository(db *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{db: db}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, business_id, name, description, is_deleted, deleted_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(
		&c.CategoryID,
		&c.BusinessID,
		&c.Name,
		&c.Description,
		&c.IsDeleted,
		&c.DeletedAt,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, businessID, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 AND business_id = $2 AND NOT is_deleted;`
	c, err := scanCategory(r.db.QueryRow(ctx, query, categoryID, businessID))
	if err != nil {
		return nil, mapError(err, "category")
	}
	return &c, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, businessID string, limit int, offset int) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE business_id = $1 AND NOT is_deleted
		ORDER BY lower(name)
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, query, businessID, clampLimit(limit), offset)
	if err != nil {
		return nil, mapError(err, "categories")
	}
	categories, err := collect(rows, scanCategory)
	return categories, mapError(err, "categories")
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		category.CategoryID,
		category.BusinessID,
		category.Name,
		category.Description,
		category.IsDeleted,
		category.DeletedAt,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	return mapError(err, "category with this name")
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET name = $3, description = $4, last_updated_at = $5, last_updated_by = $6
		WHERE category_id = $1 AND business_id = $2 AND NOT is_deleted;
	`
	tag, err := r.db.Exec(ctx, query,
		category.CategoryID,
		category.BusinessID,
		category.Name,
		category.Description,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "category with this name")
	}
	return requireRow(tag, "category")
}

func (r *PgxCategoryRepository) MarkCategoryDeleted(ctx context.Context, businessID, categoryID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE categories
		SET is_deleted = TRUE, deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE category_id = $1 AND business_id = $2 AND NOT is_deleted;
	`
	tag, err := r.db.Exec(ctx, query, categoryID, businessID, deletedAt, deletedBy)
	if err != nil {
		return mapError(err, "category")
	}
	return requireRow(tag, "category")
}

type PgxProductRepository struct {
	db *pgxpool.Pool
}

func newPgxProductRepository(db *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{db: db}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productColumns = `product_id, business_id, category_id, name, sku, unit, purchase_price, selling_price,
	tax_percent, opening_stock, current_stock, low_stock_threshold, is_deleted, deleted_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ProductID,
		&p.BusinessID,
		&p.CategoryID,
		&p.Name,
		&p.SKU,
		&p.Unit,
		&p.PurchasePrice,
		&p.SellingPrice,
		&p.TaxPercent,
		&p.OpeningStock,
		&p.CurrentStock,
		&p.LowStockThreshold,
		&p.IsDeleted,
		&p.DeletedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, businessID, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1 AND business_id = $2 AND NOT is_deleted;`
	p, err := scanProduct(r.db.QueryRow(ctx, query, productID, businessID))
	if err != nil {
		return nil, mapError(err, "product")
	}
	return &p, nil
}

func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, businessID string, productIDs []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE business_id = $1 AND product_id = ANY($2) AND NOT is_deleted;`
	rows, err := r.db.Query(ctx, query, businessID, productIDs)
	if err != nil {
		return nil, mapError(err, "products")
	}
	products, err := collect(rows, scanProduct)
	if err != nil {
		return nil, mapError(err, "products")
	}
	for _, p := range products {
		out[p.ProductID] = p
	}
	return out, nil
}

func (r *PgxProductRepository) ListProducts(ctx context.Context, businessID string, filter portsrepo.ProductFilter, limit int, offset int) ([]domain.Product, error) {
	w := newWhere("business_id = ?", businessID).and("NOT is_deleted")
	if filter.CategoryID != "" {
		w.and("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		w.and("(name ILIKE '%' || ? || '%' OR sku ILIKE '%' || ? || '%')", filter.Search, filter.Search)
	}
	if filter.LowStockOnly {
		w.and("current_stock <= low_stock_threshold")
	}
	query := `SELECT ` + productColumns + ` FROM products ` + w.String() +
		` ORDER BY lower(name) LIMIT ` + w.next(clampLimit(limit)) + ` OFFSET ` + w.next(offset) + `;`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "products")
	}
	products, err := collect(rows, scanProduct)
	return products, mapError(err, "products")
}

func scanMovement(row pgx.Row) (domain.StockMovement, error) {
	var m domain.StockMovement
	err := row.Scan(&m.MovementID, &m.BusinessID, &m.ProductID, &m.DocumentKind, &m.DocumentID, &m.Quantity, &m.CreatedAt, &m.CreatedBy)
	return m, err
}

func movementCursor(m domain.StockMovement) pagination.Cursor {
	return pagination.Cursor{SortAt: m.CreatedAt, CreatedAt: m.CreatedAt, ID: m.MovementID}
}

func (r *PgxProductRepository) ListStockMovements(ctx context.Context, businessID, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	limit = clampLimit(limit)
	w := newWhere("business_id = ?", businessID).and("product_id = ?", productID)
	if err := w.afterCursor(nextToken, "created_at", "movement_id"); err != nil {
		return nil, nil, err
	}
	query := `
		SELECT movement_id, business_id, product_id, document_kind, document_id, quantity, created_at, created_by
		FROM stock_movements ` + w.String() + `
		ORDER BY created_at DESC, movement_id DESC
		LIMIT ` + w.next(limit+1) + `;`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, nil, mapError(err, "stock movements")
	}
	movements, err := collect(rows, scanMovement)
	if err != nil {
		return nil, nil, mapError(err, "stock movements")
	}
	page, next := splitPage(movements, limit, movementCursor)
	return page, next, nil
}

func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.db.Exec(ctx, query,
		product.ProductID,
		product.BusinessID,
		product.CategoryID,
		product.Name,
		product.SKU,
		product.Unit,
		product.PurchasePrice,
		product.SellingPrice,
		product.TaxPercent,
		product.OpeningStock,
		product.CurrentStock,
		product.LowStockThreshold,
		product.IsDeleted,
		product.DeletedAt,
		product.CreatedAt,
		product.CreatedBy,
		product.LastUpdatedAt,
		product.LastUpdatedBy,
	)
	return mapError(err, "product with this SKU")
}

// UpdateProduct never writes stock figures.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	query := `
		UPDATE products
		SET category_id = $3, name = $4, sku = $5, unit = $6, purchase_price = $7, selling_price = $8,
		    tax_percent = $9, low_stock_threshold = $10, last_updated_at = $11, last_updated_by = $12
		WHERE product_id = $1 AND business_id = $2 AND NOT is_deleted;
	`
	tag, err := r.db.Exec(ctx, query,
		product.ProductID,
		product.BusinessID,
		product.CategoryID,
		product.Name,
		product.SKU,
		product.Unit,
		product.PurchasePrice,
		product.SellingPrice,
		product.TaxPercent,
		product.LowStockThreshold,
		product.LastUpdatedAt,
		product.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "product with this SKU")
	}
	return requireRow(tag, "product")
}

func (r *PgxProductRepository) MarkProductDeleted(ctx context.Context, businessID, productID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE products
		SET is_deleted = TRUE, deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1 AND business_id = $2 AND NOT is_deleted;
	`
	tag, err := r.db.Exec(ctx, query, productID, businessID, deletedAt, deletedBy)
	if err != nil {
		return mapError(err, "product")
	}
	return requireRow(tag, "product")
}
