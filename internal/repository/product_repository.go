package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"market-stall/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `
	p.id, p.seller_id, p.title, p.description, p.price, p.category_id,
	p.stock_count, p.condition, p.images, p.status, p.created_at, p.updated_at,
	s.id, s.store_name, s.rating, s.logo_url`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List retrieves products matching the filter with their seller summaries.
// Filter predicates AND-compose; ordering is created_at descending with id
// ascending as the tie-breaker, so pagination-free listings stay stable.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error) {
	filter = filter.Normalize()

	var (
		conds = []string{"p.status = $1"}
		args  = []any{filter.Status}
	)

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}

	if filter.SearchText != "" {
		args = append(args, "%"+escapeLike(filter.SearchText)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(p.title ILIKE $%d ESCAPE '\' OR p.description ILIKE $%d ESCAPE '\')`, n, n))
	}

	args = append(args, filter.Limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		WHERE %s
		ORDER BY p.created_at DESC, p.id ASC
		LIMIT $%d
	`, productColumns, strings.Join(conds, " AND "), len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("status", filter.Status).
			Str("category_id", filter.CategoryID).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.ProductWithSeller
	for rows.Next() {
		p, err := scanProductWithSeller(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product with its seller summary.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductWithSeller, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		WHERE p.id = $1
	`, productColumns)

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query product: %w", err)
		}
		r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, nil
	}

	p, err := scanProductWithSeller(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan product row")
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	return &p, nil
}

// Insert persists a new product row.
func (r *productRepository) Insert(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (
			id, seller_id, title, description, price, category_id,
			stock_count, condition, images, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID, product.SellerID, product.Title, product.Description,
		product.Price, product.CategoryID, product.StockCount, product.Condition,
		product.Images, product.Status, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", product.ID.String()).
			Str("seller_id", product.SellerID).
			Msg("failed to insert product")
		return classifyWriteError(err)
	}

	r.logger.Debug().
		Str("product_id", product.ID.String()).
		Msg("product inserted")

	return nil
}

// Update replaces the mutable fields of the product owned by sellerID.
// The owning row is locked first so a non-owner can never race a write in;
// either the full record is persisted or nothing changes.
func (r *productRepository) Update(ctx context.Context, product *model.Product, sellerID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var ownerID string
	err = tx.QueryRow(ctx,
		`SELECT seller_id FROM products WHERE id = $1 FOR UPDATE`,
		product.ID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", product.ID.String()).Msg("product not found")
			return model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to lock product row")
		return fmt.Errorf("failed to lock product row: %w", err)
	}

	if ownerID != sellerID {
		r.logger.Warn().
			Str("product_id", product.ID.String()).
			Str("owner_id", ownerID).
			Str("seller_id", sellerID).
			Msg("update attempted by non-owner")
		return model.ErrForbidden
	}

	query := `
		UPDATE products
		SET title = $2, description = $3, price = $4, category_id = $5,
		    stock_count = $6, condition = $7, images = $8, status = $9,
		    updated_at = $10
		WHERE id = $1
	`

	_, err = tx.Exec(ctx, query,
		product.ID, product.Title, product.Description, product.Price,
		product.CategoryID, product.StockCount, product.Condition,
		product.Images, product.Status, product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to update product")
		return classifyWriteError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to commit product update")
		return fmt.Errorf("failed to commit product update: %w", err)
	}

	r.logger.Debug().
		Str("product_id", product.ID.String()).
		Msg("product updated")

	return nil
}

// scanProductWithSeller scans a joined product + seller row.
func scanProductWithSeller(rows pgx.Rows) (model.ProductWithSeller, error) {
	var p model.ProductWithSeller
	err := rows.Scan(
		&p.ID, &p.SellerID, &p.Title, &p.Description, &p.Price, &p.CategoryID,
		&p.StockCount, &p.Condition, &p.Images, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&p.Seller.ID, &p.Seller.StoreName, &p.Seller.Rating, &p.Seller.LogoURL,
	)
	return p, err
}

// classifyWriteError maps SQLSTATE codes onto the domain error kinds.
// An unknown category surfaces as a validation failure rather than a
// conflict because it violates a Writer precondition.
func classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation:
			if pgErr.ConstraintName == "products_category_id_fkey" {
				return model.NewValidationError("categoryId", "Category does not exist")
			}
			return model.ErrWriteConflict
		case pgerrcode.UniqueViolation, pgerrcode.CheckViolation:
			return model.ErrWriteConflict
		}
	}
	return fmt.Errorf("failed to write product: %w", err)
}

// escapeLike escapes LIKE metacharacters so search text is matched literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
