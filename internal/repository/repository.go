package repository

import (
	"context"

	"market-stall/internal/model"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category lookups. Categories
// are managed externally; this service only reads and imports them.
type CategoryRepository interface {
	// ListTopLevel retrieves categories without a parent, ordered by
	// display rank ascending.
	ListTopLevel(ctx context.Context) ([]model.Category, error)

	// GetByID retrieves a single category. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Category, error)

	// Upsert inserts the category or updates its name, parent and rank.
	// Used by the taxonomy importer only.
	Upsert(ctx context.Context, category model.Category) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products matching the filter with their seller
	// summaries, newest first (ties broken by id ascending).
	List(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error)

	// GetByID retrieves a single product with its seller summary.
	// Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductWithSeller, error)

	// Insert persists a new product row.
	Insert(ctx context.Context, product *model.Product) error

	// Update replaces the mutable fields of the product owned by sellerID.
	// The ownership check and the write happen in one transaction.
	// Returns model.ErrProductNotFound or model.ErrForbidden accordingly.
	Update(ctx context.Context, product *model.Product, sellerID string) error
}
