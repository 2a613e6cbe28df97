package service

import (
	"context"

	"market-stall/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines the read side of the catalog.
type CatalogService interface {
	// ListTopLevelCategories retrieves the top-level categories ordered by
	// display rank. On a backend failure it returns an empty slice together
	// with model.ErrRepositoryUnavailable.
	ListTopLevelCategories(ctx context.Context) ([]model.Category, error)

	// ListProducts retrieves products matching the filter, newest first.
	// On a backend failure it returns model.ErrRepositoryUnavailable;
	// callers treat that as "no results".
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error)

	// GetProduct retrieves a single product with its seller summary.
	GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductWithSeller, error)
}

// ProductWriter defines the write side of the catalog. All draft
// preconditions are checked before any store call.
type ProductWriter interface {
	// Create validates the draft and persists a new active product owned
	// by sellerID.
	Create(ctx context.Context, sellerID string, draft model.ProductDraft) (*model.Product, error)

	// Update validates the draft and replaces the mutable fields of the
	// product. Only the owning seller may update; id, owner and creation
	// timestamp never change.
	Update(ctx context.Context, productID uuid.UUID, sellerID string, draft model.ProductDraft) (*model.Product, error)
}
