package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"market-stall/internal/model"
	"market-stall/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productWriter implements ProductWriter.
type productWriter struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       zerolog.Logger
	now          func() time.Time
}

// NewProductWriter creates a new product writer.
func NewProductWriter(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger zerolog.Logger,
) ProductWriter {
	return &productWriter{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger.With().Str("service", "writer").Logger(),
		now:          time.Now,
	}
}

// Create validates the draft and persists a new active product owned by
// sellerID. Both timestamps are set to now; the draft status is ignored.
func (w *productWriter) Create(ctx context.Context, sellerID string, draft model.ProductDraft) (*model.Product, error) {
	if sellerID == "" {
		return nil, model.NewValidationError("sellerId", "Seller identity is required")
	}

	parsed, err := w.validateDraft(ctx, draft)
	if err != nil {
		w.logger.Warn().Err(err).Str("seller_id", sellerID).Msg("product draft rejected")
		return nil, err
	}

	now := w.now()
	product := &model.Product{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Title:       parsed.title,
		Description: strings.TrimSpace(draft.Description),
		Price:       parsed.price,
		CategoryID:  draft.CategoryID,
		StockCount:  parsed.stock,
		Condition:   draft.Condition,
		Images:      parsed.images,
		Status:      model.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := w.productRepo.Insert(ctx, product); err != nil {
		w.logger.Error().Err(err).
			Str("product_id", product.ID.String()).
			Str("seller_id", sellerID).
			Msg("failed to persist product")
		return nil, err
	}

	w.logger.Info().
		Str("product_id", product.ID.String()).
		Str("seller_id", sellerID).
		Str("category_id", product.CategoryID).
		Msg("product created")

	return product, nil
}

// Update validates the draft and replaces the mutable fields of the product.
// Identifier, owner and creation timestamp are never touched; the update
// timestamp is refreshed. The repository enforces ownership atomically.
func (w *productWriter) Update(ctx context.Context, productID uuid.UUID, sellerID string, draft model.ProductDraft) (*model.Product, error) {
	if sellerID == "" {
		return nil, model.NewValidationError("sellerId", "Seller identity is required")
	}

	if draft.Status != "" && !model.ValidStatus(draft.Status) {
		return nil, model.NewValidationError("status", "Unknown product status")
	}

	parsed, err := w.validateDraft(ctx, draft)
	if err != nil {
		w.logger.Warn().Err(err).
			Str("product_id", productID.String()).
			Str("seller_id", sellerID).
			Msg("product draft rejected")
		return nil, err
	}

	existing, err := w.productRepo.GetByID(ctx, productID)
	if err != nil {
		w.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to load product")
		return nil, model.ErrRepositoryUnavailable
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	status := draft.Status
	if status == "" {
		status = existing.Status
	}

	product := &model.Product{
		ID:          productID,
		SellerID:    existing.SellerID,
		Title:       parsed.title,
		Description: strings.TrimSpace(draft.Description),
		Price:       parsed.price,
		CategoryID:  draft.CategoryID,
		StockCount:  parsed.stock,
		Condition:   draft.Condition,
		Images:      parsed.images,
		Status:      status,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   w.now(),
	}

	if err := w.productRepo.Update(ctx, product, sellerID); err != nil {
		return nil, err
	}

	w.logger.Info().
		Str("product_id", productID.String()).
		Str("seller_id", sellerID).
		Msg("product updated")

	return product, nil
}

// parsedDraft holds the draft fields after parsing and normalisation.
type parsedDraft struct {
	title  string
	price  float64
	stock  int
	images []string
}

// validateDraft checks every Writer precondition before any write is
// attempted. The first violated precondition is reported as a field-level
// validation failure.
func (w *productWriter) validateDraft(ctx context.Context, draft model.ProductDraft) (parsedDraft, error) {
	var parsed parsedDraft

	parsed.title = strings.TrimSpace(draft.Title)
	if parsed.title == "" {
		return parsed, model.NewValidationError("title", "Title is required")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(draft.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return parsed, model.NewValidationError("price", "Price must be a number")
	}
	if price < 0 {
		return parsed, model.NewValidationError("price", "Price cannot be negative")
	}
	parsed.price = price

	stock, err := strconv.Atoi(strings.TrimSpace(draft.StockCount))
	if err != nil {
		return parsed, model.NewValidationError("stockCount", "Stock count must be an integer")
	}
	if stock < 0 {
		return parsed, model.NewValidationError("stockCount", "Stock count cannot be negative")
	}
	parsed.stock = stock

	if !model.ValidCondition(draft.Condition) {
		return parsed, model.NewValidationError("condition", "Unknown product condition")
	}

	if len(draft.Images) > model.MaxProductImages {
		return parsed, model.NewValidationError("images",
			"A product can carry at most "+strconv.Itoa(model.MaxProductImages)+" images")
	}
	parsed.images = draft.Images
	if parsed.images == nil {
		parsed.images = []string{}
	}

	if draft.CategoryID == "" {
		return parsed, model.NewValidationError("categoryId", "Category is required")
	}
	category, err := w.categoryRepo.GetByID(ctx, draft.CategoryID)
	if err != nil {
		return parsed, model.ErrRepositoryUnavailable
	}
	if category == nil {
		return parsed, model.NewValidationError("categoryId", "Category does not exist")
	}

	return parsed, nil
}
