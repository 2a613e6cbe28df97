package service

import (
	"context"

	"market-stall/internal/model"
	"market-stall/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	logger       zerolog.Logger
}

// NewCatalogService creates a new catalog read service.
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger.With().Str("service", "catalog").Logger(),
	}
}

// ListTopLevelCategories retrieves the top-level categories ordered by
// display rank. Failures never propagate raw store errors past this
// boundary; callers get an empty slice and a retrievable error.
func (s *catalogService) ListTopLevelCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListTopLevel(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list top-level categories")
		return []model.Category{}, model.ErrRepositoryUnavailable
	}

	if categories == nil {
		categories = []model.Category{}
	}

	s.logger.Debug().Int("count", len(categories)).Msg("retrieved top-level categories")

	return categories, nil
}

// ListProducts retrieves products matching the filter.
func (s *catalogService) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error) {
	filter = filter.Normalize()

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Str("status", filter.Status).
			Str("category_id", filter.CategoryID).
			Str("search_text", filter.SearchText).
			Msg("failed to list products")
		return nil, model.ErrRepositoryUnavailable
	}

	if products == nil {
		products = []model.ProductWithSeller{}
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", filter.Limit).
		Msg("retrieved products")

	return products, nil
}

// GetProduct retrieves a single product with its seller summary.
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductWithSeller, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, model.ErrRepositoryUnavailable
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}
