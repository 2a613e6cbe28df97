package repository

import (
	"context"
	"errors"
	"fmt"

	"market-stall/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// categoryRepository implements the CategoryRepository interface using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

// ListTopLevel retrieves categories without a parent, ordered by display rank.
// Rank ties are broken by id so the ordering stays stable.
func (r *categoryRepository) ListTopLevel(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT id, name, parent_id, display_rank
		FROM categories
		WHERE parent_id IS NULL
		ORDER BY display_rank ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query top-level categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.DisplayRank); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a single category by its ID.
func (r *categoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	query := `
		SELECT id, name, parent_id, display_rank
		FROM categories
		WHERE id = $1
	`

	var c model.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.ParentID, &c.DisplayRank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("category_id", id).Msg("category not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &c, nil
}

// Upsert inserts the category or refreshes its name, parent and rank.
func (r *categoryRepository) Upsert(ctx context.Context, category model.Category) error {
	query := `
		INSERT INTO categories (id, name, parent_id, display_rank)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    parent_id = EXCLUDED.parent_id,
		    display_rank = EXCLUDED.display_rank
	`

	_, err := r.pool.Exec(ctx, query, category.ID, category.Name, category.ParentID, category.DisplayRank)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", category.ID).Msg("failed to upsert category")
		return fmt.Errorf("failed to upsert category %s: %w", category.ID, err)
	}

	return nil
}
