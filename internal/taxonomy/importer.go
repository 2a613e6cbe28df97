package taxonomy

import (
	"context"
	"fmt"

	"market-stall/internal/model"
	"market-stall/internal/repository"

	"github.com/rs/zerolog"
)

// Importer loads a category catalog and upserts it into the store.
// Re-running the importer with changed entries updates rows in place and
// never duplicates them.
type Importer struct {
	loader Loader
	repo   repository.CategoryRepository
	logger zerolog.Logger
}

// NewImporter creates a new catalog importer.
func NewImporter(loader Loader, repo repository.CategoryRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		repo:   repo,
		logger: logger.With().Str("component", "taxonomy-importer").Logger(),
	}
}

// Run loads the catalog at path and upserts every valid entry. It returns
// the number of categories imported. Malformed entries are skipped with a
// warning; a later duplicate of an id wins over an earlier one.
func (i *Importer) Run(ctx context.Context, path string) (int, error) {
	categories, err := i.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to load category catalog: %w", err)
	}

	deduped := make(map[string]model.Category, len(categories))
	order := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.ID == "" || c.Name == "" {
			i.logger.Warn().
				Str("category_id", c.ID).
				Str("name", c.Name).
				Msg("skipping malformed catalog entry")
			continue
		}
		if _, seen := deduped[c.ID]; !seen {
			order = append(order, c.ID)
		}
		deduped[c.ID] = c
	}

	imported := 0
	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		if err := i.repo.Upsert(ctx, deduped[id]); err != nil {
			return imported, fmt.Errorf("failed to import category %s: %w", id, err)
		}
		imported++
	}

	i.logger.Info().
		Str("path", path).
		Int("imported", imported).
		Int("skipped", len(categories)-imported).
		Msg("category catalog imported")

	return imported, nil
}
