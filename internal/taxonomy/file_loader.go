package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"market-stall/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for local JSON catalog files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalog loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "taxonomy-loader").Logger(),
	}
}

// Load reads a JSON catalog file containing an array of categories.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.Category, error) {
	l.logger.Info().Str("file", filePath).Msg("loading category catalog file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var categories []model.Category
	if err := json.NewDecoder(file).Decode(&categories); err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode catalog file")
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("categories_loaded", len(categories)).
		Msg("category catalog file loaded")

	return categories, nil
}
