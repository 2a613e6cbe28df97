// Package taxonomy imports the externally-managed category catalog into the
// categories table. Categories are immutable through the public API; catalog
// files are the management channel.
package taxonomy

import (
	"context"

	"market-stall/internal/model"
)

// Loader loads a category catalog file and returns its entries.
type Loader interface {
	// Load reads the catalog at path. For S3-backed loaders the path is
	// the object key (including any prefix).
	Load(ctx context.Context, path string) ([]model.Category, error)
}
