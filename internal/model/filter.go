package model

import (
	"fmt"
	"strings"
)

// Listing limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ProductFilter narrows a product listing. All fields are optional;
// predicates AND-compose, so adding one never widens the result set.
type ProductFilter struct {
	// Status defaults to StatusActive when empty.
	Status string
	// CategoryID restricts to an exact category when non-empty.
	CategoryID string
	// SearchText matches title or description, case-insensitive substring.
	SearchText string
	// Limit caps the result count. Zero means DefaultListLimit.
	Limit int
}

// Normalize applies the filter defaults and caps.
func (f ProductFilter) Normalize() ProductFilter {
	if f.Status == "" {
		f.Status = StatusActive
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	f.SearchText = strings.TrimSpace(f.SearchText)
	return f
}

// Key returns a stable identity for the normalized filter, used to group
// superseding browse requests.
func (f ProductFilter) Key() string {
	n := f.Normalize()
	return fmt.Sprintf("status=%s|category=%s|q=%s|limit=%d",
		n.Status, n.CategoryID, strings.ToLower(n.SearchText), n.Limit)
}
