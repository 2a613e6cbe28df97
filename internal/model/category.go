package model

// Category is a node in the externally-managed product taxonomy.
// A nil ParentID marks a top-level category.
type Category struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	ParentID    *string `json:"parentId,omitempty" db:"parent_id"`
	DisplayRank int     `json:"displayRank" db:"display_rank"`
}

// TopLevel reports whether the category has no parent.
func (c Category) TopLevel() bool {
	return c.ParentID == nil
}
