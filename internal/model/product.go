package model

import (
	"time"

	"github.com/google/uuid"
)

// Product condition values.
const (
	ConditionNew     = "new"
	ConditionLikeNew = "like_new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
)

// Product lifecycle status values. Products are never hard-deleted;
// removal is a transition to StatusRemoved.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusSoldOut  = "sold_out"
	StatusRemoved  = "removed"
)

// MaxProductImages caps the image list on a product.
const MaxProductImages = 5

// Product represents a marketplace listing owned by a seller.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SellerID    string    `json:"sellerId" db:"seller_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	CategoryID  string    `json:"categoryId" db:"category_id"`
	StockCount  int       `json:"stockCount" db:"stock_count"`
	Condition   string    `json:"condition" db:"condition"`
	Images      []string  `json:"images" db:"images"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// SellerSummary is the denormalized seller data attached to a product
// for display. It is never mutated through the product entity.
type SellerSummary struct {
	ID        string  `json:"id" db:"id"`
	StoreName string  `json:"storeName" db:"store_name"`
	Rating    float64 `json:"rating" db:"rating"`
	LogoURL   string  `json:"logoUrl" db:"logo_url"`
}

// ProductWithSeller is the read-side join of a product and its seller summary.
type ProductWithSeller struct {
	Product
	Seller SellerSummary `json:"seller"`
}

// ProductDraft carries unvalidated user-submitted fields for a product
// create or update. Price and StockCount arrive as strings and must parse
// before any write is attempted.
type ProductDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	StockCount  string   `json:"stockCount"`
	CategoryID  string   `json:"categoryId"`
	Condition   string   `json:"condition"`
	Images      []string `json:"images"`
	Status      string   `json:"status,omitempty"`
}

// ValidCondition reports whether c is a recognised product condition.
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair:
		return true
	}
	return false
}

// ValidStatus reports whether s is a recognised product status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSoldOut, StatusRemoved:
		return true
	}
	return false
}
