package domain

import "time"

// Product prices are in kuruş.
type Product struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Slug          string    `json:"slug" db:"slug"`
	Description   string    `json:"description" db:"description"`
	Price         int64     `json:"price" db:"price"`
	OriginalPrice *int64    `json:"original_price,omitempty" db:"original_price"`
	Images        []string  `json:"images" db:"images"`
	CategoryID    int64     `json:"category_id" db:"category_id"`
	Colors        []string  `json:"colors" db:"colors"`
	Sizes         []string  `json:"sizes" db:"sizes"`
	Stock         int64     `json:"stock" db:"stock"`
	SKU           string    `json:"sku" db:"sku"`
	IsNew         bool      `json:"is_new" db:"is_new"`
	IsBestSeller  bool      `json:"is_best_seller" db:"is_best_seller"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	Rating        float64   `json:"rating" db:"rating"`
	ReviewCount   int64     `json:"review_count" db:"review_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateProductInput struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Price         *int64    `json:"price"`
	OriginalPrice *int64    `json:"original_price"`
	Images        *[]string `json:"images"`
	CategoryID    *int64    `json:"category_id"`
	Colors        *[]string `json:"colors"`
	Sizes         *[]string `json:"sizes"`
	Stock         *int64    `json:"stock"`
	IsNew         *bool     `json:"is_new"`
	IsBestSeller  *bool     `json:"is_best_seller"`
	IsActive      *bool     `json:"is_active"`
}

// ProductFilters mirrors the storefront listing query parameters.
type ProductFilters struct {
	CategorySlug string
	Search       string
	SortBy       string
	SortOrder    string
	Page         int64
	Limit        int64
}

// Normalize clamps pagination to sane bounds so a hostile query string
// cannot request page 0 or a million rows.
func (f *ProductFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 12
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}
