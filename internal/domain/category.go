package domain

import "time"

type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Image     string    `json:"image" db:"image"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	Ordering  int64     `json:"ordering" db:"ordering"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateCategoryInput struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	Image    *string `json:"image"`
	IsActive *bool   `json:"is_active"`
	Ordering *int64  `json:"ordering"`
}
