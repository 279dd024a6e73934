package repository

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user with this email already exists")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartNotFound     = errors.New("cart not found")
)
