package service

import "errors"

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrMissingCustomerInfo = errors.New("customer info is incomplete")
	ErrMissingShippingInfo = errors.New("shipping info is incomplete")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserInactive        = errors.New("user account is disabled")
	ErrInvalidRole         = errors.New("unknown role")
	ErrInvalidStatus       = errors.New("unknown order status")
)
