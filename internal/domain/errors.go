package domain

import "errors"

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("sub-category not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrUserExists          = errors.New("username or email is already present")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCartNotFound        = errors.New("cart not found")
)
