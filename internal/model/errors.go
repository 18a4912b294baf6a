package model

import "errors"

var (
	// Returned by repositories when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// Returned by the cart repository when an increment would exceed product stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)
