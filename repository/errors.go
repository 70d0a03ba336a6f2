package repository

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicate         = errors.New("duplicate record")
	ErrConflict          = errors.New("conflicting update")
)
