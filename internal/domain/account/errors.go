package account

import "errors"

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account name already in use")
	ErrNameConflict    = errors.New("account name conflicts with another account")
	ErrInvalidInput    = errors.New("invalid input")
)
