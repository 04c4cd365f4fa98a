package buyer

import "errors"

var (
	ErrBuyerNotFound = errors.New("buyer not found")
	ErrFoodNotFound  = errors.New("food not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidInput  = errors.New("invalid buyer input")
	// ErrInsufficientFunds rejects a debit larger than the balance.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)
