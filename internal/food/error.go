package food

import "errors"

var (
	ErrFoodNotFound   = errors.New("food not found")
	ErrVendorNotFound = errors.New("vendor not found")
	ErrDuplicateFood  = errors.New("food item already exists in this canteen")
	ErrInvalidInput   = errors.New("invalid food input")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	// orders below this status were paid for but never handed over
	statusCompleted = 4
)
