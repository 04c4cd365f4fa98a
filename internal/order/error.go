package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrVendorNotFound    = errors.New("vendor not found")
	ErrBuyerNotFound     = errors.New("buyer not found")
	ErrFoodNotFound      = errors.New("food not found")
	ErrAlreadyTerminal   = errors.New("order already terminal")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidActor      = errors.New("invalid actor for transition")
	ErrCapacityExceeded  = errors.New("vendor capacity exceeded")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidInput      = errors.New("invalid order input")
	ErrUnknownRole       = errors.New("unknown role")
)

// AlreadyTerminalError carries the terminal state the order is stuck in.
type AlreadyTerminalError struct {
	State Status
}

func (e *AlreadyTerminalError) Error() string {
	return fmt.Sprintf("order already %s", e.State)
}

func (e *AlreadyTerminalError) Unwrap() error {
	return ErrAlreadyTerminal
}
