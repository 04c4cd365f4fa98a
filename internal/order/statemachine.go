package order

import "fmt"

// MaxActiveOrders is how many accepted or cooking orders a vendor may hold.
const MaxActiveOrders = 10

// Advance returns the status that follows s. activeOrders is the vendor's
// current count of accepted and cooking orders; it only matters for placed orders.
func (s Status) Advance(role Role, activeOrders int) (Status, error) {
	if s.Terminal() {
		return s, &AlreadyTerminalError{State: s}
	}
	if !s.Valid() {
		return s, fmt.Errorf("%w: unknown status %d", ErrInvalidTransition, int(s))
	}
	if !role.Valid() {
		return s, fmt.Errorf("%w: %d", ErrUnknownRole, int(role))
	}

	switch s {
	case StatusPlaced:
		if activeOrders >= MaxActiveOrders {
			return s, ErrCapacityExceeded
		}
	case StatusReadyForPickup:
		// pickup is confirmed by the buyer
		if role != RoleBuyer {
			return s, ErrInvalidActor
		}
	}

	return s + 1, nil
}

// Reject returns StatusRejected when s is still placed. Terminal orders
// report AlreadyTerminal before anything else.
func (s Status) Reject() (Status, error) {
	if s.Terminal() {
		return s, &AlreadyTerminalError{State: s}
	}
	if s != StatusPlaced {
		return s, fmt.Errorf("%w: order already accepted, cannot reject", ErrInvalidTransition)
	}
	return StatusRejected, nil
}

// Message is the caller-facing text for an order that just moved into s.
func Message(s Status) string {
	switch s {
	case StatusAccepted:
		return "Order accepted!"
	case StatusCooking:
		return "Order is now being cooked!"
	case StatusReadyForPickup:
		return "Order is ready for pickup!"
	case StatusCompleted:
		return "Order is completed!"
	case StatusRejected:
		return "Order Rejected"
	}
	return ""
}

func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
