package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status int

const (
	StatusPlaced Status = iota
	StatusAccepted
	StatusCooking
	StatusReadyForPickup
	StatusCompleted
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPlaced:
		return "placed"
	case StatusAccepted:
		return "accepted"
	case StatusCooking:
		return "cooking"
	case StatusReadyForPickup:
		return "ready for pickup"
	case StatusCompleted:
		return "completed"
	case StatusRejected:
		return "rejected"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) Valid() bool {
	return s >= StatusPlaced && s <= StatusRejected
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// Active reports whether the order counts against the vendor's capacity.
func (s Status) Active() bool {
	return s == StatusAccepted || s == StatusCooking
}

// Role identifies who is driving a transition.
type Role int

const (
	RoleBuyer Role = iota + 1
	RoleVendor
)

func (r Role) String() string {
	switch r {
	case RoleBuyer:
		return "buyer"
	case RoleVendor:
		return "vendor"
	}
	return "unknown"
}

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleVendor
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buyer":
		return RoleBuyer, nil
	case "vendor":
		return RoleVendor, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

type Order struct {
	ID        uuid.UUID
	PlacedAt  time.Time
	BuyerID   uuid.UUID
	FoodID    uuid.UUID
	CanteenID uuid.UUID
	Quantity  int
	Cost      int64
	Rating    int
	Status    Status
	Toppings  []string
}

// Canteen is the slice of a vendor record the order flow needs.
type Canteen struct {
	ID       uuid.UUID
	Name     string
	ShopName string
}

type PlaceOrderInput struct {
	BuyerID  uuid.UUID
	FoodID   uuid.UUID
	Quantity int
	Cost     int64
	Toppings []string
	PlacedAt time.Time
}

func (in PlaceOrderInput) Validate() error {
	if in.BuyerID == uuid.Nil {
		return fmt.Errorf("%w: buyer is required", ErrInvalidInput)
	}
	if in.FoodID == uuid.Nil {
		return fmt.Errorf("%w: food is required", ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if in.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}
	return nil
}
