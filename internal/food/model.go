package food

import (
	"time"

	"github.com/google/uuid"
)

type Food struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"item_name"`
	CanteenID uuid.UUID `json:"canteen"`
	Price     int64     `json:"price"`
	NonVeg    bool      `json:"non_veg"`
	Toppings  []string  `json:"toppings"`
	Tags      []string  `json:"tags"`
	TimesSold int       `json:"times_sold"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterInput struct {
	Name      string    `json:"item_name" validate:"required"`
	CanteenID uuid.UUID `json:"canteen" validate:"required"`
	Price     int64     `json:"price" validate:"gte=0"`
	NonVeg    bool      `json:"non_veg"`
	Toppings  []string  `json:"toppings"`
	Tags      []string  `json:"tags"`
}

// UpdateInput is partial: nil fields keep their stored value.
type UpdateInput struct {
	Name     *string   `json:"item_name"`
	Price    *int64    `json:"price" validate:"omitempty,gte=0"`
	NonVeg   *bool     `json:"non_veg"`
	Toppings *[]string `json:"toppings"`
	Tags     *[]string `json:"tags"`
}

func (in UpdateInput) apply(f *Food) {
	if in.Name != nil && *in.Name != "" {
		f.Name = *in.Name
	}
	if in.Price != nil {
		f.Price = *in.Price
	}
	if in.NonVeg != nil {
		f.NonVeg = *in.NonVeg
	}
	if in.Toppings != nil {
		f.Toppings = *in.Toppings
	}
	if in.Tags != nil {
		f.Tags = *in.Tags
	}
}
