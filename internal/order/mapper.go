package order

import "time"

type OrderResponse struct {
	ID          string    `json:"id"`
	PlacedAt    time.Time `json:"placed_time"`
	BuyerID     string    `json:"buyer"`
	FoodID      string    `json:"food"`
	CanteenID   string    `json:"canteen"`
	Quantity    int       `json:"quantity"`
	Cost        int64     `json:"cost"`
	Rating      int       `json:"rating"`
	Status      int       `json:"status"`
	StatusLabel string    `json:"status_label"`
	Toppings    []string  `json:"toppings"`
}

func ToResponse(o *Order) *OrderResponse {
	if o == nil {
		return nil
	}

	toppings := o.Toppings
	if toppings == nil {
		toppings = []string{}
	}

	return &OrderResponse{
		ID:          o.ID.String(),
		PlacedAt:    o.PlacedAt,
		BuyerID:     o.BuyerID.String(),
		FoodID:      o.FoodID.String(),
		CanteenID:   o.CanteenID.String(),
		Quantity:    o.Quantity,
		Cost:        o.Cost,
		Rating:      o.Rating,
		Status:      int(o.Status),
		StatusLabel: o.Status.String(),
		Toppings:    toppings,
	}
}

func ToResponses(orders []*Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToResponse(o))
	}
	return out
}
