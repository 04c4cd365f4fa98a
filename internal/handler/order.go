package handler

import (
	"net/http"

	"canteen-be/internal/auth"
	"canteen-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type placeOrderRequest struct {
	BuyerID  uuid.UUID `json:"buyer"`
	FoodID   uuid.UUID `json:"food"`
	Quantity int       `json:"quantity"`
	Cost     int64     `json:"cost"`
	Toppings []string  `json:"toppings"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

func (h *OrderHandler) Place(c *gin.Context) {
	var req placeOrderRequest
	if !bind(c, &req) {
		return
	}

	o, err := h.svc.Place(c.Request.Context(), order.PlaceOrderInput{
		BuyerID:  req.BuyerID,
		FoodID:   req.FoodID,
		Quantity: req.Quantity,
		Cost:     req.Cost,
		Toppings: req.Toppings,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, order.ToResponse(o))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	o, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, order.ToResponse(o))
}

func (h *OrderHandler) ListByBuyer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	orders, err := h.svc.ListByBuyer(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, order.ToResponses(orders))
}

func (h *OrderHandler) ListByCanteen(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	orders, err := h.svc.ListByCanteen(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, order.ToResponses(orders))
}

// Advance takes the requester role from the access token, never the body.
func (h *OrderHandler) Advance(c *gin.Context) {
	claims, found := auth.ClaimsFrom(c.Request.Context())
	if !found {
		fail(c, errUnauthenticated)
		return
	}
	role, err := order.ParseRole(claims.Role)
	if err != nil {
		fail(c, err)
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	msg, err := h.svc.Advance(c.Request.Context(), id, role)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, msg)
}

func (h *OrderHandler) Reject(c *gin.Context) {
	if _, found := auth.ClaimsFrom(c.Request.Context()); !found {
		fail(c, errUnauthenticated)
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	msg, err := h.svc.Reject(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, msg)
}

func (h *OrderHandler) Rate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req rateRequest
	if !bind(c, &req) {
		return
	}

	if err := h.svc.Rate(c.Request.Context(), id, req.Rating); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Rating saved")
}

func (h *OrderHandler) AverageRating(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	avg, err := h.svc.AverageRating(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"food": id.String(), "average_rating": avg})
}

func (h *OrderHandler) PendingCount(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.PendingCount(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"vendor": id.String(), "pending": n})
}
