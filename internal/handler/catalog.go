package handler

import (
	"net/http"

	"canteen-be/internal/buyer"
	"canteen-be/internal/food"
	"canteen-be/internal/vendor"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	svc vendor.Service
}

func NewVendorHandler(svc vendor.Service) *VendorHandler {
	return &VendorHandler{svc: svc}
}

func (h *VendorHandler) Register(c *gin.Context) {
	var in vendor.RegisterInput
	if !bind(c, &in) {
		return
	}
	v, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, v)
}

func (h *VendorHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	v, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, v)
}

func (h *VendorHandler) List(c *gin.Context) {
	vendors, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, vendors)
}

func (h *VendorHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in vendor.UpdateInput
	if !bind(c, &in) {
		return
	}
	v, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, v)
}

func (h *VendorHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Vendor deleted")
}

type FoodHandler struct {
	svc food.Service
}

func NewFoodHandler(svc food.Service) *FoodHandler {
	return &FoodHandler{svc: svc}
}

func (h *FoodHandler) Register(c *gin.Context) {
	var in food.RegisterInput
	if !bind(c, &in) {
		return
	}
	f, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, f)
}

func (h *FoodHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	f, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, f)
}

func (h *FoodHandler) List(c *gin.Context) {
	foods, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, foods)
}

func (h *FoodHandler) ListByCanteen(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	foods, err := h.svc.ListByCanteen(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, foods)
}

func (h *FoodHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in food.UpdateInput
	if !bind(c, &in) {
		return
	}
	f, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, f)
}

func (h *FoodHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food item deleted")
}

type BuyerHandler struct {
	svc buyer.Service
}

func NewBuyerHandler(svc buyer.Service) *BuyerHandler {
	return &BuyerHandler{svc: svc}
}

func (h *BuyerHandler) Register(c *gin.Context) {
	var in buyer.RegisterInput
	if !bind(c, &in) {
		return
	}
	b, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, b)
}

func (h *BuyerHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, b)
}

func (h *BuyerHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in buyer.UpdateInput
	if !bind(c, &in) {
		return
	}
	b, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, b)
}

// AdjustWallet credits a positive delta and debits a negative one.
func (h *BuyerHandler) AdjustWallet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in buyer.WalletInput
	if !bind(c, &in) {
		return
	}
	balance, err := h.svc.AdjustWallet(c.Request.Context(), id, in.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"wallet": balance})
}

func (h *BuyerHandler) ToggleFavorite(c *gin.Context) {
	buyerID, ok := paramID(c, "id")
	if !ok {
		return
	}
	foodID, ok := paramID(c, "foodId")
	if !ok {
		return
	}

	added, err := h.svc.ToggleFavorite(c.Request.Context(), buyerID, foodID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"food": foodID.String(), "favorite": added})
}
