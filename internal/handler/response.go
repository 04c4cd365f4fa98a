package handler

import (
	"errors"
	"net/http"

	"canteen-be/internal/buyer"
	"canteen-be/internal/food"
	"canteen-be/internal/logger"
	"canteen-be/internal/order"
	"canteen-be/internal/vendor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errUnauthenticated = errors.New("authentication required")
	errInvalidID       = errors.New("invalid id")
	errInvalidBody     = errors.New("invalid request body")
)

type envelope struct {
	Status  int    `json:"status"`
	Message any    `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c *gin.Context, code int, message any) {
	c.JSON(code, envelope{Status: 0, Message: message})
}

// fail maps err onto an HTTP status. Unknown errors are logged and hidden
// behind a generic message.
func fail(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("layer", "handler"),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = http.StatusText(code)
	}
	c.AbortWithStatusJSON(code, envelope{Status: 1, Error: msg})
}

func statusFor(err error) int {
	switch {
	case isAny(err,
		order.ErrOrderNotFound, order.ErrVendorNotFound, order.ErrBuyerNotFound, order.ErrFoodNotFound,
		vendor.ErrVendorNotFound,
		food.ErrFoodNotFound, food.ErrVendorNotFound,
		buyer.ErrBuyerNotFound, buyer.ErrFoodNotFound,
	):
		return http.StatusNotFound
	case isAny(err,
		order.ErrAlreadyTerminal, order.ErrInvalidTransition, order.ErrCapacityExceeded,
		vendor.ErrShopNameTaken, food.ErrDuplicateFood, buyer.ErrEmailTaken,
	):
		return http.StatusConflict
	case errors.Is(err, order.ErrInvalidActor):
		return http.StatusForbidden
	case isAny(err,
		errInvalidID, errInvalidBody,
		order.ErrInvalidInput, order.ErrInvalidRating, order.ErrInsufficientFunds, order.ErrUnknownRole,
		buyer.ErrInsufficientFunds,
		vendor.ErrInvalidInput, food.ErrInvalidInput, buyer.ErrInvalidInput,
	):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, errInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, errInvalidBody)
		return false
	}
	return true
}
