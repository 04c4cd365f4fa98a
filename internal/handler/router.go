package handler

import (
	"context"
	"net/http"

	"canteen-be/internal/metrics"

	"github.com/gin-gonic/gin"
	healthgo "github.com/hellofresh/health-go/v5"
)

// HealthChecker is satisfied by *healthgo.Health.
type HealthChecker interface {
	Measure(ctx context.Context) healthgo.Check
}

type Deps struct {
	Orders  *OrderHandler
	Vendors *VendorHandler
	Foods   *FoodHandler
	Buyers  *BuyerHandler
	Health  HealthChecker
	Stats   *metrics.Registry
}

// API builds the gin engine. Request ids, access logs, auth and rate
// limiting wrap the engine from outside as net/http middleware.
func API(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", healthCheck(d.Health))
	r.GET("/debug/stats", stats(d.Stats))

	o := r.Group("/orders")
	{
		o.POST("", d.Orders.Place)
		o.GET("/:id", d.Orders.Get)
		o.POST("/:id/advance", d.Orders.Advance)
		o.POST("/:id/reject", d.Orders.Reject)
		o.POST("/:id/rating", d.Orders.Rate)
	}

	v := r.Group("/vendor")
	{
		v.POST("", d.Vendors.Register)
		v.GET("", d.Vendors.List)
		v.GET("/:id", d.Vendors.Get)
		v.PUT("/:id", d.Vendors.Update)
		v.DELETE("/:id", d.Vendors.Delete)
		v.GET("/:id/pending", d.Orders.PendingCount)
		v.GET("/:id/orders", d.Orders.ListByCanteen)
		v.GET("/:id/foods", d.Foods.ListByCanteen)
	}

	f := r.Group("/food")
	{
		f.POST("", d.Foods.Register)
		f.GET("", d.Foods.List)
		f.GET("/:id", d.Foods.Get)
		f.PUT("/:id", d.Foods.Update)
		f.DELETE("/:id", d.Foods.Delete)
		f.GET("/:id/rating", d.Orders.AverageRating)
	}

	b := r.Group("/buyer")
	{
		b.POST("", d.Buyers.Register)
		b.GET("/:id", d.Buyers.Get)
		b.PUT("/:id", d.Buyers.Update)
		b.POST("/:id/wallet", d.Buyers.AdjustWallet)
		b.GET("/:id/orders", d.Orders.ListByBuyer)
		b.POST("/:id/favorites/:foodId", d.Buyers.ToggleFavorite)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Status: 1, Error: "route not found"})
	})

	return r
}

func healthCheck(h HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		check := h.Measure(c.Request.Context())

		code := http.StatusOK
		if check.Status != healthgo.StatusOK {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, check)
	}
}

func stats(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, http.StatusOK, reg.Snapshot())
	}
}
