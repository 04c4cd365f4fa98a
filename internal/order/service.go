package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"canteen-be/internal/logger"
	"canteen-be/internal/metrics"
	"canteen-be/internal/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*Order, error)
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error)
	ListByCanteen(ctx context.Context, canteenID uuid.UUID) ([]*Order, error)

	Advance(ctx context.Context, id uuid.UUID, role Role) (string, error)
	Reject(ctx context.Context, id uuid.UUID) (string, error)
	Rate(ctx context.Context, id uuid.UUID, rating int) error

	AverageRating(ctx context.Context, foodID uuid.UUID) (float64, error)
	PendingCount(ctx context.Context, vendorID uuid.UUID) (int, error)
}

type service struct {
	repo     Repository
	notifier notify.Notifier
	stats    *metrics.Registry
	locks    *vendorLocks
	now      func() time.Time
}

func NewService(repo Repository, notifier notify.Notifier, stats *metrics.Registry) Service {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	if stats == nil {
		stats = metrics.NewRegistry()
	}
	return &service{
		repo:     repo,
		notifier: notifier,
		stats:    stats,
		locks:    newVendorLocks(),
		now:      time.Now,
	}
}

func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Place"),
		zap.String("buyer_id", input.BuyerID.String()),
		zap.String("food_id", input.FoodID.String()),
	)

	if err := input.Validate(); err != nil {
		log.Warn("invalid order input", zap.Error(err))
		return nil, err
	}

	o := &Order{
		ID:       uuid.New(),
		PlacedAt: input.PlacedAt,
		BuyerID:  input.BuyerID,
		FoodID:   input.FoodID,
		Quantity: input.Quantity,
		Cost:     input.Cost,
		Status:   StatusPlaced,
		Toppings: input.Toppings,
	}
	if o.PlacedAt.IsZero() {
		o.PlacedAt = s.now().UTC()
	}
	if o.Toppings == nil {
		o.Toppings = []string{}
	}

	err := s.repo.WithTx(ctx, func(st Store) error {
		// 1. Canteen comes from the food, never from the caller
		canteenID, err := st.FoodCanteen(ctx, o.FoodID)
		if err != nil {
			return err
		}
		o.CanteenID = canteenID

		// 2. Charge the buyer
		if err := st.DebitWallet(ctx, o.BuyerID, o.Cost); err != nil {
			return err
		}

		// 3. Vendor stats + order row
		if err := st.IncrementPlaced(ctx, canteenID); err != nil {
			return err
		}
		return st.InsertOrder(ctx, o)
	})
	if err != nil {
		log.Error("failed to place order", zap.Error(err))
		return nil, err
	}

	s.stats.Counter("order.placed").Inc()
	log.Info("order placed", zap.String("order_id", o.ID.String()))
	return o, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *service) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}

func (s *service) ListByCanteen(ctx context.Context, canteenID uuid.UUID) ([]*Order, error) {
	return s.repo.ListByCanteen(ctx, canteenID)
}

func (s *service) Advance(ctx context.Context, id uuid.UUID, role Role) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Advance"),
		zap.String("order_id", id.String()),
		zap.Stringer("role", role),
	)

	current, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		log.Warn("order lookup failed", zap.Error(err))
		return "", err
	}

	unlock := s.locks.Lock(current.CanteenID)
	defer unlock()

	var (
		o       *Order
		canteen *Canteen
		next    Status
	)
	err = s.repo.WithTx(ctx, func(st Store) error {
		// 1. Re-read under lock; the status may have moved since the lookup
		o, err = st.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		canteen, err = st.LockVendor(ctx, o.CanteenID)
		if err != nil {
			return err
		}

		// 2. Capacity is counted fresh, only when it can matter
		active := 0
		if o.Status == StatusPlaced {
			active, err = st.CountActiveOrders(ctx, o.CanteenID)
			if err != nil {
				return err
			}
		}

		next, err = o.Status.Advance(role, active)
		if err != nil {
			return err
		}

		// 3. Persist the order and whatever the new status implies
		if err := st.UpdateStatus(ctx, o.ID, next); err != nil {
			return err
		}
		switch next {
		case StatusAccepted:
			return st.IncrementTimesSold(ctx, o.FoodID, o.Quantity)
		case StatusCompleted:
			return st.IncrementCompleted(ctx, o.CanteenID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			s.stats.Counter("order.capacity_refused").Inc()
		}
		log.Warn("advance refused", zap.Error(err))
		return "", err
	}

	s.stats.Counter("order.advanced." + strings.ReplaceAll(next.String(), " ", "_")).Inc()
	log.Info("order advanced",
		zap.Stringer("from", o.Status),
		zap.Stringer("to", next),
	)

	if next == StatusAccepted {
		s.notify(ctx, log, o, canteen, notify.ActionAccepted)
	}

	return Message(next), nil
}

func (s *service) Reject(ctx context.Context, id uuid.UUID) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Reject"),
		zap.String("order_id", id.String()),
	)

	var (
		o       *Order
		canteen *Canteen
	)
	err := s.repo.WithTx(ctx, func(st Store) error {
		var err error
		o, err = st.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}

		next, err := o.Status.Reject()
		if err != nil {
			return err
		}

		if err := st.UpdateStatus(ctx, o.ID, next); err != nil {
			return err
		}
		// full refund; placement charged exactly the cost
		if err := st.CreditWallet(ctx, o.BuyerID, o.Cost); err != nil {
			return err
		}

		canteen, err = st.GetCanteen(ctx, o.CanteenID)
		return err
	})
	if err != nil {
		log.Warn("reject refused", zap.Error(err))
		return "", err
	}

	s.stats.Counter("order.rejected").Inc()
	log.Info("order rejected", zap.Int64("refund", o.Cost))

	s.notify(ctx, log, o, canteen, notify.ActionRejected)

	return Message(StatusRejected), nil
}

func (s *service) Rate(ctx context.Context, id uuid.UUID, rating int) error {
	if !ValidRating(rating) {
		return ErrInvalidRating
	}
	if err := s.repo.UpdateRating(ctx, id, rating); err != nil {
		logger.FromCtx(ctx).Warn("failed to rate order",
			zap.String("layer", "service"),
			zap.String("order_id", id.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) AverageRating(ctx context.Context, foodID uuid.UUID) (float64, error) {
	ratings, err := s.repo.RatingsByFood(ctx, foodID)
	if err != nil {
		return 0, err
	}
	return average(ratings), nil
}

func (s *service) PendingCount(ctx context.Context, vendorID uuid.UUID) (int, error) {
	return s.repo.CountPending(ctx, vendorID)
}

// average ignores anything below 1, which marks an unrated order.
func average(ratings []int) float64 {
	var sum, n int
	for _, r := range ratings {
		if r < 1 {
			continue
		}
		sum += r
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func (s *service) notify(ctx context.Context, log *zap.Logger, o *Order, c *Canteen, action string) {
	err := s.notifier.Notify(ctx, notify.Notification{
		Recipient: c.Name,
		Action:    action,
		Canteen:   c.ShopName,
		OrderID:   o.ID.String(),
		At:        s.now().UTC(),
	})
	if err != nil {
		s.stats.Counter("notify.failed").Inc()
		log.Warn("notification failed", zap.String("action", action), zap.Error(err))
	}
}
