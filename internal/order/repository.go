package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"canteen-be/internal/db"
	"canteen-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Store holds the statements that make up one order transition. Every
// call made through the Store handed to WithTx shares a single transaction.
type Store interface {
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	LockVendor(ctx context.Context, vendorID uuid.UUID) (*Canteen, error)
	GetCanteen(ctx context.Context, vendorID uuid.UUID) (*Canteen, error)
	CountActiveOrders(ctx context.Context, vendorID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	IncrementTimesSold(ctx context.Context, foodID uuid.UUID, quantity int) error
	IncrementCompleted(ctx context.Context, vendorID uuid.UUID) error
	IncrementPlaced(ctx context.Context, vendorID uuid.UUID) error
	CreditWallet(ctx context.Context, buyerID uuid.UUID, amount int64) error
	DebitWallet(ctx context.Context, buyerID uuid.UUID, amount int64) error
	FoodCanteen(ctx context.Context, foodID uuid.UUID) (uuid.UUID, error)
	InsertOrder(ctx context.Context, o *Order) error
}

type Repository interface {
	WithTx(ctx context.Context, fn func(Store) error) error

	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error)
	ListByCanteen(ctx context.Context, canteenID uuid.UUID) ([]*Order, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating int) error
	RatingsByFood(ctx context.Context, foodID uuid.UUID) ([]int, error)
	CountPending(ctx context.Context, vendorID uuid.UUID) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type store struct {
	q db.Querier
}

const orderColumns = `id, placed_at, buyer_id, food_id, canteen_id, quantity, cost, rating, status, toppings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var toppings pq.StringArray
	if err := row.Scan(
		&o.ID,
		&o.PlacedAt,
		&o.BuyerID,
		&o.FoodID,
		&o.CanteenID,
		&o.Quantity,
		&o.Cost,
		&o.Rating,
		&o.Status,
		&toppings,
	); err != nil {
		return nil, err
	}
	o.Toppings = []string(toppings)
	return &o, nil
}

func (r *repository) WithTx(ctx context.Context, fn func(Store) error) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&store{q: tx})
	})
}

func (r *repository) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get order",
			zap.String("layer", "repository"),
			zap.String("order_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return o, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE buyer_id = $1 ORDER BY placed_at DESC`, buyerID)
}

func (r *repository) ListByCanteen(ctx context.Context, canteenID uuid.UUID) ([]*Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE canteen_id = $1 ORDER BY placed_at DESC`, canteenID)
}

func (r *repository) list(ctx context.Context, query string, arg any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) UpdateRating(ctx context.Context, id uuid.UUID, rating int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET rating = $1 WHERE id = $2`, rating, id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrOrderNotFound)
}

// RatingsByFood returns only rated orders; unrated rows hold 0.
func (r *repository) RatingsByFood(ctx context.Context, foodID uuid.UUID) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rating FROM orders WHERE food_id = $1 AND rating >= 1`, foodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		ratings = append(ratings, v)
	}
	return ratings, rows.Err()
}

func (r *repository) CountPending(ctx context.Context, vendorID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE canteen_id = $1 AND status BETWEEN $2 AND $3`,
		vendorID, StatusAccepted, StatusReadyForPickup,
	).Scan(&n)
	return n, err
}

func (s *store) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(s.q.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (s *store) LockVendor(ctx context.Context, vendorID uuid.UUID) (*Canteen, error) {
	return s.canteen(ctx, `SELECT id, name, shop_name FROM vendors WHERE id = $1 FOR UPDATE`, vendorID)
}

func (s *store) GetCanteen(ctx context.Context, vendorID uuid.UUID) (*Canteen, error) {
	return s.canteen(ctx, `SELECT id, name, shop_name FROM vendors WHERE id = $1`, vendorID)
}

func (s *store) canteen(ctx context.Context, query string, vendorID uuid.UUID) (*Canteen, error) {
	var c Canteen
	err := s.q.QueryRowContext(ctx, query, vendorID).Scan(&c.ID, &c.Name, &c.ShopName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *store) CountActiveOrders(ctx context.Context, vendorID uuid.UUID) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE canteen_id = $1 AND status IN ($2, $3)`,
		vendorID, StatusAccepted, StatusCooking,
	).Scan(&n)
	return n, err
}

func (s *store) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	res, err := s.q.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrOrderNotFound)
}

func (s *store) IncrementTimesSold(ctx context.Context, foodID uuid.UUID, quantity int) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE foods SET times_sold = times_sold + $1 WHERE id = $2`, quantity, foodID)
	if err != nil {
		return err
	}
	return expectOne(res, ErrFoodNotFound)
}

func (s *store) IncrementCompleted(ctx context.Context, vendorID uuid.UUID) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE vendors SET orders_completed = orders_completed + 1 WHERE id = $1`, vendorID)
	if err != nil {
		return err
	}
	return expectOne(res, ErrVendorNotFound)
}

func (s *store) IncrementPlaced(ctx context.Context, vendorID uuid.UUID) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE vendors SET orders_placed = orders_placed + 1 WHERE id = $1`, vendorID)
	if err != nil {
		return err
	}
	return expectOne(res, ErrVendorNotFound)
}

func (s *store) CreditWallet(ctx context.Context, buyerID uuid.UUID, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative: %d", amount)
	}
	res, err := s.q.ExecContext(ctx,
		`UPDATE buyers SET wallet = wallet + $1 WHERE id = $2`, amount, buyerID)
	if err != nil {
		return err
	}
	return expectOne(res, ErrBuyerNotFound)
}

func (s *store) DebitWallet(ctx context.Context, buyerID uuid.UUID, amount int64) error {
	var balance int64
	err := s.q.QueryRowContext(ctx,
		`SELECT wallet FROM buyers WHERE id = $1 FOR UPDATE`, buyerID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBuyerNotFound
	}
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientFunds
	}

	_, err = s.q.ExecContext(ctx,
		`UPDATE buyers SET wallet = wallet - $1 WHERE id = $2 AND wallet >= $1`, amount, buyerID)
	return err
}

func (s *store) FoodCanteen(ctx context.Context, foodID uuid.UUID) (uuid.UUID, error) {
	var canteenID uuid.UUID
	err := s.q.QueryRowContext(ctx, `SELECT canteen_id FROM foods WHERE id = $1`, foodID).Scan(&canteenID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrFoodNotFound
	}
	return canteenID, err
}

func (s *store) InsertOrder(ctx context.Context, o *Order) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO orders (
			id, placed_at, buyer_id, food_id, canteen_id,
			quantity, cost, rating, status, toppings
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		o.ID,
		o.PlacedAt,
		o.BuyerID,
		o.FoodID,
		o.CanteenID,
		o.Quantity,
		o.Cost,
		o.Rating,
		o.Status,
		pq.Array(o.Toppings),
	)
	return err
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
