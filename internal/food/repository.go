package food

import (
	"context"
	"database/sql"
	"errors"

	"canteen-be/internal/db"
	"canteen-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, f *Food) error
	GetByID(ctx context.Context, id uuid.UUID) (*Food, error)
	List(ctx context.Context) ([]*Food, error)
	ListByCanteen(ctx context.Context, canteenID uuid.UUID) ([]*Food, error)
	Save(ctx context.Context, f *Food) error
	// Delete removes the food along with its orders and favorite entries.
	// Buyers get back the cost of orders that were never completed.
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const foodColumns = `id, name, canteen_id, price, non_veg, toppings, tags, times_sold, created_at`

func scanFood(row interface{ Scan(...any) error }) (*Food, error) {
	var f Food
	var toppings, tags pq.StringArray
	if err := row.Scan(
		&f.ID, &f.Name, &f.CanteenID, &f.Price, &f.NonVeg,
		&toppings, &tags, &f.TimesSold, &f.CreatedAt,
	); err != nil {
		return nil, err
	}
	f.Toppings = nonNil(toppings)
	f.Tags = nonNil(tags)
	return &f, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func translate(err error) error {
	switch pqCode(err) {
	case pgUniqueViolation:
		return ErrDuplicateFood
	case pgForeignKeyViolation:
		return ErrVendorNotFound
	}
	return err
}

func (r *repository) Create(ctx context.Context, f *Food) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO foods (id, name, canteen_id, price, non_veg, toppings, tags)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`,
		f.ID, f.Name, f.CanteenID, f.Price, f.NonVeg, pq.Array(nonNil(f.Toppings)), pq.Array(nonNil(f.Tags)),
	).Scan(&f.CreatedAt)
	if err != nil {
		err = translate(err)
		logger.FromCtx(ctx).Warn("db: failed to insert food",
			zap.String("name", f.Name),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Food, error) {
	f, err := scanFood(r.db.QueryRowContext(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFoodNotFound
	}
	return f, err
}

func (r *repository) List(ctx context.Context) ([]*Food, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods ORDER BY times_sold DESC, name`)
	if err != nil {
		return nil, err
	}
	return scanFoods(rows)
}

func (r *repository) ListByCanteen(ctx context.Context, canteenID uuid.UUID) ([]*Food, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE canteen_id = $1 ORDER BY times_sold DESC, name`, canteenID)
	if err != nil {
		return nil, err
	}
	return scanFoods(rows)
}

func scanFoods(rows *sql.Rows) ([]*Food, error) {
	defer rows.Close()

	foods := make([]*Food, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

// Save writes the editable fields. times_sold is owned by the order flow.
func (r *repository) Save(ctx context.Context, f *Food) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE foods
		SET name = $2, price = $3, non_veg = $4, toppings = $5, tags = $6
		WHERE id = $1
	`,
		f.ID, f.Name, f.Price, f.NonVeg, pq.Array(nonNil(f.Toppings)), pq.Array(nonNil(f.Tags)),
	)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFoodNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM buyer_favorites WHERE food_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE buyers b SET wallet = b.wallet + o.total
			FROM (
				SELECT buyer_id, SUM(cost) AS total FROM orders
				WHERE food_id = $1 AND status < $2
				GROUP BY buyer_id
			) o
			WHERE b.id = o.buyer_id
		`, id, statusCompleted)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			logger.FromCtx(ctx).Info("refunded open orders of deleted food",
				zap.String("food_id", id.String()),
				zap.Int64("buyers", n),
			)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE food_id = $1`, id); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM foods WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrFoodNotFound
		}
		return nil
	})
}
