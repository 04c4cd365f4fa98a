package buyer

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
	Create(ctx context.Context, b *Buyer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Buyer, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) error
	// AdjustWallet adds delta to the balance and returns the new balance.
	// The balance never goes below zero.
	AdjustWallet(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
	// ToggleFavorite adds the food when absent and removes it otherwise.
	// It reports whether the food is a favorite afterwards.
	ToggleFavorite(ctx context.Context, buyerID, foodID uuid.UUID) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func (r *repository) Create(ctx context.Context, b *Buyer) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO buyers (id, name, email, contact_number, age, batch, wallet)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`,
		b.ID, b.Name, b.Email, b.ContactNumber, b.Age, b.Batch, b.Wallet,
	).Scan(&b.CreatedAt)

	if pqCode(err) == pgUniqueViolation {
		return ErrEmailTaken
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert buyer",
			zap.String("email", b.Email),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Buyer, error) {
	var b Buyer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, contact_number, age, batch, wallet, created_at
		FROM buyers WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.Email, &b.ContactNumber, &b.Age, &b.Batch, &b.Wallet, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBuyerNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT food_id FROM buyer_favorites WHERE buyer_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	b.Favorites = make([]uuid.UUID, 0)
	for rows.Next() {
		var foodID uuid.UUID
		if err := rows.Scan(&foodID); err != nil {
			return nil, err
		}
		b.Favorites = append(b.Favorites, foodID)
	}
	return &b, rows.Err()
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, in UpdateInput) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE buyers
		SET name = $2, email = $3, contact_number = $4, age = $5, batch = $6
		WHERE id = $1
	`, id, in.Name, in.Email, in.ContactNumber, in.Age, in.Batch)
	if pqCode(err) == pgUniqueViolation {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBuyerNotFound
	}
	return nil
}

func (r *repository) AdjustWallet(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE buyers SET wallet = wallet + $2
		WHERE id = $1 AND wallet + $2 >= 0
		RETURNING wallet
	`, id, delta).Scan(&balance)
	if !errors.Is(err, sql.ErrNoRows) {
		return balance, err
	}

	// no row: either the buyer is gone or the debit was too large
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM buyers WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrBuyerNotFound
	}
	return 0, ErrInsufficientFunds
}

func (r *repository) ToggleFavorite(ctx context.Context, buyerID, foodID uuid.UUID) (bool, error) {
	var favorite bool
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM buyer_favorites WHERE buyer_id = $1 AND food_id = $2`, buyerID, foodID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n > 0 {
			favorite = false
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO buyer_favorites (buyer_id, food_id) VALUES ($1, $2)`, buyerID, foodID)
		if pqCode(err) == pgForeignKeyViolation {
			return ErrFoodNotFound
		}
		if err != nil {
			return err
		}
		favorite = true
		return nil
	})
	return favorite, err
}
