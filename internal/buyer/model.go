package buyer

import (
	"time"

	"github.com/google/uuid"
)

type Buyer struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	ContactNumber string      `json:"contact_number"`
	Age           int         `json:"age"`
	Batch         string      `json:"batch_name"`
	Wallet        int64       `json:"wallet"`
	Favorites     []uuid.UUID `json:"favorites"`
	CreatedAt     time.Time   `json:"created_at"`
}

type RegisterInput struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	ContactNumber string `json:"contact_number" validate:"required"`
	Age           int    `json:"age" validate:"gte=0,lte=150"`
	Batch         string `json:"batch_name"`
	Wallet        int64  `json:"wallet" validate:"gte=0"`
}

// UpdateInput replaces the profile fields. The wallet only moves through
// AdjustWallet and the order flow.
type UpdateInput struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	ContactNumber string `json:"contact_number" validate:"required"`
	Age           int    `json:"age" validate:"gte=0,lte=150"`
	Batch         string `json:"batch_name"`
}

type WalletInput struct {
	Delta int64 `json:"delta"`
}
