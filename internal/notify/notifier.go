package notify

import (
	"context"
	"fmt"
	"time"
)

const (
	ActionAccepted = "accepted"
	ActionRejected = "rejected"
)

// Notification tells a buyer that a canteen acted on their order.
type Notification struct {
	Recipient string    `json:"recipient"`
	Action    string    `json:"action"`
	Canteen   string    `json:"canteen"`
	OrderID   string    `json:"order_id,omitempty"`
	At        time.Time `json:"at"`
}

func (n Notification) Subject() string {
	return fmt.Sprintf("%s from %s canteen has %s your order", n.Recipient, n.Canteen, n.Action)
}

// Notifier delivers a notification. Callers treat failures as best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}
