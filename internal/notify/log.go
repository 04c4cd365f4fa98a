package notify

import (
	"context"

	"canteen-be/internal/logger"

	"go.uber.org/zap"
)

// LogNotifier only records the notification in the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) error {
	logger.FromCtx(ctx).Info("order notification",
		zap.String("notifier", "log"),
		zap.String("recipient", n.Recipient),
		zap.String("action", n.Action),
		zap.String("canteen", n.Canteen),
		zap.String("order_id", n.OrderID),
	)
	return nil
}
