package notify

import (
	"context"
	"encoding/json"

	"canteen-be/internal/logger"

	"github.com/nats-io/nats.go"
)

const requestIDHeader = "X-Request-ID"

type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSNotifier publishes notifications as JSON on a subject.
type NATSNotifier struct {
	pub     msgPublisher
	subject string
}

func NewNATSNotifier(nc *nats.Conn, subject string) *NATSNotifier {
	return &NATSNotifier{pub: nc, subject: subject}
}

func (n *NATSNotifier) Notify(ctx context.Context, note Notification) error {
	data, err := json.Marshal(note)
	if err != nil {
		return err
	}

	msg := &nats.Msg{
		Subject: n.subject,
		Header:  nats.Header{},
		Data:    data,
	}
	if id := logger.RequestIDFrom(ctx); id != "" {
		msg.Header.Set(requestIDHeader, id)
	}

	return n.pub.PublishMsg(msg)
}
