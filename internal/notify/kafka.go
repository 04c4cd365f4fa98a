package notify

import (
	"context"
	"encoding/json"

	"github.com/twmb/franz-go/pkg/kgo"
)

type syncProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaNotifier produces notifications to a topic, keyed by canteen so one
// canteen's events stay ordered within a partition.
type KafkaNotifier struct {
	producer syncProducer
	topic    string
}

func NewKafkaClient(brokers []string) (*kgo.Client, error) {
	return kgo.NewClient(kgo.SeedBrokers(brokers...))
}

func NewKafkaNotifier(client *kgo.Client, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: client, topic: topic}
}

func (k *KafkaNotifier) Notify(ctx context.Context, n Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return err
	}

	rec := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(n.Canteen),
		Value: value,
	}
	return k.producer.ProduceSync(ctx, rec).FirstErr()
}
