package notify

import (
	"errors"
	"fmt"

	"canteen-be/internal/config"
	"canteen-be/internal/metrics"

	"github.com/nats-io/nats.go"
)

// Build assembles the notifiers named in cfg.Notifiers behind one async
// dispatcher. The returned close func drains deliveries and transports.
func Build(cfg *config.Config, stats *metrics.Registry) (Notifier, func(), error) {
	var (
		targets Multi
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	for _, name := range cfg.Notifiers {
		switch name {
		case "log":
			targets = append(targets, LogNotifier{})

		case "mail":
			m, err := NewMailNotifier(MailConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				User:     cfg.SMTPUser,
				Password: cfg.SMTPPassword,
				From:     cfg.MailFrom,
				To:       cfg.MailRecipient,
			})
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			targets = append(targets, m)

		case "nats":
			if cfg.NATSURL == "" {
				closeAll()
				return nil, nil, errors.New("nats notifier needs NATS_URL")
			}
			nc, err := nats.Connect(cfg.NATSURL, nats.Name("canteen-be"))
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("connect nats: %w", err)
			}
			closers = append(closers, func() { _ = nc.Drain() })
			targets = append(targets, NewNATSNotifier(nc, cfg.NATSSubject))

		case "kafka":
			if len(cfg.KafkaBrokers) == 0 {
				closeAll()
				return nil, nil, errors.New("kafka notifier needs KAFKA_BROKERS")
			}
			client, err := NewKafkaClient(cfg.KafkaBrokers)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("create kafka client: %w", err)
			}
			closers = append(closers, client.Close)
			targets = append(targets, NewKafkaNotifier(client, cfg.KafkaTopic))

		default:
			closeAll()
			return nil, nil, fmt.Errorf("unknown notifier %q", name)
		}
	}

	if len(targets) == 0 {
		targets = append(targets, LogNotifier{})
	}

	async := NewAsync(targets, cfg.NotifyTimeout, stats)
	return async, func() {
		async.Wait()
		closeAll()
	}, nil
}
