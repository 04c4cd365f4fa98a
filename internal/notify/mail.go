package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/smtp"
	"strings"

	"canteen-be/internal/logger"

	"go.uber.org/zap"
)

type sendMailFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// MailNotifier sends one plain-text mail per notification.
type MailNotifier struct {
	addr string
	auth smtp.Auth
	from string
	to   string
	send sendMailFunc
}

type MailConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	To       string
}

func NewMailNotifier(cfg MailConfig) (*MailNotifier, error) {
	if cfg.Host == "" || cfg.From == "" || cfg.To == "" {
		return nil, errors.New("mail notifier needs SMTP_HOST, MAIL_FROM and MAIL_RECIPIENT")
	}

	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}

	return &MailNotifier{
		addr: net.JoinHostPort(cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
		to:   cfg.To,
		send: sendMail,
	}, nil
}

// headerValue folds CR and LF into spaces so caller data stays on one header line.
var headerValue = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func (m *MailNotifier) Notify(ctx context.Context, n Notification) error {
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + m.to + "\r\n" +
		"Subject: " + headerValue.Replace(n.Subject()) + "\r\n" +
		"\r\n" +
		"This mail was automatically generated\r\n")

	if err := m.send(ctx, m.addr, m.auth, m.from, []string{m.to}, msg); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("notification mailed",
		zap.String("recipient", n.Recipient),
		zap.String("action", n.Action),
	)
	return nil
}

// sendMail is smtp.SendMail bound to ctx: the dial honours cancellation and
// every later read or write fails once the ctx deadline passes.
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
