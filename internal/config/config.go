package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string `mapstructure:"DB_DRIVER" validate:"oneof=postgres pgx"`
	DBHost     string `mapstructure:"DB_HOST" validate:"required"`
	DBUser     string `mapstructure:"DB_USER" validate:"required"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME" validate:"required"`
	DBPort     string `mapstructure:"DB_PORT" validate:"required,numeric"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE" validate:"oneof=disable require verify-ca verify-full"`

	AppPort           string   `mapstructure:"APP_PORT" validate:"required,numeric"`
	AppEnv            string   `mapstructure:"APP_ENV"`
	LogLevel          string   `mapstructure:"LOG_LEVEL"`
	JWTSecret         string   `mapstructure:"JWT_SECRET" validate:"required"`
	InternalSecretKey string   `mapstructure:"INTERNAL_SECRET_KEY"`
	CORSOrigins       []string `mapstructure:"CORS_ORIGINS"`

	Notifiers     []string      `mapstructure:"NOTIFIERS" validate:"dive,oneof=log mail nats kafka"`
	NotifyTimeout time.Duration `mapstructure:"NOTIFY_TIMEOUT" validate:"gt=0"`

	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      string `mapstructure:"SMTP_PORT"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	MailFrom      string `mapstructure:"MAIL_FROM"`
	MailRecipient string `mapstructure:"MAIL_RECIPIENT"`

	NATSURL     string `mapstructure:"NATS_URL"`
	NATSSubject string `mapstructure:"NATS_SUBJECT"`

	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string   `mapstructure:"KAFKA_TOPIC"`
}

var defaults = map[string]any{
	"DB_DRIVER":      "postgres",
	"DB_PORT":        "5432",
	"DB_SSLMODE":     "disable",
	"APP_PORT":       "8080",
	"APP_ENV":        "development",
	"CORS_ORIGINS":   "*",
	"NOTIFIERS":      "log",
	"NOTIFY_TIMEOUT": "10s",
	"SMTP_PORT":      "587",
	"NATS_SUBJECT":   "canteen.notifications",
	"KAFKA_TOPIC":    "canteen.notifications",
}

var keys = []string{
	"DB_DRIVER", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PORT", "DB_SSLMODE",
	"APP_PORT", "APP_ENV", "LOG_LEVEL", "JWT_SECRET", "INTERNAL_SECRET_KEY", "CORS_ORIGINS",
	"NOTIFIERS", "NOTIFY_TIMEOUT",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "MAIL_FROM", "MAIL_RECIPIENT",
	"NATS_URL", "NATS_SUBJECT",
	"KAFKA_BROKERS", "KAFKA_TOPIC",
}

// LoadConfig reads .env (if any) and the process environment into a validated Config.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// tolerate "log, mail" style lists
	cfg.Notifiers = splitList(cfg.Notifiers)
	cfg.KafkaBrokers = splitList(cfg.KafkaBrokers)
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DSN returns a postgres:// URL understood by both lib/pq and pgx.
// Credentials are percent-encoded, so any character is safe in them.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.DBSSLMode}}.Encode()
	}
	return u.String()
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
