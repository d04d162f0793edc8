package app

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Port             int    `env:"PORT" envDefault:"5000"`
	Env              string `env:"ENV" envDefault:"dev"`
	BaseUrl          string `env:"BASE_URL"`
	RedisUrl         string `env:"REDIS_URL"`
	OtelCollectorUrl string `env:"OTEL_COLLECTOR_URL"`

	Stripe StripeConfig
	Twilio TwilioConfig

	// UserPhone is the fixed notification destination for this
	// deployment. A multi-tenant setup would resolve it from checkout
	// metadata instead.
	UserPhone string `env:"USER_PHONE" validate:"required,phone"`
}

type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	PublicKey     string `env:"STRIPE_PUBLIC_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

type TwilioConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `env:"TWILIO_PHONE_NUMBER" validate:"omitempty,phone"`
}

func loadConfig() (Config, error) {
	// A missing .env is fine, real deployments configure the process
	// environment directly.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}

	if cfg.BaseUrl == "" {
		cfg.BaseUrl = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	return cfg, nil
}

// missingVars reports every required environment variable that is not
// set, so a misconfigured deployment sees the whole list at once.
func (c Config) missingVars() []string {
	required := []struct {
		name  string
		value string
	}{
		{"STRIPE_SECRET_KEY", c.Stripe.SecretKey},
		{"STRIPE_PUBLIC_KEY", c.Stripe.PublicKey},
		{"STRIPE_WEBHOOK_SECRET", c.Stripe.WebhookSecret},
		{"TWILIO_ACCOUNT_SID", c.Twilio.AccountSID},
		{"TWILIO_AUTH_TOKEN", c.Twilio.AuthToken},
		{"TWILIO_PHONE_NUMBER", c.Twilio.FromNumber},
		{"USER_PHONE", c.UserPhone},
	}

	var missing []string
	for _, v := range required {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}

	return missing
}

// maskSecret keeps just enough of a credential to correlate log lines
// against the provider dashboard.
func maskSecret(s string) string {
	if len(s) <= 10 {
		return "***"
	}

	return s[:6] + "..." + s[len(s)-4:]
}
