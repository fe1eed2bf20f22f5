package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN     string `env:"DATABASE_DSN,required=true"`
	RedisURL        string `env:"REDIS_URL,required=true"`
	ResendAPIKey    string `env:"RESEND_API_KEY,required=true"`
	ResendFromEmail string `env:"RESEND_FROM_EMAIL,required=true"`
	ResendFromName  string `env:"RESEND_FROM_NAME,default=Reminder System"`
	ResendBaseURL   string `env:"RESEND_BASE_URL,default=https://api.resend.com"`
	EmailBatchSize  int    `env:"EMAIL_BATCH_SIZE,default=100"`
	RateLimitPerSec int    `env:"RATE_LIMIT_PER_SEC,default=2"`
	PushgatewayURL  string `env:"PUSHGATEWAY_URL"`
	LogLevel        string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
