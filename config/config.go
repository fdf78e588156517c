package config

import (
	"github.com/caarlos0/env/v9"
)

// Config is the process-wide configuration, parsed once at startup and handed
// to every constructor. Handlers never read the environment directly.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	MongoURI       string   `env:"MONGODB_URI,required"`
	MongoDatabase  string   `env:"MONGODB_DATABASE" envDefault:"lostfound"`
	JWTSecret      string   `env:"JWT_SECRET,required"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	RedisAddress   string `env:"REDIS_ADDRESS"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	ClaimRateLimit int    `env:"CLAIM_RATE_LIMIT" envDefault:"5"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@campus.edu"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
