package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port    string `env:"PORT" envDefault:"8000"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" envDefault:"mysql://root:rootpassword@db:3306/fresher_mng"`

	// Session
	SecretKey  string        `env:"SECRET_KEY" envDefault:"change_this_secret_key"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Redis, empty keeps sessions in process memory
	RedisURL string `env:"REDIS_URL"`

	// Login rate limiting (requests per window, window in seconds)
	LoginRateLimit  int `env:"LOGIN_RATE_LIMIT" envDefault:"20"`
	LoginRateWindow int `env:"LOGIN_RATE_WINDOW" envDefault:"900"`

	// MinIO
	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinIOBucket    string `env:"MINIO_BUCKET" envDefault:"performance-reports"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// Meilisearch
	MeiliURL    string `env:"MEILI_URL"`
	MeiliAPIKey string `env:"MEILI_API_KEY"`

	// SMTP
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	SMTPFromEmail string `env:"SMTP_FROM_EMAIL" envDefault:"noreply@localhost"`
	SMTPFromName  string `env:"SMTP_FROM_NAME" envDefault:"Fresher Portal"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogDir    string `env:"LOG_DIR"`

	// Optional bootstrap trainer
	SeedTrainer SeedTrainerConfig `envPrefix:"SEED_TRAINER_"`

	// CORS
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
}

type SeedTrainerConfig struct {
	Email    string `env:"EMAIL"`
	Name     string `env:"NAME" envDefault:"Default Trainer"`
	Password string `env:"PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
