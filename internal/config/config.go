package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Spendwise"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"spendwise"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"console"`
		// File is where the console logs; the API always logs to stdout.
		File string `envconfig:"LOG_FILE"`
	}

	Auth struct {
		JWTSecret      string   `envconfig:"AUTH_JWT_SECRET"`
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Classifier struct {
		ModelPath string  `envconfig:"CLASSIFIER_MODEL_PATH" default:"models/categories.gob"`
		Threshold float64 `envconfig:"CLASSIFIER_THRESHOLD" default:"0.5"`
	}

	Ingest struct {
		MaxUploadBytes   int64 `envconfig:"UPLOAD_MAX_BYTES" default:"10485760"`
		NormalizeWorkers int   `envconfig:"NORMALIZE_WORKERS" default:"4"`
	}

	Console struct {
		// UserID is the identity the operator console acts as.
		UserID string `envconfig:"CONSOLE_USER_ID"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if c.Classifier.Threshold < 0 || c.Classifier.Threshold > 1 {
		return fmt.Errorf("CLASSIFIER_THRESHOLD must be within [0, 1], got %v", c.Classifier.Threshold)
	}

	if c.Ingest.MaxUploadBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Ingest.MaxUploadBytes)
	}

	if c.Ingest.NormalizeWorkers < 1 {
		return fmt.Errorf("NORMALIZE_WORKERS must be at least 1, got %d", c.Ingest.NormalizeWorkers)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
