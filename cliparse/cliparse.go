package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFile is loaded before the environment is parsed, if it exists.
var DotEnvFile = ".env"

type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	StoreType string `env:"STORE_TYPE" envDefault:"csv"`
	DataFile  string `env:"DATA_FILE" envDefault:"students.csv"`
	// DatabaseURL is the DSN for the sqlite and postgres stores
	DatabaseURL string `env:"DATABASE_URL"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	SessionSalt   string `env:"SESSION_SALT"`
	LoginRate     int    `env:"LOGIN_RATE_PER_MINUTE" envDefault:"5"`
	// TrustProxy keys the login limiter on X-Forwarded-For / X-Real-IP
	TrustProxy    bool   `env:"TRUST_PROXY"`

	GroupingURL     string        `env:"GROUPING_URL" envDefault:"http://127.0.0.1:8000/run"`
	GroupingTimeout time.Duration `env:"GROUPING_TIMEOUT" envDefault:"30s"`

	// Optional integrations, disabled when empty
	NATSURL          string `env:"NATS_URL"`
	BackupS3Bucket   string `env:"BACKUP_S3_BUCKET"`
	BackupS3Key      string `env:"BACKUP_S3_KEY" envDefault:"connecthub/students.csv"`
	BackupS3Region   string `env:"BACKUP_S3_REGION"`
	BackupS3Endpoint string `env:"BACKUP_S3_ENDPOINT"`
}

// ParseFlags builds the Config from .env, the environment and CLI flags,
// in increasing order of precedence, then validates it.
func ParseFlags(args []string) (Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("connecthub", flag.ContinueOnError)

	// Environment values become the flag defaults
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.StoreType, "t", cfg.StoreType, "Store type (csv, sqlite or postgres)")
	fs.StringVar(&cfg.DataFile, "f", cfg.DataFile, "CSV data file")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.GroupingURL, "grouping-url", cfg.GroupingURL, "Grouping service endpoint")
	fs.DurationVar(&cfg.GroupingTimeout, "grouping-timeout", cfg.GroupingTimeout, "Grouping request timeout")
	fs.IntVar(&cfg.LoginRate, "login-rate", cfg.LoginRate, "Login attempts per minute per client (0 disables)")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", cfg.TrustProxy, "Trust X-Forwarded-For from a fronting proxy")
	fs.StringVar(&cfg.NATSURL, "nats-url", cfg.NATSURL, "NATS server URL for events")
	fs.StringVar(&cfg.BackupS3Bucket, "backup-bucket", cfg.BackupS3Bucket, "S3 bucket for CSV backups")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminUsername, "admin-user", cfg.AdminUsername, "Admin username (prefer env)")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "Admin password (prefer env)")
	fs.StringVar(&cfg.SessionSalt, "session-salt", cfg.SessionSalt, "Session cookie signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first missing or invalid setting.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	switch c.StoreType {
	case "csv":
		if c.DataFile == "" {
			return errors.New("data file required for csv store (use -f or DATA_FILE env)")
		}
	case "sqlite", "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	default:
		return fmt.Errorf("unknown store type %q", c.StoreType)
	}

	// Secrets - MUST be provided
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD required")
	}
	if c.SessionSalt == "" {
		return errors.New("SESSION_SALT required")
	}

	if c.GroupingURL == "" {
		return errors.New("GROUPING_URL required")
	}
	if c.GroupingTimeout <= 0 {
		return errors.New("GROUPING_TIMEOUT must be positive")
	}
	if c.LoginRate < 0 {
		return errors.New("LOGIN_RATE_PER_MINUTE must not be negative")
	}
	if c.BackupS3Bucket != "" && c.BackupS3Key == "" {
		return errors.New("BACKUP_S3_KEY required when BACKUP_S3_BUCKET is set")
	}
	return nil
}

// StoreTarget is the file path or DSN passed to store.Open.
func (c Config) StoreTarget() string {
	if c.StoreType == "csv" {
		return c.DataFile
	}
	return c.DatabaseURL
}
