package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"storefront/internal/session"
	"storefront/pkg/db"
)

const (
	BackendAuto     = "auto"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	PaymentNone   = "none"
	PaymentStripe = "stripe"

	defaultAdminPassword = "password123"
)

type Config struct {
	HTTPPort  string `envconfig:"HTTP_PORT"  default:":8080"`
	GrpcPort  string `envconfig:"GRPC_PORT"  default:":50051"`
	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"auto"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"postgres"`
	SQLitePath     string `envconfig:"SQLITE_PATH"     default:"storefront.db"`
	AutoMigrate    bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	SessionSecret string `envconfig:"SESSION_SECRET" required:"true"`
	SessionName   string `envconfig:"SESSION_NAME"   default:"storefront"`
	SessionStore  string `envconfig:"SESSION_STORE"  default:"filesystem"`
	SessionDir    string `envconfig:"SESSION_DIR"    default:"sessions"`
	SessionSecure bool   `envconfig:"SESSION_SECURE" default:"false"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"password123"`

	PaymentProvider string `envconfig:"PAYMENT_PROVIDER"  default:"none"`
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`
	PaymentCurrency string `envconfig:"PAYMENT_CURRENCY"  default:"brl"`
	PublicBaseURL   string `envconfig:"PUBLIC_BASE_URL"   default:"http://localhost:8080"`

	UploadDir          string `envconfig:"UPLOAD_DIR"           default:"uploads"`
	UploadMaxDimension int    `envconfig:"UPLOAD_MAX_DIMENSION" default:"1200"`
}

var (
	config Config
	once   sync.Once
)

// LoadConfig reads .env (when present) and the environment once per process.
// Invalid configuration is fatal.
func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		cfg, err := Process(logger)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}
		config = *cfg

		logger.Infof("Configuration loaded: HTTP Port=%s, GRPC Port=%s, LogLevel=%s, Backend=%s, Payment=%s",
			config.HTTPPort, config.GrpcPort, config.LogLevel, config.StorageBackend, config.PaymentProvider)
	})
	return &config
}

// Process parses and validates the environment without touching .env.
func Process(logger *logrus.Logger) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(logger); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize(logger *logrus.Logger) error {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case BackendAuto:
		c.StorageBackend = BackendSQLite
		if c.DatabaseURL != "" {
			c.StorageBackend = BackendPostgres
		}
	case BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "pgx" {
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("SESSION_SECRET cannot be empty")
	}

	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	if c.SessionStore != session.StoreFilesystem && c.SessionStore != session.StoreCookie {
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}

	c.PaymentProvider = strings.ToLower(strings.TrimSpace(c.PaymentProvider))
	switch c.PaymentProvider {
	case PaymentNone:
	case PaymentStripe:
		if c.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required when PAYMENT_PROVIDER=stripe")
		}
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.PaymentProvider)
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")

	if c.AdminPassword == defaultAdminPassword {
		logger.Warn("Configuration: ADMIN_PASSWORD is the default, set it before exposing the admin panel")
	}
	return nil
}

func (c *Config) StorageOptions() db.Options {
	if c.StorageBackend == BackendPostgres {
		return db.Options{Dialect: db.DialectPostgres, Driver: c.DatabaseDriver, DSN: c.DatabaseURL}
	}
	return db.Options{Dialect: db.DialectSQLite, DSN: c.SQLitePath}
}

func (c *Config) SuccessURL() string { return c.PublicBaseURL + "/cart?paid=1" }

func (c *Config) CancelURL() string { return c.PublicBaseURL + "/cart" }
