package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT" validate:"required,numeric"`
	AppEnv      string `mapstructure:"APP_ENV" validate:"required"`
	AppTimezone string `mapstructure:"APP_TIMEZONE" validate:"required"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT" validate:"omitempty,oneof=json text"`

	StoreDriver string   `mapstructure:"STORE_DRIVER" validate:"required,oneof=postgres sqlite dynamodb"`
	SQLitePath  string   `mapstructure:"SQLITE_PATH"`
	Postgres    Postgres `mapstructure:",squash"`

	AWSRegion      string       `mapstructure:"AWS_REGION"`
	AWSEndpointURL string       `mapstructure:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string       `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string       `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	DynamoTables   DynamoTables `mapstructure:",squash"`
	SNSTopicARN    string       `mapstructure:"SNS_TOPIC_ARN"`

	JWTPrivateKeyPath string        `mapstructure:"JWT_PRIVATE_KEY_PATH"`
	JWTPublicKeyPath  string        `mapstructure:"JWT_PUBLIC_KEY_PATH"`
	JWTExpiry         time.Duration `mapstructure:"JWT_EXPIRY"`

	AllowedOrigins      []string      `mapstructure:"ALLOWED_ORIGINS"` // CORS allowed origins
	GenerateRatePerSec  float64       `mapstructure:"GENERATE_RATE_PER_SEC" validate:"gte=0"`
	GenerateBurst       int           `mapstructure:"GENERATE_BURST" validate:"gte=0"`
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`
}

// Postgres holds connection and pool settings for the Postgres store.
type Postgres struct {
	Host            string        `mapstructure:"POSTGRES_HOST"`
	Port            int           `mapstructure:"POSTGRES_PORT"`
	User            string        `mapstructure:"POSTGRES_USER"`
	Password        string        `mapstructure:"POSTGRES_PASSWORD"`
	DBName          string        `mapstructure:"POSTGRES_DB"`
	SSLMode         string        `mapstructure:"POSTGRES_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"POSTGRES_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"POSTGRES_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"POSTGRES_CONN_MAX_LIFETIME"`
}

// DSN renders the lib/pq key=value connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Notifications string `mapstructure:"DYNAMO_TABLE_NOTIFICATIONS"`
	Performances  string `mapstructure:"DYNAMO_TABLE_PERFORMANCES"`
	Counters      string `mapstructure:"DYNAMO_TABLE_COUNTERS"`
}

var defaults = map[string]interface{}{
	"APP_PORT":     "3000",
	"APP_ENV":      "development",
	"APP_TIMEZONE": "UTC",
	"LOG_LEVEL":    "info",
	"LOG_FORMAT":   "",
	"STORE_DRIVER": DriverSQLite,
	"SQLITE_PATH":  "notifications.db",

	"POSTGRES_HOST":              "localhost",
	"POSTGRES_PORT":              5432,
	"POSTGRES_USER":              "postgres",
	"POSTGRES_PASSWORD":          "postgres",
	"POSTGRES_DB":                "notifications",
	"POSTGRES_SSLMODE":           "disable",
	"POSTGRES_MAX_OPEN_CONNS":    25,
	"POSTGRES_MAX_IDLE_CONNS":    5,
	"POSTGRES_CONN_MAX_LIFETIME": 5 * time.Minute,

	"AWS_REGION":                 "us-east-1",
	"AWS_ENDPOINT_URL":           "",
	"AWS_ACCESS_KEY_ID":          "",
	"AWS_SECRET_ACCESS_KEY":      "",
	"DYNAMO_TABLE_NOTIFICATIONS": "notifications",
	"DYNAMO_TABLE_PERFORMANCES":  "notification_performances",
	"DYNAMO_TABLE_COUNTERS":      "counters",
	"SNS_TOPIC_ARN":              "",

	"JWT_PRIVATE_KEY_PATH": "",
	"JWT_PUBLIC_KEY_PATH":  "",
	"JWT_EXPIRY":           24 * time.Hour,

	"ALLOWED_ORIGINS":       "*",
	"GENERATE_RATE_PER_SEC": 1.0,
	"GENERATE_BURST":        3,
	"SHUTDOWN_GRACE_PERIOD": 10 * time.Second,
}

// Load reads all configuration from environment variables, falling back to
// defaults, and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(cfg.AppTimezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.AppTimezone, err)
	}
	return &cfg, nil
}

// Location returns the zone used to decide what "today" is for generation.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDevelopment reports whether the service runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
