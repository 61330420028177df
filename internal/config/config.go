package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string `env:"APP_NAME" envDefault:"planner"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`

	HTTP       HTTPConfig       `envPrefix:"SERVER_"`
	Storage    StorageConfig    `envPrefix:"STORAGE_"`
	Mongo      MongoConfig      `envPrefix:"MONGO_"`
	Database   DatabaseConfig   `envPrefix:"DB_"`
	Migrations MigrationsConfig `envPrefix:"MIGRATIONS_"`
	Bolt       BoltConfig       `envPrefix:"BOLT_"`
	Redis      RedisConfig      `envPrefix:"REDIS_"`
	JWT        JWTConfig        `envPrefix:"JWT_"`
	Auth       AuthConfig       `envPrefix:"AUTH_"`
	Schedule   ScheduleConfig   `envPrefix:"SCHEDULE_"`
	Context    ContextConfig
	Logger     LoggerConfig  `envPrefix:"LOG_"`
	Monitor    MonitorConfig `envPrefix:"MONITOR_"`
}

type HTTPConfig struct {
	Host         string        `env:"HOST" envDefault:"0.0.0.0"`
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	MaxBodySize  int           `env:"MAX_BODY_SIZE" envDefault:"1048576"`
}

type StorageConfig struct {
	Driver string `env:"DRIVER" envDefault:"mongo"`
}

type MongoConfig struct {
	URI            string        `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database       string        `env:"DATABASE" envDefault:"calendar_app"`
	MaxPoolSize    uint64        `env:"MAX_POOL_SIZE" envDefault:"50"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	URL             string        `env:"URL"`
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"5432"`
	Name            string        `env:"NAME" envDefault:"planner"`
	User            string        `env:"USER" envDefault:"planner"`
	Password        string        `env:"PASSWORD"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	MaxConnLifetime time.Duration `env:"CONN_LIFETIME" envDefault:"1h"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
}

type MigrationsConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

type BoltConfig struct {
	Path string `env:"PATH" envDefault:"./data/planner.db"`
}

type RedisConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"false"`
	URL          string        `env:"URL" envDefault:"redis://localhost:6379"`
	Password     string        `env:"PASSWORD"`
	DB           int           `env:"DB" envDefault:"0"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

type JWTConfig struct {
	Secret string        `env:"SECRET"`
	Issuer string        `env:"ISSUER" envDefault:"planner"`
	TTL    time.Duration `env:"TTL" envDefault:"168h"`
}

type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

type ScheduleConfig struct {
	// ConflictFailClosed turns a storage fault during the overlap check into
	// an error instead of letting the write proceed.
	ConflictFailClosed bool          `env:"CONFLICT_FAIL_CLOSED" envDefault:"false"`
	LockTTL            time.Duration `env:"LOCK_TTL" envDefault:"5s"`
	LockWait           time.Duration `env:"LOCK_WAIT" envDefault:"3s"`
}

type ContextConfig struct {
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type LoggerConfig struct {
	Level    string `env:"LEVEL" envDefault:"info"`
	Encoding string `env:"ENCODING" envDefault:"json"`
}

type MonitorConfig struct {
	Schedule string `env:"SCHEDULE" envDefault:"@every 10s"`
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg.Database)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMongo, DriverPostgres, DriverBolt:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.JWT.Secret = "dev-secret-key"
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func buildPostgresURL(db DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
