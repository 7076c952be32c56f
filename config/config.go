package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Machine  MachineConfig  `mapstructure:"machine"`
	Supply   SupplyConfig   `mapstructure:"supply"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

type MachineConfig struct {
	MaxStockLines  int             `mapstructure:"max_stock_lines"`
	MaxStockLevel  int             `mapstructure:"max_stock_level"`
	MinVendBalance string          `mapstructure:"min_vend_balance"` // decimal string, e.g. "0.5"
	LockTimeout    time.Duration   `mapstructure:"lock_timeout"`
	Planogram      []PlanogramItem `mapstructure:"planogram"`
}

// PlanogramItem describes one product line to stock at startup.
type PlanogramItem struct {
	ProductID string `mapstructure:"product_id"`
	Name      string `mapstructure:"name"`
	Price     string `mapstructure:"price"` // decimal string
	Stock     int    `mapstructure:"stock"`
}

type SupplyConfig struct {
	Driver string `mapstructure:"driver"` // static, postgres
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type AuthConfig struct {
	MaxPinAttempts int64         `mapstructure:"max_pin_attempts"`
	LockoutTTL     time.Duration `mapstructure:"lockout_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: VMC_ (Vending Machine Core).
// Nested keys use underscore: VMC_DATABASE_HOST, VMC_MACHINE_MAX_STOCK_LEVEL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("machine.max_stock_lines", 1)
	v.SetDefault("machine.max_stock_level", 25)
	v.SetDefault("machine.min_vend_balance", "0.5")
	v.SetDefault("machine.lock_timeout", "3s")
	v.SetDefault("supply.driver", "static")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "vending_machine")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.max_pin_attempts", 3)
	v.SetDefault("auth.lockout_ttl", "15m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: VMC_MACHINE_MAX_STOCK_LEVEL -> machine.max_stock_level
	v.SetEnvPrefix("VMC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
