package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/rentride/RR-BookingService/internal/domain"
)

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server          Server      `toml:"server"`
	Logs            Logs        `toml:"logs"`
	Metrics         Metrics     `toml:"metrics"`
	Database        Database    `toml:"database"`
	IdentityService Integration `toml:"identity_service"`
	ListingService  Integration `toml:"listing_service"`
	PaymentGateway  Integration `toml:"payment_gateway"`
	Booking         Booking     `toml:"booking"`
}

// Server настройки HTTP сервера
type Server struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics настройки Prometheus метрик
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Database настройки подключения к PostgreSQL
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN собирает строку подключения для lib/pq
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Integration настройки клиента внешнего сервиса
type Integration struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Booking параметры движка бронирования
type Booking struct {
	GSTBasisPoints        int64 `toml:"gst_basis_points"`
	ServiceTaxBasisPoints int64 `toml:"service_tax_basis_points"`
	PastStartGraceMinutes int   `toml:"past_start_grace_minutes"`
	PendingTTLMinutes     int   `toml:"pending_ttl_minutes"`
	ExpireSweepMinutes    int   `toml:"expire_sweep_minutes"`
	OTPTTLMinutes         int   `toml:"otp_ttl_minutes"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Booking.GSTBasisPoints == 0 {
		c.Booking.GSTBasisPoints = domain.DefaultGSTBasisPoints
	}
	if c.Booking.PastStartGraceMinutes == 0 {
		c.Booking.PastStartGraceMinutes = domain.DefaultPastStartGraceMinutes
	}
	if c.Booking.PendingTTLMinutes == 0 {
		c.Booking.PendingTTLMinutes = domain.DefaultPendingHoldTTLMinutes
	}
	if c.Booking.ExpireSweepMinutes == 0 {
		c.Booking.ExpireSweepMinutes = 5
	}
	if c.Booking.OTPTTLMinutes == 0 {
		c.Booking.OTPTTLMinutes = 60
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.IdentityService.URL == "" {
		return fmt.Errorf("config: identity_service.url is required")
	}
	if c.ListingService.URL == "" {
		return fmt.Errorf("config: listing_service.url is required")
	}
	if c.PaymentGateway.URL == "" {
		return fmt.Errorf("config: payment_gateway.url is required")
	}
	return nil
}
