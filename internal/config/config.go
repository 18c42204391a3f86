package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"roombook/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Booking    BookingConfig    `yaml:"booking"`
	Pricing    PricingConfig    `yaml:"pricing"`
	API        APIConfig        `yaml:"api"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Rooms      []models.Room    `yaml:"rooms"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	Timezone    string `yaml:"timezone"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, sqlite, redis
	Path    string `yaml:"path"`    // sqlite file path
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BookingConfig struct {
	MaxDurationHours   int     `yaml:"max_duration_hours"`
	MinCancelLeadHours float64 `yaml:"min_cancel_lead_hours"`
}

type PricingConfig struct {
	PeakMultiplier float64 `yaml:"peak_multiplier"`
}

type APIConfig struct {
	Enabled   bool            `yaml:"enabled"`
	Port      int             `yaml:"port"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func Load(configPath string) (*Config, error) {
	// .env необязателен, отсутствие файла не считается ошибкой
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "redis":
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	if c.Storage.Backend == "redis" && c.Redis.Address == "" {
		return errors.New("redis.address is required for the redis backend")
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid app.timezone %q: %w", c.App.Timezone, err)
	}

	return ValidateRooms(c.Rooms)
}

func ValidateRooms(rooms []models.Room) error {
	roomIDs := make(map[string]bool)
	for _, room := range rooms {
		if room.ID == "" {
			return fmt.Errorf("room %q has empty ID", room.Name)
		}
		if roomIDs[room.ID] {
			return fmt.Errorf("duplicate room ID found: %s", room.ID)
		}
		if room.BaseHourlyRate <= 0 {
			return fmt.Errorf("room %s has non-positive base hourly rate", room.ID)
		}
		if room.Capacity <= 0 {
			return fmt.Errorf("room %s has non-positive capacity", room.ID)
		}
		roomIDs[room.ID] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Timezone == "" {
		c.App.Timezone = models.DefaultTimezone
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	// Booking policy defaults
	if c.Booking.MaxDurationHours == 0 {
		c.Booking.MaxDurationHours = models.MaxBookingHours
	}
	if c.Booking.MinCancelLeadHours == 0 {
		c.Booking.MinCancelLeadHours = models.MinCancellationHours
	}
	if c.Pricing.PeakMultiplier == 0 {
		c.Pricing.PeakMultiplier = models.PeakMultiplier
	}
}

// Location возвращает загруженную референсную таймзону
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}
