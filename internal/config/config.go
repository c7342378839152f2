package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address             string `yaml:"address"`
		Password            string `yaml:"password"`
		DB                  int    `yaml:"db"`
		SlotCacheTTLSeconds int    `yaml:"slot_cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		StaffChatID int64  `yaml:"staff_chat_id"`
	} `yaml:"telegram"`

	// Limits carries the per-slot ceilings. Both are configurable because
	// the house rules disagree on the values (2 rows / 100 vs 50 people);
	// the defaults reproduce the public booking flow.
	Limits struct {
		MaxReservationsPerSlot     int `yaml:"max_reservations_per_slot"`
		MaxPeoplePerSlot           int `yaml:"max_people_per_slot"`
		MaxTableReservationsPerDay int `yaml:"max_table_reservations_per_day"`
	} `yaml:"limits"`

	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
		Burst     int `yaml:"burst"`
	} `yaml:"rate_limit"`

	Backup BackupConfig `yaml:"backup"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	StoragePath   string `yaml:"storage_path"`
	IntervalHours int    `yaml:"interval_hours"`
	RetentionDays int    `yaml:"retention_days"`
}

func (b BackupConfig) Interval() time.Duration {
	if b.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(b.IntervalHours) * time.Hour
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/boliche.db"
	}
	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}
	if cfg.Backup.StoragePath == "" {
		cfg.Backup.StoragePath = "data/backups"
	}

	return &cfg, nil
}

func (c *Config) SlotCacheTTL() time.Duration {
	if c.Redis.SlotCacheTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Redis.SlotCacheTTLSeconds) * time.Second
}

func (c *Config) MaxReservationsPerSlot() int {
	if c.Limits.MaxReservationsPerSlot <= 0 {
		return 2
	}
	return c.Limits.MaxReservationsPerSlot
}

func (c *Config) MaxPeoplePerSlot() int {
	if c.Limits.MaxPeoplePerSlot <= 0 {
		return 100
	}
	return c.Limits.MaxPeoplePerSlot
}

func (c *Config) MaxTableReservationsPerDay() int {
	if c.Limits.MaxTableReservationsPerDay <= 0 {
		return 25
	}
	return c.Limits.MaxTableReservationsPerDay
}

func (c *Config) RateLimitPerMinute() int {
	if c.RateLimit.PerMinute <= 0 {
		return 60
	}
	return c.RateLimit.PerMinute
}

func (c *Config) RateLimitBurst() int {
	if c.RateLimit.Burst <= 0 {
		return 10
	}
	return c.RateLimit.Burst
}
