package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32         `mapstructure:"DB_MIN_CONNS"`
	DBConnLifetime time.Duration `mapstructure:"DB_CONN_LIFETIME"`
	DBConnIdleTime time.Duration `mapstructure:"DB_CONN_IDLE_TIME"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	ClinicName     string        `mapstructure:"CLINIC_NAME"`
	ClinicTaxID    string        `mapstructure:"CLINIC_TAX_ID"`
	ClinicRegCode  string        `mapstructure:"CLINIC_REG_CODE"`
	ExportPath     string        `mapstructure:"EXPORT_PATH"`
	CopiesCount    int           `mapstructure:"COPIES_COUNT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_CONN_LIFETIME", "30m")
	v.SetDefault("DB_CONN_IDLE_TIME", "5m")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("COPIES_COUNT", 2)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("DB_CONN_LIFETIME")
	v.BindEnv("DB_CONN_IDLE_TIME")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("CLINIC_NAME")
	v.BindEnv("CLINIC_TAX_ID")
	v.BindEnv("CLINIC_REG_CODE")
	v.BindEnv("EXPORT_PATH")
	v.BindEnv("COPIES_COUNT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run with.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.CopiesCount <= 0 {
		return fmt.Errorf("COPIES_COUNT must be positive, got %d", c.CopiesCount)
	}
	if c.DBMaxConns < c.DBMinConns {
		return fmt.Errorf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", c.DBMaxConns, c.DBMinConns)
	}
	return nil
}
