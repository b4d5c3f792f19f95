package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver    string
	DBDSN       string
	DBSlowQuery time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
	AuthRatePerMin int

	APILogEnabled  bool
	CORSOrigins    []string
	TrustedProxies []string

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Default returns a configuration suitable for local development.
func Default() *Config {
	return &Config{
		Port:           "8080",
		GinMode:        "debug",
		DBDriver:       DriverSQLite,
		DBDSN:          "floor.db?_foreign_keys=on",
		DBSlowQuery:    200 * time.Millisecond,
		JWTTTL:         24 * time.Hour,
		RateLimitRPS:   50,
		RateLimitBurst: 100,
		AuthRatePerMin: 5,
		APILogEnabled:  true,
		CORSOrigins:    []string{"http://127.0.0.1:5500"},
		TrustedProxies: []string{"127.0.0.1"},
		AdminName:      "Floor Admin",
	}
}

// Load reads .env (if present) and the environment on top of Default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	cfg := Default()
	var result *multierror.Error

	cfg.Port = envString("PORT", cfg.Port)
	cfg.GinMode = envString("GIN_MODE", cfg.GinMode)
	cfg.DBDriver = strings.ToLower(envString("DB_DRIVER", cfg.DBDriver))
	cfg.DBDSN = envString("DB_DSN", cfg.DBDSN)
	cfg.JWTSecret = envString("JWT_SECRET", cfg.JWTSecret)
	cfg.AdminName = envString("ADMIN_NAME", cfg.AdminName)
	cfg.AdminEmail = envString("ADMIN_EMAIL", cfg.AdminEmail)
	cfg.AdminPassword = envString("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.CORSOrigins = envList("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)
	cfg.TrustedProxies = envList("TRUSTED_PROXIES", cfg.TrustedProxies)

	if v, ok := os.LookupEnv("DB_LOG_SLOW_MS"); ok {
		ms, err := strconv.Atoi(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("DB_LOG_SLOW_MS: %w", err))
		} else {
			cfg.DBSlowQuery = time.Duration(ms) * time.Millisecond
		}
	}
	if v, ok := os.LookupEnv("JWT_TTL_HOURS"); ok {
		h, err := strconv.Atoi(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("JWT_TTL_HOURS: %w", err))
		} else {
			cfg.JWTTTL = time.Duration(h) * time.Hour
		}
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("RATE_LIMIT_RPS: %w", err))
		} else {
			cfg.RateLimitRPS = rps
		}
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_BURST"); ok {
		burst, err := strconv.Atoi(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("RATE_LIMIT_BURST: %w", err))
		} else {
			cfg.RateLimitBurst = burst
		}
	}
	if v, ok := os.LookupEnv("AUTH_RATE_PER_MIN"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("AUTH_RATE_PER_MIN: %w", err))
		} else {
			cfg.AuthRatePerMin = n
		}
	}
	if v, ok := os.LookupEnv("API_LOG_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("API_LOG_ENABLED: %w", err))
		} else {
			cfg.APILogEnabled = enabled
		}
	}

	if err := cfg.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Port == "" {
		result = multierror.Append(result, errors.New("PORT must not be empty"))
	}
	if c.DBDriver != DriverMySQL && c.DBDriver != DriverSQLite {
		result = multierror.Append(result, fmt.Errorf("DB_DRIVER %q is not one of %s, %s", c.DBDriver, DriverMySQL, DriverSQLite))
	}
	if c.DBDSN == "" {
		result = multierror.Append(result, errors.New("DB_DSN must not be empty"))
	}
	if len(c.JWTSecret) < 16 {
		result = multierror.Append(result, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.JWTTTL <= 0 {
		result = multierror.Append(result, errors.New("JWT_TTL_HOURS must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		result = multierror.Append(result, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if c.AuthRatePerMin <= 0 {
		result = multierror.Append(result, errors.New("AUTH_RATE_PER_MIN must be positive"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		result = multierror.Append(result, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}

	return result.ErrorOrNil()
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
