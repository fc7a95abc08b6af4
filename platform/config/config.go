// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"nominatim_gateway/platform/validator"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// NominatimConfig provides settings for the Nominatim API client.
type NominatimConfig interface {
	GetNominatimBaseURL() string
	GetNominatimUserAgent() string
	GetNominatimEmail() string
	GetNominatimAcceptLanguage() string
	GetNominatimTimeout() time.Duration
}

// MapsConfig provides defaults for the address lookup endpoints.
type MapsConfig interface {
	GetMapsCountryCodes() []string
	GetMapsLimit() int
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
	IsAuthEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
	IsMetricsEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Env                     string `validate:"required"`
	HTTPAddr                string `validate:"required"`
	NominatimBaseURL        string `validate:"required,url"`
	NominatimUserAgent      string `validate:"required"`
	NominatimEmail          string `validate:"omitempty,email"`
	NominatimAcceptLanguage string
	NominatimTimeout        time.Duration `validate:"gte=0"`
	MapsCountryCodes        []string      `validate:"dive,iso3166_1_alpha2"`
	MapsLimit               int           `validate:"gte=1,lte=40"`
	CORSAllowAll            bool
	CORSOrigins             []string
	CORSAllowCreds          bool
	JWTAccessSecret         string
	RateLimitRPS            float64 `validate:"gte=0"`
	RateLimitBurst          int     `validate:"gte=0"`
	MetricsEnabled          bool
}

// =============================================================================
// Interface Implementations
// =============================================================================

// NominatimConfig implementation
func (c *Config) GetNominatimBaseURL() string        { return c.NominatimBaseURL }
func (c *Config) GetNominatimUserAgent() string      { return c.NominatimUserAgent }
func (c *Config) GetNominatimEmail() string          { return c.NominatimEmail }
func (c *Config) GetNominatimAcceptLanguage() string { return c.NominatimAcceptLanguage }
func (c *Config) GetNominatimTimeout() time.Duration { return c.NominatimTimeout }

// MapsConfig implementation
func (c *Config) GetMapsCountryCodes() []string { return c.MapsCountryCodes }
func (c *Config) GetMapsLimit() int             { return c.MapsLimit }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }
func (c *Config) IsAuthEnabled() bool        { return c.JWTAccessSecret != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }
func (c *Config) IsMetricsEnabled() bool   { return c.MetricsEnabled }

// fileConfig mirrors the optional YAML file named by CONFIG_FILE.
// Environment variables take precedence over values read from it.
type fileConfig struct {
	Env  string `yaml:"env"`
	HTTP struct {
		Addr            string   `yaml:"addr"`
		CORSOrigins     []string `yaml:"cors_origins"`
		CORSAllowAll    *bool    `yaml:"cors_allow_all"`
		CORSAllowCreds  *bool    `yaml:"cors_allow_credentials"`
		RateLimitRPS    *float64 `yaml:"rate_limit_rps"`
		RateLimitBurst  *int     `yaml:"rate_limit_burst"`
		MetricsEnabled  *bool    `yaml:"metrics_enabled"`
		JWTAccessSecret string   `yaml:"jwt_access_secret"`
	} `yaml:"http"`
	Nominatim struct {
		BaseURL        string   `yaml:"base_url"`
		UserAgent      string   `yaml:"user_agent"`
		Email          string   `yaml:"email"`
		AcceptLanguage string   `yaml:"accept_language"`
		Timeout        string   `yaml:"timeout"`
		CountryCodes   []string `yaml:"country_codes"`
		Limit          *int     `yaml:"limit"`
	} `yaml:"nominatim"`
}

// Load reads configuration from the optional CONFIG_FILE and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", strings.Join(orDefault(file.HTTP.CORSOrigins, []string{"http://localhost:4200"}), ",")))
	corsAllowAll := getBool("CORS_ALLOW_ALL", boolOr(file.HTTP.CORSAllowAll, false))
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	timeout, err := time.ParseDuration(getEnv("NOMINATIM_TIMEOUT", stringOr(file.Nominatim.Timeout, "10s")))
	if err != nil {
		return nil, fmt.Errorf("NOMINATIM_TIMEOUT: %w", err)
	}
	limit, err := strconv.Atoi(getEnv("NOMINATIM_LIMIT", strconv.Itoa(intOr(file.Nominatim.Limit, 5))))
	if err != nil {
		return nil, fmt.Errorf("NOMINATIM_LIMIT: %w", err)
	}
	rps, err := strconv.ParseFloat(getEnv("API_RATE_LIMIT_RPS", strconv.FormatFloat(floatOr(file.HTTP.RateLimitRPS, 5), 'f', -1, 64)), 64)
	if err != nil {
		return nil, fmt.Errorf("API_RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("API_RATE_LIMIT_BURST", strconv.Itoa(intOr(file.HTTP.RateLimitBurst, 10))))
	if err != nil {
		return nil, fmt.Errorf("API_RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		Env:                     getEnv("APP_ENV", stringOr(file.Env, "development")),
		HTTPAddr:                getEnv("HTTP_ADDR", stringOr(file.HTTP.Addr, ":8080")),
		NominatimBaseURL:        getEnv("NOMINATIM_BASE_URL", stringOr(file.Nominatim.BaseURL, "https://nominatim.openstreetmap.org/")),
		NominatimUserAgent:      getEnv("NOMINATIM_USER_AGENT", stringOr(file.Nominatim.UserAgent, "NominatimGateway/1.0")),
		NominatimEmail:          getEnv("NOMINATIM_EMAIL", file.Nominatim.Email),
		NominatimAcceptLanguage: getEnv("NOMINATIM_ACCEPT_LANGUAGE", file.Nominatim.AcceptLanguage),
		NominatimTimeout:        timeout,
		MapsCountryCodes:        splitCSV(strings.ToUpper(getEnv("NOMINATIM_COUNTRY_CODES", strings.Join(file.Nominatim.CountryCodes, ",")))),
		MapsLimit:               limit,
		CORSAllowAll:            corsAllowAll,
		CORSOrigins:             corsOrigins,
		CORSAllowCreds:          getBool("CORS_ALLOW_CREDENTIALS", boolOr(file.HTTP.CORSAllowCreds, true)),
		JWTAccessSecret:         getEnv("JWT_ACCESS_SECRET", file.HTTP.JWTAccessSecret),
		RateLimitRPS:            rps,
		RateLimitBurst:          burst,
		MetricsEnabled:          getBool("METRICS_ENABLED", boolOr(file.HTTP.MetricsEnabled, true)),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	if strings.TrimSpace(path) == "" {
		return file, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return file, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return strings.EqualFold(strings.TrimSpace(val), "true")
}

func stringOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func boolOr(value *bool, fallback bool) bool {
	if value != nil {
		return *value
	}
	return fallback
}

func intOr(value *int, fallback int) int {
	if value != nil {
		return *value
	}
	return fallback
}

func floatOr(value *float64, fallback float64) float64 {
	if value != nil {
		return *value
	}
	return fallback
}

func orDefault(values, fallback []string) []string {
	if len(values) > 0 {
		return values
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
