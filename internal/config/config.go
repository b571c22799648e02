package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigYAML []byte

// SourcesConfig is the YAML document listing feed sources and seed keywords
type SourcesConfig struct {
	Feeds    []string `yaml:"feeds"`
	Keywords []string `yaml:"keywords"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	EnableRateLimit       bool
	RateLimitPerSecond    float64
	RateLimitBurst        int
	EnableCORS            bool
	AllowedOrigins        []string
	EnableSecurityHeaders bool
	MaxRequestSize        int64
	EnableRequestID       bool
}

type Config struct {
	Port          int
	CacheTTL      time.Duration
	DataDir       string
	PollInterval  time.Duration
	DaysLimit     int
	FetchTimeout  time.Duration
	FetchWorkers  int
	EnableSwagger bool
	ResetArticles bool
	Feeds         []string
	SeedKeywords  []string
	Security      SecurityConfig
}

func Load() (*Config, error) {
	sources, err := loadSources(getEnv("FEEDS_FILE", ""))
	if err != nil {
		return nil, err
	}

	// FEEDS wins over both the embedded defaults and FEEDS_FILE
	if feeds := getEnvAsStringSlice("FEEDS", nil); len(feeds) > 0 {
		sources.Feeds = feeds
	}

	return &Config{
		Port:          getEnvAsInt("PORT", 8080),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 15*time.Minute),
		DataDir:       getEnv("DATA_DIR", "./data"),
		PollInterval:  getEnvAsPositiveDuration("POLL_INTERVAL", 24*time.Hour),
		DaysLimit:     getEnvAsInt("DAYS_LIMIT", 30),
		FetchTimeout:  getEnvAsPositiveDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchWorkers:  getEnvAsInt("FETCH_WORKERS", 8),
		EnableSwagger: getEnvAsBool("ENABLE_SWAGGER", true),
		ResetArticles: getEnvAsBool("RESET_ARTICLES", false),
		Feeds:         cleanList(sources.Feeds),
		SeedKeywords:  cleanList(sources.Keywords),
		Security:      loadSecurityConfig(),
	}, nil
}

func loadSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableRateLimit:       getEnvAsBool("ENABLE_RATE_LIMIT", true),
		RateLimitPerSecond:    getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10.0),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 20),
		EnableCORS:            getEnvAsBool("ENABLE_CORS", true),
		AllowedOrigins:        getEnvAsStringSlice("ALLOWED_ORIGINS", []string{"*"}),
		EnableSecurityHeaders: getEnvAsBool("ENABLE_SECURITY_HEADERS", true),
		MaxRequestSize:        getEnvAsInt64("MAX_REQUEST_SIZE", 1<<20), // 1MB
		EnableRequestID:       getEnvAsBool("ENABLE_REQUEST_ID", true),
	}
}

// DefaultSources returns the embedded feed and keyword lists
func DefaultSources() (SourcesConfig, error) {
	var sources SourcesConfig
	if err := yaml.Unmarshal(defaultConfigYAML, &sources); err != nil {
		return SourcesConfig{}, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	return sources, nil
}

// loadSources starts from the embedded defaults and lets a non-empty list
// in the file at path replace the matching default list.
func loadSources(path string) (SourcesConfig, error) {
	sources, err := DefaultSources()
	if err != nil {
		return SourcesConfig{}, err
	}
	if path == "" {
		return sources, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return SourcesConfig{}, fmt.Errorf("failed to read feeds file %s: %w", path, err)
	}

	var override SourcesConfig
	if err := yaml.Unmarshal(data, &override); err != nil {
		return SourcesConfig{}, fmt.Errorf("failed to parse feeds file %s: %w", path, err)
	}

	if len(override.Feeds) > 0 {
		sources.Feeds = override.Feeds
	}
	if len(override.Keywords) > 0 {
		sources.Keywords = override.Keywords
	}
	return sources, nil
}

// cleanList trims entries and drops empties and exact duplicates
func cleanList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func getEnv(key string, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}

// getEnvAsPositiveDuration is getEnvAsDuration that also rejects zero and
// negative values
func getEnvAsPositiveDuration(key string, defaultVal time.Duration) time.Duration {
	if duration := getEnvAsDuration(key, defaultVal); duration > 0 {
		return duration
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.ParseInt(val, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		items := strings.Split(val, ",")
		result := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				result = append(result, item)
			}
		}
		return result
	}
	return defaultVal
}
