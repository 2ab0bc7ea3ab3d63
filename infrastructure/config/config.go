package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	domainconfig "insightseo/domain/config"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"server_address"`
	Environment     string        `yaml:"environment"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`

	// AWS configuration
	AWSRegion string `yaml:"aws_region"`

	// Lambda configuration
	IsLambda           bool   `yaml:"is_lambda"`
	LambdaFunctionName string `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level"`

	Grammar   GrammarConfig   `yaml:"grammar"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Analysis  AnalysisConfig  `yaml:"analysis"`

	// Feature flags
	EnableCORS     bool     `yaml:"enable_cors"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GrammarConfig configures the LanguageTool client
type GrammarConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`

	// Circuit breaker
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

// CacheConfig configures the query result cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

// MetricsConfig selects the metrics backend
type MetricsConfig struct {
	Provider  string `yaml:"provider"` // prometheus, cloudwatch or none
	Namespace string `yaml:"namespace"`
}

// TracingConfig configures OpenTelemetry export
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
	ServiceName string  `yaml:"service_name"`
}

// RateLimitConfig configures per-client request limiting
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	Burst             int  `yaml:"burst"`
}

// AnalysisConfig holds overrides applied on top of the domain preset
type AnalysisConfig struct {
	MaxKeywords      int      `yaml:"max_keywords"`
	MinWordCount     int      `yaml:"min_word_count"`
	MaxTextLength    int      `yaml:"max_text_length"`
	ExtraStopWords   []string `yaml:"extra_stop_words"`
	AllowedStopWords []string `yaml:"allowed_stop_words"`
}

// Metrics providers
const (
	MetricsPrometheus = "prometheus"
	MetricsCloudWatch = "cloudwatch"
	MetricsNone       = "none"
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ServerAddress:   ":8080",
		Environment:     "development",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
		AWSRegion:       "us-west-2",
		LogLevel:        "info",
		Grammar: GrammarConfig{
			URL:              "http://localhost:8081",
			Timeout:          10 * time.Second,
			MaxRequests:      1,
			Interval:         60 * time.Second,
			OpenTimeout:      30 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    1000,
			TTL:     5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Provider:  MetricsPrometheus,
			Namespace: "insightseo",
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRatio: 1.0,
			ServiceName: "insightseo",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
			Burst:             20,
		},
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by CONFIG_FILE and environment variables, in that order.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_ADDRESS") == "" {
		c.ServerAddress = ":" + port
	}
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ReadTimeout = getEnvDuration("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", c.WriteTimeout)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(c.MaxBodyBytes)))
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)

	// Lambda configuration
	c.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", c.LambdaFunctionName)
	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || c.LambdaFunctionName != "")

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Grammar.URL = getEnv("LANGUAGETOOL_URL", c.Grammar.URL)
	c.Grammar.Timeout = getEnvDuration("LANGUAGETOOL_TIMEOUT", c.Grammar.Timeout)
	c.Grammar.OpenTimeout = getEnvDuration("GRAMMAR_BREAKER_TIMEOUT", c.Grammar.OpenTimeout)
	c.Grammar.FailureThreshold = getEnvFloat("GRAMMAR_BREAKER_THRESHOLD", c.Grammar.FailureThreshold)

	c.Cache.Enabled = getEnvBool("CACHE_ENABLED", c.Cache.Enabled)
	c.Cache.Size = getEnvInt("CACHE_SIZE", c.Cache.Size)
	c.Cache.TTL = getEnvDuration("CACHE_TTL", c.Cache.TTL)

	c.Metrics.Provider = strings.ToLower(getEnv("METRICS_PROVIDER", c.Metrics.Provider))
	c.Metrics.Namespace = getEnv("METRICS_NAMESPACE", c.Metrics.Namespace)

	c.Tracing.Enabled = getEnvBool("ENABLE_TRACING", c.Tracing.Enabled)
	c.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.Endpoint)
	c.Tracing.SampleRatio = getEnvFloat("TRACING_SAMPLE_RATIO", c.Tracing.SampleRatio)
	c.Tracing.ServiceName = getEnv("OTEL_SERVICE_NAME", c.Tracing.ServiceName)

	c.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.RequestsPerMinute = getEnvInt("RATE_LIMIT_RPM", c.RateLimit.RequestsPerMinute)
	c.RateLimit.Burst = getEnvInt("RATE_LIMIT_BURST", c.RateLimit.Burst)

	c.Analysis.MaxKeywords = getEnvInt("ANALYSIS_MAX_KEYWORDS", c.Analysis.MaxKeywords)
	c.Analysis.MinWordCount = getEnvInt("ANALYSIS_MIN_WORD_COUNT", c.Analysis.MinWordCount)
	c.Analysis.MaxTextLength = getEnvInt("ANALYSIS_MAX_TEXT_LENGTH", c.Analysis.MaxTextLength)

	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.ServerAddress == "" && !c.IsLambda {
		errs = append(errs, errors.New("SERVER_ADDRESS is required"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if c.Grammar.URL == "" {
		errs = append(errs, errors.New("LANGUAGETOOL_URL is required"))
	}
	if c.Grammar.Timeout <= 0 {
		errs = append(errs, errors.New("LANGUAGETOOL_TIMEOUT must be positive"))
	}
	if c.Grammar.FailureThreshold <= 0 || c.Grammar.FailureThreshold > 1 {
		errs = append(errs, errors.New("GRAMMAR_BREAKER_THRESHOLD must be in (0, 1]"))
	}
	if c.Cache.Enabled && (c.Cache.Size <= 0 || c.Cache.TTL <= 0) {
		errs = append(errs, errors.New("cache size and TTL must be positive when the cache is enabled"))
	}
	switch c.Metrics.Provider {
	case MetricsPrometheus, MetricsCloudWatch, MetricsNone:
	default:
		errs = append(errs, fmt.Errorf("unknown METRICS_PROVIDER %q", c.Metrics.Provider))
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("OTEL_EXPORTER_OTLP_ENDPOINT is required when tracing is enabled"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, errors.New("TRACING_SAMPLE_RATIO must be in [0, 1]"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate limit RPM and burst must be positive when enabled"))
	}

	if _, err := c.AnalysisConfig(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// AnalysisConfig resolves the domain analysis configuration for the current
// environment with the configured overrides applied.
func (c *Config) AnalysisConfig() (*domainconfig.AnalysisConfig, error) {
	base := domainconfig.LoadAnalysisConfig(c.Environment)
	cfg := base.WithOverrides(domainconfig.Overrides{
		MaxKeywords:      c.Analysis.MaxKeywords,
		MinWordCount:     c.Analysis.MinWordCount,
		MaxTextLength:    c.Analysis.MaxTextLength,
		ExtraStopWords:   c.Analysis.ExtraStopWords,
		AllowedStopWords: c.Analysis.AllowedStopWords,
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis configuration: %w", err)
	}
	return cfg, nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
