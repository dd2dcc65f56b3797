package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Database    DatabaseConfig
	Shopify     ShopifyConfig
	WooCommerce WooCommerceConfig
	Health      HealthConfig
	API         APIConfig
	CatalogPath string // CATALOG_PATH: optional YAML taxonomy/collection overrides
	ReportDir   string // REPORT_DIR: where JSON reports are written
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether an audit database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type ShopifyConfig struct {
	ShopDomain     string
	AccessToken    string
	APIVersion     string
	MinInterval    time.Duration // minimum spacing between two API calls
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// WooCommerceConfig is the secondary store used for price/stock comparison
type WooCommerceConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	MinInterval    time.Duration
}

// Configured reports whether the WooCommerce source is set up
func (w WooCommerceConfig) Configured() bool {
	return w.BaseURL != "" && w.ConsumerKey != "" && w.ConsumerSecret != ""
}

type HealthConfig struct {
	MinProducts   int
	TooBroadShare float64
	OrphanIgnore  []string
}

type APIConfig struct {
	KeyHash string // REPORT_API_KEY_HASH: bcrypt hash of the report API key
}

// Load reads .env files into the environment, then resolves every key from the
// process environment first and storeops.yaml second.
func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	minInterval, err := getDuration(v, "SHOPIFY_MIN_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	retryBase, err := getDuration(v, "SHOPIFY_RETRY_BASE_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	wooInterval, err := getDuration(v, "WOO_MIN_INTERVAL", 250*time.Millisecond)
	if err != nil {
		return nil, err
	}
	maxRetries, err := getInt(v, "SHOPIFY_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	minProducts, err := getInt(v, "MIN_PRODUCTS", 1)
	if err != nil {
		return nil, err
	}
	share, err := getFloat(v, "TOO_BROAD_SHARE", 0.95)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper(v, "PORT", "8080"),
		Environment: getEnvOrViper(v, "ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper(v, "LOG_LEVEL", "info"),
		Database:    databaseConfig(v),
		Shopify: ShopifyConfig{
			ShopDomain:     strings.TrimSpace(getEnvOrViper(v, "SHOPIFY_SHOP_DOMAIN", "")),
			AccessToken:    strings.TrimSpace(getEnvOrViper(v, "SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:     getEnvOrViper(v, "SHOPIFY_API_VERSION", "2024-07"),
			MinInterval:    minInterval,
			MaxRetries:     maxRetries,
			RetryBaseDelay: retryBase,
		},
		WooCommerce: WooCommerceConfig{
			BaseURL:        strings.TrimSpace(getEnvOrViper(v, "WOO_BASE_URL", "")),
			ConsumerKey:    strings.TrimSpace(getEnvOrViper(v, "WOO_CONSUMER_KEY", "")),
			ConsumerSecret: strings.TrimSpace(getEnvOrViper(v, "WOO_CONSUMER_SECRET", "")),
			MinInterval:    wooInterval,
		},
		Health: HealthConfig{
			MinProducts:   minProducts,
			TooBroadShare: share,
			OrphanIgnore:  splitList(getEnvOrViper(v, "ORPHAN_IGNORE", "frontpage,all")),
		},
		API: APIConfig{
			KeyHash: strings.TrimSpace(getEnvOrViper(v, "REPORT_API_KEY_HASH", "")),
		},
		CatalogPath: strings.TrimSpace(getEnvOrViper(v, "CATALOG_PATH", "")),
		ReportDir:   getEnvOrViper(v, "REPORT_DIR", "reports"),
	}

	// Validate required fields
	if cfg.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}
	if cfg.Shopify.MaxRetries < 1 {
		return nil, fmt.Errorf("SHOPIFY_MAX_RETRIES must be at least 1")
	}
	if cfg.Health.TooBroadShare < 0 || cfg.Health.TooBroadShare > 1 {
		return nil, fmt.Errorf("TOO_BROAD_SHARE must be between 0 and 1")
	}

	return cfg, nil
}

// newViper loads .env files into the environment and reads the optional storeops.yaml
func newViper() (*viper.Viper, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("storeops")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	// storeops.yaml is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// LoadDatabase resolves only the database keys, for tools that never talk to Shopify
func LoadDatabase() (DatabaseConfig, error) {
	v, err := newViper()
	if err != nil {
		return DatabaseConfig{}, err
	}
	return databaseConfig(v), nil
}

func databaseConfig(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:     strings.TrimSpace(getEnvOrViper(v, "DB_HOST", "")),
		Port:     getEnvOrViper(v, "DB_PORT", "5432"),
		User:     getEnvOrViper(v, "DB_USER", "postgres"),
		Password: getEnvOrViper(v, "DB_PASSWORD", "postgres"),
		DBName:   getEnvOrViper(v, "DB_NAME", "storeops"),
		SSLMode:  getEnvOrViper(v, "DB_SSLMODE", "disable"),
	}
}

func getEnvOrViper(v *viper.Viper, key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return defaultValue
}

func getDuration(v *viper.Viper, key string, def time.Duration) (time.Duration, error) {
	raw := getEnvOrViper(v, key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getInt(v *viper.Viper, key string, def int) (int, error) {
	raw := getEnvOrViper(v, key, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func getFloat(v *viper.Viper, key string, def float64) (float64, error) {
	raw := getEnvOrViper(v, key, "")
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return f, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
