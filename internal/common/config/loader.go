// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPlacesBaseURL      = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	defaultPlacesPhotoBaseURL = "https://maps.googleapis.com/maps/api/place/photo"
	defaultFrontendOrigin     = "http://localhost:5173"
)

// Load reads .env, configs/config.yaml and configs/config.<env>.yaml (all
// optional), then applies environment overrides, defaults and validation.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	bindEnv(v)
	registerDefaults(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env overlay is optional

	return finalize(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnv(v)
	registerDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Env override like PLACES_API_KEY for places.api_key.
func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// registerDefaults makes every key known to viper so AutomaticEnv can
// override it during Unmarshal.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "restaurant-api")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 30000)
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("cors.allow_origins", []string{defaultFrontendOrigin})
	v.SetDefault("cors.allow_methods", "GET,HEAD,OPTIONS")
	v.SetDefault("cors.allow_headers", "Origin, Content-Type, Accept, X-Request-ID")

	v.SetDefault("places.base_url", defaultPlacesBaseURL)
	v.SetDefault("places.photo_base_url", defaultPlacesPhotoBaseURL)
	v.SetDefault("places.api_key", "")
	v.SetDefault("places.place_type", "restaurant")
	v.SetDefault("places.timeout", 10000)

	v.SetDefault("restaurants.default_radius", 10000)
	v.SetDefault("restaurants.photo_url_mode", PhotoModeBuiltURL)
	v.SetDefault("restaurants.photo_max_width", 400)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age_days", 28)
	v.SetDefault("logging.compress", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load .env from multiple possible locations
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				fmt.Printf("Loaded .env from: %s\n", path)
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		// Unset variables expand to "" so required keys still fail validation.
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Places.APIKey == "" {
		if val := os.Getenv("GOOGLE_API_KEY"); val != "" {
			cfg.Places.APIKey = val
		}
	}

	if val := os.Getenv("PORT"); val != "" && os.Getenv("SERVER_ADDRESS") == "" {
		cfg.Server.Address = ":" + strings.TrimPrefix(val, ":")
	}
}

// applyDefaults guards against explicit zero values in config files.
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":5000"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Places.PlaceType == "" {
		cfg.Places.PlaceType = "restaurant"
	}
	if cfg.Places.Timeout == 0 {
		cfg.Places.Timeout = 10000
	}

	if cfg.Restaurants.PhotoURLMode == "" {
		cfg.Restaurants.PhotoURLMode = PhotoModeBuiltURL
	}
	cfg.Restaurants.PhotoURLMode = strings.ToLower(strings.TrimSpace(cfg.Restaurants.PhotoURLMode))

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	origins := cfg.CORS.AllowOrigins[:0]
	for _, o := range cfg.CORS.AllowOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORS.AllowOrigins = origins
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Places.APIKey == "" {
		return fmt.Errorf("places.api_key is required (set GOOGLE_API_KEY)")
	}
	if cfg.Places.BaseURL == "" {
		return fmt.Errorf("places.base_url is required")
	}
	if cfg.Places.PhotoBaseURL == "" {
		return fmt.Errorf("places.photo_base_url is required")
	}
	if cfg.Places.Timeout < 0 {
		return fmt.Errorf("places.timeout must not be negative")
	}

	if cfg.Restaurants.DefaultRadius <= 0 {
		return fmt.Errorf("restaurants.default_radius must be positive")
	}
	if cfg.Restaurants.PhotoMaxWidth <= 0 {
		return fmt.Errorf("restaurants.photo_max_width must be positive")
	}
	switch cfg.Restaurants.PhotoURLMode {
	case PhotoModeBuiltURL, PhotoModeRawReference:
	default:
		return fmt.Errorf("restaurants.photo_url_mode must be %q or %q, got %q",
			PhotoModeBuiltURL, PhotoModeRawReference, cfg.Restaurants.PhotoURLMode)
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	return nil
}
