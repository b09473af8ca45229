// internal/common/config/config.go
package config

import "time"

// Photo URL modes for restaurant summaries.
const (
	PhotoModeBuiltURL     = "built_url"
	PhotoModeRawReference = "raw_reference"
)

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Places      PlacesConfig      `mapstructure:"places"`
	Restaurants RestaurantsConfig `mapstructure:"restaurants"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// CORSConfig controls which browser origins may call the API.
// An empty list or a single "*" leaves CORS unrestricted.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
	AllowMethods string   `mapstructure:"allow_methods"`
	AllowHeaders string   `mapstructure:"allow_headers"`
}

// Unrestricted reports whether every origin is allowed.
func (c CORSConfig) Unrestricted() bool {
	if len(c.AllowOrigins) == 0 {
		return true
	}
	for _, o := range c.AllowOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// PlacesConfig holds settings for the upstream places API.
type PlacesConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	PhotoBaseURL string `mapstructure:"photo_base_url"`
	APIKey       string `mapstructure:"api_key"`
	PlaceType    string `mapstructure:"place_type"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

// RestaurantsConfig unifies the knobs that differed between deployments.
type RestaurantsConfig struct {
	DefaultRadius int    `mapstructure:"default_radius"` // meters
	PhotoURLMode  string `mapstructure:"photo_url_mode"`
	PhotoMaxWidth int    `mapstructure:"photo_max_width"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
