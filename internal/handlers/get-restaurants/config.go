// internal/handlers/get-restaurants/config.go
package getrestaurants

import (
	"strconv"

	"restaurant-api/internal/common/config"
)

type Config struct {
	DefaultRadius string
	PlaceType     string
	PhotoURLMode  string
	PhotoMaxWidth int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		DefaultRadius: strconv.Itoa(cfg.Restaurants.DefaultRadius),
		PlaceType:     cfg.Places.PlaceType,
		PhotoURLMode:  cfg.Restaurants.PhotoURLMode,
		PhotoMaxWidth: cfg.Restaurants.PhotoMaxWidth,
	}
}
