// internal/handlers/get-restaurants/handler.go
package getrestaurants

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"restaurant-api/internal/common/config"
	"restaurant-api/internal/common/logger"
	"restaurant-api/internal/common/metrics"
	"restaurant-api/internal/common/places"
)

const (
	Route = "/get_restaurants"
)

// PlacesSearcher is the upstream dependency of the handler.
type PlacesSearcher interface {
	NearbySearch(ctx context.Context, req places.NearbySearchRequest) (*places.NearbySearchResponse, error)
	PhotoURL(ref string, maxWidth int) string
}

type Handler struct {
	config *Config
	places PlacesSearcher
	logger logger.Logger
}

func NewHandler(config *Config, searcher PlacesSearcher, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		places: searcher,
		logger: log.With(map[string]interface{}{
			"handler": "get-restaurants",
		}),
	}
}

// Handle binds GET /get_restaurants. "long" wins over "lng" when both are sent.
func (h *Handler) Handle(c *fiber.Ctx) error {
	input := Input{
		Lat:    c.Query("lat"),
		Long:   c.Query("long"),
		Radius: c.Query("radius", h.config.DefaultRadius),
	}
	if input.Long == "" {
		input.Long = c.Query("lng")
	}

	summaries, err := h.Execute(c.UserContext(), input)
	if err != nil {
		return err
	}

	h.logger.Info("restaurants returned", map[string]interface{}{
		"requestId": c.GetRespHeader(fiber.HeaderXRequestID),
		"count":     len(summaries),
	})

	return c.JSON(summaries)
}

// Execute runs one lookup without any HTTP plumbing.
func (h *Handler) Execute(ctx context.Context, input Input) ([]RestaurantSummary, error) {
	radius := input.Radius
	if radius == "" {
		radius = h.config.DefaultRadius
	}

	start := time.Now()
	resp, err := h.places.NearbySearch(ctx, places.NearbySearchRequest{
		Lat:    input.Lat,
		Lng:    input.Long,
		Radius: radius,
		Type:   h.config.PlaceType,
	})
	if err != nil {
		return nil, err
	}

	asReference := h.config.PhotoURLMode == config.PhotoModeRawReference
	photo := func(ref string) string {
		return h.places.PhotoURL(ref, h.config.PhotoMaxWidth)
	}
	if asReference {
		photo = nil
	}

	summaries := Transform(resp.Results, photo, asReference)
	metrics.RestaurantsReturned.Observe(float64(len(summaries)))

	h.logger.Debug("lookup completed", map[string]interface{}{
		"lat":        input.Lat,
		"long":       input.Long,
		"radius":     radius,
		"status":     resp.Status,
		"count":      len(summaries),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return summaries, nil
}
