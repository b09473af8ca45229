package getrestaurants

import "restaurant-api/internal/common/places"

// PhotoFunc turns a photo reference into the value emitted for the photo field.
type PhotoFunc func(ref string) string

// Transform reduces upstream places to summaries, one per result in the
// same order. asReference selects the photo_reference key.
func Transform(results []places.Place, photo PhotoFunc, asReference bool) []RestaurantSummary {
	out := make([]RestaurantSummary, 0, len(results))
	for _, p := range results {
		summary := RestaurantSummary{
			ID:               p.PlaceID,
			Name:             p.Name,
			Rating:           p.Rating,
			Types:            p.Types,
			PhotoAsReference: asReference,
		}
		if loc := p.Location(); loc != nil {
			summary.Location = &Location{Lat: loc.Lat, Lng: loc.Lng}
		}
		if ref, ok := p.FirstPhotoReference(); ok {
			value := ref
			if photo != nil {
				value = photo(ref)
			}
			summary.Photo = &value
		}
		out = append(out, summary)
	}
	return out
}
