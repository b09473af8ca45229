// internal/handlers/get-restaurants/models.go
package getrestaurants

import "encoding/json"

// Input holds the raw query values. They are forwarded upstream unparsed.
type Input struct {
	Lat    string `json:"lat"`
	Long   string `json:"long"`
	Radius string `json:"radius"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RestaurantSummary is one entry of the response array. Missing upstream
// fields stay nil and are rendered as JSON null.
type RestaurantSummary struct {
	ID       *string
	Name     *string
	Rating   *float64
	Location *Location
	Types    []string
	Photo    *string

	// PhotoAsReference renders Photo under "photo_reference" instead of "photo".
	PhotoAsReference bool
}

type summaryFields struct {
	ID       *string   `json:"id"`
	Name     *string   `json:"name"`
	Rating   *float64  `json:"rating"`
	Location *Location `json:"location"`
	Types    []string  `json:"types"`
}

func (r RestaurantSummary) MarshalJSON() ([]byte, error) {
	types := r.Types
	if types == nil {
		types = []string{}
	}
	fields := summaryFields{
		ID:       r.ID,
		Name:     r.Name,
		Rating:   r.Rating,
		Location: r.Location,
		Types:    types,
	}

	if r.PhotoAsReference {
		return json.Marshal(struct {
			summaryFields
			PhotoReference *string `json:"photo_reference"`
		}{fields, r.Photo})
	}
	return json.Marshal(struct {
		summaryFields
		Photo *string `json:"photo"`
	}{fields, r.Photo})
}
