package places

// NearbySearchRequest carries the caller's values verbatim; nothing is
// parsed or range-checked before it reaches the upstream API.
type NearbySearchRequest struct {
	Lat    string
	Lng    string
	Radius string
	Type   string
}

// NearbySearchResponse is the subset of the nearby-search envelope we read.
// next_page_token is not decoded since only the first page is served.
type NearbySearchResponse struct {
	Results      []Place `json:"results"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// Place is one upstream search result. Every field is optional.
type Place struct {
	PlaceID  *string   `json:"place_id"`
	Name     *string   `json:"name"`
	Rating   *float64  `json:"rating"`
	Geometry *Geometry `json:"geometry"`
	Types    []string  `json:"types"`
	Photos   []Photo   `json:"photos"`
}

type Geometry struct {
	Location *LatLng `json:"location"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Photo struct {
	PhotoReference string `json:"photo_reference"`
}

// FirstPhotoReference returns the reference of the first photo. A first photo
// without a reference counts as no photo.
func (p Place) FirstPhotoReference() (string, bool) {
	if len(p.Photos) == 0 || p.Photos[0].PhotoReference == "" {
		return "", false
	}
	return p.Photos[0].PhotoReference, true
}

// Location returns geometry.location or nil when either level is missing.
func (p Place) Location() *LatLng {
	if p.Geometry == nil {
		return nil
	}
	return p.Geometry.Location
}
