package domain

// SearchResult is one candidate location returned by a geocoder.
// Values are treated as immutable once received.
type SearchResult struct {
	PlaceID     int64     `json:"place_id" yaml:"place_id"`
	Lat         float64   `json:"lat" yaml:"lat"`
	Lon         float64   `json:"lon" yaml:"lon"`
	DisplayName string    `json:"display_name" yaml:"display_name"`
	Class       string    `json:"class,omitempty" yaml:"class,omitempty"`
	Type        string    `json:"type,omitempty" yaml:"type,omitempty"`
	Importance  float64   `json:"importance,omitempty" yaml:"importance,omitempty"`
	Address     *Address  `json:"address,omitempty" yaml:"address,omitempty"`
	BoundingBox []float64 `json:"boundingbox,omitempty" yaml:"boundingbox,omitempty"`
}

// Address holds the structured address fields the picker uses.
// Anything else a geocoder returns is dropped.
type Address struct {
	CountryCode string `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Postcode    string `json:"postcode,omitempty" yaml:"postcode,omitempty"`
	City        string `json:"city,omitempty" yaml:"city,omitempty"`
	State       string `json:"state,omitempty" yaml:"state,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
}

// Location is a confirmed selection handed to the caller.
type Location = SearchResult

// CountryCode returns the result's ISO country code, or "" if unknown.
func (r SearchResult) CountryCode() string {
	if r.Address == nil {
		return ""
	}
	return r.Address.CountryCode
}

// Postcode returns the result's postcode, or "" if unknown.
func (r SearchResult) Postcode() string {
	if r.Address == nil {
		return ""
	}
	return r.Address.Postcode
}
