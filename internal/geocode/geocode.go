// Package geocode resolves free-text places through a Nominatim-compatible
// search endpoint and normalises the answer into delivery-area geometry.
package geocode

import "fmt"

// Result is a normalised place. Polygon always holds at least one closed ring.
type Result struct {
	PlaceID        string        `json:"placeId"`
	DisplayName    string        `json:"displayName"`
	Latitude       float64       `json:"latitude"`
	Longitude      float64       `json:"longitude"`
	HasCoordinates bool          `json:"hasCoordinates"`
	BoundingBox    [4]float64    `json:"boundingBox"` // south, north, west, east
	Polygon        [][][]float64 `json:"polygon"`
}

// TransientFetchError is a failed request to the search endpoint. It is
// retried inside the client and never returned to callers.
type TransientFetchError struct {
	Query      string
	StatusCode int
	Err        error
}

func (e *TransientFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocode %q: %v", e.Query, e.Err)
	}
	return fmt.Sprintf("geocode %q: unexpected status %d", e.Query, e.StatusCode)
}

func (e *TransientFetchError) Unwrap() error { return e.Err }
