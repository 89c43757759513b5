package geocode

import (
	"encoding/json"
	"strconv"
)

// BoundingRing builds a closed rectangle from a south, north, west, east box.
// Points are [lon, lat] and run south-west, south-east, north-east,
// north-west and back.
func BoundingRing(bbox [4]float64) [][]float64 {
	s, n, w, e := bbox[0], bbox[1], bbox[2], bbox[3]
	return [][]float64{{w, s}, {e, s}, {e, n}, {w, n}, {w, s}}
}

type geoJSON struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// polygonFrom picks the polygon rings of a GeoJSON geometry. A MultiPolygon
// contributes its first polygon; any other geometry yields nil.
func polygonFrom(g *geoJSON) [][][]float64 {
	if g == nil || len(g.Coordinates) == 0 {
		return nil
	}
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil || len(rings) == 0 {
			return nil
		}
		return rings
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil || len(polys) == 0 || len(polys[0]) == 0 {
			return nil
		}
		return polys[0]
	}
	return nil
}

// place is one entry of the search response.
type place struct {
	PlaceID     json.Number `json:"place_id"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
	BoundingBox []string    `json:"boundingbox"`
	DisplayName string      `json:"display_name"`
	GeoJSON     *geoJSON    `json:"geojson,omitempty"`
}

func (p place) normalise() *Result {
	r := &Result{
		PlaceID:     p.PlaceID.String(),
		DisplayName: p.DisplayName,
	}

	lat, latErr := strconv.ParseFloat(p.Lat, 64)
	lon, lonErr := strconv.ParseFloat(p.Lon, 64)
	if latErr == nil && lonErr == nil {
		r.Latitude, r.Longitude, r.HasCoordinates = lat, lon, true
	}

	bboxOK := len(p.BoundingBox) == 4
	for i := 0; bboxOK && i < 4; i++ {
		v, err := strconv.ParseFloat(p.BoundingBox[i], 64)
		if err != nil {
			bboxOK = false
			break
		}
		r.BoundingBox[i] = v
	}
	if !bboxOK {
		r.BoundingBox = [4]float64{r.Latitude, r.Latitude, r.Longitude, r.Longitude}
	}

	r.Polygon = polygonFrom(p.GeoJSON)
	if len(r.Polygon) == 0 {
		r.Polygon = [][][]float64{BoundingRing(r.BoundingBox)}
	}
	return r
}
