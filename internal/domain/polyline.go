package domain

import (
	"fmt"

	"github.com/twpayne/go-polyline"
)

// DecodePolyline decodes an encoded polyline (precision 5, lat/lng pairs)
// into points.
func DecodePolyline(encoded string) ([]GeoPoint, error) {
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
	}

	points := make([]GeoPoint, 0, len(coords))
	for _, c := range coords {
		points = append(points, GeoPoint{Lon: c[1], Lat: c[0]})
	}
	return points, nil
}

// EncodePolyline is the inverse of DecodePolyline.
func EncodePolyline(points []GeoPoint) string {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
