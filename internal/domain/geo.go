package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	earthRadiusMiles = 3958.8
	MetersPerMile    = 1609.34
)

// Immutable geographic point (longitude, latitude) in WGS 84.
type GeoPoint struct {
	Lon float64
	Lat float64
}

// Return the point as [lon, lat] for external API compatibility.
func (p GeoPoint) CoordsToList() []float64 { return []float64{p.Lon, p.Lat} }

// Validate reports whether the point lies inside the geographic datum bounds.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lon) || math.IsNaN(p.Lat) || math.IsInf(p.Lon, 0) || math.IsInf(p.Lat, 0) {
		return fmt.Errorf("coordinates must be finite numbers")
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", p.Lat)
	}
	return nil
}

// Key renders the point with fixed precision so it can be used as a cache key.
func (p GeoPoint) Key() string {
	return strconv.FormatFloat(p.Lon, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lat, 'f', 6, 64)
}

// ParseGeoPoint parses a "lon, lat" string. Whitespace anywhere is ignored.
func ParseGeoPoint(s string) (GeoPoint, error) {
	compact := strings.Join(strings.Fields(s), "")
	parts := strings.Split(compact, ",")
	if len(parts) != 2 {
		return GeoPoint{}, fmt.Errorf("expected \"lon, lat\", got %q", s)
	}

	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("parse longitude %q: %w", parts[0], err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("parse latitude %q: %w", parts[1], err)
	}

	p := GeoPoint{Lon: lon, Lat: lat}
	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

// HaversineMiles returns the great-circle distance between two points in miles.
func HaversineMiles(a, b GeoPoint) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

// Box is a lon/lat rectangle with Min.Lon <= Max.Lon.
type Box struct {
	Min GeoPoint
	Max GeoPoint
}

// BoundingBoxes returns the lon/lat rectangles that together contain every
// point within radiusMiles of center. A circle crossing the antimeridian is
// split into one box on each side; one reaching a pole spans all longitudes.
func BoundingBoxes(center GeoPoint, radiusMiles float64) []Box {
	const milesPerDegreeLat = 69.0
	dLat := radiusMiles / milesPerDegreeLat
	minLat := math.Max(center.Lat-dLat, -90)
	maxLat := math.Min(center.Lat+dLat, 90)

	dLon := 180.0
	if cosLat := math.Cos(center.Lat * math.Pi / 180); cosLat > 1e-6 {
		dLon = radiusMiles / (milesPerDegreeLat * cosLat)
	}
	if dLon >= 180 || minLat <= -90 || maxLat >= 90 {
		return []Box{{Min: GeoPoint{Lon: -180, Lat: minLat}, Max: GeoPoint{Lon: 180, Lat: maxLat}}}
	}

	west, east := center.Lon-dLon, center.Lon+dLon
	switch {
	case west < -180:
		return []Box{
			{Min: GeoPoint{Lon: west + 360, Lat: minLat}, Max: GeoPoint{Lon: 180, Lat: maxLat}},
			{Min: GeoPoint{Lon: -180, Lat: minLat}, Max: GeoPoint{Lon: east, Lat: maxLat}},
		}
	case east > 180:
		return []Box{
			{Min: GeoPoint{Lon: west, Lat: minLat}, Max: GeoPoint{Lon: 180, Lat: maxLat}},
			{Min: GeoPoint{Lon: -180, Lat: minLat}, Max: GeoPoint{Lon: east - 360, Lat: maxLat}},
		}
	default:
		return []Box{{Min: GeoPoint{Lon: west, Lat: minLat}, Max: GeoPoint{Lon: east, Lat: maxLat}}}
	}
}
