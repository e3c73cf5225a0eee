// Package geo turns raw POI records into venues and measures distances between
// coordinates.
package geo

import (
	"math"
	"strings"

	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/overpass"
)

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000.0

// addressKeys are concatenated in this order to build a venue address.
var addressKeys = []string{
	"addr:city",
	"addr:district",
	"addr:suburb",
	"addr:street",
	"addr:housenumber",
}

// Haversine returns the great-circle distance in meters between two coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadius * c
}

// BuildAddress joins the present address components with single spaces, falling
// back to addr:full when none exist.
func BuildAddress(tags map[string]string) string {
	parts := make([]string, 0, len(addressKeys))
	for _, key := range addressKeys {
		if v := tags[key]; v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return tags["addr:full"]
	}
	return strings.Join(parts, " ")
}

// Category maps an amenity tag to a venue category.
func Category(amenity string) string {
	switch a := strings.ToLower(strings.TrimSpace(amenity)); a {
	case models.CategoryRestaurant, models.CategoryFastFood, models.CategoryCafe:
		return a
	default:
		return models.CategoryOther
	}
}

// Normalize converts a raw element into a venue. ok is false when neither a
// point coordinate nor a center coordinate is available.
func Normalize(e overpass.Element) (v models.Venue, ok bool) {
	name := e.Tags["name"]
	if name == "" {
		name = models.UnnamedVenue
	}

	v = models.Venue{
		POIType:  e.Type,
		POIID:    e.ID,
		Name:     name,
		Address:  BuildAddress(e.Tags),
		Category: Category(e.Tags["amenity"]),
		Cuisine:  e.Tags["cuisine"],
	}

	lat, lon := e.Lat, e.Lon
	if e.Center != nil {
		if lat == nil {
			lat = &e.Center.Lat
		}
		if lon == nil {
			lon = &e.Center.Lon
		}
	}
	if lat == nil || lon == nil {
		return v, false
	}
	v.Lat, v.Lon = *lat, *lon
	return v, true
}
