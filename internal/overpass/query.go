// Package overpass talks to an Overpass API interpreter, the external
// point-of-interest source used for nearby restaurant search.
package overpass

import (
	"fmt"
	"strconv"
	"strings"
)

// Search radius bounds in meters.
const (
	DefaultRadius = 600
	MinRadius     = 100
	MaxRadius     = 5000
)

// amenityPattern selects the amenity types treated as lunch venues.
const amenityPattern = "restaurant|fast_food|cafe"

// ClampRadius parses a radius in meters. Non-numeric input yields DefaultRadius,
// and the result is always within [MinRadius, MaxRadius]. It never fails.
func ClampRadius(raw string) int {
	radius, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		radius = DefaultRadius
	}
	return min(max(radius, MinRadius), MaxRadius)
}

// SanitizeCuisine strips quote characters so the value cannot terminate the
// string literal it is interpolated into. It is not a general injection defense.
func SanitizeCuisine(cuisine string) string {
	return strings.NewReplacer(`"`, "", `'`, "").Replace(strings.TrimSpace(cuisine))
}

// cuisineFilter returns the tag filter for cuisine, or "" when unfiltered.
func cuisineFilter(cuisine string) string {
	c := SanitizeCuisine(cuisine)
	if c == "" || strings.EqualFold(c, "all") {
		return ""
	}
	return fmt.Sprintf(`["cuisine"~"%s",i]`, c)
}

// BuildQuery returns the Overpass QL query selecting nodes, ways and relations
// tagged as lunch venues within radius meters of (lat, lon). Area results carry
// a center coordinate.
func BuildQuery(lat, lon float64, radius int, cuisine string) string {
	filter := cuisineFilter(cuisine)
	around := fmt.Sprintf("(around:%d,%s,%s)", radius,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, kind := range []string{"node", "way", "relation"} {
		fmt.Fprintf(&b, "  %s[\"amenity\"~\"%s\"]%s%s;\n", kind, amenityPattern, filter, around)
	}
	b.WriteString(");\nout center;\n")
	return b.String()
}
