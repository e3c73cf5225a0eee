package models

// Venue categories derived from the POI amenity tag.
const (
	CategoryRestaurant = "restaurant"
	CategoryFastFood   = "fast_food"
	CategoryCafe       = "cafe"
	CategoryOther      = "other"
)

// UnnamedVenue is the placeholder name for POIs without a name tag.
const UnnamedVenue = "unnamed"

// Venue is a nearby restaurant in canonical form, as returned by venue discovery.
type Venue struct {
	POIType  string
	POIID    int64
	Name     string
	Address  string
	Lat      float64
	Lon      float64
	Category string
	Cuisine  string

	// Distance from the caller in meters.
	Distance float64

	// IsExcluded is set when the venue is on the caller's exclusion list;
	// ExclusionID then identifies the record to remove.
	IsExcluded  bool
	ExclusionID string
}

// Key returns the exclusion key matching this venue.
func (v *Venue) Key() ExclusionKey {
	return ExclusionKey{POIType: v.POIType, POIID: v.POIID}
}
