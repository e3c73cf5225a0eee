package models

// Exclusion is a user's "never suggest this venue again" marker, keyed by
// (UserID, POIType, POIID). The name, address and coordinates are a snapshot of
// the venue taken when the exclusion was last added.
type Exclusion struct {
	ID      string   `json:"id" bson:"_id"`
	UserID  string   `json:"userId" bson:"userId"`
	POIType string   `json:"poiType" bson:"poiType"`
	POIID   int64    `json:"poiId" bson:"poiId"`
	Name    string   `json:"name" bson:"name"`
	Address string   `json:"address" bson:"address"`
	Lat     *float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty" bson:"lon,omitempty"`

	// CreatedAt is kept from the first insert; re-adding the same venue does not reset it.
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
}

// ExclusionKey identifies a venue within one user's exclusion list.
type ExclusionKey struct {
	POIType string
	POIID   int64
}

// Key returns the (POIType, POIID) pair of the exclusion.
func (e *Exclusion) Key() ExclusionKey {
	return ExclusionKey{POIType: e.POIType, POIID: e.POIID}
}
