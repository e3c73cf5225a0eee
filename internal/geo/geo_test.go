package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/overpass"
)

func ptr(f float64) *float64 { return &f }

func TestHaversine(t *testing.T) {
	t.Run("identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, Haversine(25.03, 121.56, 25.03, 121.56))
	})

	t.Run("symmetric", func(t *testing.T) {
		pairs := [][4]float64{
			{25.03, 121.56, 25.04, 121.57},
			{51.5, -0.12, 48.85, 2.35},
			{-33.86, 151.2, 35.68, 139.69},
		}
		for _, p := range pairs {
			assert.Equal(t, Haversine(p[0], p[1], p[2], p[3]), Haversine(p[2], p[3], p[0], p[1]))
		}
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		// 2πR/360 ≈ 111195 m
		assert.InDelta(t, 111195, Haversine(0, 0, 1, 0), 1)
	})

	t.Run("london to paris", func(t *testing.T) {
		assert.InDelta(t, 343000, Haversine(51.5074, -0.1278, 48.8566, 2.3522), 2000)
	})
}

func TestBuildAddress(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"empty", map[string]string{}, ""},
		{
			"components in fixed order",
			map[string]string{
				"addr:housenumber": "7",
				"addr:street":      "Xinyi Rd",
				"addr:city":        "Taipei",
				"addr:district":    "Xinyi",
			},
			"Taipei Xinyi Xinyi Rd 7",
		},
		{
			"full address fallback",
			map[string]string{"addr:full": "No. 7, Xinyi Rd"},
			"No. 7, Xinyi Rd",
		},
		{
			"components win over full",
			map[string]string{"addr:full": "ignored", "addr:street": "Main St"},
			"Main St",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildAddress(tt.tags))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("missing name gets placeholder", func(t *testing.T) {
		v, ok := Normalize(overpass.Element{Type: "node", ID: 1, Lat: ptr(1), Lon: ptr(2), Tags: map[string]string{"amenity": "restaurant"}})
		require.True(t, ok)
		assert.Equal(t, models.UnnamedVenue, v.Name)
		assert.Equal(t, models.CategoryRestaurant, v.Category)
	})

	t.Run("categories", func(t *testing.T) {
		cases := map[string]string{
			"bar":        models.CategoryOther,
			"cafe":       models.CategoryCafe,
			"fast_food":  models.CategoryFastFood,
			"restaurant": models.CategoryRestaurant,
			"":           models.CategoryOther,
		}
		for amenity, want := range cases {
			v, _ := Normalize(overpass.Element{Type: "node", Lat: ptr(0), Lon: ptr(0), Tags: map[string]string{"amenity": amenity}})
			assert.Equal(t, want, v.Category, "amenity %q", amenity)
		}
	})

	t.Run("point coordinates", func(t *testing.T) {
		v, ok := Normalize(overpass.Element{
			Type: "node", ID: 42, Lat: ptr(25.03), Lon: ptr(121.56),
			Tags: map[string]string{"name": "Noodle House", "cuisine": "noodle"},
		})
		require.True(t, ok)
		assert.Equal(t, "node", v.POIType)
		assert.Equal(t, int64(42), v.POIID)
		assert.Equal(t, "Noodle House", v.Name)
		assert.Equal(t, "noodle", v.Cuisine)
		assert.Equal(t, 25.03, v.Lat)
		assert.Equal(t, 121.56, v.Lon)
	})

	t.Run("center coordinates for areas", func(t *testing.T) {
		v, ok := Normalize(overpass.Element{
			Type: "way", ID: 7, Center: &overpass.Center{Lat: 25.1, Lon: 121.6},
		})
		require.True(t, ok)
		assert.Equal(t, 25.1, v.Lat)
		assert.Equal(t, 121.6, v.Lon)
	})

	t.Run("indeterminate coordinates", func(t *testing.T) {
		_, ok := Normalize(overpass.Element{Type: "relation", ID: 9})
		assert.False(t, ok)

		_, ok = Normalize(overpass.Element{Type: "node", ID: 9, Lat: ptr(1)})
		assert.False(t, ok)
	})
}
