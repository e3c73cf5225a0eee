// Package discovery finds lunch venues near a coordinate and flags the ones the
// caller has excluded.
package discovery

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/lunchpicker/lunchpicker/internal/geo"
	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/overpass"
)

// ErrInvalidCoordinates is returned when lat or lon is missing, non-numeric or out of range.
var ErrInvalidCoordinates = errors.New("lat and lon must be valid coordinates")

// Source returns raw points of interest around a coordinate.
type Source interface {
	Search(ctx context.Context, lat, lon float64, radius int, cuisine string) ([]overpass.Element, error)
}

// ExclusionLister returns the exclusions of a user.
type ExclusionLister interface {
	ListExclusions(ctx context.Context, userID string) ([]*models.Exclusion, error)
}

// Params is a validated search request.
type Params struct {
	Lat     float64
	Lon     float64
	Radius  int
	Cuisine string
}

// ParseParams validates raw request input. Coordinates must parse and lie in
// range; the radius is clamped or defaulted and never rejected.
func ParseParams(lat, lon, radius, cuisine string) (Params, error) {
	la, err := parseCoordinate(lat, 90)
	if err != nil {
		return Params{}, fmt.Errorf("%w: lat %q", ErrInvalidCoordinates, lat)
	}
	lo, err := parseCoordinate(lon, 180)
	if err != nil {
		return Params{}, fmt.Errorf("%w: lon %q", ErrInvalidCoordinates, lon)
	}

	return Params{
		Lat:     la,
		Lon:     lo,
		Radius:  overpass.ClampRadius(radius),
		Cuisine: strings.TrimSpace(cuisine),
	}, nil
}

func parseCoordinate(raw string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.Abs(v) > limit {
		return 0, errors.New("out of range")
	}
	return v, nil
}

// Finder runs the discovery pipeline: query, normalize, measure, flag, rank.
type Finder struct {
	source     Source
	exclusions ExclusionLister
}

// NewFinder creates a Finder backed by source and the caller's exclusion list.
func NewFinder(source Source, exclusions ExclusionLister) *Finder {
	return &Finder{source: source, exclusions: exclusions}
}

// Search returns venues around p sorted by ascending distance. Upstream failures
// are returned as errors wrapping overpass.ErrUpstream, never as an empty result.
func (f *Finder) Search(ctx context.Context, userID string, p Params) ([]models.Venue, error) {
	elements, err := f.source.Search(ctx, p.Lat, p.Lon, p.Radius, p.Cuisine)
	if err != nil {
		return nil, err
	}

	excluded, err := f.exclusionIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	venues := make([]models.Venue, 0, len(elements))
	dropped := 0
	for _, e := range elements {
		v, ok := geo.Normalize(e)
		if !ok {
			dropped++
			continue
		}
		v.Distance = geo.Haversine(p.Lat, p.Lon, v.Lat, v.Lon)
		if id, ok := excluded[v.Key()]; ok {
			v.IsExcluded = true
			v.ExclusionID = id
		}
		venues = append(venues, v)
	}

	slices.SortStableFunc(venues, func(a, b models.Venue) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	slog.Debug("Venue search complete",
		"user_id", userID,
		"results", len(venues),
		"dropped", dropped,
		"radius", p.Radius,
	)

	return venues, nil
}

func (f *Finder) exclusionIndex(ctx context.Context, userID string) (map[models.ExclusionKey]string, error) {
	index := make(map[models.ExclusionKey]string)
	if userID == "" {
		return index, nil
	}

	list, err := f.exclusions.ListExclusions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusions: %w", err)
	}
	for _, e := range list {
		index[e.Key()] = e.ID
	}
	return index, nil
}
