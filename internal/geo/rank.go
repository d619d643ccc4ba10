package geo

import (
	"math"
	"sort"
	"time"
)

// DefaultRadiusKm is the "nearby" radius when none is configured.
const DefaultRadiusKm = 50.0

// Candidate is anything with an optional location that can be ranked.
type Candidate interface {
	Coordinates() (lat float64, lng float64, ok bool)
	Emergency() bool
	Created() time.Time
}

type Ranked[T Candidate] struct {
	Item     T
	Distance *float64
	InRange  bool
}

// Rank orders items for a viewer at ref: in-range first, then nearest,
// then emergencies, then newest. A nil ref leaves every distance unknown.
func Rank[T Candidate](ref *Point, radiusKm float64, items []T) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		r := Ranked[T]{Item: item}
		if ref != nil {
			if lat, lng, ok := item.Coordinates(); ok {
				d := Haversine(*ref, Point{Lat: lat, Lng: lng})
				r.Distance = &d
				r.InRange = d <= radiusKm
			}
		}
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})

	return ranked
}

func less[T Candidate](a, b Ranked[T]) bool {
	if a.InRange != b.InRange {
		return a.InRange
	}

	da, db := distanceKey(a.Distance), distanceKey(b.Distance)
	if da != db {
		return da < db
	}

	ea, eb := a.Item.Emergency(), b.Item.Emergency()
	if ea != eb {
		return ea
	}

	return a.Item.Created().After(b.Item.Created())
}

func distanceKey(d *float64) float64 {
	if d == nil {
		return math.Inf(1)
	}
	return *d
}
