package geo

import (
	"testing"
	"time"
)

type candidate struct {
	name      string
	lat, lng  *float64
	emergency bool
	created   time.Time
}

func (c candidate) Coordinates() (float64, float64, bool) {
	if c.lat == nil || c.lng == nil {
		return 0, 0, false
	}
	return *c.lat, *c.lng, true
}
func (c candidate) Emergency() bool    { return c.emergency }
func (c candidate) Created() time.Time { return c.created }

func ptr(f float64) *float64 { return &f }

func names(ranked []Ranked[candidate]) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Item.name)
	}
	return out
}

func assertOrder(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
}

func TestRankDistanceBeatsEmergency(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []candidate{
		{name: "R3", created: t1.Add(2 * time.Hour)},
		{name: "R2", lat: ptr(27.9), lng: ptr(85.5), emergency: true, created: t1.Add(time.Hour)},
		{name: "R1", lat: ptr(27.71), lng: ptr(85.31), created: t1},
	}

	ranked := Rank(&Point{Lat: 27.7, Lng: 85.3}, DefaultRadiusKm, items)
	assertOrder(t, names(ranked), "R1", "R2", "R3")

	if !ranked[0].InRange || !ranked[1].InRange {
		t.Fatalf("R1 and R2 should be in range")
	}
	if ranked[2].InRange || ranked[2].Distance != nil {
		t.Fatalf("R3 has no coordinates and must have no distance")
	}
	if d := *ranked[0].Distance; d < 1 || d > 2 {
		t.Fatalf("R1 distance should be ~1.5km, got %f", d)
	}
}

func TestRankOutOfRangeAfterInRange(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []candidate{
		{name: "far", lat: ptr(28.2), lng: ptr(83.98), created: base.Add(time.Hour)},
		{name: "near", lat: ptr(27.68), lng: ptr(85.32), created: base},
		{name: "unknown", created: base.Add(2 * time.Hour)},
	}

	ranked := Rank(&Point{Lat: 27.7, Lng: 85.3}, 50, items)
	assertOrder(t, names(ranked), "near", "far", "unknown")
	if ranked[1].InRange {
		t.Fatalf("far should be out of range")
	}
}

func TestRankTieBreaks(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []candidate{
		{name: "old", created: base},
		{name: "emergency-old", emergency: true, created: base},
		{name: "new", created: base.Add(time.Hour)},
		{name: "emergency-new", emergency: true, created: base.Add(time.Hour)},
	}

	ranked := Rank[candidate](nil, DefaultRadiusKm, items)
	assertOrder(t, names(ranked), "emergency-new", "emergency-old", "new", "old")
}

func TestRankSameDistanceEmergencyFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []candidate{
		{name: "plain", lat: ptr(27.71), lng: ptr(85.31), created: base.Add(time.Hour)},
		{name: "urgent", lat: ptr(27.71), lng: ptr(85.31), emergency: true, created: base},
	}
	ranked := Rank(&Point{Lat: 27.7, Lng: 85.3}, DefaultRadiusKm, items)
	assertOrder(t, names(ranked), "urgent", "plain")
}

func TestRankEmpty(t *testing.T) {
	ranked := Rank[candidate](&Point{}, DefaultRadiusKm, nil)
	if len(ranked) != 0 {
		t.Fatalf("expected empty result")
	}
}
