package models

import (
	"math"
	"testing"
)

func TestDistanceFromSamePoint(t *testing.T) {
	p := Location{Latitude: 40.0, Longitude: -75.0}
	if d := p.DistanceFrom(p); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestDistanceFromKnownPoints(t *testing.T) {
	// Примерно 1.11 км на градус широты / 100
	a := Location{Latitude: 40.0, Longitude: -75.0}
	b := Location{Latitude: 40.01, Longitude: -75.0}

	d := a.DistanceFrom(b)
	if math.Abs(d-1.11) > 0.02 {
		t.Errorf("distance = %v km, want ~1.11 km", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Location{Latitude: 52.52, Longitude: 13.4}
	b := Location{Latitude: 48.85, Longitude: 2.35}

	if math.Abs(a.DistanceFrom(b)-b.DistanceFrom(a)) > 1e-9 {
		t.Error("distance is not symmetric")
	}
}
