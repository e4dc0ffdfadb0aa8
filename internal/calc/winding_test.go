package calc

import (
	"math"
	"testing"
)

func TestLookupWindingSpec_ByDiameter(t *testing.T) {
	cases := []struct {
		coreID     float64
		wantAngle  float64
		wantFactor float64
	}{
		{coreID: 15, wantAngle: 72, wantFactor: 3.236},
		{coreID: 76, wantAngle: 65, wantFactor: 2.366},
		{coreID: 120, wantAngle: 65, wantFactor: 2.366},
		{coreID: 121, wantAngle: 64, wantFactor: 2.281},
		{coreID: 999, wantAngle: 62, wantFactor: 2.130},
	}

	for _, tc := range cases {
		ws, matched := LookupWindingSpec(0, tc.coreID)
		if !matched {
			t.Fatalf("coreID=%v: expected a range match", tc.coreID)
		}
		if ws.Angle != tc.wantAngle {
			t.Fatalf("coreID=%v: angle = %v, want %v", tc.coreID, ws.Angle, tc.wantAngle)
		}
		if math.Abs(ws.LengthFactor-tc.wantFactor) > 1e-3 {
			t.Fatalf("coreID=%v: lengthFactor = %v, want ~%v", tc.coreID, ws.LengthFactor, tc.wantFactor)
		}
	}
}

func TestLookupWindingSpec_ExplicitIDWins(t *testing.T) {
	ws, matched := LookupWindingSpec(1, 999)
	if !matched {
		t.Fatalf("expected explicit id to match")
	}
	if ws.Angle != 72 {
		t.Fatalf("angle = %v, want 72 from explicit spec 1", ws.Angle)
	}
}

func TestLookupWindingSpec_MissingDiameterUsesDefault(t *testing.T) {
	ws, matched := LookupWindingSpec(0, 0)
	if !matched {
		t.Fatalf("expected default diameter to resolve a range")
	}
	if ws.Angle != 65 {
		t.Fatalf("angle = %v, want 65 for the default 76mm core", ws.Angle)
	}
}

func TestLookupWindingSpec_BelowTableFallsBack(t *testing.T) {
	ws, matched := LookupWindingSpec(0, 8)
	if matched {
		t.Fatalf("8mm is below the table, expected fallback")
	}
	if ws.Angle != 65 {
		t.Fatalf("angle = %v, want the 65° fallback entry", ws.Angle)
	}
}

func TestWindingSpec_FactorsMatchAngles(t *testing.T) {
	for _, ws := range WindingSpecs() {
		want := 1 / math.Cos(ws.Angle*math.Pi/180)
		if math.Abs(ws.LengthFactor-want) > 5e-4 {
			t.Fatalf("spec %d: lengthFactor %v does not match 1/cos(%v°) = %v", ws.ID, ws.LengthFactor, ws.Angle, want)
		}
	}
}
