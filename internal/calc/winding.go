package calc

// WindingSpec maps a core inner-diameter range to the recommended spiral
// winding angle and its precomputed length factor (1/cos(angle)).
type WindingSpec struct {
	ID           int
	MinCoreID    float64 // mm, inclusive
	MaxCoreID    float64 // mm, inclusive; 0 means open-ended
	Angle        float64 // degrees
	LengthFactor float64
}

// DefaultCoreID is assumed when a product spec carries no inner diameter.
const DefaultCoreID = 76.0

// windingSpecs is the fixed angle table used on the shop floor. Factors are
// precomputed so the table stays auditable against the printed chart.
var windingSpecs = []WindingSpec{
	{ID: 1, MinCoreID: 15, MaxCoreID: 20, Angle: 72, LengthFactor: 3.2361},
	{ID: 2, MinCoreID: 21, MaxCoreID: 30, Angle: 70, LengthFactor: 2.9238},
	{ID: 3, MinCoreID: 31, MaxCoreID: 50, Angle: 68, LengthFactor: 2.6695},
	{ID: 4, MinCoreID: 51, MaxCoreID: 70, Angle: 66, LengthFactor: 2.4586},
	{ID: 5, MinCoreID: 71, MaxCoreID: 120, Angle: 65, LengthFactor: 2.3662},
	{ID: 6, MinCoreID: 121, MaxCoreID: 200, Angle: 64, LengthFactor: 2.2812},
	{ID: 7, MinCoreID: 201, MaxCoreID: 0, Angle: 62, LengthFactor: 2.1301},
}

// fallbackWindingSpecID is the [71,120] entry, the house standard range.
const fallbackWindingSpecID = 5

// WindingSpecs returns a copy of the winding-angle table.
func WindingSpecs() []WindingSpec {
	specs := make([]WindingSpec, len(windingSpecs))
	copy(specs, windingSpecs)
	return specs
}

// LookupWindingSpec resolves the winding spec for a product. An explicit
// specID wins; otherwise the entry whose diameter range contains coreID is
// used (coreID <= 0 is treated as DefaultCoreID). The second return value
// is false when nothing matched and the fallback entry was substituted.
func LookupWindingSpec(specID int, coreID float64) (WindingSpec, bool) {
	if specID > 0 {
		for _, ws := range windingSpecs {
			if ws.ID == specID {
				return ws, true
			}
		}
	}

	if coreID <= 0 {
		coreID = DefaultCoreID
	}
	for _, ws := range windingSpecs {
		if coreID < ws.MinCoreID {
			continue
		}
		if ws.MaxCoreID == 0 || coreID <= ws.MaxCoreID {
			return ws, true
		}
	}

	for _, ws := range windingSpecs {
		if ws.ID == fallbackWindingSpecID {
			return ws, false
		}
	}
	return WindingSpec{}, false
}
