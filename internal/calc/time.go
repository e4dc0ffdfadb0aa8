package calc

import "math"

// LengthBreakdown carries the unrounded length chain in metres. The
// reported calculation rounds each component to whole metres.
type LengthBreakdown struct {
	GoodMaterialLength  float64
	MakereadyLength     float64
	WasteLength         float64
	TotalLengthRequired float64
}

// TimeEstimate is the production-time output in whole minutes.
type TimeEstimate struct {
	SetupTime           int
	RunTime             int
	TotalProductionTime int
}

// Default tube length for the length chain when the spec has no core
// width, in millimetres.
const defaultLengthChainCoreMM = 1000.0

// EstimateLengths computes the good/makeready/waste length chain for an
// order. coreLengthMM is the tube length, makereadyPct and wastePct are
// whole percentages. Negative quantities yield zeros.
func EstimateLengths(orderQuantity int, coreLengthMM, makereadyPct, wastePct float64) LengthBreakdown {
	good := float64(max(orderQuantity, 0)) * coreLengthMM / 1000
	makeready := good * makereadyPct / 100
	waste := (good + makeready) * wastePct / 100
	return LengthBreakdown{
		GoodMaterialLength:  good,
		MakereadyLength:     makeready,
		WasteLength:         waste,
		TotalLengthRequired: good + makeready + waste,
	}
}

// EstimateProductionTime converts a required length into setup plus run
// time. Callers pass the rounded total length: the job card has always
// quoted run time from the displayed metre figure, and the two must agree.
// Setup and run are rounded half-up independently and the total is their
// sum, so the reported identity total = setup + run holds.
func EstimateProductionTime(totalLengthM, setupTimeMinutes, ratePerMinute float64) TimeEstimate {
	if ratePerMinute <= 0 {
		ratePerMinute = DefaultRatePerMinute
	}
	setup := roundHalfUp(setupTimeMinutes)
	run := roundHalfUp(totalLengthM / ratePerMinute)
	return TimeEstimate{
		SetupTime:           setup,
		RunTime:             run,
		TotalProductionTime: setup + run,
	}
}

// roundHalfUp rounds a non-negative quantity to the nearest integer, the
// rounding used for every reported metre and minute figure.
func roundHalfUp(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Round(v))
}
