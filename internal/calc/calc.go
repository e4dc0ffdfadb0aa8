// Package calc implements the production requirements calculator for
// paper-core manufacturing: per-layer material requirements, setup and run
// time, and packing consumables for a given order, product specification
// and pipeline stage.
//
// The whole package is a pure function chain. Missing numeric inputs never
// fail a calculation; each one is replaced by a documented default and
// reported as a Warning alongside the result.
package calc

import "fmt"

// Percentage defaults for the length chain.
const (
	DefaultMakereadyPercent = 10.0
	DefaultWastePercent     = 5.0
)

// Params selects the calculation variants that are configurable per
// deployment rather than per product.
type Params struct {
	// Model is the material estimator; nil means CylindricalShellModel.
	Model MaterialModel
	// CartonsPerTapeRoll is how many cartons one tape roll seals.
	// Zero means DefaultCartonsPerTapeRoll.
	CartonsPerTapeRoll int
}

// DefaultParams returns the authoritative configuration: shell material
// model, 25 cartons per tape roll.
func DefaultParams() Params {
	return Params{Model: CylindricalShellModel{}, CartonsPerTapeRoll: DefaultCartonsPerTapeRoll}
}

// Compute runs the full calculation chain for one order, product spec and
// stage. It is idempotent and side-effect-free: identical inputs give
// identical results, and no field depends on the clock or hidden state.
func Compute(order Order, spec ProductSpec, stage Stage, params Params) (ProductionCalculation, []Warning) {
	warnings := []Warning{}
	warn := func(field, format string, args ...any) {
		warnings = append(warnings, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	model := params.Model
	if model == nil {
		model = CylindricalShellModel{}
	}

	qty := order.Quantity
	if qty == 0 && len(order.Items) > 0 {
		qty = order.Items[0].Quantity
		warn("quantity", "order quantity not set, using first item quantity %d", qty)
	}
	if qty < 0 {
		qty = 0
		warn("quantity", "negative order quantity treated as 0")
	}

	coreID := DefaultCoreID
	if spec.CoreID != nil && *spec.CoreID > 0 {
		coreID = *spec.CoreID
	} else {
		warn("core_id", "core inner diameter not set, assuming %.0fmm", DefaultCoreID)
	}

	winding, matched := LookupWindingSpec(spec.WindingSpecID, coreID)
	if !matched {
		warn("winding_spec", "no winding spec covers %.0fmm, using %.0f° standard entry", coreID, winding.Angle)
	}

	coreLengthMM := defaultLengthChainCoreMM
	if spec.CoreWidth != nil && *spec.CoreWidth > 0 {
		coreLengthMM = *spec.CoreWidth
	} else {
		warn("core_width", "core length not set, assuming %.0fmm", defaultLengthChainCoreMM)
	}

	makeready := DefaultMakereadyPercent
	if spec.MakereadyPercent != nil {
		makeready = *spec.MakereadyPercent
	} else {
		warn("makeready_allowance_percent", "makeready allowance not set, assuming %.0f%%", DefaultMakereadyPercent)
	}

	waste := DefaultWastePercent
	if spec.WastePercent != nil {
		waste = *spec.WastePercent
	} else {
		warn("waste_percentage", "waste percentage not set, assuming %.0f%%", DefaultWastePercent)
	}

	line, ok := LookupMachineLine(stage)
	if !ok {
		line = MachineLine{
			Stage:             stage,
			StandardSetupTime: DefaultSetupTimeMinutes,
			RatePerMinute:     DefaultRatePerMinute,
		}
		warn("stage", "unknown stage %q, using default line rates", stage)
	}

	setup := line.StandardSetupTime
	if setup <= 0 {
		setup = DefaultSetupTimeMinutes
	}
	if spec.SetupTimeMinutes != nil && *spec.SetupTimeMinutes > 0 {
		setup = *spec.SetupTimeMinutes
	}

	tubesPerCarton := DefaultTubesPerCarton
	if spec.TubesPerCarton != nil && *spec.TubesPerCarton > 0 {
		tubesPerCarton = *spec.TubesPerCarton
	} else {
		warn("tubes_per_carton", "tubes per carton not set, assuming %d", DefaultTubesPerCarton)
	}

	cartonsPerPallet := DefaultCartonsPerPallet
	if spec.CartonsPerPallet != nil && *spec.CartonsPerPallet > 0 {
		cartonsPerPallet = *spec.CartonsPerPallet
	} else {
		warn("cartons_per_pallet", "cartons per pallet not set, assuming %d", DefaultCartonsPerPallet)
	}

	layers := model.EstimateLayers(spec, qty, winding)
	if len(spec.MaterialLayers) == 0 {
		warn("material_layers", "product spec has no material layers")
	}

	lengths := EstimateLengths(qty, coreLengthMM, makeready, waste)
	totalLength := roundHalfUp(lengths.TotalLengthRequired)
	times := EstimateProductionTime(float64(totalLength), setup, line.RatePerMinute)
	packing := EstimatePacking(qty, tubesPerCarton, cartonsPerPallet, params.CartonsPerTapeRoll)

	return ProductionCalculation{
		GoodMaterialLength:  roundHalfUp(lengths.GoodMaterialLength),
		MakereadyLength:     roundHalfUp(lengths.MakereadyLength),
		WasteLength:         roundHalfUp(lengths.WasteLength),
		TotalLengthRequired: totalLength,
		SetupTime:           times.SetupTime,
		RunTime:             times.RunTime,
		TotalProductionTime: times.TotalProductionTime,
		TubesPerCarton:      packing.TubesPerCarton,
		CartonsRequired:     packing.CartonsRequired,
		CartonsPerPallet:    packing.CartonsPerPallet,
		PalletsRequired:     packing.PalletsRequired,
		TapeRollsRequired:   packing.TapeRollsRequired,
		WastePercentage:     fmt.Sprintf("%.1f", waste),
		MakereadyPercentage: fmt.Sprintf("%.1f", makeready),
		Layers:              layers,
	}, warnings
}
