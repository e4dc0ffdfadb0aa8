package calc

import "math"

// Default tube length assumed by the material models when the product spec
// carries no core width, in metres.
const defaultCoreLengthM = 1.2

// MaterialModel estimates per-layer material requirements for an order.
// Implementations are pure; identical inputs give identical output.
type MaterialModel interface {
	// Name identifies the model for configuration and logging.
	Name() string
	// EstimateLayers walks the product's material stack innermost to
	// outermost and returns one requirement per layer. A spec without
	// layers yields an empty slice, never an error.
	EstimateLayers(spec ProductSpec, orderQuantity int, winding WindingSpec) []LayerRequirement
}

// LengthFactorModel is the simple estimator: material length per core is
// the tube length scaled by the winding length factor and the lap count.
// It reports no area or mass.
type LengthFactorModel struct{}

func (LengthFactorModel) Name() string { return "length_factor" }

func (LengthFactorModel) EstimateLayers(spec ProductSpec, orderQuantity int, winding WindingSpec) []LayerRequirement {
	qty := float64(max(orderQuantity, 0))
	coreLength := coreLengthM(spec)

	reqs := make([]LayerRequirement, 0, len(spec.MaterialLayers))
	for _, layer := range spec.MaterialLayers {
		laps := layer.Quantity
		if laps < 1 {
			laps = 1
		}
		perCore := coreLength * winding.LengthFactor * float64(laps)
		reqs = append(reqs, LayerRequirement{
			MaterialID:    layer.MaterialID,
			LayerType:     layer.LayerType,
			MetersPerCore: perCore,
			TotalMeters:   perCore * qty,
		})
	}
	return reqs
}

// CylindricalShellModel is the physically precise estimator. Each layer
// occupies a cylindrical shell on the growing tube; its volume gives mass
// (via gsm-derived density) and area, and area gives strip length when the
// material is a slit tape. The radius accumulates across the stack, so the
// input layer order is the radial build order.
type CylindricalShellModel struct{}

func (CylindricalShellModel) Name() string { return "shell" }

func (CylindricalShellModel) EstimateLayers(spec ProductSpec, orderQuantity int, winding WindingSpec) []LayerRequirement {
	qty := float64(max(orderQuantity, 0))
	coreLength := coreLengthM(spec)

	coreID := DefaultCoreID
	if spec.CoreID != nil && *spec.CoreID > 0 {
		coreID = *spec.CoreID
	}
	rInner := coreID / 1000 / 2

	reqs := make([]LayerRequirement, 0, len(spec.MaterialLayers))
	for _, layer := range spec.MaterialLayers {
		streamThickness := layer.Thickness / 1000 * float64(max(layer.Quantity, 0))
		rOuter := rInner + streamThickness

		volume := math.Pi * coreLength * (rOuter*rOuter - rInner*rInner)

		// Sheet density from grammage: gsm / thickness_mm happens to be
		// kg/m3 exactly. Zero when either value is missing.
		var density float64
		if layer.GSM > 0 && layer.Thickness > 0 {
			density = layer.GSM / layer.Thickness
		}
		mass := volume * density

		var area float64
		if streamThickness > 0 {
			area = volume / streamThickness
		}

		perCore := area
		if layer.Width > 0 {
			perCore = area / (layer.Width / 1000)
		}

		reqs = append(reqs, LayerRequirement{
			MaterialID:    layer.MaterialID,
			LayerType:     layer.LayerType,
			MetersPerCore: perCore,
			TotalMeters:   perCore * qty,
			AreaPerCore:   area,
			TotalArea:     area * qty,
			MassPerCore:   mass,
			TotalMass:     mass * qty,
			InnerRadius:   rInner,
			OuterRadius:   rOuter,
		})

		rInner = rOuter
	}
	return reqs
}

// MaterialModelByName returns the model for a configuration value, or the
// shell model (the authoritative one) for anything unrecognised.
func MaterialModelByName(name string) MaterialModel {
	if name == (LengthFactorModel{}).Name() {
		return LengthFactorModel{}
	}
	return CylindricalShellModel{}
}

func coreLengthM(spec ProductSpec) float64 {
	if spec.CoreWidth != nil && *spec.CoreWidth > 0 {
		return *spec.CoreWidth / 1000
	}
	return defaultCoreLengthM
}
