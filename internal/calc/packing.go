package calc

// Packing defaults applied when the product spec leaves them unset.
const (
	DefaultTubesPerCarton     = 50
	DefaultCartonsPerPallet   = 20
	DefaultCartonsPerTapeRoll = 25
)

// PackingEstimate is the packing and consumables output.
type PackingEstimate struct {
	TubesPerCarton    int
	CartonsRequired   int
	CartonsPerPallet  int
	PalletsRequired   int
	TapeRollsRequired int
}

// EstimatePacking computes cartons, pallets and tape rolls for an order.
// Non-positive divisors fall back to the documented defaults; a
// non-positive quantity yields zeros.
func EstimatePacking(orderQuantity, tubesPerCarton, cartonsPerPallet, cartonsPerTapeRoll int) PackingEstimate {
	if tubesPerCarton <= 0 {
		tubesPerCarton = DefaultTubesPerCarton
	}
	if cartonsPerPallet <= 0 {
		cartonsPerPallet = DefaultCartonsPerPallet
	}
	if cartonsPerTapeRoll <= 0 {
		cartonsPerTapeRoll = DefaultCartonsPerTapeRoll
	}

	qty := max(orderQuantity, 0)
	cartons := ceilDiv(qty, tubesPerCarton)
	return PackingEstimate{
		TubesPerCarton:    tubesPerCarton,
		CartonsRequired:   cartons,
		CartonsPerPallet:  cartonsPerPallet,
		PalletsRequired:   ceilDiv(cartons, cartonsPerPallet),
		TapeRollsRequired: ceilDiv(cartons, cartonsPerTapeRoll),
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
