package calc

// Stage identifies a step in the production pipeline.
type Stage string

const (
	StagePaperSlitting Stage = "paper_slitting"
	StageWinding       Stage = "winding"
	StageFinishing     Stage = "finishing"
	StageDelivery      Stage = "delivery"
)

// Stages lists the pipeline stages in production order.
var Stages = []Stage{StagePaperSlitting, StageWinding, StageFinishing, StageDelivery}

// ValidStage reports whether s names a known pipeline stage.
func ValidStage(s Stage) bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order carries the order-level inputs of a calculation. The core reads it,
// never mutates it.
type Order struct {
	Quantity int         `json:"quantity"`
	DueDate  string      `json:"due_date,omitempty"`
	Priority string      `json:"priority,omitempty"`
	Items    []OrderItem `json:"items,omitempty"`
}

// MaterialLayer describes one material in the winding stack. Layers are
// ordered innermost to outermost; their position in the slice is their
// radial build order.
type MaterialLayer struct {
	MaterialID string  `json:"material_id"`
	Thickness  float64 `json:"thickness"`       // mm, single ply
	GSM        float64 `json:"gsm"`             // grams per square metre
	Quantity   int     `json:"quantity"`        // plies of this material
	Width      float64 `json:"width,omitempty"` // mm, strip width; 0 means full sheet
	LayerType  string  `json:"layer_type,omitempty"`
}

// QCTolerances holds the quality-control tolerances of a product. The
// calculator carries them through untouched; they are informational.
type QCTolerances struct {
	ID   float64 `json:"id,omitempty"`
	OD   float64 `json:"od,omitempty"`
	Wall float64 `json:"wall,omitempty"`
}

// ProductSpec is the physical specification of a core/tube product.
// Optional numerics are pointers: nil means "not specified" and the
// calculator substitutes a documented default, reporting a Warning.
//
// CoreWidth is the axial length of the tube in mm; the field name is
// historically overloaded and kept for compatibility with the product
// master data.
type ProductSpec struct {
	CoreID           *float64        `json:"core_id,omitempty"`        // inner diameter, mm
	CoreWidth        *float64        `json:"core_width,omitempty"`     // axial length, mm
	CoreThickness    float64         `json:"core_thickness,omitempty"` // wall thickness, mm
	MakereadyPercent *float64        `json:"makeready_allowance_percent,omitempty"`
	WastePercent     *float64        `json:"waste_percentage,omitempty"`
	SetupTimeMinutes *float64        `json:"setup_time_minutes,omitempty"`
	TubesPerCarton   *int            `json:"tubes_per_carton,omitempty"`
	CartonsPerPallet *int            `json:"cartons_per_pallet,omitempty"`
	WindingSpecID    int             `json:"winding_spec_id,omitempty"` // 0 means lookup by diameter
	QCTolerances     QCTolerances    `json:"qc_tolerances,omitempty"`
	MaterialLayers   []MaterialLayer `json:"material_layers,omitempty"`
}

// LayerRequirement is the per-layer output of the material estimator.
// Lengths are metres, areas square metres, masses kilograms, radii metres.
type LayerRequirement struct {
	MaterialID    string  `json:"material_id"`
	LayerType     string  `json:"layer_type,omitempty"`
	MetersPerCore float64 `json:"meters_per_core"`
	TotalMeters   float64 `json:"total_meters"`
	AreaPerCore   float64 `json:"area_per_core"`
	TotalArea     float64 `json:"total_area"`
	MassPerCore   float64 `json:"mass_per_core"`
	TotalMass     float64 `json:"total_mass"`
	InnerRadius   float64 `json:"inner_radius"`
	OuterRadius   float64 `json:"outer_radius"`
}

// ProductionCalculation is the flat result record consumed by the
// presentation layer. Lengths are integer metres, times integer minutes.
type ProductionCalculation struct {
	GoodMaterialLength  int    `json:"good_material_length"`
	MakereadyLength     int    `json:"makeready_length"`
	WasteLength         int    `json:"waste_length"`
	TotalLengthRequired int    `json:"total_length_required"`
	SetupTime           int    `json:"setup_time"`
	RunTime             int    `json:"run_time"`
	TotalProductionTime int    `json:"total_production_time"`
	TubesPerCarton      int    `json:"tubes_per_carton"`
	CartonsRequired     int    `json:"cartons_required"`
	CartonsPerPallet    int    `json:"cartons_per_pallet"`
	PalletsRequired     int    `json:"pallets_required"`
	TapeRollsRequired   int    `json:"tape_rolls_required"`
	WastePercentage     string `json:"waste_percentage"`
	MakereadyPercentage string `json:"makeready_percentage"`

	Layers []LayerRequirement `json:"layers"`
}

// Warning records a field whose value was absent and replaced by a
// documented default. The calculation itself always completes.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
