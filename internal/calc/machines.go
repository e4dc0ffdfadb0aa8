package calc

// MachineLine holds the static configuration of one production stage:
// the machines on the line, the standard setup allowance and the line rate.
type MachineLine struct {
	Stage             Stage
	StandardSetupTime float64 // minutes
	RatePerMinute     float64 // metres produced per minute
	Machines          []string
}

// Fallbacks used when a stage has no line entry or a field is unset.
const (
	DefaultSetupTimeMinutes = 30.0
	DefaultRatePerMinute    = 150.0
)

// machineLines is the per-stage line table. One place for the constants so
// rate lookups stay auditable.
var machineLines = []MachineLine{
	{
		Stage:             StagePaperSlitting,
		StandardSetupTime: 45,
		RatePerMinute:     200,
		Machines:          []string{"Slitter 1", "Slitter 2"},
	},
	{
		Stage:             StageWinding,
		StandardSetupTime: 30,
		RatePerMinute:     150,
		Machines:          []string{"Winder A", "Winder B", "Winder C"},
	},
	{
		Stage:             StageFinishing,
		StandardSetupTime: 20,
		RatePerMinute:     100,
		Machines:          []string{"Recutter 1", "Labeller"},
	},
	{
		Stage:             StageDelivery,
		StandardSetupTime: 15,
		RatePerMinute:     500,
		Machines:          []string{"Dispatch Bay"},
	},
}

// MachineLines returns a copy of the machine-line table.
func MachineLines() []MachineLine {
	lines := make([]MachineLine, len(machineLines))
	copy(lines, machineLines)
	return lines
}

// LookupMachineLine returns the line configuration for a stage.
func LookupMachineLine(stage Stage) (MachineLine, bool) {
	for _, line := range machineLines {
		if line.Stage == stage {
			return line, true
		}
	}
	return MachineLine{}, false
}
