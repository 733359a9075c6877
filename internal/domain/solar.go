package domain

import "math"

// Default calculation parameters applied when a record or user input omits them.
const (
	DefaultYieldFactor     = 875.0 // kWh per kWp per year, NL average
	DefaultAvailabilityPct = 99.0
	DefaultAvgPanelWp      = 435.0
)

// SolarParams are the inputs to SolarOutput. A zero YieldFactor or
// AvailabilityPct means "not supplied" and is replaced by its default.
type SolarParams struct {
	Panels          float64
	AvgPanelWp      float64
	YieldFactor     float64
	AvailabilityPct float64
}

// Output holds the derived capacity and annual yield of an installation.
type Output struct {
	CapacityKWp     float64 `json:"capacity_kwp"`
	AnnualOutputKWh float64 `json:"annual_output_kwh"`
}

// CapacityKWp converts a panel count and average panel rating (Wp) into
// installed capacity. Invalid input yields 0.
func CapacityKWp(panels, avgPanelWp float64) float64 {
	if !positive(panels) || !positive(avgPanelWp) {
		return 0
	}
	return panels * avgPanelWp / 1000
}

// AnnualOutputKWh estimates yearly production from capacity, a regional
// yield factor, and an availability percentage. Invalid input yields 0.
func AnnualOutputKWh(capacityKWp, yieldFactor, availabilityPct float64) float64 {
	if !positive(capacityKWp) || !positive(yieldFactor) || !positive(availabilityPct) {
		return 0
	}
	return capacityKWp * yieldFactor * (availabilityPct / 100)
}

// SolarOutput composes CapacityKWp and AnnualOutputKWh.
func SolarOutput(p SolarParams) Output {
	yield := p.YieldFactor
	if yield == 0 {
		yield = DefaultYieldFactor
	}
	availability := p.AvailabilityPct
	if availability == 0 {
		availability = DefaultAvailabilityPct
	}

	kwp := CapacityKWp(p.Panels, p.AvgPanelWp)
	return Output{
		CapacityKWp:     kwp,
		AnnualOutputKWh: AnnualOutputKWh(kwp, yield, availability),
	}
}

// positive reports whether v is a finite number greater than zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
