package lookup

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/solar-lookup/internal/domain"
)

// Editable parameter names.
const (
	ParamYieldFactor     = "yield_factor"
	ParamAvailabilityPct = "availability_pct"
	ParamAvgPanelWp      = "avg_panel_wp"
)

// Source tells where the displayed capacity and annual output came from.
type Source string

const (
	// SourceRecord means at least one displayed figure is the dataset's own value.
	SourceRecord Source = "record"
	// SourceCalculated means both figures were derived from the panel count.
	SourceCalculated Source = "calculated"
)

// Params are the user-editable calculation inputs.
type Params struct {
	YieldFactor     float64 `json:"yield_factor"`
	AvailabilityPct float64 `json:"availability_pct"`
	AvgPanelWp      float64 `json:"avg_panel_wp"`
}

// DefaultParams returns the documented defaults for every parameter.
func DefaultParams() Params {
	return Params{
		YieldFactor:     domain.DefaultYieldFactor,
		AvailabilityPct: domain.DefaultAvailabilityPct,
		AvgPanelWp:      domain.DefaultAvgPanelWp,
	}
}

// ParamsFromRecord seeds the editable parameters from a record, substituting
// defaults for values that cannot drive the calculator.
func ParamsFromRecord(r domain.InstallationRecord) Params {
	d := DefaultParams()
	return Params{
		YieldFactor:     orDefault(r.YieldFactor, d.YieldFactor),
		AvailabilityPct: orDefault(r.AvailabilityPct, d.AvailabilityPct),
		AvgPanelWp:      orDefault(r.AvgPanelWp, d.AvgPanelWp),
	}
}

// With returns a copy of p with field set from raw user input. Input that is
// not a positive number resets the field to its default; only an unknown
// field name is an error.
func (p Params) With(field, raw string) (Params, error) {
	d := DefaultParams()
	switch field {
	case ParamYieldFactor:
		p.YieldFactor = parseParam(raw, d.YieldFactor)
	case ParamAvailabilityPct:
		p.AvailabilityPct = parseParam(raw, d.AvailabilityPct)
	case ParamAvgPanelWp:
		p.AvgPanelWp = parseParam(raw, d.AvgPanelWp)
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownParam, field)
	}
	return p, nil
}

func parseParam(raw string, fallback float64) float64 {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return orDefault(v, fallback)
}

func orDefault(v, fallback float64) float64 {
	if v > 0 && !math.IsInf(v, 0) {
		return v
	}
	return fallback
}

// View is the per-search copy of a record with calculated figures and the
// current editable parameters.
type View struct {
	Address         string  `json:"address"`
	Key             string  `json:"key"`
	Panels          float64 `json:"panels"`
	Confidence      float64 `json:"confidence"`
	Params          Params  `json:"params"`
	CapacityKWp     float64 `json:"capacity_kwp"`
	AnnualOutputKWh float64 `json:"annual_output_kwh"`
	Source          Source  `json:"source"`
}

// InitialView is shown when a record is first loaded. The record's own
// capacity and annual output are preferred when present and positive;
// missing figures are calculated, annual output from the displayed capacity.
func InitialView(r domain.InstallationRecord) View {
	v := baseView(r, ParamsFromRecord(r))
	v.Source = SourceCalculated

	if r.CapacityKWp != nil && *r.CapacityKWp > 0 {
		v.CapacityKWp = *r.CapacityKWp
		v.Source = SourceRecord
	} else {
		v.CapacityKWp = domain.CapacityKWp(r.Panels, v.Params.AvgPanelWp)
	}

	if r.AnnualOutputKWh != nil && *r.AnnualOutputKWh > 0 {
		v.AnnualOutputKWh = *r.AnnualOutputKWh
		v.Source = SourceRecord
	} else {
		v.AnnualOutputKWh = domain.AnnualOutputKWh(v.CapacityKWp, v.Params.YieldFactor, v.Params.AvailabilityPct)
	}
	return v
}

// EditedView recomputes both figures from the panel count and p, ignoring
// any precomputed values in the record.
func EditedView(r domain.InstallationRecord, p Params) View {
	v := baseView(r, p)
	out := domain.SolarOutput(domain.SolarParams{
		Panels:          r.Panels,
		AvgPanelWp:      p.AvgPanelWp,
		YieldFactor:     p.YieldFactor,
		AvailabilityPct: p.AvailabilityPct,
	})
	v.CapacityKWp = out.CapacityKWp
	v.AnnualOutputKWh = out.AnnualOutputKWh
	v.Source = SourceCalculated
	return v
}

func baseView(r domain.InstallationRecord, p Params) View {
	return View{
		Address:    r.Address,
		Key:        r.Key,
		Panels:     r.Panels,
		Confidence: r.Confidence,
		Params:     p,
	}
}
