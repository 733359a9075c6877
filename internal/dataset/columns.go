package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/couchcryptid/solar-lookup/internal/domain"
)

type field int

const (
	fieldAddress field = iota
	fieldPanels
	fieldConfidence
	fieldAnnualOutput
	fieldCapacity
	fieldYieldFactor
	fieldAvailability
	fieldAvgPanelOutput
	fieldCount
)

// headerSynonyms lists the accepted header spellings per field, most
// specific first. Comparison ignores case and whitespace.
var headerSynonyms = [fieldCount][]string{
	fieldAddress:        {"Address", "Adres", "Street address", "Full address"},
	fieldPanels:         {"Number of solar panels", "Number of panels", "Solar panels", "Panels", "Aantal zonnepanelen", "Aantal panelen"},
	fieldConfidence:     {"Confidence level (1-10)", "Confidence level (0-10)", "Confidence level", "Confidence"},
	fieldAnnualOutput:   {"Annual output (kWh)", "Annual output kWh", "Annual output", "Annual yield (kWh)", "Jaaropbrengst (kWh)"},
	fieldCapacity:       {"kWp", "Capacity (kWp)", "Installed capacity (kWp)", "Vermogen (kWp)"},
	fieldYieldFactor:    {"kWh/kWp/year_NL", "kWh/kWp/year", "kWh/kWp", "Yield factor"},
	fieldAvailability:   {"Availability factor (%)", "Availability factor", "Availability (%)", "Availability"},
	fieldAvgPanelOutput: {"Avg solar panel output (Wp)", "Average solar panel output (Wp)", "Avg panel output (Wp)", "Avg solar panel output", "Wp per panel"},
}

// columns maps each field to its column index, or -1 when absent.
type columns [fieldCount]int

// headerKey canonicalizes a header cell for comparison.
func headerKey(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// resolveColumns locates every known field in header. The address column is
// required; all others are optional.
func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		k := headerKey(h)
		if _, seen := index[k]; !seen && k != "" {
			index[k] = i
		}
	}

	var cols columns
	for f := range cols {
		cols[f] = -1
		for _, name := range headerSynonyms[f] {
			if i, ok := index[headerKey(name)]; ok {
				cols[f] = i
				break
			}
		}
	}

	if cols[fieldAddress] < 0 {
		return cols, errors.New("no address column found")
	}
	return cols, nil
}

func (c columns) cell(row []string, f field) string {
	i := c[f]
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// buildRecord converts a data row into a record. ok is false for rows whose
// address normalizes to nothing.
func (c columns) buildRecord(row []string) (domain.InstallationRecord, bool) {
	address := c.cell(row, fieldAddress)
	r := domain.NewInstallationRecord(address)
	if r.Key == "" {
		return domain.InstallationRecord{}, false
	}

	r.Panels = math.Max(numberOr(c.cell(row, fieldPanels), 0), 0)
	r.Confidence = clamp(numberOr(c.cell(row, fieldConfidence), 0), 0, 10)
	if v, ok := parseNumber(c.cell(row, fieldAnnualOutput)); ok {
		r.AnnualOutputKWh = &v
	}
	if v, ok := parseNumber(c.cell(row, fieldCapacity)); ok {
		r.CapacityKWp = &v
	}
	r.YieldFactor = numberOr(c.cell(row, fieldYieldFactor), domain.DefaultYieldFactor)
	r.AvailabilityPct = normalizePercent(numberOr(c.cell(row, fieldAvailability), domain.DefaultAvailabilityPct))
	r.AvgPanelWp = numberOr(c.cell(row, fieldAvgPanelOutput), domain.DefaultAvgPanelWp)
	return r, true
}

// parseNumber parses a spreadsheet number, accepting a trailing percent sign,
// embedded spaces, and either decimal comma or decimal point.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot: // 1.234,5
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0: // 1,234.5
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0: // 0,99
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func numberOr(s string, fallback float64) float64 {
	if v, ok := parseNumber(s); ok {
		return v
	}
	return fallback
}

// normalizePercent rescales a fraction such as 0.99 to 99. No real
// availability percentage lies strictly between 0 and 1.
func normalizePercent(v float64) float64 {
	if v > 0 && v < 1 {
		return v * 100
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
