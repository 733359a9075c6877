package domain

// InstallationRecord is one dataset row describing a solar installation.
// Numeric fields are always finite; optional measurements are nil when the
// source row did not supply them.
type InstallationRecord struct {
	Address         string   `json:"address"`
	Key             string   `json:"key"`
	Panels          float64  `json:"panels"`
	Confidence      float64  `json:"confidence"`
	AnnualOutputKWh *float64 `json:"annual_output_kwh,omitempty"`
	CapacityKWp     *float64 `json:"capacity_kwp,omitempty"`
	YieldFactor     float64  `json:"yield_factor"`
	AvailabilityPct float64  `json:"availability_pct"`
	AvgPanelWp      float64  `json:"avg_panel_wp"`
}

// NewInstallationRecord returns a record for address with every numeric
// field at its documented default.
func NewInstallationRecord(address string) InstallationRecord {
	return InstallationRecord{
		Address:         address,
		Key:             Normalize(address),
		YieldFactor:     DefaultYieldFactor,
		AvailabilityPct: DefaultAvailabilityPct,
		AvgPanelWp:      DefaultAvgPanelWp,
	}
}

// Table is the immutable lookup table built once from a dataset. Keys are
// normalized addresses; scans visit entries in first-insertion order.
type Table struct {
	records map[string]InstallationRecord
	order   []string
}

// NewTable indexes records by Key. A later record with the same key replaces
// the earlier one but keeps its original scan position. Records with an
// empty key are dropped.
func NewTable(records []InstallationRecord) *Table {
	t := &Table{
		records: make(map[string]InstallationRecord, len(records)),
		order:   make([]string, 0, len(records)),
	}
	for _, r := range records {
		if r.Key == "" {
			continue
		}
		if _, exists := t.records[r.Key]; !exists {
			t.order = append(t.order, r.Key)
		}
		t.records[r.Key] = r
	}
	return t
}

// Get returns the record stored under a normalized key.
func (t *Table) Get(key string) (InstallationRecord, bool) {
	if t == nil {
		return InstallationRecord{}, false
	}
	r, ok := t.records[key]
	return r, ok
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Each calls fn for every entry in scan order until fn returns false.
func (t *Table) Each(fn func(key string, r InstallationRecord) bool) {
	if t == nil {
		return
	}
	for _, k := range t.order {
		if !fn(k, t.records[k]) {
			return
		}
	}
}
