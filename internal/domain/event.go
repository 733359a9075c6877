package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Search outcomes, as reported in events and metrics.
const (
	OutcomeNotFound = "not_found"
)

// SearchEvent records one completed search for downstream analytics.
type SearchEvent struct {
	ID              string      `json:"id"`
	Query           string      `json:"query"`
	Outcome         string      `json:"outcome"` // match tier or "not_found"
	MatchedKey      string      `json:"matched_key,omitempty"`
	Score           float64     `json:"score,omitempty"`
	Panels          float64     `json:"panels,omitempty"`
	CapacityKWp     float64     `json:"capacity_kwp,omitempty"`
	AnnualOutputKWh float64     `json:"annual_output_kwh,omitempty"`
	Location        *Coordinate `json:"location,omitempty"`
	SearchedAt      time.Time   `json:"searched_at"`
}

// NewSearchEvent stamps an event with the package clock and a deterministic ID.
func NewSearchEvent(query, outcome string) SearchEvent {
	now := clock.Now().UTC()
	return SearchEvent{
		ID:         generateID(query, outcome, now),
		Query:      query,
		Outcome:    outcome,
		SearchedAt: now,
	}
}

// generateID hashes the query, outcome, and timestamp so replays of the same
// search at the same instant produce the same ID.
func generateID(query, outcome string, at time.Time) string {
	input := fmt.Sprintf("%s|%s|%s", query, outcome, at.Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
