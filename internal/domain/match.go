package domain

import "strings"

// MatchTier identifies which matching strategy produced a result.
type MatchTier string

const (
	TierExact      MatchTier = "exact"
	TierStructural MatchTier = "structural"
	TierFallback   MatchTier = "fallback"
)

// MatchConfig holds the tunable thresholds of the address matcher. The
// defaults were chosen empirically against Dutch address data.
type MatchConfig struct {
	// Threshold is the score a structural candidate must strictly exceed.
	Threshold float64
	// ContainsScore is assigned when a key contains both the query street
	// and the query house number.
	ContainsScore float64
	// FallbackSimilarity is the street similarity a same-number entry must
	// strictly exceed in the fallback tier.
	FallbackSimilarity float64
	Weights            SimilarityWeights
}

// DefaultMatchConfig returns the standard thresholds.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Threshold:          0.6,
		ContainsScore:      0.9,
		FallbackSimilarity: 0.5,
		Weights:            DefaultSimilarityWeights,
	}
}

// MatchResult is the outcome of a successful match.
type MatchResult struct {
	Key    string
	Record InstallationRecord
	Tier   MatchTier
	Score  float64
}

// Matcher resolves free-text queries to table entries using an
// exact → structural → fallback strategy.
type Matcher struct {
	cfg MatchConfig
}

// NewMatcher creates a Matcher. Zero-valued weights fall back to the defaults.
func NewMatcher(cfg MatchConfig) *Matcher {
	if cfg.Weights == (SimilarityWeights{}) {
		cfg.Weights = DefaultSimilarityWeights
	}
	return &Matcher{cfg: cfg}
}

// Match returns the best entry for query. ok is false when no tier matched;
// that is a normal outcome, not an error.
func (m *Matcher) Match(query string, table *Table) (MatchResult, bool) {
	q := Normalize(query)
	if q == "" || table.Len() == 0 {
		return MatchResult{}, false
	}

	if r, ok := table.Get(q); ok {
		return MatchResult{Key: q, Record: r, Tier: TierExact, Score: 1}, true
	}

	street, number := Split(q)

	if res, ok := m.structural(street, number, table); ok {
		return res, true
	}
	return m.fallback(q, street, number, table)
}

// structural scans every entry, skipping those whose house number conflicts
// with the query, and keeps the highest score above the threshold.
func (m *Matcher) structural(street, number string, table *Table) (MatchResult, bool) {
	var (
		best  MatchResult
		found bool
	)
	bestScore := m.cfg.Threshold

	table.Each(func(key string, r InstallationRecord) bool {
		entryStreet, entryNumber := splitEntry(key, r)
		if number != "" && entryNumber != "" && number != entryNumber {
			return true
		}

		score := m.score(key, street, number, entryStreet)
		if score > 0 && score > bestScore {
			bestScore = score
			best = MatchResult{Key: key, Record: r, Tier: TierStructural, Score: score}
			found = true
		}
		return true
	})
	return best, found
}

func (m *Matcher) score(key, street, number, entryStreet string) float64 {
	if street != "" && strings.Contains(key, street) && strings.Contains(key, number) {
		return m.cfg.ContainsScore
	}
	return m.cfg.Weights.Similarity(street, entryStreet)
}

// fallback accepts the first entry that is a substring of the query (or the
// reverse), or that shares the query's house number with a similar street.
func (m *Matcher) fallback(q, street, number string, table *Table) (MatchResult, bool) {
	var (
		res   MatchResult
		found bool
	)

	table.Each(func(key string, r InstallationRecord) bool {
		if strings.Contains(q, key) || strings.Contains(key, q) {
			res = MatchResult{Key: key, Record: r, Tier: TierFallback, Score: m.cfg.Weights.Similarity(q, key)}
			found = true
			return false
		}
		if number == "" {
			return true
		}
		entryStreet, entryNumber := splitEntry(key, r)
		if entryNumber == number {
			if s := m.cfg.Weights.Similarity(street, entryStreet); s > m.cfg.FallbackSimilarity {
				res = MatchResult{Key: key, Record: r, Tier: TierFallback, Score: s}
				found = true
				return false
			}
		}
		return true
	})
	return res, found
}

// splitEntry splits a table entry by its original address when available.
func splitEntry(key string, r InstallationRecord) (street, number string) {
	if r.Address != "" {
		return Split(r.Address)
	}
	return Split(key)
}
