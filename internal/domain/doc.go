// Package domain models solar installation records and the address matching
// and energy calculations performed on them.
//
// # Data Source
//
// Records come from a spreadsheet (CSV export or .xlsx) with one row per
// address. Columns are matched case- and spacing-insensitively and accept
// synonyms; see the dataset package for the accepted spellings.
//
// # Address Conventions
//
// Addresses are Dutch-style "<street> <number>[suffix]", e.g. "Kerkstraat 23a".
// Normalization (see [Normalize]) strips surrounding quotes, lowercases,
// replaces . , ; : with spaces, and collapses whitespace:
//
//	` "Kerkstraat 23a, Utrecht" `  →  "kerkstraat 23a utrecht"
//
// [Split] separates the street from the house number. Numbers keep their
// letter suffix, so "23a" and "23" are different houses.
//
// # Matching
//
// [Matcher] tries three tiers in order and returns the first success:
//
//	exact       the normalized query is a table key
//	structural  street/number extraction with fuzzy street scoring;
//	            a conflicting house number disqualifies an entry
//	fallback    mutual substring, or same number with a similar street
//
// # Energy Calculation
//
//	capacity (kWp)       = panels × avg panel output (Wp) / 1000
//	annual output (kWh)  = capacity × yield (kWh/kWp/year) × availability / 100
//
// Defaults: 875 kWh/kWp/year (NL), 99 % availability, 435 Wp per panel.
// Non-positive inputs produce 0 rather than an error.
package domain
