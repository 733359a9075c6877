package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// streetNumberRe matches a leading street name followed by a house number
	// with an optional letter suffix, e.g. "kerkstraat 23a" -> "kerkstraat", "23a".
	streetNumberRe = regexp.MustCompile(`^(\p{L}[\p{L}\s'/-]*?)\s*(\d+\p{L}*)`)

	// houseNumberRe finds the first numeric token anywhere in an address.
	houseNumberRe = regexp.MustCompile(`\d+\p{L}*`)

	punctuationReplacer = strings.NewReplacer(".", " ", ",", " ", ";", " ", ":", " ")
)

// quoteCutset is trimmed from both ends of an address before normalization.
// Spreadsheet exports often wrap cells in straight or typographic quotes.
const quoteCutset = " \t\r\n\"'`“”‘’"

// Normalize canonicalizes an address for case- and punctuation-insensitive
// comparison. Dataset keys and search queries must both go through it.
func Normalize(addr string) string {
	s := strings.Trim(addr, quoteCutset)
	s = strings.ToLower(s)
	s = punctuationReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Split normalizes addr and separates it into street and house number.
// When no number is present, the whole normalized string is the street.
func Split(addr string) (street, number string) {
	s := Normalize(addr)

	if m := streetNumberRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}

	loc := houseNumberRe.FindStringIndex(s)
	if loc == nil {
		return s, ""
	}
	rest := s[:loc[0]] + " " + s[loc[1]:]
	return strings.Join(strings.Fields(rest), " "), s[loc[0]:loc[1]]
}

// SimilarityWeights controls the blend used by Similarity when neither
// string contains the other.
type SimilarityWeights struct {
	Char    float64
	Trigram float64
}

// DefaultSimilarityWeights is the 70/30 character/trigram blend.
var DefaultSimilarityWeights = SimilarityWeights{Char: 0.7, Trigram: 0.3}

// Similarity scores two strings in [0, 1] using the default weights.
func Similarity(a, b string) float64 {
	return DefaultSimilarityWeights.Similarity(a, b)
}

// Similarity scores two strings in [0, 1]. Equal strings score 1; when one
// contains the other the score is the ratio of their lengths; otherwise it is
// a weighted blend of character and trigram overlap.
func (w SimilarityWeights) Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return float64(min(la, lb)) / float64(max(la, lb))
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) || (len(shorter) == len(longer) && a > b) {
		shorter, longer = longer, shorter
	}
	return w.Char*charMatchRatio(shorter, longer) + w.Trigram*trigramOverlap(shorter, longer)
}

// charMatchRatio counts a full point for each rune of shorter found at the
// same index in longer and half a point for one found elsewhere in longer,
// normalized by the length of longer.
func charMatchRatio(shorter, longer []rune) float64 {
	set := make(map[rune]struct{}, len(longer))
	for _, r := range longer {
		set[r] = struct{}{}
	}

	var matched float64
	for i, r := range shorter {
		if longer[i] == r {
			matched++
		} else if _, ok := set[r]; ok {
			matched += 0.5
		}
	}
	return matched / float64(len(longer))
}

// trigramOverlap is the fraction of shorter's 3-grams that occur anywhere in
// longer. Strings under three runes have no trigrams and score 0.
func trigramOverlap(shorter, longer []rune) float64 {
	if len(shorter) < 3 {
		return 0
	}
	haystack := string(longer)
	total := len(shorter) - 2
	var common int
	for i := 0; i < total; i++ {
		if strings.Contains(haystack, string(shorter[i:i+3])) {
			common++
		}
	}
	return float64(common) / float64(total)
}
