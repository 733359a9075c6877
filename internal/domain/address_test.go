package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{` "Main St. 12" `, "main st 12"},
		{"Kerkstraat 5", "kerkstraat 5"},
		{"'Kerkstraat  5,  Utrecht'", "kerkstraat 5 utrecht"},
		{"“Dorpsweg 1a”", "dorpsweg 1a"},
		{"A;B:C.D,E", "a b c d e"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, s := range []string{` "Main St. 12" `, "Kerkstraat 23A, Utrecht", "x"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in, street, number string
	}{
		{"Kerkstraat 5", "kerkstraat", "5"},
		{"Kerkstraat 23a", "kerkstraat", "23a"},
		{"Main St. 12", "main st", "12"},
		{"Van der Meerweg 101B, Utrecht", "van der meerweg", "101b"},
		{"12 Main Street", "main street", "12"},
		{"Postbus", "postbus", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			street, number := Split(tt.in)
			assert.Equal(t, tt.street, street)
			assert.Equal(t, tt.number, number)
		})
	}
}

func TestSimilarity_Equal(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("kerkstraat", "kerkstraat"))
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestSimilarity_EmptySide(t *testing.T) {
	assert.Zero(t, Similarity("kerkstraat", ""))
	assert.Zero(t, Similarity("", "kerkstraat"))
}

func TestSimilarity_Containment(t *testing.T) {
	assert.InDelta(t, 0.6, Similarity("abc", "abcde"), 1e-9)
	assert.InDelta(t, 0.6, Similarity("abcde", "abc"), 1e-9)
	assert.InDelta(t, 0.5, Similarity("kerk", "kerkkerk"), 1e-9)
}

func TestSimilarity_Blend(t *testing.T) {
	// "kerkstraat" vs "kerkstrat": no containment; every rune of the shorter
	// string is present in the longer one.
	s := Similarity("kerkstraat", "kerkstrat")
	assert.Greater(t, s, 0.6)
	assert.Less(t, s, 1.0)

	assert.Less(t, Similarity("kerkstraat", "dorpsweg"), 0.6)
	assert.Zero(t, Similarity("abc", "xyz"))
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kerkstraat", "kerkstrat"},
		{"dorpsweg", "dorpstraat"},
		{"lange nieuwstraat", "korte nieuwstraat"},
	}
	for _, p := range pairs {
		assert.InDelta(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), 1e-9, "%v", p)
	}
}

func TestSimilarity_CustomWeights(t *testing.T) {
	charOnly := SimilarityWeights{Char: 1}
	// Positional matches on "abcd" vs "abce" are 3 of 4, the "d" is absent.
	assert.InDelta(t, 0.75, charOnly.Similarity("abcd", "abce"), 1e-9)

	trigramOnly := SimilarityWeights{Trigram: 1}
	// "abc" occurs in "abce", "bcd" does not.
	assert.InDelta(t, 0.5, trigramOnly.Similarity("abcd", "abce"), 1e-9)
}

func TestSimilarity_Unicode(t *testing.T) {
	long := strings.Repeat("é", 10)
	assert.InDelta(t, 0.5, Similarity(strings.Repeat("é", 5), long), 1e-9)
}
