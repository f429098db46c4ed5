package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \t\n  ", want: ""},
		{name: "punctuation and case", input: "Héllo, WORLD!!  tea-tree", want: "héllo world tea tree"},
		{name: "leading and trailing punctuation", input: "...fever?!", want: "fever"},
		{name: "ligature", input: "ﬁne", want: "fine"},
		{name: "fullwidth", input: "ＦＬＵ", want: "flu"},
		{name: "digits kept", input: "Vitamin-C 500mg", want: "vitamin c 500mg"},
		{name: "underscore is a separator", input: "stomach_ache", want: "stomach ache"},
		{name: "devanagari marks kept", input: "हल्दी!", want: "हल्दी"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"my", "joints", "hurt"}, Tokenize("My  joints, hurt!"))
	assert.Empty(t, Tokenize("   "))
	assert.Empty(t, Tokenize("?!"))
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps("joint", "joints"))
	assert.True(t, Overlaps("joints", "joint"))
	assert.True(t, Overlaps("ginger", "ginger"))
	assert.False(t, Overlaps("ginger", "turmeric"))
	assert.False(t, Overlaps("", "ginger"))
	assert.False(t, Contains("ginger", ""))
}

func TestOverlapsIgnoresSingleRuneTerms(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "fragment inside word", a: "stress", b: "s", want: false},
		{name: "word around fragment", a: "t", b: "fresh breath", want: false},
		{name: "two rune term", a: "uti relief", b: "uti", want: true},
		{name: "two rune whole word", a: "bp", b: "bp", want: true},
		{name: "single rune equal", a: "m", b: "m", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
		})
	}

	assert.False(t, Contains("fresh breath", "s"))
	assert.True(t, Contains("fresh breath", "br"))
	assert.False(t, Matchable("ü"))
	assert.True(t, Matchable("हल"))
}
