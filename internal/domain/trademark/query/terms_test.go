package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTerms_Empty(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", ",", " ， , \t"} {
		terms := ParseTerms(raw, TermTrademark)
		assert.Empty(t, terms.Items, "raw %q", raw)
		assert.False(t, terms.Wildcard, "raw %q", raw)
		assert.True(t, terms.Empty(), "raw %q", raw)
	}
}

func TestParseTerms_Wildcard(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"*", "?", "？", "  ?  "} {
		terms := ParseTerms(raw, TermTrademark)
		assert.True(t, terms.Wildcard, "raw %q", raw)
		assert.Empty(t, terms.Items)
		assert.False(t, terms.Empty())
	}
}

func TestParseTerms_Delimiters(t *testing.T) {
	t.Parallel()

	terms := ParseTerms("ソニー,パナソニック　トヨタ，ホンダ", TermRaw)
	assert.Equal(t, []string{"ソニー", "パナソニック", "トヨタ", "ホンダ"}, terms.Items)
	assert.False(t, terms.Partial)
}

func TestParseTerms_PartialMarker(t *testing.T) {
	t.Parallel()

	terms := ParseTerms("ソニ?", TermRaw)
	assert.True(t, terms.Partial)
	assert.Equal(t, []string{"ソニ"}, terms.Items)
}

func TestParseTerms_TwoTierNotation(t *testing.T) {
	t.Parallel()

	terms := ParseTerms("テスト＼商品", TermRaw)
	assert.Equal(t, []string{"テスト", "商品", "テスト商品"}, terms.Items)
}

func TestParseTerms_NormalizesAndDedupes(t *testing.T) {
	t.Parallel()

	terms := ParseTerms("そにー ソニー, ▲", TermTrademark)
	assert.Equal(t, []string{"ソニ-"}, terms.Items)

	basic := ParseTerms("ｿﾆｰ sony ＳＯＮＹ", TermBasic)
	assert.Equal(t, []string{"ソニ", "SONY"}, basic.Items)

	pron := ParseTerms("ヴェール ベール", TermPronunciation)
	assert.Equal(t, []string{"ベル"}, pron.Items)
}

//Personal.AI order the ending
