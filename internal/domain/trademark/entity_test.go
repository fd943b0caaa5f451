package trademark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

func TestParseApplicationNumber(t *testing.T) {
	t.Parallel()

	n, err := ParseApplicationNumber(" 2020-012345 ")
	require.NoError(t, err)
	assert.Equal(t, ApplicationNumber("2020012345"), n)
	assert.Equal(t, "2020-012345", n.Hyphenated())

	n, err = ParseApplicationNumber("２０２０－０１２３４５")
	require.NoError(t, err)
	assert.Equal(t, "2020012345", n.String())

	for _, bad := range []string{"", "---", "2020-01234X", "abc"} {
		_, err := ParseApplicationNumber(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.IsInvalidCriteria(err), bad)
	}
}

func TestApplicationNumber_HyphenatedOtherLengths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "12345", ApplicationNumber("12345").Hyphenated())
	assert.Equal(t, "", ApplicationNumber("").Hyphenated())
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2021/03/15", FormatDate("20210315"))
	assert.Equal(t, "2021/03/15", FormatDate(" 20210315 "))
	for _, bad := range []string{"", "2021031", "202103150", "2021-03-15", "2021031X"} {
		assert.Equal(t, NotSet, FormatDate(bad), bad)
	}
}

func TestConfidenceFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ConfidenceHigh, ConfidenceFor(20))
	assert.Equal(t, ConfidenceHigh, ConfidenceFor(150))
	assert.Equal(t, ConfidenceMedium, ConfidenceFor(5))
	assert.Equal(t, ConfidenceMedium, ConfidenceFor(19))
	assert.Equal(t, ConfidenceLow, ConfidenceFor(4))
	assert.Equal(t, ConfidenceLow, ConfidenceFor(0))
}

func TestIsPlaceholderName(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "  ", "不明", "（省略）", "以下省略", "***", "－－", "・"} {
		assert.True(t, IsPlaceholderName(s), s)
	}
	for _, s := range []string{"ソニー株式会社", "Apple Inc.", "不明堂", "3M"} {
		assert.False(t, IsPlaceholderName(s), s)
	}
}

func TestParseOrder(t *testing.T) {
	t.Parallel()

	o, err := ParseOrder("", OrderDesc)
	require.NoError(t, err)
	assert.Equal(t, OrderDesc, o)

	o, err = ParseOrder("ASC", OrderDesc)
	require.NoError(t, err)
	assert.Equal(t, OrderAsc, o)

	_, err = ParseOrder("sideways", OrderAsc)
	assert.Error(t, err)
}

func TestNoImages(t *testing.T) {
	t.Parallel()

	got, err := NoImages{}.HasImages(context.Background(), []string{"1"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

//Personal.AI order the ending
