package search

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

func TestSearchRequestDTO_ToRequest(t *testing.T) {
	t.Parallel()

	var dto SearchRequestDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"criteria": {"mark_text": "ソニー", "classification": "09"},
		"mode": "enhanced+pronunciation",
		"limit": 20,
		"offset": 40,
		"order": "desc"
	}`), &dto))

	req, err := dto.ToRequest()
	require.NoError(t, err)
	assert.Equal(t, query.Criteria{MarkText: "ソニー", Classification: "09"}, req.Criteria)
	assert.Equal(t, query.Mode{Base: query.BaseEnhanced, Pronunciation: true}, req.Mode)
	require.NotNil(t, req.Limit)
	assert.Equal(t, 20, *req.Limit)
	assert.Equal(t, 40, req.Offset)
	assert.Equal(t, trademark.OrderDesc, req.Order)
}

func TestSearchRequestDTO_Defaults(t *testing.T) {
	t.Parallel()

	req, err := SearchRequestDTO{Criteria: CriteriaDTO{MarkText: "x"}}.ToRequest()
	require.NoError(t, err)
	assert.Nil(t, req.Limit)
	assert.Equal(t, query.DefaultMode, req.Mode)
	assert.Equal(t, trademark.OrderAsc, req.Order)
}

func TestSearchRequestDTO_Rejects(t *testing.T) {
	t.Parallel()

	cases := []SearchRequestDTO{
		{Criteria: CriteriaDTO{MarkText: strings.Repeat("長", 300)}},
		{Criteria: CriteriaDTO{MarkText: "x"}, Limit: IntPtr(-1)},
		{Criteria: CriteriaDTO{MarkText: "x"}, Offset: -5},
		{Criteria: CriteriaDTO{MarkText: "x"}, Order: "sideways"},
	}
	for i, dto := range cases {
		_, err := dto.ToRequest()
		require.Error(t, err, "case %d", i)
		assert.True(t, errors.IsInvalidCriteria(err), "case %d: %v", i, err)
	}

	_, err := SearchRequestDTO{Criteria: CriteriaDTO{MarkText: "x"}, Mode: "regex"}.ToRequest()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedMode, errors.GetCode(err))
}

//Personal.AI order the ending
