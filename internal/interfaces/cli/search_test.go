package cli

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/testutil"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

func threeMarks() *testutil.MemoryRegistry {
	return testutil.NewMemoryRegistry().
		Add(fixture("2020000001", "ブルドッグ", "09")).
		Add(fixture("2020000002", "ブルーム", "25")).
		Add(fixture("2020000003", "ブルースカイ", "09"))
}

func TestSearchCmd_JSONUsesCLIDefaultLimit(t *testing.T) {
	h := newHarness(t, threeMarks())
	out, _, err := h.run("-o", "json", "search", "--mark", "ブル", "--mode", "plain")
	require.NoError(t, err)

	var res search.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, int64(3), res.Total)
	assert.Equal(t, 2, res.Limit)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "2020000001", res.Records[0].ApplicationNumber)
	assert.Equal(t, "plain", res.Mode)
}

func TestSearchCmd_ExplicitPaging(t *testing.T) {
	h := newHarness(t, threeMarks())
	out, _, err := h.run("-o", "json", "search", "--mark", "ブル", "-n", "1", "--offset", "2")
	require.NoError(t, err)

	var res search.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Records, 1)
	assert.Equal(t, "2020000003", res.Records[0].ApplicationNumber)
	assert.Equal(t, 2, res.Offset)
}

func TestSearchCmd_TextOutput(t *testing.T) {
	h := newHarness(t, threeMarks())
	out, _, err := h.run("search", "--mark", "ブル", "--class", "09")
	require.NoError(t, err)

	assert.Contains(t, out, "[1] 2020-000001  ブルドッグ")
	assert.Contains(t, out, "[2] 2020-000003  ブルースカイ")
	assert.Contains(t, out, "filed      2020/01/15")
	assert.Contains(t, out, "1-2 of 2 (mode enhanced)")
	assert.NotContains(t, out, "ブルーム")
}

func TestSearchCmd_TableOutput(t *testing.T) {
	h := newHarness(t, threeMarks())
	out, _, err := h.run("-o", "table", "search", "--class", "25")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#  Application"), lines[0])
	assert.Contains(t, lines[2], "2020-000002")
	assert.Contains(t, lines[2], "ブルーム")
}

func TestSearchCmd_NoMatches(t *testing.T) {
	h := newHarness(t, threeMarks())
	out, _, err := h.run("search", "--mark", "ソニー")
	require.NoError(t, err)
	assert.Equal(t, "No matches (0 total, mode enhanced)\n", out)
}

func TestSearchCmd_EmptyCriteriaNeverOpensBackend(t *testing.T) {
	h := newHarness(t, threeMarks())
	_, _, err := h.run("search")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidCriteria(err))
	assert.Zero(t, h.opened)
	assert.Zero(t, h.reg.Calls())
}

func TestSearchCmd_InvalidInput(t *testing.T) {
	h := newHarness(t, threeMarks())

	_, _, err := h.run("search", "--mark", "x", "--mode", "psychic")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedMode))

	_, _, err = h.run("search", "--mark", "x", "--order", "sideways")
	assert.Error(t, err)

	_, _, err = h.run("search", "--app", "20-20-abc")
	assert.True(t, errors.IsInvalidCriteria(err))

	_, _, err = h.run("search", "--mark", "x", "--offset", "-1")
	assert.True(t, errors.IsInvalidCriteria(err))
	assert.Zero(t, h.opened)
}

func TestSearchCmd_BackendFailure(t *testing.T) {
	reg := threeMarks()
	reg.Err = stderrors.New("connection refused")
	h := newHarness(t, reg)

	_, _, err := h.run("search", "--mark", "ブル")
	require.Error(t, err)
	assert.True(t, errors.IsBackendUnavailable(err))
	assert.Equal(t, 1, h.closed)
}

func TestGetCmd(t *testing.T) {
	h := newHarness(t, threeMarks())

	out, _, err := h.run("-o", "json", "get", "2020-000003")
	require.NoError(t, err)
	var rec trademark.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "ブルースカイ", rec.MarkText)

	out, _, err = h.run("-o", "table", "get", "2020000003")
	require.NoError(t, err)
	assert.Contains(t, out, "Filed")
	assert.Contains(t, out, "2020/01/15")

	_, _, err = h.run("get", "2099000001")
	assert.True(t, errors.IsNotFound(err))

	_, _, err = h.run("get")
	assert.Error(t, err)
}

func TestLatestCmd(t *testing.T) {
	h := newHarness(t, threeMarks())

	out, _, err := h.run("-o", "json", "latest", "--class", "09")
	require.NoError(t, err)
	var res search.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Records, 2)
	assert.Equal(t, "2020000003", res.Records[0].ApplicationNumber)
	assert.Equal(t, "2020000001", res.Records[1].ApplicationNumber)

	_, _, err = h.run("latest", "--class", "09", "-n", "-3")
	assert.True(t, errors.IsInvalidCriteria(err))

	_, _, err = h.run("latest")
	assert.True(t, errors.IsInvalidCriteria(err))
}

func TestApplicantLabel(t *testing.T) {
	r := &trademark.Record{ApplicantName: "推定商事 (推定)", ApplicantSource: trademark.ApplicantFromMapping, ApplicantConfidence: trademark.ConfidenceHigh}
	assert.Equal(t, "推定商事 (推定) [high]", applicantLabel(r))

	r = &trademark.Record{ApplicantName: "青空株式会社", ApplicantSource: trademark.ApplicantFromMaster}
	assert.Equal(t, "青空株式会社", applicantLabel(r))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ブル…", truncate("ブルースカイ", 3))
	assert.Equal(t, "a", truncate("abc", 1))
}

//Personal.AI order the ending
