package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

const benchFile = `
# mark text lines use --mode
ブル
{"criteria":{"classification":"09"},"mode":"plain","limit":5}

ソニー
`

func TestParseBenchQueries(t *testing.T) {
	qs, err := ParseBenchQueries(strings.NewReader(benchFile), "fuzzy", 10)
	require.NoError(t, err)
	require.Len(t, qs, 3)

	assert.Equal(t, "ブル", qs[0].Label)
	assert.Equal(t, "ブル", qs[0].Request.Criteria.MarkText)
	assert.Equal(t, "fuzzy", qs[0].Request.Mode.String())
	assert.Equal(t, 10, *qs[0].Request.Limit)

	assert.Equal(t, "09", qs[1].Request.Criteria.Classification)
	assert.Equal(t, query.BasePlain, qs[1].Request.Mode.Base)
	assert.Equal(t, 5, *qs[1].Request.Limit)
}

func TestParseBenchQueries_Errors(t *testing.T) {
	_, err := ParseBenchQueries(strings.NewReader("# nothing\n\n"), "", 10)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = ParseBenchQueries(strings.NewReader("ok\n{broken"), "", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ParseBenchQueries(strings.NewReader("x"), "psychic", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

// countingService returns a fixed total and fails on one mark.
type countingService struct {
	search.Service
	delay time.Duration
}

func (s countingService) Search(ctx context.Context, req search.SearchRequest) (*search.SearchResult, error) {
	time.Sleep(s.delay)
	if req.Criteria.MarkText == "fail" {
		return nil, stderrors.New("boom")
	}
	return &search.SearchResult{Total: int64(len(req.Criteria.MarkText))}, nil
}

func TestRunBench(t *testing.T) {
	qs, err := ParseBenchQueries(strings.NewReader("abc\nfail\n"), "", 10)
	require.NoError(t, err)

	report, err := RunBench(context.Background(), countingService{delay: time.Millisecond}, qs, 2, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Concurrency)
	assert.Equal(t, 4, report.Repeat)
	require.Len(t, report.Queries, 2)

	ok := report.Queries[0]
	assert.Equal(t, "abc", ok.Query)
	assert.Equal(t, "enhanced", ok.Mode)
	assert.Equal(t, 4, ok.Runs)
	assert.Zero(t, ok.Errors)
	assert.Equal(t, int64(3), ok.Total)
	assert.Greater(t, ok.MinMS, 0.0)
	assert.LessOrEqual(t, ok.MinMS, ok.AvgMS)
	assert.LessOrEqual(t, ok.AvgMS, ok.MaxMS)
	assert.LessOrEqual(t, ok.P95MS, ok.MaxMS)

	failed := report.Queries[1]
	assert.Equal(t, 4, failed.Errors)
	assert.Equal(t, "boom", failed.LastError)
	assert.Zero(t, failed.MaxMS)
}

func TestSummarize_Percentile(t *testing.T) {
	samples := make([]benchSample, 20)
	for i := range samples {
		samples[i] = benchSample{took: time.Duration(20-i) * time.Millisecond, total: 7}
	}
	stat := summarize(samples)
	assert.Equal(t, 1.0, stat.MinMS)
	assert.Equal(t, 10.5, stat.AvgMS)
	assert.Equal(t, 19.0, stat.P95MS)
	assert.Equal(t, 20.0, stat.MaxMS)
	assert.Equal(t, int64(7), stat.Total)
}

func TestBenchCmd(t *testing.T) {
	h := newHarness(t, threeMarks())
	file := filepath.Join(t.TempDir(), "queries.txt")
	require.NoError(t, os.WriteFile(file, []byte("ブル\n{\"criteria\":{\"classification\":\"25\"}}\n"), 0o600))

	out, _, err := h.run("-o", "json", "bench", "-f", file, "-j", "2", "-r", "2")
	require.NoError(t, err)

	var report BenchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	require.Len(t, report.Queries, 2)
	assert.Equal(t, int64(3), report.Queries[0].Total)
	assert.Equal(t, int64(1), report.Queries[1].Total)
	assert.False(t, h.lastCfg.Cache.Enabled)
	assert.Equal(t, 1, h.closed)
}

func TestBenchCmd_TextAndValidation(t *testing.T) {
	h := newHarness(t, threeMarks())
	file := filepath.Join(t.TempDir(), "queries.txt")
	require.NoError(t, os.WriteFile(file, []byte("ブル\n"), 0o600))

	out, _, err := h.run("bench", "-f", file, "-r", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Query")
	assert.Contains(t, out, "1 queries x 1 runs, concurrency 4")

	_, _, err = h.run("bench")
	assert.Error(t, err)

	_, _, err = h.run("bench", "-f", file, "-j", "0")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, _, err = h.run("bench", "-f", filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

//Personal.AI order the ending
