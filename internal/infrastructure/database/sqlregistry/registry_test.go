package sqlregistry

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

type call struct {
	query string
	args  []interface{}
}

// fakeExec records statements and answers from canned rows keyed by a
// substring of the statement.
type fakeExec struct {
	mu    sync.Mutex
	calls []call
	rows  map[string][][]sql.NullString
	count int64
	err   error
}

func (f *fakeExec) QueryStrings(_ context.Context, q string, args []interface{}, width int) ([][]sql.NullString, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{q, args})
	if f.err != nil {
		return nil, f.err
	}
	for k, rows := range f.rows {
		if strings.Contains(q, k) {
			for _, r := range rows {
				if len(r) != width {
					return nil, fmt.Errorf("width %d, row has %d", width, len(r))
				}
			}
			return rows, nil
		}
	}
	return nil, nil
}

func (f *fakeExec) QueryCount(_ context.Context, q string, args []interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{q, args})
	return f.count, f.err
}

func ns(vals ...string) []sql.NullString {
	out := make([]sql.NullString, len(vals))
	for i, v := range vals {
		out[i] = sql.NullString{String: v, Valid: v != "<nil>"}
	}
	return out
}

func TestCountQuery_SQLite(t *testing.T) {
	t.Parallel()

	r := New(&fakeExec{}, SQLite(), nil)
	pred, err := query.NewBuilder(query.BuilderConfig{}).Build(query.Criteria{MarkText: "ソニー", Classification: "09"}, query.DefaultMode)
	require.NoError(t, err)

	q, args, err := r.CountQuery(pred)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(q, "SELECT COUNT(DISTINCT j.normalized_app_num) FROM jiken_c_t j WHERE "), q)
	assert.Contains(t, q, "EXISTS (SELECT 1 FROM standard_char_t_art s WHERE s.normalized_app_num = j.normalized_app_num AND s.standard_char_t LIKE ? ESCAPE '\\')")
	assert.Contains(t, q, FuncBasic+"(s.standard_char_t) LIKE ?")
	assert.Contains(t, q, "gca.goods_classes LIKE ?")
	assert.Contains(t, q, " OR ")
	assert.Contains(t, q, " AND ")
	assert.Contains(t, args, "%ソニー%")
	assert.Contains(t, args, "%09%")
	assert.Equal(t, strings.Count(q, "?"), len(args))
}

func TestCountQuery_WildcardHasNoWhere(t *testing.T) {
	t.Parallel()

	r := New(&fakeExec{}, SQLite(), nil)
	q, args, err := r.CountQuery(query.Predicate{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(DISTINCT j.normalized_app_num) FROM jiken_c_t j", q)
	assert.Empty(t, args)
}

func TestPageQuery_OrderAndWindow(t *testing.T) {
	t.Parallel()

	r := New(&fakeExec{}, Postgres(), nil)
	pred := query.Predicate{Root: query.Match{Field: query.FieldApplicationNumber, Kind: query.MatchEqual, Value: "2020012345"}}

	q, args, err := r.PageQuery(pred, trademark.PageRequest{Limit: 10, Offset: 20, Order: trademark.OrderDesc})
	require.NoError(t, err)
	assert.Contains(t, q, "SELECT DISTINCT j.normalized_app_num FROM jiken_c_t j WHERE j.normalized_app_num = $1")
	assert.Contains(t, q, "ORDER BY j.normalized_app_num DESC")
	assert.Contains(t, q, "LIMIT ")
	assert.Contains(t, q, "OFFSET ")
	require.NotEmpty(t, args)
	assert.Equal(t, "2020012345", args[0])

	q, _, err = r.PageQuery(pred, trademark.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Contains(t, q, "ORDER BY j.normalized_app_num ASC")
}

func TestQuery_ApplicantUsesApplicantLink(t *testing.T) {
	t.Parallel()

	r := New(&fakeExec{}, SQLite(), nil)
	pred, err := query.NewBuilder(query.BuilderConfig{}).Build(query.Criteria{ApplicantName: "トヨタ"}, query.Mode{Base: query.BasePlain})
	require.NoError(t, err)

	q, _, err := r.CountQuery(pred)
	require.NoError(t, err)
	assert.Contains(t, q, "FROM jiken_c_t_shutugannindairinin ap JOIN applicant_master_full amf ON amf.appl_cd = ap.shutugannindairinin_code")
	assert.Contains(t, q, "ap.shutugannindairinin_sikbt = '1'")
	assert.Contains(t, q, "apm.applicant_name LIKE ?")
	assert.Contains(t, q, "am.appl_name LIKE ?")
}

func TestQuery_RejectsSubstringApplicationNumber(t *testing.T) {
	t.Parallel()

	r := New(&fakeExec{}, SQLite(), nil)
	_, _, err := r.CountQuery(query.Predicate{Root: query.Match{Field: query.FieldApplicationNumber, Value: "2020"}})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidCriteria(err))
}

func TestQuery_EmptyGroups(t *testing.T) {
	t.Parallel()

	r := New(&fakeExec{}, SQLite(), nil)
	q, _, err := r.CountQuery(query.Predicate{Root: &query.Group{Op: query.OpOr}})
	require.NoError(t, err)
	assert.Contains(t, q, "WHERE 1 = 0")

	q, _, err = r.CountQuery(query.Predicate{Root: &query.Group{Op: query.OpAnd}})
	require.NoError(t, err)
	assert.Contains(t, q, "WHERE 1 = 1")
}

func TestContainsPattern_EscapesMetacharacters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `%100\%\_OFF\\%`, containsPattern(`100%_OFF\`))
}

func TestPostgresDialect_Forms(t *testing.T) {
	t.Parallel()

	d := Postgres()
	assert.Equal(t, "s.col", d.FormExpr("s.col", query.FormRaw))

	basic := d.FormExpr("s.col", query.FormBasic)
	assert.True(t, strings.HasPrefix(basic, "UPPER("), basic)
	assert.Contains(t, basic, "TRANSLATE(")
	assert.Contains(t, basic, "s.col")
	assert.NotContains(t, strings.ReplaceAll(basic, "$$", ""), "$")

	pron := d.FormExpr("s.col", query.FormPronunciation)
	assert.Equal(t, len(normalize.PronunciationRules()), strings.Count(pron, "REPLACE(")-strings.Count(basic, "REPLACE("))
	assert.Contains(t, pron, basic)
}

func TestPostgresDialect_LiteralQuoting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `'it''s'`, literal("it's"))
	assert.Equal(t, "$$1", escapeDollar("$1"))
}

func TestCountCandidates_WrapsBackendErrors(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{err: fmt.Errorf("connection refused")}
	r := New(exec, SQLite(), nil)

	_, err := r.CountCandidates(context.Background(), query.Predicate{})
	require.Error(t, err)
	assert.True(t, errors.IsBackendUnavailable(err))

	_, err = r.PageCandidates(context.Background(), query.Predicate{}, trademark.PageRequest{Limit: 5})
	assert.True(t, errors.IsBackendUnavailable(err))

	_, err = r.MarkVariants(context.Background(), []string{"1"})
	assert.True(t, errors.IsBackendUnavailable(err))
}

func TestPageCandidates_ZeroLimitSkipsQuery(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{}
	r := New(exec, SQLite(), nil)
	ids, err := r.PageCandidates(context.Background(), query.Predicate{}, trademark.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, exec.calls)
}

func TestDetails_Decode(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{rows: map[string][][]sql.NullString{
		"jiken_c_t_enhanced": {
			ns("2020000001", "20200101", "20200601", "6000001", "20200615", "<nil>", "20300601", "<nil>", "<nil>"),
			ns("2020000001", "dup", "", "", "", "", "", "", ""),
		},
		"FROM standard_char_t_art": {ns("2020000001", "ソニー")},
		"FROM t_dsgnt_art":         {ns("2020000001", "ソニー")},
		"FROM goods_class_art":     {ns("2020000001", "09")},
		"FROM jiken_c_t_shohin_joho": {
			ns("2020000001", "09", "電子計算機"),
		},
		"FROM t_knd_info_art_table": {ns("2020000001", "11C01")},
		"FROM applicant_mapping": {
			ns("000001", "ソニー推定", "東京都", "12"),
			ns("000001", "別名", "<nil>", "<nil>"),
		},
		"FROM jiken_c_t_shutugannindairinin": {
			ns("2020000001", "000001", "ソニーグループ株式会社", "ソニー", "SONY", "東京都港区", "<nil>", "<nil>"),
		},
		"FROM reg_mapping": {ns("2020000001", "6000001", "ソニー株式会社", "東京都")},
		"FROM t_sample":    {ns("2020000001")},
	}}
	r := New(exec, SQLite(), nil)
	ctx := context.Background()
	ids := []string{"2020000001"}

	apps, err := r.Applications(ctx, ids)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "20200101", apps[0].FilingDate)
	assert.Equal(t, "6000001", apps[0].RegistrationNumber)
	assert.Equal(t, "", apps[0].PublicationDate)
	assert.Equal(t, "20300601", apps[0].ExpiryDate)

	variants, err := r.MarkVariants(ctx, ids)
	require.NoError(t, err)
	assert.ElementsMatch(t, []trademark.MarkVariant{
		{Number: "2020000001", Kind: trademark.VariantStandardCharacter, Text: "ソニー"},
		{Number: "2020000001", Kind: trademark.VariantPhonetic, Text: "ソニー"},
	}, variants)

	classes, err := r.Classifications(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, []trademark.Classification{
		{Number: "2020000001", ClassNumber: "09"},
		{Number: "2020000001", ClassNumber: "09", DesignatedGoods: "電子計算機"},
	}, classes)

	groups, err := r.SimilarGroups(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, []trademark.SimilarGroup{{Number: "2020000001", Codes: "11C01"}}, groups)

	appls, err := r.Applicants(ctx, ids)
	require.NoError(t, err)
	require.Len(t, appls, 1)
	assert.Equal(t, "ソニーグループ株式会社", appls[0].MasterName)
	assert.Equal(t, "SONY", appls[0].MasterWesternName)
	assert.Equal(t, []trademark.ApplicantMapping{
		{Name: "ソニー推定", Address: "東京都", TrademarkCount: 12},
		{Name: "別名"},
	}, appls[0].Mappings)

	holders, err := r.RightsHolders(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, []trademark.RightsHolder{{Number: "2020000001", RegistrationNumber: "6000001", Name: "ソニー株式会社", Address: "東京都"}}, holders)

	images, err := r.HasImages(ctx, []string{"2020000001", "2020000002"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"2020000001": true}, images)
}

func TestDetails_Batching(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{}
	r := New(exec, SQLite(), nil, WithBatchSize(2))
	_, err := r.SimilarGroups(context.Background(), []string{"1", "2", "3", "4", "5"})
	require.NoError(t, err)
	require.Len(t, exec.calls, 3)
	assert.Len(t, exec.calls[0].args, 2)
	assert.Len(t, exec.calls[2].args, 1)
	assert.Contains(t, exec.calls[0].query, "normalized_app_num IN (?, ?)")
}

func TestDetails_EmptyIDsSkipQuery(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{}
	r := New(exec, SQLite(), nil)
	got, err := r.Applicants(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, exec.calls)
}

//Personal.AI order the ending
