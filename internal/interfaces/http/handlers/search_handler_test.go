package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
	"github.com/turtacn/KeyMark-Search/internal/testutil"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
	"github.com/turtacn/KeyMark-Search/pkg/types/common"
)

type envelope[T any] struct {
	Success    bool               `json:"success"`
	Data       T                  `json:"data"`
	Pagination *common.Pagination `json:"pagination"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func fixture(id, mark, class string) testutil.Fixture {
	return testutil.Fixture{
		Application:     trademark.Application{Number: id, FilingDate: "20200115"},
		Variants:        map[trademark.VariantKind]string{trademark.VariantStandardCharacter: mark},
		Classifications: []trademark.Classification{{ClassNumber: class}},
	}
}

func newTestRouter(reg *testutil.MemoryRegistry, logger *testutil.MockLogger) http.Handler {
	svc := search.NewService(search.Deps{Registry: reg, Images: reg})
	h := NewSearchHandler(svc, logger)
	r := chi.NewRouter()
	r.Post("/api/v1/search", h.Search)
	r.Get("/api/v1/trademarks/latest", h.Latest)
	r.Get("/api/v1/trademarks/{appNumber}", h.Get)
	r.Get("/api/v1/normalize", h.Normalize)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearch_ReturnsPage(t *testing.T) {
	reg := testutil.NewMemoryRegistry().
		Add(fixture("2020000001", "ブルドッグ", "09")).
		Add(fixture("2020000002", "ブルーム", "09")).
		Add(fixture("2020000003", "ソニー", "09"))
	router := newTestRouter(reg, nil)

	rec := serve(router, http.MethodPost, "/api/v1/search",
		`{"criteria":{"mark_text":"ブル"},"mode":"plain","limit":1,"offset":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	env := decode[search.SearchResult](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, int64(2), env.Data.Total)
	assert.Equal(t, 1, env.Data.Limit)
	assert.Equal(t, 1, env.Data.Offset)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, common.NewPagination(1, 1, 2), *env.Pagination)
	require.Len(t, env.Data.Records, 1)
	assert.Equal(t, "2020000002", env.Data.Records[0].ApplicationNumber)
}

func TestSearch_EmptyCriteriaIsBadRequest(t *testing.T) {
	reg := testutil.NewMemoryRegistry()
	rec := serve(newTestRouter(reg, nil), http.MethodPost, "/api/v1/search", `{"criteria":{}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[json.RawMessage](t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, errors.ErrCodeInvalidCriteria.String(), env.Error.Code)
	assert.Zero(t, reg.Calls())
}

func TestSearch_BadBody(t *testing.T) {
	router := newTestRouter(testutil.NewMemoryRegistry(), nil)

	for name, body := range map[string]string{
		"not json":      `{`,
		"unknown field": `{"criteria":{"mark_text":"x"},"colour":"red"}`,
		"bad order":     `{"criteria":{"mark_text":"x"},"order":"sideways"}`,
		"bad mode":      `{"criteria":{"mark_text":"x"},"mode":"psychic"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, "/api/v1/search", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestSearch_BackendFailureIsMasked(t *testing.T) {
	reg := testutil.NewMemoryRegistry()
	reg.Err = errors.BackendUnavailable(stderrors.New("dial tcp 10.0.0.5:5432: connection refused"), "count candidates")
	logger := testutil.NewMockLogger()

	rec := serve(newTestRouter(reg, logger), http.MethodPost, "/api/v1/search", `{"criteria":{"mark_text":"x"}}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env := decode[json.RawMessage](t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, errors.ErrCodeBackendUnavailable.String(), env.Error.Code)
	assert.NotContains(t, env.Error.Message, "10.0.0.5")
	assert.True(t, logger.HasMessage("error", "Request failed"))
}

func TestGet(t *testing.T) {
	reg := testutil.NewMemoryRegistry().Add(fixture("2020000001", "ブルドッグ", "09"))
	router := newTestRouter(reg, nil)

	rec := serve(router, http.MethodGet, "/api/v1/trademarks/2020-000001", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode[trademark.Record](t, rec)
	assert.Equal(t, "2020000001", env.Data.ApplicationNumber)
	assert.Equal(t, "ブルドッグ", env.Data.MarkText)

	rec = serve(router, http.MethodGet, "/api/v1/trademarks/2099999999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodGet, "/api/v1/trademarks/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLatest(t *testing.T) {
	reg := testutil.NewMemoryRegistry().
		Add(fixture("2020000001", "ブル", "09")).
		Add(fixture("2020000002", "ソニー", "09")).
		Add(fixture("2020000003", "テスト", "25"))
	router := newTestRouter(reg, nil)

	rec := serve(router, http.MethodGet, "/api/v1/trademarks/latest?class=09&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode[search.SearchResult](t, rec)
	assert.Equal(t, int64(2), env.Data.Total)
	require.Len(t, env.Data.Records, 2)
	assert.Equal(t, "2020000002", env.Data.Records[0].ApplicationNumber)
	assert.Equal(t, "2020000001", env.Data.Records[1].ApplicationNumber)

	rec = serve(router, http.MethodGet, "/api/v1/trademarks/latest?class=09&limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodGet, "/api/v1/trademarks/latest", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalize(t *testing.T) {
	router := newTestRouter(testutil.NewMemoryRegistry(), nil)

	rec := serve(router, http.MethodGet, "/api/v1/normalize?text=%E3%82%BD%E3%83%8B%E3%83%BC", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[normalize.Forms](t, rec)
	assert.Equal(t, normalize.All("ソニー"), env.Data)

	rec = serve(router, http.MethodGet, "/api/v1/normalize", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

//Personal.AI order the ending
