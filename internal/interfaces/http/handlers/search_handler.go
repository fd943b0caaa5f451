package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// SearchHandler serves the trademark search API.
type SearchHandler struct {
	svc    search.Service
	logger logging.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(svc search.Service, logger logging.Logger) *SearchHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SearchHandler{svc: svc, logger: logger.Named("http.search")}
}

// Search handles POST /api/v1/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var dto search.SearchRequestDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	req, err := dto.ToRequest()
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	result, err := h.svc.Search(r.Context(), req)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writePage(w, r, result)
}

// Get handles GET /api/v1/trademarks/{appNumber}.
func (h *SearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	appNumber := chi.URLParam(r, "appNumber")
	if appNumber == "" {
		writeAppError(w, r, h.logger, errors.InvalidParam("application number is required"))
		return
	}

	record, err := h.svc.Get(r.Context(), appNumber)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, record)
}

// Latest handles GET /api/v1/trademarks/latest. Query parameters mirror the
// criteria fields: app, mark, applicant, class, goods, group.
func (h *SearchHandler) Latest(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	q := r.URL.Query()
	criteria := query.Criteria{
		ApplicationNumber: q.Get("app"),
		MarkText:          q.Get("mark"),
		ApplicantName:     q.Get("applicant"),
		Classification:    q.Get("class"),
		DesignatedGoods:   q.Get("goods"),
		SimilarGroupCodes: q.Get("group"),
	}

	result, err := h.svc.Latest(r.Context(), criteria, limit)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writePage(w, r, result)
}

// Normalize handles GET /api/v1/normalize?text=...
func (h *SearchHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		writeAppError(w, r, h.logger, errors.InvalidParam("text is required"))
		return
	}
	writeData(w, r, http.StatusOK, normalize.All(text))
}

//Personal.AI order the ending
