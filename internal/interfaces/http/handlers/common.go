package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
	"github.com/turtacn/KeyMark-Search/pkg/types/common"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeData wraps data in the standard success envelope.
func writeData[T any](w http.ResponseWriter, r *http.Request, statusCode int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = chimw.GetReqID(r.Context())
	writeJSON(w, statusCode, resp)
}

// writePage wraps a search result in the success envelope with its page
// bounds.
func writePage(w http.ResponseWriter, r *http.Request, result *search.SearchResult) {
	resp := common.NewPaginatedResponse(result, common.NewPagination(result.Offset, result.Limit, result.Total))
	resp.RequestID = chimw.GetReqID(r.Context())
	writeJSON(w, http.StatusOK, resp)
}

// writeAppError maps err to its HTTP status and writes the error envelope.
// Server-side failures are logged and their message is replaced by the
// generic text for the code.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	message := err.Error()
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		if appErr.Detail != "" {
			message += ": " + appErr.Detail
		}
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			logging.String("path", r.URL.Path),
			logging.String("code", code.String()),
			logging.Err(err))
		message = errors.DefaultMessageForCode(code)
	}
	resp := common.NewErrorResponse(code.String(), message)
	resp.RequestID = chimw.GetReqID(r.Context())
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields. The body
// size limit is applied by the router.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, errors.CodeInvalidParam, "invalid request body")
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.InvalidParam(name + " must be a non-negative integer")
	}
	return n, nil
}

//Personal.AI order the ending
