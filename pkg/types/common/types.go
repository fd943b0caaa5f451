// Package common holds the wire envelope shared by every HTTP response.
package common

import (
	"encoding/json"
	"time"
)

// Timestamp is a time.Time alias with custom JSON serialization.
type Timestamp time.Time

// NewTimestamp returns the current UTC time as a Timestamp.
func NewTimestamp() Timestamp {
	return Timestamp(time.Now().UTC())
}

// MarshalJSON implements json.Marshaler, using RFC 3339 with nanoseconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler. Plain RFC 3339 is accepted.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

// Pagination describes one offset-addressed page of a larger result.
type Pagination struct {
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}

// NewPagination fills HasMore from the page bounds. A zero limit means the
// page was not bounded.
func NewPagination(offset, limit int, total int64) Pagination {
	return Pagination{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		HasMore: limit > 0 && int64(offset+limit) < total,
	}
}

// ErrorDetail is the error half of the envelope.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// APIResponse is the generic wrapper for all API responses.
type APIResponse[T any] struct {
	Success    bool         `json:"success"`
	Data       T            `json:"data,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	RequestID  string       `json:"request_id"`
	Timestamp  Timestamp    `json:"timestamp"`
}

// NewSuccessResponse creates a successful APIResponse.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success:   true,
		Data:      data,
		Timestamp: NewTimestamp(),
	}
}

// NewPaginatedResponse creates a successful APIResponse carrying page bounds.
func NewPaginatedResponse[T any](data T, pagination Pagination) APIResponse[T] {
	resp := NewSuccessResponse(data)
	resp.Pagination = &pagination
	return resp
}

// NewErrorResponse creates an error APIResponse.
func NewErrorResponse(code string, message string) APIResponse[any] {
	return APIResponse[any]{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
		},
		Timestamp: NewTimestamp(),
	}
}

//Personal.AI order the ending
