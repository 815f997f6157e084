package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cafesync/internal/common/logger"
	"cafesync/internal/domain"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

var lg = logger.New("http")

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// List writes data together with its length.
func List[T any](w http.ResponseWriter, data []T) {
	if data == nil {
		data = []T{}
	}
	n := len(data)
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &n})
}

func Created(w http.ResponseWriter, data any, msg string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, Message: msg})
}

func Message(w http.ResponseWriter, data any, msg string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Message: msg})
}

func Fail(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, Envelope{Success: false, Error: msg})
}

// WriteError maps domain sentinels onto status codes. Anything unknown is a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		Fail(w, http.StatusConflict, err.Error())
	default:
		lg.Error("request_failed", err, map[string]any{"method": r.Method, "path": r.URL.Path})
		Fail(w, http.StatusInternalServerError, err.Error())
	}
}

// Decode reads a JSON body; a malformed body is a validation error.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("Invalid JSON body")
	}
	return nil
}

// AtoiDefault parses s, falling back to d when it is empty or malformed.
func AtoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

// BoolParam returns nil when the query parameter is absent.
func BoolParam(r *http.Request, key string) *bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	b := v == "true" || v == "1"
	return &b
}
