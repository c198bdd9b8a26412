package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"daytrack/internal/core"
	applog "daytrack/internal/log"
	"daytrack/internal/services"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a builder with a default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{statusCode: http.StatusOK, headers: make(map[string]string)}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response. A nil body writes only the status.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string          `json:"error"`
	Field     string          `json:"field,omitempty"`
	Conflicts []core.Activity `json:"conflicts,omitempty"`
}

// ErrorResponse creates a JSON error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}

// writeError maps service and core errors onto status codes: malformed
// requests 400, missing records 404, overlaps 409 with the conflicting
// activities, validation failures 422, everything else 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		overlap *core.OverlapError
		ve      *services.ValidationError
	)
	logger := applog.FromContext(r.Context())

	switch {
	case errors.Is(err, errBadRequest):
		ErrorResponse(http.StatusBadRequest, err.Error()).Write(w)
	case services.IsNotFound(err):
		ErrorResponse(http.StatusNotFound, err.Error()).Write(w)
	case errors.As(err, &overlap):
		NewJSONResponse().Status(http.StatusConflict).
			Body(errorBody{Error: core.ErrOverlap.Error(), Conflicts: overlap.Conflicts}).
			Write(w)
	case errors.As(err, &ve):
		NewJSONResponse().Status(http.StatusUnprocessableEntity).
			Body(errorBody{Error: ve.Err.Error(), Field: ve.Field}).
			Write(w)
	default:
		logger.ErrorContext(r.Context(), "Request failed",
			applog.NewFields().WithError(err, applog.ErrorTypeInternal).
				WithHTTPRequest(r.Method, r.URL.Path, "", "").ToSlice()...)
		ErrorResponse(http.StatusInternalServerError, "internal error").Write(w)
	}
}
