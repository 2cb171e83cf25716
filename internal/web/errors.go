package web

// errors.go turns handler errors into JSON responses.
//
// Every error is logged with its technical detail and request ID, then
// mapped through core.MapError so clients see a message, an action and a
// support code they can quote.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/LabMaster/internal/codec"
	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/logging"
	"github.com/JonMunkholm/LabMaster/internal/persistence"
)

var (
	errRateLimited = errors.New("rate limit exceeded")
	errNoFile      = errors.New("no file provided")
	errEmptyFile   = errors.New("empty file")
	errBadBody     = errors.New("invalid request body")
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Action  string                 `json:"action,omitempty"`
	Code    string                 `json:"code"`
	Fields  []core.ValidationError `json:"fields,omitempty"`
}

// respondError logs err and writes its user message with status.
// A status of 0 picks one with statusFor.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	if status == 0 {
		status = statusFor(err)
	}
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = verrs
	}
	if errors.Is(err, core.ErrTooManyImports) && w.Header().Get("Retry-After") == "" {
		w.Header().Set("Retry-After", "5")
	}
	writeJSON(w, status, resp)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	var (
		verrs    core.ValidationErrors
		codecErr *codec.Error
		maxBytes *http.MaxBytesError
	)
	switch {
	case errors.Is(err, core.ErrUnknownCategory), errors.Is(err, core.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrInvalidFilter),
		errors.Is(err, core.ErrNoCategories),
		errors.Is(err, codec.ErrUnsupportedFormat),
		errors.As(err, &codecErr),
		errors.Is(err, errNoFile),
		errors.Is(err, errEmptyFile),
		errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, persistence.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
