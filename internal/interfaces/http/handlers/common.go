package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/thumblens/thumblens/pkg/client"
	"github.com/thumblens/thumblens/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code errors.ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:      code.String(),
		Message:   message,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

// writeAppError maps err onto a status.  Statistics service failures are
// 502 except a 404, which is passed through; internal errors are masked.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	if apiErr, ok := client.AsAPIError(err); ok {
		status := http.StatusBadGateway
		if apiErr.IsNotFound() {
			status = http.StatusNotFound
		}
		writeError(w, r, status, errors.CodeAPIStatus, apiErr.Error())
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, r, http.StatusGatewayTimeout, errors.CodeTimeout, errors.DefaultMessageForCode(errors.CodeTimeout))
		return
	}

	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	switch code {
	case errors.CodeUnknown, errors.CodeInternal:
		writeError(w, r, http.StatusInternalServerError, errors.CodeInternal, errors.DefaultMessageForCode(errors.CodeInternal))
	default:
		writeError(w, r, status, code, err.Error())
	}
}
