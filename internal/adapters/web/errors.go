package web

import (
	"encoding/json"
	"net/http"

	"arthavidhi/internal/app"
)

type errorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeJSON(w, status, errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	})
}

// writeAppError maps an ApplicationService error onto its HTTP status. Database
// failures were already logged by the service and carry only a generic message.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{
		Error:     app.PublicMessage(err),
		RequestID: requestIDFromContext(r.Context()),
	}
	status := http.StatusInternalServerError
	switch app.Classify(err) {
	case app.KindValidation:
		status, resp.Code = http.StatusUnprocessableEntity, "VALIDATION_FAILED"
		resp.Fields = app.FieldErrors(err)
	case app.KindNotFound:
		status, resp.Code = http.StatusNotFound, "NOT_FOUND"
	case app.KindUnauthorized:
		status, resp.Code = http.StatusUnauthorized, "UNAUTHORIZED"
	case app.KindUnavailable:
		status, resp.Code = http.StatusServiceUnavailable, "UNAVAILABLE"
	default:
		resp.Code = "DATABASE_ERROR"
	}
	writeJSON(w, status, resp)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
