package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/soaringjerry/TalentFlow/internal/assessment"
	"github.com/soaringjerry/TalentFlow/internal/services"
)

type errorBody struct {
	Error  string             `json:"error"`
	Code   string             `json:"code"`
	Issues []assessment.Issue `json:"issues,omitempty"`
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

// writeError maps service errors to status codes. Check failures carry
// their issue list so the author can see every problem at once.
func writeError(w http.ResponseWriter, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: "internal"})
		return
	}
	body := errorBody{Error: se.Message, Code: string(se.Code)}
	var cerr *assessment.CheckError
	if errors.As(err, &cerr) {
		body.Issues = cerr.Issues
	}
	if se.Code == services.ErrorUnavailable {
		slog.Warn("store unavailable", "error", err)
	}
	writeJSON(w, statusFor(se.Code), body)
}
