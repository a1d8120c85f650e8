package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"shortscope-backend/internal/models"
	"shortscope-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return errorRespWithFields(code, message, nil, r)
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// classifyError maps a service error to its HTTP status and API error code.
func classifyError(err error) (int, string, string) {
	var (
		verr *services.ValidationError
		perr *services.ExportPreconditionError
		uerr *services.UpstreamError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed"
	case errors.As(err, &perr):
		if perr.NotConfigured {
			return http.StatusServiceUnavailable, "EXPORT_NOT_CONFIGURED", perr.Message
		}
		return http.StatusBadRequest, "EXPORT_PRECONDITION", perr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT", "The request took too long"
	case errors.As(err, &uerr):
		return http.StatusBadGateway, "UPSTREAM_ERROR", uerr.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, status, errorRespWithFields(code, message, verr.Fields, r))
		return
	}
	writeJSON(w, status, errorResp(code, message, r))
}
