package handlers

import (
	"encoding/json"
	"net/http"

	"shortscope-backend/internal/models"
)

type ExportHandler struct {
	exporter exporter
}

func NewExportHandler(e exporter) *ExportHandler {
	return &ExportHandler{exporter: e}
}

func (h *ExportHandler) ExportSheets(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	result, err := h.exporter.Export(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
