package handlers

import (
	"net/http"
	"time"
)

const serviceName = "ShortScope YouTube Shorts Analyzer"

var endpoints = []string{
	"/api/search_shorts",
	"/api/export/sheets",
	"/api/webhook",
	"/api/v1/ws",
	"/health",
}

type MetaHandler struct {
	now func() time.Time
}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{now: time.Now}
}

func (h *MetaHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   serviceName,
		"endpoints": endpoints,
	})
}

func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"time": h.now().UTC().Format(time.RFC3339),
	})
}
