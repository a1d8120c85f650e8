package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"shortscope-backend/internal/models"
	"shortscope-backend/internal/services"
)

const maxWebhookBody = 64 << 10

type analyzer interface {
	Run(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error)
}

type exporter interface {
	Configured() bool
	Export(ctx context.Context, req models.ExportRequest) (*models.ExportResult, error)
}

// runNotifier is told how each run ended; stage updates reach it through the
// Analyzer itself.
type runNotifier interface {
	Completed(result *models.SearchResult)
	Failed(runID uuid.UUID, code, message string)
}

type SearchHandler struct {
	analyzer analyzer
	exporter exporter
	notifier runNotifier
	timeout  time.Duration
}

// NewSearchHandler accepts a nil notifier. timeout <= 0 leaves runs bounded
// only by the client connection.
func NewSearchHandler(a analyzer, e exporter, n runNotifier, timeout time.Duration) *SearchHandler {
	return &SearchHandler{analyzer: a, exporter: e, notifier: n, timeout: timeout}
}

func (h *SearchHandler) SearchShorts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req, err := buildSearchRequest(query.Get)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.respond(w, r, req)
}

// Webhook accepts either named parameters as JSON or a positional command
// string, as a raw body or in {"command": "..."}.
func (h *SearchHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	params, err := webhookParams(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	req, err := buildSearchRequest(func(key string) string { return params[key] })
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.respond(w, r, req)
}

func (h *SearchHandler) respond(w http.ResponseWriter, r *http.Request, req models.SearchRequest) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.run(ctx, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// run executes the pipeline and, when asked, the follow-up export. Missing
// export configuration rejects the request before any search call.
func (h *SearchHandler) run(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	if req.AutoExport && (h.exporter == nil || !h.exporter.Configured()) {
		return nil, &services.ExportPreconditionError{
			Message:       "auto_export requires Sheets export to be configured",
			NotConfigured: true,
		}
	}

	result, err := h.analyzer.Run(ctx, req)
	if err != nil {
		h.fail(req.RunID, err)
		return nil, err
	}

	if req.AutoExport {
		if result.Empty() {
			result.ExportSkipped = fmt.Sprintf("nothing to export (%s)", result.Outcome)
		} else {
			export, err := h.exporter.Export(ctx, models.ExportRequest{
				Keyword:   req.Keyword,
				SheetName: req.SheetName,
				Rows:      result.Videos,
			})
			if err != nil {
				h.fail(req.RunID, err)
				return nil, err
			}
			result.Export = export
		}
	}

	if h.notifier != nil {
		h.notifier.Completed(result)
	}
	return result, nil
}

func (h *SearchHandler) fail(runID uuid.UUID, err error) {
	if h.notifier == nil {
		return
	}
	_, code, message := classifyError(err)
	h.notifier.Failed(runID, code, message)
}

// webhookParams normalises a webhook body into the query parameter names.
func webhookParams(body []byte) (map[string]string, error) {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return parseCommand(trimmed), nil
	}

	var raw map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	if cmd, ok := raw["command"].(string); ok {
		return parseCommand(cmd), nil
	}

	params := make(map[string]string, len(raw))
	for key, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			params[key] = val
		default:
			params[key] = fmt.Sprint(val)
		}
	}
	if params["q"] == "" {
		params["q"] = params["keyword"]
	}
	return params, nil
}
