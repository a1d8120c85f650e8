package handlers

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"shortscope-backend/internal/models"
	"shortscope-backend/internal/services"
)

const (
	defaultMaxResults     = 100
	defaultDays           = 90
	defaultOrder          = "views"
	defaultMaxDurationSec = 60
)

// commandFields is the positional layout of a webhook command string.
var commandFields = []string{
	"q", "max_results", "days", "order", "shorts_only", "max_duration_sec", "auto_export", "region",
}

// parseCommand splits "keyword|max_results|days|..." into named parameters.
// Empty and missing positions are left out so they take their defaults.
func parseCommand(command string) map[string]string {
	params := map[string]string{}
	parts := strings.Split(strings.TrimSpace(command), "|")
	for i, part := range parts {
		if i >= len(commandFields) {
			break
		}
		if v := strings.TrimSpace(part); v != "" {
			params[commandFields[i]] = v
		}
	}
	return params
}

// buildSearchRequest parses and validates raw parameters, collecting every
// problem into one ValidationError.
func buildSearchRequest(get func(string) string) (models.SearchRequest, error) {
	fields := map[string]string{}

	req := models.SearchRequest{
		Keyword:        strings.TrimSpace(get("q")),
		Order:          models.ResolveOrder(valueOr(get("order"), defaultOrder)),
		Region:         strings.ToUpper(strings.TrimSpace(get("region"))),
		SheetName:      strings.TrimSpace(get("sheet_name")),
		MaxResults:     intParam(get, "max_results", defaultMaxResults, fields),
		Days:           intParam(get, "days", defaultDays, fields),
		MaxDurationSec: intParam(get, "max_duration_sec", defaultMaxDurationSec, fields),
		ShortsOnly:     boolParam(get, "shorts_only", true, fields),
		AutoExport:     boolParam(get, "auto_export", false, fields),
	}

	for key, msg := range req.Validate() {
		if _, ok := fields[key]; !ok {
			fields[key] = msg
		}
	}
	if raw := strings.TrimSpace(get("run_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fields["run_id"] = "must be a UUID"
		}
		req.RunID = id
	}
	if req.RunID == uuid.Nil {
		req.RunID = uuid.New()
	}

	if len(fields) > 0 {
		return models.SearchRequest{}, &services.ValidationError{Fields: fields}
	}
	return req, nil
}

// intParam returns def for an absent value; unparsable values are recorded
// in fields and also return def.
func intParam(get func(string) string, key string, def int, fields map[string]string) int {
	raw := strings.TrimSpace(get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fields[key] = "must be an integer"
		return def
	}
	return n
}

func boolParam(get func(string) string, key string, def bool, fields map[string]string) bool {
	raw := strings.TrimSpace(get(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		fields[key] = "must be true or false"
		return def
	}
	return b
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
