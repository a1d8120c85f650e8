package handlers

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortscope-backend/internal/services"
)

func TestBuildSearchRequest_Defaults(t *testing.T) {
	req, err := buildSearchRequest(url.Values{"q": {" cats "}}.Get)
	require.NoError(t, err)

	assert.Equal(t, "cats", req.Keyword)
	assert.Equal(t, 100, req.MaxResults)
	assert.Equal(t, 90, req.Days)
	assert.Equal(t, 60, req.MaxDurationSec)
	assert.Equal(t, "viewCount", req.Order)
	assert.True(t, req.ShortsOnly)
	assert.False(t, req.AutoExport)
	assert.NotEqual(t, uuid.Nil, req.RunID, "a run id is generated")
}

func TestBuildSearchRequest_AllParameters(t *testing.T) {
	runID := uuid.New()
	values := url.Values{
		"q":                {"dance"},
		"max_results":      {"200"},
		"days":             {"1"},
		"order":            {"date"},
		"shorts_only":      {"false"},
		"max_duration_sec": {"600"},
		"region":           {"kr"},
		"auto_export":      {"TRUE"},
		"sheet_name":       {"weekly"},
		"run_id":           {runID.String()},
	}

	req, err := buildSearchRequest(values.Get)
	require.NoError(t, err)

	assert.Equal(t, 200, req.MaxResults)
	assert.Equal(t, 1, req.Days)
	assert.Equal(t, 600, req.MaxDurationSec)
	assert.Equal(t, "date", req.Order)
	assert.Equal(t, "KR", req.Region)
	assert.Equal(t, "weekly", req.SheetName)
	assert.False(t, req.ShortsOnly)
	assert.True(t, req.AutoExport)
	assert.Equal(t, runID, req.RunID)
}

func TestBuildSearchRequest_Validation(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		field string
	}{
		{"missing keyword", url.Values{}, "q"},
		{"blank keyword", url.Values{"q": {"   "}}, "q"},
		{"max_results too high", url.Values{"q": {"x"}, "max_results": {"201"}}, "max_results"},
		{"max_results zero", url.Values{"q": {"x"}, "max_results": {"0"}}, "max_results"},
		{"days too high", url.Values{"q": {"x"}, "days": {"181"}}, "days"},
		{"days not a number", url.Values{"q": {"x"}, "days": {"week"}}, "days"},
		{"duration too high", url.Values{"q": {"x"}, "max_duration_sec": {"601"}}, "max_duration_sec"},
		{"bad flag", url.Values{"q": {"x"}, "shorts_only": {"maybe"}}, "shorts_only"},
		{"bad region", url.Values{"q": {"x"}, "region": {"USA"}}, "region"},
		{"bad run id", url.Values{"q": {"x"}, "run_id": {"123"}}, "run_id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildSearchRequest(tc.query.Get)

			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		expected map[string]string
	}{
		{
			"full command",
			"cats|50|7|date|true|45|false|US",
			map[string]string{
				"q": "cats", "max_results": "50", "days": "7", "order": "date",
				"shorts_only": "true", "max_duration_sec": "45", "auto_export": "false", "region": "US",
			},
		},
		{"keyword only", "cats", map[string]string{"q": "cats"}},
		{"empty positions take defaults", "cats||30", map[string]string{"q": "cats", "days": "30"}},
		{"extra positions ignored", "cats|1|2|views|true|3|false|US|extra", map[string]string{
			"q": "cats", "max_results": "1", "days": "2", "order": "views",
			"shorts_only": "true", "max_duration_sec": "3", "auto_export": "false", "region": "US",
		}},
		{"empty", "", map[string]string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parseCommand(tc.command))
		})
	}
}

func TestWebhookParams(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected map[string]string
	}{
		{"raw command", "cats|20", map[string]string{"q": "cats", "max_results": "20"}},
		{"json command", `{"command":"cats|20"}`, map[string]string{"q": "cats", "max_results": "20"}},
		{
			"json fields",
			`{"q":"cats","max_results":20,"shorts_only":false,"region":null}`,
			map[string]string{"q": "cats", "max_results": "20", "shorts_only": "false"},
		},
		{"keyword alias", `{"keyword":"cats"}`, map[string]string{"q": "cats", "keyword": "cats"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := webhookParams([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := webhookParams([]byte(`{"q":`))
	assert.Error(t, err, "malformed JSON")
}
