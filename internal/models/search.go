package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Outcome values of a search run.
const (
	OutcomeCompleted    = "completed"
	OutcomeNoCandidates = "no_candidates" // search returned no ids
	OutcomeNoMatches    = "no_matches"    // every item was filtered out or vanished
)

// SearchRequest is the validated input of one pipeline run.
type SearchRequest struct {
	RunID          uuid.UUID
	Keyword        string
	MaxResults     int
	Days           int
	Order          string // API value, already mapped from its alias
	Region         string
	ShortsOnly     bool
	MaxDurationSec int
	AutoExport     bool
	SheetName      string
}

// orderAliases translates accepted order aliases to search.list order values.
var orderAliases = map[string]string{
	"views":      "viewCount",
	"viewCount":  "viewCount",
	"date":       "date",
	"relevance":  "relevance",
	"rating":     "rating",
	"title":      "title",
	"videoCount": "videoCount",
}

// ResolveOrder maps an order alias to its API value; unknown aliases fall
// back to viewCount.
func ResolveOrder(alias string) string {
	if order, ok := orderAliases[strings.TrimSpace(alias)]; ok {
		return order
	}
	return "viewCount"
}

// Accepted parameter ranges.
const (
	MinMaxResults     = 1
	MaxMaxResults     = 200
	MinDays           = 1
	MaxDays           = 180
	MinMaxDurationSec = 1
	MaxMaxDurationSec = 600
)

// Validate returns a message per invalid field, or nil.
func (r SearchRequest) Validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(r.Keyword) == "" {
		fields["q"] = "is required"
	}
	checkRange(fields, "max_results", r.MaxResults, MinMaxResults, MaxMaxResults)
	checkRange(fields, "days", r.Days, MinDays, MaxDays)
	checkRange(fields, "max_duration_sec", r.MaxDurationSec, MinMaxDurationSec, MaxMaxDurationSec)
	if r.Region != "" && !isRegionCode(r.Region) {
		fields["region"] = "must be a two-letter country code"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func checkRange(fields map[string]string, key string, v, min, max int) {
	if v < min || v > max {
		fields[key] = fmt.Sprintf("must be between %d and %d", min, max)
	}
}

func isRegionCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

type SearchResult struct {
	RunID         uuid.UUID     `json:"run_id"`
	Keyword       string        `json:"keyword"`
	Count         int           `json:"count"`
	Outcome       string        `json:"outcome"`
	Videos        []Video       `json:"videos"`
	Export        *ExportResult `json:"export,omitempty"`
	ExportSkipped string        `json:"export_skipped,omitempty"`
}

// Empty reports whether the run short-circuited without results.
func (r *SearchResult) Empty() bool {
	return r.Outcome != OutcomeCompleted
}

type ExportRequest struct {
	Keyword   string  `json:"keyword"`
	SheetName string  `json:"sheetName"`
	Rows      []Video `json:"rows"`
}

type ExportResult struct {
	Message   string `json:"message"`
	SheetURL  string `json:"sheet_url"`
	SheetName string `json:"sheet_name"`
	Rows      int    `json:"rows"`
}
