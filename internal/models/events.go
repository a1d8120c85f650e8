package models

import "github.com/google/uuid"

// WebSocket message types
const (
	WSTypeStage     = "stage"
	WSTypeCompleted = "completed"
	WSTypeError     = "error"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StageUpdate struct {
	RunID      uuid.UUID `json:"run_id"`
	Stage      string    `json:"stage"`
	Step       int       `json:"step"`
	TotalSteps int       `json:"total_steps"`
	Items      int       `json:"items"`
}

type CompletedEvent struct {
	RunID   uuid.UUID `json:"run_id"`
	Count   int       `json:"count"`
	Outcome string    `json:"outcome"`
}

type ErrorEvent struct {
	RunID        uuid.UUID `json:"run_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
