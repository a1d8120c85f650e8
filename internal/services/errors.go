package services

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// UpstreamError is a failed call to the video platform or the spreadsheet
// service. It is fatal for the run that issued it.
type UpstreamError struct {
	Stage string
	Op    string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Stage, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status reported by the Google API, or 0.
func (e *UpstreamError) StatusCode() int {
	var gerr *googleapi.Error
	if errors.As(e.Err, &gerr) {
		return gerr.Code
	}
	return 0
}

// ExportPreconditionError rejects an export before any spreadsheet call.
type ExportPreconditionError struct {
	Message       string
	NotConfigured bool
}

func (e *ExportPreconditionError) Error() string { return e.Message }

func upstream(stage, op string, err error) error {
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		return err
	}
	return &UpstreamError{Stage: stage, Op: op, Err: err}
}
