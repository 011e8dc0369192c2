package contentblocks

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrInvalidQuery indicates a filter string that could not be parsed
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidID indicates an identifier that is not a 24 character hex object id
	ErrInvalidID = errors.New("invalid content id")

	// ErrInvalidDocument indicates a request body that is not a JSON object
	ErrInvalidDocument = errors.New("invalid content document")

	// ErrNotFound indicates a single content item lookup missed
	ErrNotFound = errors.New("content not found")

	// ErrNoRecordsFound indicates a list query returned nothing or the store failed
	ErrNoRecordsFound = errors.New("no records found")

	// ErrUpdateFailed indicates an update matched nothing or the store failed
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed indicates a delete matched nothing or the store failed
	ErrDeleteFailed = errors.New("delete failed")

	// ErrScriptInjection indicates a write body carrying script markup
	ErrScriptInjection = errors.New("script tags are not allowed")
)

// ContentError represents an error related to a content item operation
type ContentError struct {
	ID  string
	Op  string
	Err error
}

func (e *ContentError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("content operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// QueryError represents a filter string that could not be sanitized
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid JSON object passed in query %s: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() []error {
	return []error{ErrInvalidQuery, e.Err}
}
