package session

import "errors"

// Sentinel errors for session actions.
var (
	ErrNotFound        = errors.New("citation not found")
	ErrNotRetryable    = errors.New("only failed citations can be retried")
	ErrNothingToExport = errors.New("no completed citations to export")
	ErrPassInProgress  = errors.New("a processing pass is already running")
)
