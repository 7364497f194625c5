package errors

import "errors"

// Server/transport errors.
var (
	ErrAPIRequest  = errors.New("API request failed")
	ErrAPIResponse = errors.New("unexpected API response")
)

// Sync errors.
var (
	ErrUploadRetriesExhausted = errors.New("upload retries exhausted")
)
