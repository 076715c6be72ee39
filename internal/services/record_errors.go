package services

import "errors"

// Shared failure taxonomy for the record access layer. Validation errors are
// raised before any repository call; repository failures are wrapped in
// ErrRemoteOperationFailed and propagate to the caller unchanged.
var (
	ErrInvalidUserID         = errors.New("invalid or missing user id")
	ErrInvalidRecordData     = errors.New("invalid record data")
	ErrUnknownFieldType      = errors.New("unknown field type")
	ErrFieldValidationFailed = errors.New("field validation failed")
	ErrNotFound              = errors.New("record not found")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrRemoteOperationFailed = errors.New("remote operation failed")
)
