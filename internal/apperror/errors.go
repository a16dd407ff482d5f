// Package apperror defines the error taxonomy shared by services and the HTTP
// layer. Callers match with errors.Is against the sentinels below, or use
// KindOf to get the category of any wrapped error.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotAuthenticated
	KindNoImageUploaded
	KindSourceMissing
	KindNotFound
	KindStorage
	KindProcessing
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindNoImageUploaded:
		return "no_image_uploaded"
	case KindSourceMissing:
		return "source_missing"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage_failure"
	case KindProcessing:
		return "processing_failure"
	default:
		return "internal"
	}
}

// Error is a categorized sentinel. Concrete failures wrap one of these.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	// Validation
	ErrBlankName         = New(KindValidation, "name must not be blank")
	ErrNoFileSelected    = New(KindValidation, "no file selected")
	ErrUnsupportedFormat = New(KindValidation, "unsupported file format")
	ErrPayloadTooLarge   = New(KindValidation, "file too large")
	ErrUnknownFilter     = New(KindValidation, "unknown filter")
	ErrFilterNameTooLong = New(KindValidation, "filter name too long")
	ErrInvalidFilename   = New(KindValidation, "invalid filename")

	// Flow
	ErrNotAuthenticated = New(KindNotAuthenticated, "please set your name first")
	ErrNoImageUploaded  = New(KindNoImageUploaded, "please upload an image first")
	ErrSourceMissing    = New(KindSourceMissing, "uploaded file not found, please upload again")
	ErrFileNotFound     = New(KindNotFound, "file not found")
	ErrRecordNotFound   = New(KindNotFound, "history record not found")

	// Failures
	ErrStorageFailure    = New(KindStorage, "storage failure")
	ErrProcessingFailure = New(KindProcessing, "processing failure")
)

// Storage wraps cause as a StorageFailure with a short description of the
// operation that failed.
func Storage(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, cause)
}

// Processing wraps cause as a ProcessingFailure.
func Processing(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrProcessingFailure, op, cause)
}

// KindOf reports the category of err, KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
