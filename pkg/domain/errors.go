package domain

import "errors"

// Error classes shared across the storage, extraction, and persistence
// layers. Callers wrap these with fmt.Errorf("%w: reason") so the class
// stays matchable with errors.Is while the message carries the reason.
var (
	// ErrValidation indicates rejected input: wrong extension, oversized
	// file, non-PDF signature, or a page-count ceiling violation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a missing book or a missing stored file.
	ErrNotFound = errors.New("not found")

	// ErrExtraction indicates the PDF container itself could not be
	// opened or parsed. Per-page failures are not classified here; they
	// are reported inline on the PageResult.
	ErrExtraction = errors.New("extraction failed")

	// ErrStorage indicates a filesystem write failure.
	ErrStorage = errors.New("storage failure")

	// ErrPersistence indicates a database failure.
	ErrPersistence = errors.New("persistence failure")
)
