package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing destination, end km before start km).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrEmptyInput is returned when an export that requires records is asked to
// run over an empty record set. No document is produced.
var ErrEmptyInput = errors.New("no records to export")

// ErrTemplateFetch is returned when a spreadsheet template could not be
// loaded or opened. The whole export fails with no partial output.
var ErrTemplateFetch = errors.New("template fetch failed")

// ErrSerialization is returned when a filled workbook could not be written
// to bytes. Documents already emitted by the same export stay emitted.
var ErrSerialization = errors.New("document serialization failed")
