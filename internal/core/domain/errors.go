package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCrawlInProgress indicates a crawl is already running.
	ErrCrawlInProgress = errors.New("crawl in progress")

	// Extraction Errors.
	// All of these abort the current page only; the crawl continues.

	// ErrMalformedTable indicates the timetable grid is missing headers or rows.
	ErrMalformedTable = errors.New("malformed timetable")

	// ErrMalformedTimespan indicates a row's time span is not HH:MM-HH:MM.
	ErrMalformedTimespan = errors.New("malformed time span")

	// ErrColumnCountMismatch indicates a row has a different number of
	// weekday cells than the header has weekday columns.
	ErrColumnCountMismatch = errors.New("column count does not match header count")

	// ErrInvalidReference indicates a page reference whose filename does not
	// carry a known entity kind and numeric id.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrUnrecognizedDialect indicates a page that matched no known layout.
	// It is only used for reporting; such pages are skipped.
	ErrUnrecognizedDialect = errors.New("unrecognized page layout")
)
