package service

import "errors"

// Error taxonomy for the reflection pipeline. Handlers translate these to
// HTTP statuses; store errors pass through unwrapped.
var (
	// ErrNotFound marks a missing reflection/journal row.
	ErrNotFound = errors.New("not found")
	// ErrNoDataForPeriod marks a generation request over a period with zero
	// daily summaries.
	ErrNoDataForPeriod = errors.New("no daily summaries for period")
	// ErrGenerationFailed marks a model call that errored or returned
	// unparsable text.
	ErrGenerationFailed = errors.New("reflection generation failed")
	// ErrSchemaInvalid marks model output that violated the output contract
	// even after defensive truncation.
	ErrSchemaInvalid = errors.New("reflection output failed schema validation")
)
