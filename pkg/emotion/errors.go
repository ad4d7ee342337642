package emotion

import "errors"

var (
	// ErrModelUnavailable means weights, vocabulary or label config could not
	// be loaded. It is fatal at startup.
	ErrModelUnavailable = errors.New("emotion model unavailable")

	// ErrEmptyInput is returned for blank or whitespace-only text.
	ErrEmptyInput = errors.New("journal entry cannot be empty")

	// ErrNoConfidentEmotion marks an analysis where no label cleared the
	// confidence threshold. It is an outcome, not a failure.
	ErrNoConfidentEmotion = errors.New("no strong emotion detected")

	// ErrLabelNotExplainable is returned when the attribution target is not
	// part of the explainer's label set.
	ErrLabelNotExplainable = errors.New("label is not explainable")

	// ErrAttributionTimeout means the attribution budget ran out.
	ErrAttributionTimeout = errors.New("attribution timed out")

	// ErrAttributionFailure wraps any other attribution error.
	ErrAttributionFailure = errors.New("attribution failed")
)
