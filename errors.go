package ponder

import "errors"

// Sentinel errors returned by the thinking engine.
var (
	// ErrDuplicateThinking is returned when a request's CurrentThinking is
	// identical to the immediately preceding record's. The session is left
	// untouched; the caller must supply evolved thinking to continue.
	ErrDuplicateThinking = errors.New("currentThinking is identical to the previous thought")

	// ErrUnknownBackend is returned by the Combiner when the modelType
	// selector names a backend that was never registered.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrNoBackends is returned by the Combiner when processing is
	// attempted with no registered backends.
	ErrNoBackends = errors.New("no backends registered")

	// ErrAllBackendsFailed is returned by the Combiner when every
	// fanned-out backend failed to produce a thought.
	ErrAllBackendsFailed = errors.New("all backends failed")
)
