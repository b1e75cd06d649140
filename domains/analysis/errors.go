package analysis

import "errors"

var (
	// ErrOracleNotConfigured means completion credentials are missing. Fatal:
	// no processing is attempted.
	ErrOracleNotConfigured = errors.New("completion oracle is not configured")

	// ErrNoAnalyzableFiles means the size ceiling filtered out every file.
	ErrNoAnalyzableFiles = errors.New("no analyzable files in repository")

	// ErrAllBatchesFailed means every map-stage call failed; nothing was
	// persisted.
	ErrAllBatchesFailed = errors.New("all summarization batches failed")

	// ErrNotFound is returned by the durable store on a key miss.
	ErrNotFound = errors.New("analysis not found")
)
