package parq

import (
	"github.com/hexbee-net/errors"
)

// Failures surface in three groups: invalid caller configuration,
// corrupted or unsupported input data, and source IO. Wrapped causes keep
// the group sentinel reachable through errors.Cause.
const (
	// ErrInvalidOptions covers caller mistakes: unknown columns, row-group
	// indexes out of range, malformed row windows.
	ErrInvalidOptions = errors.Error("invalid read options")

	// ErrCorrupted covers malformed input: bad magic, truncated footers,
	// page headers that walk off the chunk, size mismatches.
	ErrCorrupted = errors.Error("corrupted data")

	// ErrUnsupported covers well-formed input the decoder has no path
	// for: unknown encodings, unknown compression codecs.
	ErrUnsupported = errors.Error("unsupported data")

	// ErrSchemaMismatch is raised when the sources of one read disagree
	// on the schema.
	ErrSchemaMismatch = errors.Error("schema mismatch between sources")
)
