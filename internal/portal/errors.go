package portal

import "errors"

// Engine error taxonomy. Handlers map these to HTTP responses; the engine
// never leaves a record partially mutated when returning one of them.
var (
	// A required field was blank or malformed. No state change.
	ErrValidation = errors.New("validation failed")

	// Unknown token or request id.
	ErrNotFound = errors.New("request not found")

	// The operation is not allowed in the request's current status.
	ErrState = errors.New("operation not allowed in current status")
)
