// Package errs contains the error taxonomy shared by every layer.
// Handlers map these to HTTP statuses; services never leak raw GORM errors.
package errs

import "errors"

var (
	// ErrNotFound indicates a lookup by id or unique key returned nothing.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness constraint violation
	// (e.g., duplicate resort name or username).
	ErrConflict = errors.New("already exists")

	// ErrUnauthenticated indicates no current actor could be resolved.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the actor's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidFormat indicates input that cannot be normalized
	// (non-numeric price, unparsable date).
	ErrInvalidFormat = errors.New("invalid format")
)

// ValidationError carries a per-field message map. It is produced before any
// persistence call; a request that fails validation never reaches the
// datastore.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidation builds a ValidationError from a field/message list.
func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// Add appends one more message to the field map.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// AsValidation unwraps a ValidationError if err is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// OperationError wraps any datastore-layer failure. Callers only ever see
// the message; the cause stays attached for logging.
type OperationError struct {
	Msg   string
	Cause error
}

func (e *OperationError) Error() string { return e.Msg }

func (e *OperationError) Unwrap() error { return e.Cause }

// OperationFailed wraps a datastore failure with a human-readable message.
func OperationFailed(msg string, cause error) error {
	return &OperationError{Msg: msg, Cause: cause}
}
