package booking

// Typed failures returned by the engine. Handlers pick the HTTP status
// with errors.As; anything else is treated as an internal failure.

// ValidationError reports malformed or logically invalid input, such as
// a check-out date that is not after the check-in date.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports that a referenced room or booking does not
// exist or does not meet a required precondition (e.g. inactive room).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports that a requested date range collides with an
// existing confirmed booking on the same room.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// StateError reports an operation that is not valid for the booking's
// current lifecycle state, such as cancelling a pending booking.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }
