package handlers

import (
	"errors"
	"time"

	"github.com/roomhaven/roomhaven-backend/internal/booking"
)

// engineErrorStatus maps the engine's typed failures onto HTTP status
// codes. Anything unrecognized is an internal failure.
func engineErrorStatus(err error) int {
	var (
		validationErr *booking.ValidationError
		notFoundErr   *booking.NotFoundError
		conflictErr   *booking.ConflictError
		stateErr      *booking.StateError
	)
	switch {
	case errors.As(err, &validationErr):
		return 422
	case errors.As(err, &notFoundErr):
		return 404
	case errors.As(err, &conflictErr):
		return 409
	case errors.As(err, &stateErr):
		return 409
	default:
		return 500
	}
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
