package services

import "errors"

// Business errors surfaced by the reservation engine. All are terminal for
// the requested operation and user-facing; the controllers map them to HTTP
// statuses. Storage failures are wrapped with %w instead and match none of
// these sentinels.
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrCapacityExceeded: more guests than the room's stored capacity.
	ErrCapacityExceeded = errors.New("guest count exceeds room capacity")

	// ErrRoomUnavailable: a Confirmed reservation already covers part of the
	// requested date range.
	ErrRoomUnavailable = errors.New("room is not available for the selected period")

	// ErrInvalidDateRange: check-out is not strictly after check-in.
	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")

	// ErrConcurrencyConflict: the transaction lost a serialization race.
	ErrConcurrencyConflict = errors.New("reservation conflicts with a concurrent operation")

	ErrNoGuests      = errors.New("reservation requires at least one guest")
	ErrInvalidStatus = errors.New("invalid reservation status")

	ErrInvalidRoomType = errors.New("invalid room type")
	ErrRoomNumberTaken = errors.New("room number already registered")
	ErrNationalIDTaken = errors.New("national id already registered")
	ErrRoomHasBookings = errors.New("room has confirmed reservations")
)

// IsBusinessError reports whether err is one of the engine's typed errors,
// as opposed to an unexpected storage failure.
func IsBusinessError(err error) bool {
	for _, sentinel := range []error{
		ErrClientNotFound, ErrRoomNotFound, ErrReservationNotFound,
		ErrCapacityExceeded, ErrRoomUnavailable, ErrInvalidDateRange,
		ErrConcurrencyConflict, ErrNoGuests, ErrInvalidStatus,
		ErrInvalidRoomType, ErrRoomNumberTaken, ErrNationalIDTaken,
		ErrRoomHasBookings,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
