package services

import (
	"math"
	"time"

	"hotel-reservation-backend/models"
)

// Nights returns the number of calendar nights between check-in and
// check-out. Both are dates, so this is the plain day difference; zero or
// negative means the range is invalid.
func Nights(checkIn, checkOut time.Time) int {
	in := models.DateOnly(checkIn)
	out := models.DateOnly(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

// ComputeTotal prices a stay: nightly rate × nights, rounded to currency
// precision. Pure; the rate is frozen into the reservation by the caller.
func ComputeTotal(nightlyRate float64, checkIn, checkOut time.Time) (float64, error) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return 0, ErrInvalidDateRange
	}
	return math.Round(nightlyRate*float64(nights)*100) / 100, nil
}
