package models

import (
	"time"

	"gorm.io/datatypes"
)

// Reservation statuses. Only Confirmed reservations constrain room
// availability; Cancelled and Completed are kept for history.
const (
	StatusConfirmed = "Confirmed"
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// No DeletedAt: removal is a hard delete, and a removed stay must stop
	// counting toward conflicts immediately.

	ReferenceCode string `gorm:"column:reference_code;size:64" json:"referenceCode"`

	// ClientID is the primary guest. It is always derived from ClientIDs[0]
	// on write; the column exists for the older single-guest schema.
	ClientID  uint                      `gorm:"index;column:client_id" json:"clientId"`
	ClientIDs datatypes.JSONSlice[uint] `gorm:"column:client_ids" json:"clientIds"`
	RoomID    uint                      `gorm:"index;column:room_id" json:"roomId"`

	CheckIn  time.Time `gorm:"column:check_in;type:date" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out;type:date" json:"checkOut"`

	GuestCount int     `gorm:"column:guest_count;default:1" json:"guestCount"`
	TotalPrice float64 `gorm:"column:total_price" json:"totalPrice"`
	Status     string  `gorm:"size:32" json:"status"`

	Client Client `gorm:"foreignKey:ClientID;references:ID" json:"client,omitempty"`
	Room   Room   `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// OverlapsRange reports whether the reservation's stay intersects the
// half-open range [in, out).
func (r *Reservation) OverlapsRange(in, out time.Time) bool {
	return Overlaps(r.CheckIn, r.CheckOut, in, out)
}
