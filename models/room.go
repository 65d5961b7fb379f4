package models

import (
	"time"

	"gorm.io/gorm"
)

// Room types. Capacity per type is conventional only; the stored Capacity
// column is authoritative because legacy records may disagree with it.
const (
	RoomTypeSingle     = "Single"
	RoomTypeTwinSingle = "TwinSingle"
	RoomTypeDouble     = "Double"
	RoomTypeSuite      = "Suite"
	RoomTypeDeluxe     = "Deluxe"
)

func ValidRoomType(t string) bool {
	switch t {
	case RoomTypeSingle, RoomTypeTwinSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeDeluxe:
		return true
	}
	return false
}

// DefaultCapacity returns the conventional guest capacity for a room type.
// Used only when a room is created without an explicit capacity.
func DefaultCapacity(t string) int {
	if t == RoomTypeSingle {
		return 1
	}
	return 2
}

type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomNumber  string  `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Type        string  `json:"type" gorm:"size:32"`
	Capacity    int     `json:"capacity" gorm:"default:1"`
	NightlyRate float64 `json:"nightlyRate" gorm:"column:nightly_rate"`
	Description string  `json:"description" gorm:"type:text"`

	// Derived per read: true when no Confirmed reservation covers today.
	// Not persisted; the stored flag of the legacy schema went stale too easily.
	Available bool `gorm:"-" json:"available"`
}
