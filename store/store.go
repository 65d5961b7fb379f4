package store

import (
	"context"
	"errors"

	"hotel-reservation-backend/models"
)

var (
	// ErrNotFound is returned by every Get/Delete when the record is absent.
	ErrNotFound = errors.New("record not found")

	// ErrSerialization is returned when the backend could not serialize an
	// atomic unit of work (deadlock, lock wait timeout). The caller decides
	// whether to surface or retry; the engine surfaces it.
	ErrSerialization = errors.New("transaction serialization failure")
)

// Store is the persistence contract the reservation engine works against.
// Production uses the gorm/MySQL implementation; tests substitute Memory.
type Store interface {
	// Atomically runs fn inside one atomic unit of work. Reads and writes
	// performed through the Store passed to fn are committed together or not
	// at all. LockRoom inside fn holds the room for the remainder of the
	// unit, so validate+write sequences on the same room serialize.
	Atomically(ctx context.Context, fn func(tx Store) error) error

	GetRoom(ctx context.Context, id uint) (*models.Room, error)
	// LockRoom is GetRoom with mutual exclusion until the enclosing
	// Atomically returns. Outside Atomically it behaves like GetRoom.
	LockRoom(ctx context.Context, id uint) (*models.Room, error)
	RoomByNumber(ctx context.Context, number string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	SaveRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id uint) error

	GetClient(ctx context.Context, id uint) (*models.Client, error)
	ClientByNationalID(ctx context.Context, nationalID string) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	SaveClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id uint) error

	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	ListReservations(ctx context.Context) ([]models.Reservation, error)
	// ConfirmedByRoom returns the Confirmed reservations for a room,
	// excluding excludeID when non-zero (self-exclusion for edits).
	ConfirmedByRoom(ctx context.Context, roomID, excludeID uint) ([]models.Reservation, error)
	CountConfirmedByRoom(ctx context.Context, roomID uint) (int64, error)
	SaveReservation(ctx context.Context, r *models.Reservation) error
	DeleteReservation(ctx context.Context, id uint) error
}
