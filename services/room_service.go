package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-reservation-backend/models"
	"hotel-reservation-backend/store"
)

// RoomService manages the room inventory. The legacy "available" boolean is
// never stored: it is recomputed on every read as "no Confirmed reservation
// covers today", which cannot go stale the way the old flag did.
type RoomService struct {
	store store.Store
}

func NewRoomService(st store.Store) *RoomService {
	return &RoomService{store: st}
}

type RoomInput struct {
	RoomNumber  string
	Type        string
	Capacity    int
	NightlyRate float64
	Description string
}

func (in *RoomInput) validate() error {
	if !models.ValidRoomType(in.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidRoomType, in.Type)
	}
	if in.Capacity < 0 || in.NightlyRate < 0 {
		return fmt.Errorf("%w: capacity and nightly rate must not be negative", ErrInvalidRoomType)
	}
	return nil
}

// availableToday derives the legacy availability flag from the bookings
// themselves: occupied iff a Confirmed stay overlaps [today, tomorrow).
func (s *RoomService) availableToday(ctx context.Context, st store.Store, roomID uint, now time.Time) (bool, error) {
	today := models.DateOnly(now)
	tomorrow := today.AddDate(0, 0, 1)

	confirmed, err := st.ConfirmedByRoom(ctx, roomID, 0)
	if err != nil {
		return false, err
	}
	for i := range confirmed {
		if confirmed[i].OverlapsRange(today, tomorrow) {
			return false, nil
		}
	}
	return true, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve room %d: %w", id, err)
	}
	room.Available, err = s.availableToday(ctx, s.store, room.ID, time.Now())
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range rooms {
		rooms[i].Available, err = s.availableToday(ctx, s.store, rooms[i].ID, now)
		if err != nil {
			return nil, err
		}
	}
	return rooms, nil
}

func (s *RoomService) Create(ctx context.Context, in RoomInput) (*models.Room, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	capacity := in.Capacity
	if capacity == 0 {
		capacity = models.DefaultCapacity(in.Type)
	}

	var created *models.Room
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		if _, err := tx.RoomByNumber(ctx, in.RoomNumber); err == nil {
			return fmt.Errorf("%w: %s", ErrRoomNumberTaken, in.RoomNumber)
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to check room number %s: %w", in.RoomNumber, err)
		}

		room := &models.Room{
			RoomNumber:  in.RoomNumber,
			Type:        in.Type,
			Capacity:    capacity,
			NightlyRate: in.NightlyRate,
			Description: in.Description,
		}
		if err := tx.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		created = room
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	created.Available = true
	return created, nil
}

// Update rejects changes to rooms that still have Confirmed reservations:
// capacity or rate edits under an active booking would silently invalidate
// frozen prices and past capacity checks.
func (s *RoomService) Update(ctx context.Context, id uint, in RoomInput) (*models.Room, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	err := s.store.Atomically(ctx, func(tx store.Store) error {
		room, err := tx.LockRoom(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
			}
			return fmt.Errorf("failed to load room %d: %w", id, err)
		}

		active, err := tx.CountConfirmedByRoom(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: room %s", ErrRoomHasBookings, room.RoomNumber)
		}

		if in.RoomNumber != room.RoomNumber {
			if _, err := tx.RoomByNumber(ctx, in.RoomNumber); err == nil {
				return fmt.Errorf("%w: %s", ErrRoomNumberTaken, in.RoomNumber)
			} else if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("failed to check room number %s: %w", in.RoomNumber, err)
			}
		}

		room.RoomNumber = in.RoomNumber
		room.Type = in.Type
		if in.Capacity != 0 {
			room.Capacity = in.Capacity
		}
		room.NightlyRate = in.NightlyRate
		room.Description = in.Description
		if err := tx.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("failed to update room %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return s.Get(ctx, id)
}

func (s *RoomService) Delete(ctx context.Context, id uint) error {
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		room, err := tx.LockRoom(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
			}
			return fmt.Errorf("failed to load room %d: %w", id, err)
		}

		active, err := tx.CountConfirmedByRoom(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: room %s", ErrRoomHasBookings, room.RoomNumber)
		}

		if err := tx.DeleteRoom(ctx, id); err != nil {
			return fmt.Errorf("failed to delete room %d: %w", id, err)
		}
		return nil
	})
	return mapStoreErr(err)
}
