package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-reservation-backend/models"
	"hotel-reservation-backend/store"

	"github.com/google/uuid"
)

// ReservationService owns the reservation lifecycle: availability checks,
// capacity and date validation, pricing, and status transitions. Every
// operation runs its read-validate-write sequence inside one atomic unit of
// work so two racing creates for the same room cannot both win.
type ReservationService struct {
	store store.Store
}

func NewReservationService(st store.Store) *ReservationService {
	return &ReservationService{store: st}
}

type CreateReservationInput struct {
	ClientIDs  []uint
	RoomID     uint
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int // legacy display override; ignored when ClientIDs is non-empty
}

// ReservationPatch is a merge patch: nil fields keep the current value.
type ReservationPatch struct {
	ClientIDs  []uint
	RoomID     *uint
	CheckIn    *time.Time
	CheckOut   *time.Time
	GuestCount *int
	Status     *string
}

// FindConflicts returns the Confirmed reservations on roomID whose stay
// overlaps [checkIn, checkOut). excludeID skips the reservation being
// edited so it cannot conflict with itself. Pure query, no side effects.
func (s *ReservationService) FindConflicts(ctx context.Context, st store.Store, roomID uint, checkIn, checkOut time.Time, excludeID uint) ([]models.Reservation, error) {
	confirmed, err := st.ConfirmedByRoom(ctx, roomID, excludeID)
	if err != nil {
		return nil, err
	}
	var conflicts []models.Reservation
	for i := range confirmed {
		if confirmed[i].OverlapsRange(checkIn, checkOut) {
			conflicts = append(conflicts, confirmed[i])
		}
	}
	return conflicts, nil
}

// guestCount resolves the effective guest count: the id list length is
// authoritative, the numeric override only applies when no list is present.
func guestCount(clientIDs []uint, override int) int {
	if len(clientIDs) > 0 {
		return len(clientIDs)
	}
	return override
}

func validateCapacity(room *models.Room, count int) error {
	if count > room.Capacity {
		return fmt.Errorf("%w: %d guests, capacity %d", ErrCapacityExceeded, count, room.Capacity)
	}
	return nil
}

func (s *ReservationService) resolveClients(ctx context.Context, st store.Store, ids []uint) error {
	for _, id := range ids {
		if _, err := st.GetClient(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrClientNotFound, id)
			}
			return fmt.Errorf("failed to load client %d: %w", id, err)
		}
	}
	return nil
}

func newReferenceCode() string {
	return "RES-" + strings.ToUpper(uuid.NewString()[:8])
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrSerialization) {
		return fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
	}
	return err
}

func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	if len(in.ClientIDs) == 0 {
		return nil, ErrNoGuests
	}

	checkIn := models.DateOnly(in.CheckIn)
	checkOut := models.DateOnly(in.CheckOut)

	var created *models.Reservation
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		if err := s.resolveClients(ctx, tx, in.ClientIDs); err != nil {
			return err
		}

		room, err := tx.LockRoom(ctx, in.RoomID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrRoomNotFound, in.RoomID)
			}
			return fmt.Errorf("failed to load room %d: %w", in.RoomID, err)
		}

		count := guestCount(in.ClientIDs, in.GuestCount)
		if err := validateCapacity(room, count); err != nil {
			return err
		}

		conflicts, err := s.FindConflicts(ctx, tx, room.ID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return fmt.Errorf("%w: room %s from %s to %s", ErrRoomUnavailable,
				room.RoomNumber, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
		}

		total, err := ComputeTotal(room.NightlyRate, checkIn, checkOut)
		if err != nil {
			return err
		}

		r := &models.Reservation{
			ReferenceCode: newReferenceCode(),
			ClientID:      in.ClientIDs[0],
			ClientIDs:     in.ClientIDs,
			RoomID:        room.ID,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			GuestCount:    count,
			TotalPrice:    total,
			Status:        models.StatusConfirmed,
		}
		if err := tx.SaveReservation(ctx, r); err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return s.Get(ctx, created.ID)
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrReservationNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve reservation %d: %w", id, err)
	}
	return r, nil
}

func (s *ReservationService) List(ctx context.Context) ([]models.Reservation, error) {
	return s.store.ListReservations(ctx)
}

// UpdateStatus sets the lifecycle status directly. All three states are
// mutually reachable: the front desk reactivates cancelled stays, so the
// transitions are deliberately not enforced as a DAG.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Reservation, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	err := s.store.Atomically(ctx, func(tx store.Store) error {
		r, err := tx.GetReservation(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrReservationNotFound, id)
			}
			return fmt.Errorf("failed to load reservation %d: %w", id, err)
		}

		// Reactivating must not break the no-overlap invariant among
		// Confirmed reservations on the room.
		if status == models.StatusConfirmed && r.Status != models.StatusConfirmed {
			conflicts, err := s.FindConflicts(ctx, tx, r.RoomID, r.CheckIn, r.CheckOut, r.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return fmt.Errorf("%w: cannot re-confirm reservation %d", ErrRoomUnavailable, id)
			}
		}

		r.Status = status
		if err := tx.SaveReservation(ctx, r); err != nil {
			return fmt.Errorf("failed to update reservation %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return s.Get(ctx, id)
}

// Update merges a patch onto an existing reservation, re-validating capacity
// and availability against the resolved room and dates. The reservation
// itself is excluded from the conflict scan. The total price is recomputed
// whenever the room or the dates change; otherwise it stays frozen.
func (s *ReservationService) Update(ctx context.Context, id uint, patch ReservationPatch) (*models.Reservation, error) {
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
	}
	if patch.ClientIDs != nil && len(patch.ClientIDs) == 0 {
		return nil, ErrNoGuests
	}

	err := s.store.Atomically(ctx, func(tx store.Store) error {
		r, err := tx.GetReservation(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrReservationNotFound, id)
			}
			return fmt.Errorf("failed to load reservation %d: %w", id, err)
		}

		clientIDs := []uint(r.ClientIDs)
		if patch.ClientIDs != nil {
			if err := s.resolveClients(ctx, tx, patch.ClientIDs); err != nil {
				return err
			}
			clientIDs = patch.ClientIDs
		}

		roomID := r.RoomID
		if patch.RoomID != nil {
			roomID = *patch.RoomID
		}
		checkIn := r.CheckIn
		if patch.CheckIn != nil {
			checkIn = models.DateOnly(*patch.CheckIn)
		}
		checkOut := r.CheckOut
		if patch.CheckOut != nil {
			checkOut = models.DateOnly(*patch.CheckOut)
		}

		room, err := tx.LockRoom(ctx, roomID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrRoomNotFound, roomID)
			}
			return fmt.Errorf("failed to load room %d: %w", roomID, err)
		}

		override := r.GuestCount
		if patch.GuestCount != nil {
			override = *patch.GuestCount
		}
		count := guestCount(clientIDs, override)
		if err := validateCapacity(room, count); err != nil {
			return err
		}

		conflicts, err := s.FindConflicts(ctx, tx, room.ID, checkIn, checkOut, r.ID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return fmt.Errorf("%w: room %s from %s to %s", ErrRoomUnavailable,
				room.RoomNumber, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
		}

		if roomID != r.RoomID || !checkIn.Equal(r.CheckIn) || !checkOut.Equal(r.CheckOut) {
			total, err := ComputeTotal(room.NightlyRate, checkIn, checkOut)
			if err != nil {
				return err
			}
			r.TotalPrice = total
		}

		r.ClientIDs = clientIDs
		r.ClientID = clientIDs[0]
		r.RoomID = roomID
		r.CheckIn = checkIn
		r.CheckOut = checkOut
		r.GuestCount = count
		if patch.Status != nil {
			r.Status = *patch.Status
		}

		if err := tx.SaveReservation(ctx, r); err != nil {
			return fmt.Errorf("failed to update reservation %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return s.Get(ctx, id)
}

// Delete removes the reservation outright. Hard delete: the original system
// never kept tombstones, and a deleted stay must immediately stop counting
// toward conflicts.
func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		if err := tx.DeleteReservation(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrReservationNotFound, id)
			}
			return fmt.Errorf("failed to delete reservation %d: %w", id, err)
		}
		return nil
	})
	return mapStoreErr(err)
}
